// ─────────────────────────────────────────────────────────────────────────────
//  linerelay :: config  -  persistent CLI configuration
//
//  Stored at:
//    Linux/macOS: $XDG_CONFIG_HOME/linerelay/config.toml
//                 (~/.config/linerelay/config.toml)
//    Windows:     %APPDATA%\linerelay\config.toml
// ─────────────────────────────────────────────────────────────────────────────

package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/linerelay/cli/internal/device"
)

// EnvPort overrides the configured port when set.
const EnvPort = "LINERELAY_PORT"

// Config holds all persistent user-level settings.
type Config struct {
	// ── Device ──────────────────────────────────────────────────────────────
	Port     string `toml:"port"      comment:"serial port, tcp://host:port bridge, or auto"`
	BaudRate int    `toml:"baud_rate" comment:"serial baud rate"`

	// ── Protocol ────────────────────────────────────────────────────────────
	AckToken string `toml:"ack_token" comment:"device response that allows the next line"`

	// ── Output ──────────────────────────────────────────────────────────────
	PauseOnExit bool `toml:"pause_on_exit" comment:"wait for Enter after the last line is sent"`
	Color       bool `toml:"color"         comment:"enable colored output"`
	Verbose     bool `toml:"verbose"       comment:"verbose command output"`

	// keys in the file that no field above claims; written back by Save
	extra map[string]interface{}
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Port:        device.DefaultPort(),
		BaudRate:    9600,
		AckToken:    "ok",
		PauseOnExit: false,
		Color:       true,
		Verbose:     false,
	}
}

// ResolvedPort returns the effective port: the environment variable wins
// over the config file.
func (c *Config) ResolvedPort() string {
	if env := strings.TrimSpace(os.Getenv(EnvPort)); env != "" {
		return env
	}
	if c.Port != "" {
		return c.Port
	}
	return device.DefaultPort()
}

// ── Config file I/O ───────────────────────────────────────────────────────────

func configPath() (string, error) {
	var base string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		base = xdg
	} else if runtime.GOOS == "windows" && os.Getenv("APPDATA") != "" {
		base = os.Getenv("APPDATA")
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "linerelay", "config.toml"), nil
}

// Load reads the config from disk. Returns defaults if the file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	c := Default()
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		var raw map[string]interface{}
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
		c.extra = make(map[string]interface{})
		for _, key := range undecoded {
			top := key[0]
			c.extra[top] = raw[top]
		}
	}
	return c, nil
}

// UnknownKeys lists the top-level keys of the loaded file that are not
// settings. They are ignored, and kept as-is by Save.
func (c *Config) UnknownKeys() []string {
	keys := make([]string, 0, len(c.extra))
	for k := range c.extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Save writes the config to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return err
	}
	if len(c.extra) > 0 {
		buf.WriteString("\n")
		if err := toml.NewEncoder(&buf).Encode(c.extra); err != nil {
			return err
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// Get returns the value of a config key by its TOML name.
func (c *Config) Get(key string) (interface{}, error) {
	rv := reflect.ValueOf(c).Elem()
	if i, ok := fieldIndex(rv.Type(), key); ok {
		return rv.Field(i).Interface(), nil
	}
	return nil, fmt.Errorf("unknown config key %q", key)
}

// Set updates a config key by its TOML name.
func (c *Config) Set(key, value string) error {
	rv := reflect.ValueOf(c).Elem()
	i, ok := fieldIndex(rv.Type(), key)
	if !ok {
		return fmt.Errorf("unknown config key %q", key)
	}
	fv := rv.Field(i)
	switch fv.Kind() {
	case reflect.String:
		fv.SetString(value)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid bool value %q for key %q", value, key)
		}
		fv.SetBool(b)
	case reflect.Int:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid int value %q for key %q", value, key)
		}
		fv.SetInt(n)
	default:
		return fmt.Errorf("unsupported type for key %q", key)
	}
	return nil
}

func fieldIndex(rt reflect.Type, key string) (int, bool) {
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := strings.Split(field.Tag.Get("toml"), ",")[0]
		if tag == key || strings.EqualFold(field.Name, key) {
			return i, true
		}
	}
	return 0, false
}

type Entry struct {
	Key     string
	Value   interface{}
	Comment string
}

func (c *Config) AllEntries() []Entry {
	rv := reflect.ValueOf(c).Elem()
	rt := rv.Type()
	entries := make([]Entry, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		entries = append(entries, Entry{
			Key:     strings.Split(field.Tag.Get("toml"), ",")[0],
			Value:   rv.Field(i).Interface(),
			Comment: field.Tag.Get("comment"),
		})
	}
	return entries
}

func Path() (string, error) {
	return configPath()
}

// ─────────────────────────────────────────────────────────────────────────────
//  linerelay :: cli  -  root cobra command + subcommand registration
// ─────────────────────────────────────────────────────────────────────────────

package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/linerelay/cli/internal/config"
	"github.com/linerelay/cli/internal/ui"
)

var (
	globalVerbose bool
	globalNoColor bool
	cfg           *config.Config
	cfgErr        error // set when the config file could not be loaded
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "linerelay",
		Short: "Stream G-code (or any text) to a serial device, one line per \"ok\"",
		Long: banner() + `
linerelay sends text lines to a board on a serial port. Before every line it
waits for the board to print a response ending in "ok", so the board's input
buffer never overflows.

Run 'linerelay <command> --help' for details on each command.
`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, cfgErr = config.Load()
			if cfgErr != nil {
				ui.Warn(fmt.Sprintf("Config load error: %v, using defaults", cfgErr))
				cfg = config.Default()
			}
			if unknown := cfg.UnknownKeys(); len(unknown) > 0 {
				ui.Warn(fmt.Sprintf("Ignoring unknown config keys: %s", strings.Join(unknown, ", ")))
			}
			if globalNoColor || !cfg.Color {
				color.NoColor = true
			}
			if globalVerbose {
				cfg.Verbose = true
			}
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&globalVerbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().BoolVar(&globalNoColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newSendCmd(),
		newPortsCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute is the entry point called from main().
func Execute() error {
	if err := newRootCmd().Execute(); err != nil {
		ui.Fail(err.Error())
		return err
	}
	return nil
}

func banner() string {
	b := `
  ╷  ╷ ╭╮╷ ╭─╴ ╭─╮ ╭─╴ ╷   ╭─╮ ╷ ╷
  │  │ │╰┤ ├╴  ├┬╯ ├╴  │   ├─┤ ╰┬╯
  ╰─╴╵ ╵ ╵ ╰─╴ ╵╰  ╰─╴ ╰─╴ ╵ ╵  ╵
`
	if color.NoColor {
		return b
	}
	return ui.ColorInfo.Sprint(b)
}

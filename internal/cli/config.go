package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linerelay/cli/internal/config"
	"github.com/linerelay/cli/internal/ui"
)

func newConfigCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change persistent settings",
		Example: `  linerelay config
  linerelay config get port
  linerelay config set port /dev/ttyACM0
  linerelay config set baud_rate 115200`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listConfig(raw)
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "plain key = value output")

	list := &cobra.Command{
		Use:   "list",
		Short: "Show every setting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listConfig(raw)
		},
	}
	list.Flags().BoolVar(&raw, "raw", false, "plain key = value output")

	get := &cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := cfg.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting and save the config file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgErr != nil {
				return fmt.Errorf("not saving over a config file that failed to load (%v), fix or remove it first", cfgErr)
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
			ui.Success(fmt.Sprintf("%s = %s", args[0], args[1]))
			return nil
		},
	}

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := config.Path()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}

	cmd.AddCommand(list, get, set, path)
	return cmd
}

func listConfig(raw bool) error {
	entries := cfg.AllEntries()
	rows := make([]ui.ConfigEntry, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, ui.ConfigEntry{Key: e.Key, Value: e.Value, Comment: e.Comment})
	}
	title := "linerelay config"
	if p, err := config.Path(); err == nil {
		title += "  " + p
	}
	ui.PrintConfig(title, rows, raw)
	return nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linerelay/cli/internal/device"
	"github.com/linerelay/cli/internal/ui"
)

func newPortsCmd() *cobra.Command {
	var (
		all     bool
		details bool
	)

	cmd := &cobra.Command{
		Use:   "ports",
		Short: "List serial ports a board may be connected to",
		Example: `  linerelay ports
  linerelay ports --all
  linerelay ports --details`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if details {
				return printPortDetails()
			}

			list := device.List
			if all {
				list = device.ListAll
			}
			ports, err := list()
			if err != nil {
				return err
			}

			ui.SectionTitle("Serial ports")
			if len(ports) == 0 {
				ui.Warn("No serial ports found")
				if !all {
					ui.Info("Run 'linerelay ports --all' to include every port the OS reports")
				}
				return nil
			}
			for _, p := range ports {
				ui.Info(p)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "include ports that do not look like a USB board")
	cmd.Flags().BoolVarP(&details, "details", "d", false, "show USB vendor/product details")
	return cmd
}

func printPortDetails() error {
	infos, err := device.Details()
	if err != nil {
		return err
	}

	ui.SectionTitle("Serial ports")
	if len(infos) == 0 {
		ui.Warn("No serial ports found")
		return nil
	}
	for _, p := range infos {
		if !p.IsUSB {
			ui.Step(p.Name, "not USB")
			continue
		}
		desc := fmt.Sprintf("USB %s:%s", p.VID, p.PID)
		if p.Product != "" {
			desc += "  " + p.Product
		}
		if p.SerialNumber != "" {
			desc += "  serial " + p.SerialNumber
		}
		ui.Step(p.Name, desc)
	}
	return nil
}

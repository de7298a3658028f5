// ─────────────────────────────────────────────────────────────────────────────
//  linerelay :: cli :: send  -  relay input lines to the device
// ─────────────────────────────────────────────────────────────────────────────

package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/linerelay/cli/internal/device"
	"github.com/linerelay/cli/internal/relay"
	"github.com/linerelay/cli/internal/ui"
)

type sendOptions struct {
	Port    string
	Baud    int
	Ack     string
	Pause   bool
	Verbose bool
}

func newSendCmd() *cobra.Command {
	var (
		port  string
		baud  int
		ack   string
		pause bool
	)

	cmd := &cobra.Command{
		Use:   "send [file...]",
		Short: "Send lines from files (or stdin) to the device, one per \"ok\"",
		Long: `send reads lines from the named files in order, or from standard input
when no file is given ("-" also names standard input). Before writing each
line it reads device responses until one ends with "ok\r\n"; every other
response is printed and discarded.

There is no timeout: if the device never answers "ok", send waits forever.`,
		Example: `  linerelay send drawing.gcode
  linerelay send --port /dev/ttyACM0 --baud 115200 part1.gcode part2.gcode
  linerelay send --port tcp://plotter.local:2000 < drawing.gcode
  linerelay send --port auto --pause drawing.gcode`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := sendOptions{
				Port:    port,
				Baud:    baud,
				Ack:     ack,
				Pause:   pause || cfg.PauseOnExit,
				Verbose: cfg.Verbose,
			}
			if opts.Port == "" {
				opts.Port = cfg.ResolvedPort()
			}
			if opts.Baud < 0 {
				return fmt.Errorf("invalid baud rate %d", opts.Baud)
			}
			if opts.Baud == 0 {
				opts.Baud = cfg.BaudRate
			}
			if opts.Ack == "" {
				opts.Ack = cfg.AckToken
			}
			return runSend(cmd.InOrStdin(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "serial port, tcp://host:port bridge, or auto (default from config)")
	cmd.Flags().IntVarP(&baud, "baud", "b", 0, "serial baud rate (default from config)")
	cmd.Flags().StringVar(&ack, "ack", "", "response that allows the next line (default from config)")
	cmd.Flags().BoolVar(&pause, "pause", false, "wait for Enter before exiting")
	return cmd
}

func runSend(stdin io.Reader, files []string, opts sendOptions) error {
	if opts.Port == device.AutoPort {
		ui.Info("Auto-detecting board on serial ports...")
		detected, err := device.Detect()
		if err != nil {
			return fmt.Errorf(
				"no board detected: %w\n  Hint: connect the board and try again, or pass --port /dev/ttyUSBx", err,
			)
		}
		opts.Port = detected
		ui.Success(fmt.Sprintf("Found board on %s", opts.Port))
	}

	ui.SectionTitle(fmt.Sprintf("Sending to %s  [%d baud]", opts.Port, opts.Baud))
	if opts.Verbose {
		ui.Step("ack", fmt.Sprintf("%q", opts.Ack+relay.Delimiter))
		ui.Step("input", inputLabel(files))
	}
	ui.Info("Opening port")

	input := relay.NewInput(files, stdin)
	defer input.Close()

	stats, err := relay.Run(opts.Port, openDevice(opts.Baud), input, relay.Options{
		AckToken: opts.Ack,
		Observer: &consoleObserver{ack: opts.Ack, verbose: opts.Verbose},
	})
	if err != nil {
		return renderSendError(err, input)
	}

	fmt.Println()
	ui.Success(fmt.Sprintf("%d line(s) sent to %s", stats.Lines, opts.Port))
	ui.Step("responses", fmt.Sprintf("%d read, %d discarded", stats.Responses, stats.Discarded))

	if opts.Pause {
		ui.Pause(stdin, "Press Enter to exit")
	}
	return nil
}

func openDevice(baud int) relay.Opener {
	return func(name string) (io.ReadWriteCloser, error) {
		port, err := device.Open(name, baud)
		if err != nil {
			return nil, err
		}
		return port, nil
	}
}

func inputLabel(files []string) string {
	if len(files) == 0 {
		return "<stdin>"
	}
	return strings.Join(files, ", ")
}

// consoleObserver echoes relay progress to the terminal.
type consoleObserver struct {
	ack     string
	verbose bool
}

func (o *consoleObserver) Waiting(n int, line string) {
	if o.verbose {
		ui.Waiting(fmt.Sprintf("waiting for %q before line %d", o.ack, n))
		return
	}
	ui.Waiting("waiting...")
}

func (o *consoleObserver) Received(text string, ack bool) {
	ui.Received(text, ack)
}

func (o *consoleObserver) Sending(n int, line string) {
	ui.Sent(n, line)
}

// abortedError reports a failure already rendered as a panel.
type abortedError struct {
	err error
}

func (e *abortedError) Error() string { return "send aborted" }

func (e *abortedError) Unwrap() error { return e.err }

// renderSendError draws a panel for the fatal relay errors and returns
// the error to report.
func renderSendError(err error, input *relay.Input) error {
	var (
		encErr  *relay.EncodingError
		openErr *relay.OpenError
	)

	switch {
	case errors.As(err, &encErr):
		name, line := input.Position()
		text := strings.TrimRight(encErr.Text, "\r\n")
		mark := -1
		if encErr.Offset <= len(text) {
			mark = utf8.RuneCountInString(text[:encErr.Offset])
		}
		ui.Traceback("EncodingError", err.Error(), []ui.Frame{
			{File: name, Line: line, Func: "send", Text: text, Mark: mark},
		})
		return &abortedError{err: err}

	case errors.As(err, &openErr):
		ui.Traceback("DeviceError", openErr.Err.Error(), []ui.Frame{
			{File: openErr.Port, Func: "open", Mark: -1},
		})
		ui.Info("Hint: check the cable, or run 'linerelay ports' and pass --port")
		return &abortedError{err: err}
	}

	return fmt.Errorf("send failed: %w", err)
}

// ─────────────────────────────────────────────────────────────────────────────
//  linerelay :: ui  -  terminal output
//  Status lines, a device-response echo, boxed error panels and the
//  config table.
// ─────────────────────────────────────────────────────────────────────────────

package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// ── Color palette ─────────────────────────────────────────────────────────────

var (
	ColorTitle   = color.New(color.FgHiWhite, color.Bold)
	ColorKey     = color.New(color.FgHiCyan)
	ColorValue   = color.New(color.FgHiYellow)
	ColorString  = color.New(color.FgHiGreen)
	ColorNumber  = color.New(color.FgHiBlue)
	ColorBool    = color.New(color.FgHiMagenta)
	ColorNull    = color.New(color.FgHiBlack)
	ColorComment = color.New(color.FgHiBlack, color.Italic)

	// Status
	ColorSuccess = color.New(color.FgHiGreen, color.Bold)
	ColorError   = color.New(color.FgHiRed, color.Bold)
	ColorWarn    = color.New(color.FgHiYellow, color.Bold)
	ColorInfo    = color.New(color.FgHiCyan)
	ColorMuted   = color.New(color.FgHiBlack)

	// Device traffic
	ColorRx   = color.New(color.FgHiBlack)
	ColorAck  = color.New(color.FgHiGreen)
	ColorTx   = color.New(color.FgHiYellow)
	ColorLine = color.New(color.FgHiWhite)

	// Error panel
	ColorTBBorder  = color.New(color.FgRed)
	ColorTBTitle   = color.New(color.FgHiRed, color.Bold)
	ColorTBFile    = color.New(color.FgHiCyan)
	ColorTBLine    = color.New(color.FgHiYellow)
	ColorTBFunc    = color.New(color.FgHiGreen)
	ColorTBHigh    = color.New(color.FgHiRed, color.Bold)
	ColorTBErrType = color.New(color.FgHiRed, color.Bold)
	ColorTBErrMsg  = color.New(color.FgHiWhite)
)

// ── Box drawing ───────────────────────────────────────────────────────────────

func termWidth() int {
	// default 100 if we can't detect
	return 100
}

func hline(width int, ch string) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat(ch, width)
}

// stripANSI removes escape sequences for length calculation.
func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		if r == '\x1b' {
			inEsc = true
			continue
		}
		if inEsc {
			if r == 'm' {
				inEsc = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// visibleLen counts runes, not bytes, so box-drawing and non-ASCII input
// lines pad correctly.
func visibleLen(s string) int {
	return len([]rune(stripANSI(s)))
}

// ── Error panel ───────────────────────────────────────────────────────────────

// Frame is one location shown in a Traceback panel.
type Frame struct {
	File string
	Line int
	Func string
	Text string // offending text, highlighted
	Mark int    // rune column to underline in Text, -1 for none
}

// Traceback renders a boxed error panel to stderr:
//
//	╭─── Traceback ──────────────────────────────────────────────╮
//	│ job.gcode:12 in send                                       │
//	│                                                            │
//	│ ❱   12 │ G1 X10° Y20                                       │
//	│                ^                                           │
//	╰────────────────────────────────────────────────────────────╯
//	EncodingError: line 12: non-ASCII character '°' at offset 6
func Traceback(errType, errMsg string, frames []Frame) {
	w := termWidth()
	inner := w - 2

	ColorTBBorder.Fprint(os.Stderr, "╭"+hline(3, "─"))
	ColorTBTitle.Fprint(os.Stderr, " Traceback ")
	ColorTBBorder.Fprintln(os.Stderr, hline(inner-14, "─")+"╮")

	printBorderLine := func(content string) {
		pad := inner - visibleLen(content) - 1
		if pad < 0 {
			pad = 0
		}
		ColorTBBorder.Fprint(os.Stderr, "│")
		fmt.Fprint(os.Stderr, " "+content+strings.Repeat(" ", pad))
		ColorTBBorder.Fprintln(os.Stderr, "│")
	}

	for i, frame := range frames {
		if i > 0 {
			printBorderLine("")
		}
		loc := ColorTBFile.Sprint(frame.File)
		if frame.Line > 0 {
			loc += ":" + ColorTBLine.Sprint(fmt.Sprintf("%d", frame.Line))
		}
		printBorderLine(loc + " in " + ColorTBFunc.Sprint(frame.Func))
		if frame.Text == "" {
			continue
		}
		printBorderLine("")
		lineNum := fmt.Sprintf("%4d", frame.Line)
		printBorderLine(ColorTBHigh.Sprint("❱ "+lineNum) + ColorTBBorder.Sprint(" │ ") + ColorTBHigh.Sprint(frame.Text))
		if frame.Mark >= 0 {
			printBorderLine(strings.Repeat(" ", 2+len(lineNum)+3+frame.Mark) + ColorTBHigh.Sprint("^"))
		}
	}

	ColorTBBorder.Fprintln(os.Stderr, "╰"+hline(inner, "─")+"╯")

	ColorTBErrType.Fprint(os.Stderr, errType)
	fmt.Fprint(os.Stderr, ": ")
	ColorTBErrMsg.Fprintln(os.Stderr, errMsg)
}

// ── Config display ────────────────────────────────────────────────────────────

// ConfigEntry is one key/value row in the config display.
type ConfigEntry struct {
	Key     string
	Value   interface{}
	Comment string
}

// PrintConfig renders a styled config table, or plain key = value lines
// when raw is set.
func PrintConfig(title string, entries []ConfigEntry, raw bool) {
	if raw {
		for _, e := range entries {
			fmt.Printf("%s = %v\n", e.Key, e.Value)
		}
		return
	}

	keyWidth := 0
	for _, e := range entries {
		if len(e.Key) > keyWidth {
			keyWidth = len(e.Key)
		}
	}

	type renderedLine struct {
		display string // with ANSI colours
		plain   string // stripped, for width calculation
	}
	lines := make([]renderedLine, 0, len(entries))
	for _, e := range entries {
		keyStr := ColorKey.Sprint(fmt.Sprintf("%-*s", keyWidth, e.Key))
		sep := ColorMuted.Sprint("  =  ")
		display := keyStr + sep + formatConfigValue(e.Value)
		plain := fmt.Sprintf("%-*s  =  %s", keyWidth, e.Key, stripANSI(formatConfigValue(e.Value)))
		if e.Comment != "" {
			comment := "  # " + e.Comment
			display += ColorComment.Sprint(comment)
			plain += comment
		}
		lines = append(lines, renderedLine{display: display, plain: plain})
	}

	minInner := len(title) + 6
	for _, l := range lines {
		if n := len(l.plain) + 2; n > minInner {
			minInner = n
		}
	}
	inner := termWidth() - 2
	if minInner > inner {
		inner = minInner
	}

	ColorTBBorder.Fprint(os.Stdout, "╭"+hline(2, "─"))
	ColorTitle.Fprint(os.Stdout, " "+title+" ")
	ColorTBBorder.Fprintln(os.Stdout, hline(inner-len(title)-4, "─")+"╮")

	for _, l := range lines {
		pad := inner - len(l.plain) - 1
		if pad < 0 {
			pad = 0
		}
		ColorTBBorder.Fprint(os.Stdout, "│")
		fmt.Fprint(os.Stdout, " "+l.display+strings.Repeat(" ", pad))
		ColorTBBorder.Fprintln(os.Stdout, "│")
	}

	ColorTBBorder.Fprintln(os.Stdout, "╰"+hline(inner, "─")+"╯")
}

func formatConfigValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return ColorString.Sprint(`"` + val + `"`)
	case bool:
		return ColorBool.Sprint(fmt.Sprintf("%v", val))
	case int, int64, float64:
		return ColorNumber.Sprint(fmt.Sprintf("%v", val))
	case nil:
		return ColorNull.Sprint("null")
	default:
		return ColorValue.Sprint(fmt.Sprintf("%v", val))
	}
}

// ── Status messages ───────────────────────────────────────────────────────────

func Success(msg string) {
	ColorSuccess.Fprint(os.Stdout, "  ✓ ")
	fmt.Fprintln(os.Stdout, msg)
}

func Fail(msg string) {
	ColorError.Fprint(os.Stderr, "  ✗ ")
	fmt.Fprintln(os.Stderr, msg)
}

func Info(msg string) {
	ColorInfo.Fprint(os.Stdout, "  • ")
	fmt.Fprintln(os.Stdout, msg)
}

func Warn(msg string) {
	ColorWarn.Fprint(os.Stdout, "  ⚠ ")
	fmt.Fprintln(os.Stdout, msg)
}

func Step(label, msg string) {
	ColorMuted.Fprint(os.Stdout, "  ")
	ColorTitle.Fprint(os.Stdout, label)
	ColorMuted.Fprint(os.Stdout, " → ")
	fmt.Fprintln(os.Stdout, msg)
}

// SectionTitle prints a section header.
func SectionTitle(title string) {
	pad := termWidth() - len(title) - 4
	if pad < 0 {
		pad = 0
	}
	ColorMuted.Fprintln(os.Stdout, "")
	ColorTitle.Fprint(os.Stdout, "  "+title+"  ")
	ColorMuted.Fprintln(os.Stdout, hline(pad, "─"))
}

// ── Device traffic ────────────────────────────────────────────────────────────

// Received echoes one trimmed device response. Acknowledgements are
// highlighted.
func Received(text string, ack bool) {
	if ack {
		ColorAck.Fprint(os.Stdout, "  ◂ ")
		ColorAck.Fprintln(os.Stdout, text)
		return
	}
	ColorRx.Fprint(os.Stdout, "  ◂ ")
	fmt.Fprintln(os.Stdout, text)
}

// Sent echoes one line as it is written to the device.
func Sent(n int, line string) {
	ColorTx.Fprintf(os.Stdout, "  ▸ %4d  ", n)
	ColorLine.Fprintln(os.Stdout, strings.TrimRight(line, "\r\n"))
}

// Waiting prints the waiting indicator.
func Waiting(msg string) {
	ColorMuted.Fprintln(os.Stdout, "  … "+msg)
}

// ── Prompt ────────────────────────────────────────────────────────────────────

// Pause prints msg and blocks until a line (or EOF) arrives on in.
func Pause(in io.Reader, msg string) {
	ColorMuted.Fprint(os.Stdout, "  "+msg)
	_, _ = bufio.NewReader(in).ReadString('\n')
	fmt.Fprintln(os.Stdout)
}

package relay

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// StdinName names standard input in an input file list.
const StdinName = "-"

// LineSource yields input lines in order, io.EOF after the last one.
type LineSource interface {
	Next() (string, error)
}

// Input iterates over the lines of several files in turn, or standard
// input when no file is named. Lines keep their terminator.
type Input struct {
	names []string
	stdin io.Reader

	idx    int
	name   string
	file   *os.File
	reader *bufio.Reader
	lineNo int
	inFile int
}

var _ LineSource = (*Input)(nil)

// NewInput creates an Input over names. An empty list reads stdin; "-"
// in the list reads stdin at that position.
func NewInput(names []string, stdin io.Reader) *Input {
	if len(names) == 0 {
		names = []string{StdinName}
	}
	return &Input{names: names, stdin: stdin}
}

// Next returns the next line. A final line without a terminator is
// returned as-is.
func (in *Input) Next() (string, error) {
	for {
		if in.reader == nil {
			if in.idx >= len(in.names) {
				return "", io.EOF
			}
			if err := in.open(in.names[in.idx]); err != nil {
				return "", err
			}
			in.idx++
		}

		line, err := in.reader.ReadString('\n')
		if line != "" && (err == nil || err == io.EOF) {
			in.lineNo++
			in.inFile++
			return line, nil
		}
		if err != nil && err != io.EOF {
			return "", fmt.Errorf("reading %s: %w", in.name, err)
		}
		if err := in.closeCurrent(); err != nil {
			return "", err
		}
	}
}

// Name returns the name of the file currently being read.
func (in *Input) Name() string {
	return in.name
}

// Position returns the current file name and the number of the line last
// returned from it.
func (in *Input) Position() (string, int) {
	return in.name, in.inFile
}

// LineNo returns the number of lines returned so far across all files.
func (in *Input) LineNo() int {
	return in.lineNo
}

// Close releases the file currently open, if any.
func (in *Input) Close() error {
	return in.closeCurrent()
}

func (in *Input) open(name string) error {
	in.inFile = 0
	if name == StdinName {
		in.name = "<stdin>"
		in.reader = bufio.NewReader(in.stdin)
		return nil
	}
	f, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	in.name = name
	in.file = f
	in.reader = bufio.NewReader(f)
	return nil
}

func (in *Input) closeCurrent() error {
	in.reader = nil
	if in.file == nil {
		return nil
	}
	err := in.file.Close()
	in.file = nil
	return err
}

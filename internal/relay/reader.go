package relay

import (
	"bufio"
	"bytes"
	"io"
)

// Delimiter terminates every device response.
const Delimiter = "\r\n"

// DefaultAckToken is what the device prints when it is ready for a line.
const DefaultAckToken = "ok"

var delimiter = []byte(Delimiter)

// ResponseReader splits a device byte stream into delimiter-terminated
// responses. A '\n' that is not preceded by '\r' does not end a response.
type ResponseReader struct {
	r   *bufio.Reader
	buf []byte
}

// NewResponseReader wraps r.
func NewResponseReader(r io.Reader) *ResponseReader {
	return &ResponseReader{r: bufio.NewReader(r)}
}

// ReadResponse blocks until the next complete response is available and
// returns its raw bytes, delimiter included.
func (rr *ResponseReader) ReadResponse() ([]byte, error) {
	rr.buf = rr.buf[:0]
	for {
		chunk, err := rr.r.ReadSlice('\n')
		rr.buf = append(rr.buf, chunk...)
		switch err {
		case nil:
			if bytes.HasSuffix(rr.buf, delimiter) {
				return append([]byte(nil), rr.buf...), nil
			}
		case bufio.ErrBufferFull:
		case io.EOF:
			if len(rr.buf) > 0 {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, io.EOF
		default:
			return nil, err
		}
	}
}

// IsAck reports whether a raw response signals readiness, i.e. ends with
// token followed by the delimiter. The firmware prefixes some ready lines
// with a prompt (">>> ok"), so only the suffix is compared.
func IsAck(raw []byte, token string) bool {
	return bytes.HasSuffix(raw, append([]byte(token), delimiter...))
}

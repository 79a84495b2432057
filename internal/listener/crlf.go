package listener

import (
	"bytes"
	"io"
)

// crlfReadWriter normalizes line endings for line based terminals: input
// arrives as \n and output leaves as \r\n.
type crlfReadWriter struct {
	rw io.ReadWriter
}

func newCRLFReadWriter(rw io.ReadWriter) io.ReadWriter {
	return &crlfReadWriter{rw: rw}
}

func (c *crlfReadWriter) Read(p []byte) (int, error) {
	n, err := c.rw.Read(p)
	if n > 0 {
		// Telnet sends \r\n, ssh clients without a pty may send a bare \r.
		data := bytes.ReplaceAll(p[:n], []byte("\r\n"), []byte("\n"))
		data = bytes.ReplaceAll(data, []byte("\r"), []byte("\n"))
		n = copy(p, data)
	}
	return n, err
}

func (c *crlfReadWriter) Write(p []byte) (int, error) {
	_, err := c.rw.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n")))
	// Report the caller's length, not the expanded one.
	return len(p), err
}

package encode

import (
	"fmt"
	"io"
)

// outputBufSize bounds the compressed data held in memory before a flush.
const outputBufSize = 0x10000

// chunkWriter buffers encoder output and flushes it to dst each time the
// buffer fills. The first failed or short write is sticky: every later
// Write fails immediately so the encoder stops producing output.
type chunkWriter struct {
	dst io.Writer
	buf []byte
	n   int
	err error
}

func newChunkWriter(dst io.Writer) *chunkWriter {
	return &chunkWriter{dst: dst, buf: make([]byte, outputBufSize)}
}

func (c *chunkWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	written := 0
	for len(p) > 0 {
		k := copy(c.buf[c.n:], p)
		c.n += k
		p = p[k:]
		written += k
		if c.n == len(c.buf) {
			if err := c.flush(); err != nil {
				return written, err
			}
		}
	}
	return written, nil
}

func (c *chunkWriter) flush() error {
	if c.err != nil || c.n == 0 {
		return c.err
	}
	n, err := c.dst.Write(c.buf[:c.n])
	if err == nil && n != c.n {
		err = io.ErrShortWrite
	}
	if err != nil {
		c.err = fmt.Errorf("%w: %w", ErrWrite, err)
		return c.err
	}
	c.n = 0
	return nil
}

// Close writes whatever remains in the buffer.
func (c *chunkWriter) Close() error {
	return c.flush()
}

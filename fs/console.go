package fs

import (
	"io"
	"sync"

	"github.com/jnwhiteh/userkernel/common"
	"github.com/pkg/errors"
)

// A console is a File over the streams of the host terminal. Positions are
// ignored, and it is never truncated or closed.
type console struct {
	r io.Reader
	w io.Writer
	m sync.Mutex
}

// NewConsole returns a File which reads from |r| and writes to |w|. A nil
// reader is always at end of file, and a nil writer discards everything.
func NewConsole(r io.Reader, w io.Writer) common.File {
	return &console{r: r, w: w}
}

func (c *console) Read(buf []byte, pos int) (int, error) {
	c.m.Lock()
	defer c.m.Unlock()

	if c.r == nil {
		return 0, nil
	}
	n, err := c.r.Read(buf)
	if err == io.EOF {
		err = nil
	}
	return n, errors.WithMessage(err, "reading console")
}

func (c *console) Write(buf []byte, pos int) (int, error) {
	c.m.Lock()
	defer c.m.Unlock()

	if c.w == nil {
		return len(buf), nil
	}
	n, err := c.w.Write(buf)
	return n, errors.WithMessage(err, "writing console")
}

func (c *console) Truncate(length int) error { return common.EINVAL }
func (c *console) Close() error              { return nil }

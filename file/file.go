package file

import (
	"io"
	"sync"

	"github.com/jnwhiteh/userkernel/common"
	"github.com/pkg/errors"
)

// A server_File serialises access to the content of one open inode. Reads
// may proceed concurrently with each other, while writes and truncation wait
// for outstanding reads to drain.
type server_File struct {
	rip *common.Inode   // the underlying inode
	wg  *sync.WaitGroup // tracking outstanding read requests

	in  chan reqFile
	out chan resFile
}

func NewFile(rip *common.Inode) common.File {
	file := &server_File{
		rip,
		new(sync.WaitGroup),
		make(chan reqFile),
		make(chan resFile),
	}

	go file.loop()
	return file
}

func (file *server_File) loop() {
	alive := true
	for alive {
		req := <-file.in
		switch req := req.(type) {
		case req_File_Read:
			// Indicate we have another outstanding reader
			file.wg.Add(1)
			callback := make(chan resFile)
			file.out <- res_File_Async{callback}

			// Launch a new goroutine to perform the read, using the callback
			// channel to return the result.
			go func() {
				n, err := Read(file.rip, req.buf, req.pos)
				callback <- res_File_Read{n, err}
				file.wg.Done() // signal completion
			}()
		case req_File_Write:
			file.wg.Wait() // wait for any outstanding reads to complete before proceeding
			n, err := Write(file.rip, req.buf, req.pos)
			file.out <- res_File_Write{n, err}
		case req_File_Truncate:
			file.wg.Wait() // wait for any outstanding reads to complete before proceeding
			err := Truncate(file.rip, req.size)
			file.out <- res_File_Truncate{err}
		case req_File_Close:
			file.wg.Wait() // wait for any outstanding reads to complete before proceeding
			alive = false
			file.out <- res_File_Close{nil}
		}
	}
}

// Read reads from the content of |rip| at |pos|, returning 0 at end of file.
func Read(rip *common.Inode, buf []byte, pos int) (int, error) {
	size := rip.Size()
	if pos >= size || len(buf) == 0 {
		return 0, nil
	}
	if pos+len(buf) > size {
		buf = buf[:size-pos]
	}

	n, err := rip.Obj.ReadAt(buf, int64(pos))
	if err == io.EOF {
		err = nil
	}
	return n, errors.WithMessage(err, "reading object")
}

// Write writes |buf| to the content of |rip| at |pos|, extending the file as
// needed. When the device cannot hold the whole extension, as much as fits is
// written and no error is returned.
func Write(rip *common.Inode, buf []byte, pos int) (int, error) {
	size := rip.Size()
	limit := pos + len(buf)

	// Capacity is reserved for the bytes beyond the current end of file
	granted := 0
	if limit > size {
		granted = int(rip.Dev.Reserve(int64(limit - size)))
		limit = size + granted
	}
	if limit <= pos {
		rip.Dev.Release(int64(granted))
		return 0, nil // the device is full
	}

	n, err := rip.Obj.WriteAt(buf[:limit-pos], int64(pos))

	end := pos + n
	if end < size {
		end = size
	}
	// Return any capacity which was reserved but not used
	if size+granted > end {
		rip.Dev.Release(int64(size + granted - end))
	}

	if end != size {
		rip.SetSize(end)
	} else if n > 0 {
		rip.Touch()
	}
	return n, errors.WithMessage(err, "writing object")
}

// Truncate shrinks the content of |rip| to |length| bytes.
func Truncate(rip *common.Inode, length int) error {
	size := rip.Size()
	if length >= size {
		return nil
	}
	if err := rip.Obj.Truncate(int64(length)); err != nil {
		return errors.WithMessage(err, "truncating object")
	}
	rip.Dev.Release(int64(size - length))
	rip.SetSize(length)
	return nil
}

var _ common.File = &server_File{}

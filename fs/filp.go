package fs

import (
	"sync"

	"github.com/jnwhiteh/userkernel/common"
)

// A filp is an open instance of a file, owned by a single descriptor. It
// holds the cursor for the descriptor and checks that transfers agree with
// the mode under which the file was opened.
//
// This is implemented using a mutex because all operations require exclusive
// access to the cursor.
type filp struct {
	pos   int           // the current position in the file
	file  common.File   // the file server backing the operations
	inode *common.Inode // the inode this refers to, nil for the console

	mode uint16 // the mode under which this file was opened

	m sync.Mutex // for mutual exclusion
}

func (fi *filp) Read(buf []byte) (int, error) {
	fi.m.Lock()
	defer fi.m.Unlock()

	if fi.mode&common.R_BIT == 0 {
		return 0, common.EBADF
	}

	n, err := fi.file.Read(buf, fi.pos)
	fi.pos += n

	return n, err
}

func (fi *filp) Write(buf []byte) (int, error) {
	fi.m.Lock()
	defer fi.m.Unlock()

	if fi.mode&common.W_BIT == 0 {
		return 0, common.EBADF
	}

	n, err := fi.file.Write(buf, fi.pos)
	fi.pos += n

	return n, err
}

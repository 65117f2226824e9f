// Package fs implements the file system manager: a flat table of names bound
// to inodes, and a private descriptor table for every process.
package fs

import (
	"io"

	"github.com/jnwhiteh/userkernel/common"
	"github.com/jnwhiteh/userkernel/inode"
)

type FileSystem struct {
	dev    common.Device   // the device holding file content
	itable common.InodeTbl // the shared inode table

	names map[string]*common.Inode // the name table
	procs map[int]*Process         // the processes with a descriptor table

	stdin  common.File // console input, bound to descriptor 0
	stdout common.File // console output, bound to descriptor 1

	in  chan reqFS
	out chan resFS
}

// NewFileSystem starts a file system storing its content on |dev|, with room
// for |ninodes| files. Every process is given descriptors for |stdin| and
// |stdout|, either of which may be nil.
func NewFileSystem(dev common.Device, ninodes int, stdin io.Reader, stdout io.Writer) *FileSystem {
	fs := &FileSystem{
		dev:    dev,
		itable: inode.NewTable(dev, ninodes),
		names:  make(map[string]*common.Inode),
		procs:  make(map[int]*Process, common.NR_PROCS),
		stdin:  NewConsole(stdin, nil),
		stdout: NewConsole(nil, stdout),
		in:     make(chan reqFS),
		out:    make(chan resFS),
	}

	go fs.loop()

	return fs
}

func (fs *FileSystem) loop() {
	alive := true
	for alive {
		req := <-fs.in
		switch req := req.(type) {
		case req_FS_Spawn:
			proc, err := fs.do_spawn(req.pid)
			fs.out <- res_FS_Spawn{proc, err}
		case req_FS_Exit:
			fs.do_exit(req.proc)
			fs.out <- res_FS_Exit{}
		case req_FS_Open:
			fd, err := fs.do_open(req.proc, req.name, req.creat)
			fs.out <- res_FS_Open{fd, err}
		case req_FS_Close:
			err := fs.do_close(req.proc, req.fd)
			fs.out <- res_FS_Close{err}
		case req_FS_Unlink:
			err := fs.do_unlink(req.name)
			fs.out <- res_FS_Unlink{err}
		case req_FS_GetFilp:
			filp, err := fs.do_getfilp(req.proc, req.fd)
			fs.out <- res_FS_GetFilp{filp, err}
		case req_FS_Stat:
			info, err := fs.do_stat(req.name)
			fs.out <- res_FS_Stat{info, err}
		case req_FS_ReadFile:
			data, info, err := fs.do_readfile(req.name)
			fs.out <- res_FS_ReadFile{data, info, err}
		case req_FS_Install:
			err := fs.do_install(req.name, req.data)
			fs.out <- res_FS_Install{err}
		case req_FS_Names:
			names := make(map[string]int, len(fs.names))
			for name, rip := range fs.names {
				names[name] = rip.Inum
			}
			fs.out <- res_FS_Names{names}
		case req_FS_Shutdown:
			err := fs.do_shutdown()
			if err == nil {
				alive = false
			}
			fs.out <- res_FS_Shutdown{err}
		}
	}
}

// Inodes returns a snapshot of every inode which has not been destroyed,
// including those which are unlinked but still open.
func (fs *FileSystem) Inodes() []common.InodeInfo {
	return fs.itable.Inodes()
}

package fs

import (
	"github.com/jnwhiteh/userkernel/common"
	"github.com/jnwhiteh/userkernel/file"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func (fs *FileSystem) do_spawn(pid int) (*Process, error) {
	if _, ok := fs.procs[pid]; ok {
		return nil, common.EBUSY
	}

	proc := &Process{
		pid,
		make([]*filp, common.OPEN_MAX),
		fs,
	}
	proc.files[common.STDIN] = &filp{file: fs.stdin, mode: common.R_BIT}
	proc.files[common.STDOUT] = &filp{file: fs.stdout, mode: common.W_BIT}
	fs.procs[pid] = proc

	return proc, nil
}

func (fs *FileSystem) do_exit(proc *Process) {
	// Close all open file descriptors
	for i := 0; i < len(proc.files); i++ {
		if proc.files[i] != nil {
			fs.do_close(proc, i)
		}
	}
	delete(fs.procs, proc.pid)
}

func (fs *FileSystem) do_open(proc *Process, name string, creat bool) (int, error) {
	rip, err := fs.lookup(name)
	exist := err == nil
	if err == common.ENOENT && creat {
		err = nil
	}
	if err != nil {
		return -1, err
	}

	// Find an available filp entry for the file descriptor
	fd := freeSlot(proc)
	if fd == -1 {
		return -1, common.EMFILE
	}

	if !exist {
		if rip, err = fs.link(name); err != nil {
			return -1, err
		}
		log.WithFields(log.Fields{"pid": proc.pid, "name": name, "inum": rip.Inum}).
			Debug("created file")
	}
	fs.openInode(rip)

	if exist && creat {
		if err = rip.File.Truncate(0); err != nil {
			fs.closeInode(rip)
			return -1, err
		}
	}

	proc.files[fd] = &filp{
		file:  rip.File,
		inode: rip,
		mode:  common.R_BIT | common.W_BIT,
	}
	return fd, nil
}

func (fs *FileSystem) do_close(proc *Process, fd int) error {
	filp, err := fs.do_getfilp(proc, fd)
	if err != nil {
		return err
	}
	proc.files[fd] = nil

	// The console is shared by every process and never closed
	if filp.inode != nil {
		fs.closeInode(filp.inode)
	}
	return nil
}

func (fs *FileSystem) do_unlink(name string) error {
	rip, err := fs.unlink(name)
	if err != nil {
		return err
	}

	// The inode is destroyed here if nobody has it open, otherwise when the
	// last descriptor referring to it is closed.
	fs.itable.UnlinkInode(rip)
	log.WithFields(log.Fields{"name": name, "inum": rip.Inum}).Debug("unlinked file")
	return nil
}

func (fs *FileSystem) do_getfilp(proc *Process, fd int) (*filp, error) {
	if fd < 0 || fd >= len(proc.files) || proc.files[fd] == nil {
		return nil, common.EBADF
	}
	return proc.files[fd], nil
}

func (fs *FileSystem) do_stat(name string) (common.InodeInfo, error) {
	rip, err := fs.lookup(name)
	if err != nil {
		return common.InodeInfo{}, err
	}
	return fs.info(rip), nil
}

func (fs *FileSystem) do_readfile(name string) ([]byte, common.InodeInfo, error) {
	rip, err := fs.lookup(name)
	if err != nil {
		return nil, common.InodeInfo{}, err
	}

	fs.openInode(rip)
	defer fs.closeInode(rip)

	info := fs.info(rip)
	data := make([]byte, info.Size)
	n, err := rip.File.Read(data, 0)
	if err != nil {
		return nil, info, errors.WithMessagef(err, "reading %s", name)
	}
	return data[:n], info, nil
}

func (fs *FileSystem) do_install(name string, data []byte) error {
	rip, err := fs.lookup(name)
	if err == common.ENOENT {
		rip, err = fs.link(name)
	}
	if err != nil {
		return err
	}

	fs.openInode(rip)
	defer fs.closeInode(rip)

	if err = rip.File.Truncate(0); err != nil {
		return err
	}
	n, err := rip.File.Write(data, 0)
	if err != nil {
		return errors.WithMessagef(err, "installing %s", name)
	} else if n < len(data) {
		return common.ENOSPC
	}
	return nil
}

// Attempt to shut down the file system, only succeeding once every process
// has exited.
func (fs *FileSystem) do_shutdown() error {
	if len(fs.procs) > 0 {
		return common.EBUSY
	}
	if err := fs.itable.Shutdown(); err != nil {
		return err
	}
	fs.stdin.Close()
	fs.stdout.Close()
	return nil
}

// Take an open reference to |rip|, making sure there is a file server
// running for it.
func (fs *FileSystem) openInode(rip *common.Inode) {
	fs.itable.DupInode(rip)
	if rip.File == nil {
		// Spawn a file process to handle reading/writing
		rip.File = file.NewFile(rip)
	}
}

// Drop an open reference to |rip|, stopping its file server once nobody has
// it open.
func (fs *FileSystem) closeInode(rip *common.Inode) {
	if fs.itable.PutInode(rip) == 0 {
		rip.File.Close()
		rip.File = nil
	}
}

func (fs *FileSystem) info(rip *common.Inode) common.InodeInfo {
	for _, info := range fs.itable.Inodes() {
		if info.Inum == rip.Inum {
			return info
		}
	}
	return common.InodeInfo{Inum: rip.Inum, Key: rip.Key, Size: rip.Size(), Version: rip.Version()}
}

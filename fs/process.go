package fs

import (
	"github.com/jnwhiteh/userkernel/common"
	"github.com/jnwhiteh/userkernel/metrics"
)

type Process struct {
	pid   int         // the numeric id of this process
	files []*filp     // list of file descriptors
	fs    *FileSystem // the file system for this process
}

func (proc *Process) Pid() int { return proc.pid }

// Creat opens |name| for reading and writing, creating it if it does not
// exist and truncating it if it does.
func (proc *Process) Creat(name string) (int, error) {
	proc.fs.in <- req_FS_Open{proc, name, true}
	result := (<-proc.fs.out).(res_FS_Open)
	return result.Arg0, result.Arg1
}

// Open opens an existing file for reading and writing.
func (proc *Process) Open(name string) (int, error) {
	proc.fs.in <- req_FS_Open{proc, name, false}
	result := (<-proc.fs.out).(res_FS_Open)
	return result.Arg0, result.Arg1
}

func (proc *Process) Close(fd int) error {
	proc.fs.in <- req_FS_Close{proc, fd}
	result := (<-proc.fs.out).(res_FS_Close)
	return result.Arg0
}

func (proc *Process) Unlink(name string) error {
	proc.fs.in <- req_FS_Unlink{name}
	result := (<-proc.fs.out).(res_FS_Unlink)
	return result.Arg0
}

// Exit closes every descriptor of the process and releases its table.
func (proc *Process) Exit() {
	proc.fs.in <- req_FS_Exit{proc}
	<-proc.fs.out
	return
}

// Write writes the first |count| bytes of |buf| at the cursor of |fd|. A
// zero count succeeds without looking at the other arguments.
func (proc *Process) Write(fd int, buf []byte, count int) (int, error) {
	filp, err := proc.transfer(fd, buf, count)
	if filp == nil {
		return 0, err
	}
	n, err := filp.Write(buf[:count])
	metrics.BytesWrittenTotal.Add(float64(n))
	return n, err
}

// Read reads up to |count| bytes into |buf| from the cursor of |fd|,
// returning 0 at end of file.
func (proc *Process) Read(fd int, buf []byte, count int) (int, error) {
	filp, err := proc.transfer(fd, buf, count)
	if filp == nil {
		return 0, err
	}
	n, err := filp.Read(buf[:count])
	metrics.BytesReadTotal.Add(float64(n))
	return n, err
}

// Validate the arguments of a read or write, returning the filp to transfer
// through. A nil filp with a nil error means there is nothing to transfer.
func (proc *Process) transfer(fd int, buf []byte, count int) (*filp, error) {
	switch {
	case count == 0:
		return nil, nil
	case count < 0:
		return nil, common.EINVAL
	case buf == nil, len(buf) < count:
		return nil, common.EFAULT
	}

	proc.fs.in <- req_FS_GetFilp{proc, fd}
	result := (<-proc.fs.out).(res_FS_GetFilp)
	return result.Arg0, result.Arg1
}

package fs

import (
	"github.com/jnwhiteh/userkernel/common"
)

type req_FS_Spawn struct {
	pid int
}
type res_FS_Spawn struct {
	Arg0 *Process
	Arg1 error
}
type req_FS_Exit struct {
	proc *Process
}
type res_FS_Exit struct{}
type req_FS_Open struct {
	proc  *Process
	name  string
	creat bool
}
type res_FS_Open struct {
	Arg0 int
	Arg1 error
}
type req_FS_Close struct {
	proc *Process
	fd   int
}
type res_FS_Close struct {
	Arg0 error
}
type req_FS_Unlink struct {
	name string
}
type res_FS_Unlink struct {
	Arg0 error
}
type req_FS_GetFilp struct {
	proc *Process
	fd   int
}
type res_FS_GetFilp struct {
	Arg0 *filp
	Arg1 error
}
type req_FS_Stat struct {
	name string
}
type res_FS_Stat struct {
	Arg0 common.InodeInfo
	Arg1 error
}
type req_FS_ReadFile struct {
	name string
}
type res_FS_ReadFile struct {
	Arg0 []byte
	Arg1 common.InodeInfo
	Arg2 error
}
type req_FS_Install struct {
	name string
	data []byte
}
type res_FS_Install struct {
	Arg0 error
}
type req_FS_Names struct{}
type res_FS_Names struct {
	Arg0 map[string]int
}
type req_FS_Shutdown struct{}
type res_FS_Shutdown struct {
	Arg0 error
}

// Interface types and implementations
type reqFS interface {
	is_reqFS()
}
type resFS interface {
	is_resFS()
}

func (r req_FS_Spawn) is_reqFS()    {}
func (r res_FS_Spawn) is_resFS()    {}
func (r req_FS_Exit) is_reqFS()     {}
func (r res_FS_Exit) is_resFS()     {}
func (r req_FS_Open) is_reqFS()     {}
func (r res_FS_Open) is_resFS()     {}
func (r req_FS_Close) is_reqFS()    {}
func (r res_FS_Close) is_resFS()    {}
func (r req_FS_Unlink) is_reqFS()   {}
func (r res_FS_Unlink) is_resFS()   {}
func (r req_FS_GetFilp) is_reqFS()  {}
func (r res_FS_GetFilp) is_resFS()  {}
func (r req_FS_Stat) is_reqFS()     {}
func (r res_FS_Stat) is_resFS()     {}
func (r req_FS_ReadFile) is_reqFS() {}
func (r res_FS_ReadFile) is_resFS() {}
func (r req_FS_Install) is_reqFS()  {}
func (r res_FS_Install) is_resFS()  {}
func (r req_FS_Names) is_reqFS()    {}
func (r res_FS_Names) is_resFS()    {}
func (r req_FS_Shutdown) is_reqFS() {}
func (r res_FS_Shutdown) is_resFS() {}

// Type check request/response types
var _ reqFS = req_FS_Spawn{}
var _ resFS = res_FS_Spawn{}
var _ reqFS = req_FS_Exit{}
var _ resFS = res_FS_Exit{}
var _ reqFS = req_FS_Open{}
var _ resFS = res_FS_Open{}
var _ reqFS = req_FS_Close{}
var _ resFS = res_FS_Close{}
var _ reqFS = req_FS_Unlink{}
var _ resFS = res_FS_Unlink{}
var _ reqFS = req_FS_GetFilp{}
var _ resFS = res_FS_GetFilp{}
var _ reqFS = req_FS_Stat{}
var _ resFS = res_FS_Stat{}
var _ reqFS = req_FS_ReadFile{}
var _ resFS = res_FS_ReadFile{}
var _ reqFS = req_FS_Install{}
var _ resFS = res_FS_Install{}
var _ reqFS = req_FS_Names{}
var _ resFS = res_FS_Names{}
var _ reqFS = req_FS_Shutdown{}
var _ resFS = res_FS_Shutdown{}

// Spawn gives process |pid| a fresh descriptor table with the console bound
// to descriptors 0 and 1.
func (fs *FileSystem) Spawn(pid int) (*Process, error) {
	fs.in <- req_FS_Spawn{pid}
	result := (<-fs.out).(res_FS_Spawn)
	return result.Arg0, result.Arg1
}

// Stat describes the inode currently bound to |name|.
func (fs *FileSystem) Stat(name string) (common.InodeInfo, error) {
	fs.in <- req_FS_Stat{name}
	result := (<-fs.out).(res_FS_Stat)
	return result.Arg0, result.Arg1
}

// ReadFile returns the whole content of |name|, along with a description of
// the inode as of the read.
func (fs *FileSystem) ReadFile(name string) ([]byte, common.InodeInfo, error) {
	fs.in <- req_FS_ReadFile{name}
	result := (<-fs.out).(res_FS_ReadFile)
	return result.Arg0, result.Arg1, result.Arg2
}

// Install creates or replaces the content of |name| with |data|.
func (fs *FileSystem) Install(name string, data []byte) error {
	fs.in <- req_FS_Install{name, data}
	result := (<-fs.out).(res_FS_Install)
	return result.Arg0
}

// Names returns the inode number bound to every name.
func (fs *FileSystem) Names() map[string]int {
	fs.in <- req_FS_Names{}
	result := (<-fs.out).(res_FS_Names)
	return result.Arg0
}

// Shutdown stops the file system, failing with EBUSY while any process still
// holds a descriptor table.
func (fs *FileSystem) Shutdown() error {
	fs.in <- req_FS_Shutdown{}
	result := (<-fs.out).(res_FS_Shutdown)
	return result.Arg0
}

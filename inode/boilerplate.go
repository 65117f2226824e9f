package inode

import (
	"github.com/jnwhiteh/userkernel/common"
)

type req_InodeTbl_NewInode struct{}
type res_InodeTbl_NewInode struct {
	Arg0 *common.Inode
	Arg1 error
}
type req_InodeTbl_DupInode struct {
	inode *common.Inode
}
type res_InodeTbl_DupInode struct {
	Arg0 *common.Inode
}
type req_InodeTbl_PutInode struct {
	inode *common.Inode
}
type res_InodeTbl_PutInode struct {
	Arg0 int
}
type req_InodeTbl_UnlinkInode struct {
	inode *common.Inode
}
type res_InodeTbl_UnlinkInode struct{}
type req_InodeTbl_Inodes struct{}
type res_InodeTbl_Inodes struct {
	Arg0 []common.InodeInfo
}
type req_InodeTbl_Shutdown struct{}
type res_InodeTbl_Shutdown struct {
	Arg0 error
}

// Interface types and implementations
type reqInodeTbl interface {
	is_reqInodeTbl()
}
type resInodeTbl interface {
	is_resInodeTbl()
}

func (r req_InodeTbl_NewInode) is_reqInodeTbl()    {}
func (r res_InodeTbl_NewInode) is_resInodeTbl()    {}
func (r req_InodeTbl_DupInode) is_reqInodeTbl()    {}
func (r res_InodeTbl_DupInode) is_resInodeTbl()    {}
func (r req_InodeTbl_PutInode) is_reqInodeTbl()    {}
func (r res_InodeTbl_PutInode) is_resInodeTbl()    {}
func (r req_InodeTbl_UnlinkInode) is_reqInodeTbl() {}
func (r res_InodeTbl_UnlinkInode) is_resInodeTbl() {}
func (r req_InodeTbl_Inodes) is_reqInodeTbl()      {}
func (r res_InodeTbl_Inodes) is_resInodeTbl()      {}
func (r req_InodeTbl_Shutdown) is_reqInodeTbl()    {}
func (r res_InodeTbl_Shutdown) is_resInodeTbl()    {}

// Type check request/response types
var _ reqInodeTbl = req_InodeTbl_NewInode{}
var _ resInodeTbl = res_InodeTbl_NewInode{}
var _ reqInodeTbl = req_InodeTbl_DupInode{}
var _ resInodeTbl = res_InodeTbl_DupInode{}
var _ reqInodeTbl = req_InodeTbl_PutInode{}
var _ resInodeTbl = res_InodeTbl_PutInode{}
var _ reqInodeTbl = req_InodeTbl_UnlinkInode{}
var _ resInodeTbl = res_InodeTbl_UnlinkInode{}
var _ reqInodeTbl = req_InodeTbl_Inodes{}
var _ resInodeTbl = res_InodeTbl_Inodes{}
var _ reqInodeTbl = req_InodeTbl_Shutdown{}
var _ resInodeTbl = res_InodeTbl_Shutdown{}

func (s *server_InodeTbl) NewInode() (*common.Inode, error) {
	s.in <- req_InodeTbl_NewInode{}
	result := (<-s.out).(res_InodeTbl_NewInode)
	return result.Arg0, result.Arg1
}
func (s *server_InodeTbl) DupInode(inode *common.Inode) *common.Inode {
	s.in <- req_InodeTbl_DupInode{inode}
	result := (<-s.out).(res_InodeTbl_DupInode)
	return result.Arg0
}
func (s *server_InodeTbl) PutInode(inode *common.Inode) int {
	s.in <- req_InodeTbl_PutInode{inode}
	result := (<-s.out).(res_InodeTbl_PutInode)
	return result.Arg0
}
func (s *server_InodeTbl) UnlinkInode(inode *common.Inode) {
	s.in <- req_InodeTbl_UnlinkInode{inode}
	<-s.out
}
func (s *server_InodeTbl) Inodes() []common.InodeInfo {
	s.in <- req_InodeTbl_Inodes{}
	result := (<-s.out).(res_InodeTbl_Inodes)
	return result.Arg0
}
func (s *server_InodeTbl) Shutdown() error {
	s.in <- req_InodeTbl_Shutdown{}
	result := (<-s.out).(res_InodeTbl_Shutdown)
	return result.Arg0
}

var _ common.InodeTbl = &server_InodeTbl{}

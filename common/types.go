package common

import (
	"io"
	"sync"
)

// Object is the stored content of a FileIdentity on a Device.
type Object interface {
	io.ReaderAt
	io.WriterAt
	Truncate(size int64) error
	Close() error
}

// Device is the storage medium beneath the file system. It hands out
// Objects by key and accounts for the bytes they occupy.
type Device interface {
	Create(key string) (Object, error)
	Remove(key string) error
	// Reserve claims up to n bytes of capacity, returning the number granted.
	Reserve(n int64) int64
	Release(n int64)
	Used() int64
}

// An Inode is the identity of a file: its content and existence, independent
// of any name bound to it.
type Inode struct {
	Inum   int      // the inode number of this file
	Key    string   // the storage key of the backing object
	Obj    Object   // the backing object on the device
	Dev    Device   // the device holding Obj
	Itable InodeTbl // the inode table owning this inode

	Count    int  // the number of open references, owned by the inode table
	Unlinked bool // whether the name has been removed, owned by the inode table

	File File // the file server while the inode is open, owned by the file system

	m       sync.Mutex
	size    int
	version uint64
}

// Size returns the current length of the file content.
func (rip *Inode) Size() int {
	rip.m.Lock()
	defer rip.m.Unlock()
	return rip.size
}

// SetSize records a new content length and bumps the version.
func (rip *Inode) SetSize(size int) {
	rip.m.Lock()
	rip.size = size
	rip.version++
	rip.m.Unlock()
}

// Touch bumps the version without changing the size.
func (rip *Inode) Touch() {
	rip.m.Lock()
	rip.version++
	rip.m.Unlock()
}

// Version changes every time the content of the inode changes.
func (rip *Inode) Version() uint64 {
	rip.m.Lock()
	defer rip.m.Unlock()
	return rip.version
}

// InodeInfo is a point-in-time view of an Inode.
type InodeInfo struct {
	Inum     int
	Key      string
	Count    int
	Unlinked bool
	Size     int
	Version  uint64
}

// Private interface to a file, used by filps and the FileSystem
type File interface {
	Read(buf []byte, pos int) (int, error)
	Write(buf []byte, pos int) (int, error)
	Truncate(length int) error
	Close() error
}

// An AllocTbl hands out small integers from a fixed-size bitmap.
type AllocTbl interface {
	Alloc() (int, error)
	Free(bit int)
	InUse() int
	Shutdown() error
}

// An InodeTbl tracks the open reference count of each inode and destroys
// inodes once they are both unlinked and closed.
type InodeTbl interface {
	NewInode() (*Inode, error)
	DupInode(rip *Inode) *Inode
	// PutInode drops an open reference, returning the number remaining.
	PutInode(rip *Inode) int
	UnlinkInode(rip *Inode)
	Inodes() []InodeInfo
	Shutdown() error
}

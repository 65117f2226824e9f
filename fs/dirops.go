package fs

import (
	"github.com/jnwhiteh/userkernel/common"
)

// Operations on the name table. Callers must be running in the file system
// loop.

func (fs *FileSystem) lookup(name string) (*common.Inode, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	rip, ok := fs.names[name]
	if !ok {
		return nil, common.ENOENT
	}
	return rip, nil
}

// Bind |name| to a new, empty inode.
func (fs *FileSystem) link(name string) (*common.Inode, error) {
	rip, err := fs.itable.NewInode()
	if err != nil {
		return nil, err
	}
	fs.names[name] = rip
	return rip, nil
}

// Remove the binding of |name|, returning the inode it referred to.
func (fs *FileSystem) unlink(name string) (*common.Inode, error) {
	rip, err := fs.lookup(name)
	if err != nil {
		return nil, err
	}
	delete(fs.names, name)
	return rip, nil
}

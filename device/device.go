// Package device provides the storage medium beneath the file system: a flat
// store of objects keyed by name, backed by an afero.Fs, with an optional
// byte capacity shared by every object on the device.
package device

import (
	"os"
	"sync"

	"github.com/jnwhiteh/userkernel/common"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

type aferoDevice struct {
	fs       afero.Fs
	capacity int64 // zero means unbounded

	m    sync.Mutex
	used int64
}

// NewMemDevice returns a Device held entirely in memory.
func NewMemDevice(capacity int64) common.Device {
	return NewDevice(afero.NewMemMapFs(), capacity)
}

// NewDirDevice returns a Device storing its objects as files beneath |dir|
// on the host, which is created if needed.
func NewDirDevice(dir string, capacity int64) (common.Device, error) {
	var osfs = afero.NewOsFs()
	if err := osfs.MkdirAll(dir, 0750); err != nil {
		return nil, errors.Wrapf(err, "creating device directory %s", dir)
	}
	return NewDevice(afero.NewBasePathFs(osfs, dir), capacity), nil
}

// NewDevice returns a Device over an arbitrary afero.Fs.
func NewDevice(fs afero.Fs, capacity int64) common.Device {
	return &aferoDevice{fs: fs, capacity: capacity}
}

func (dev *aferoDevice) Create(key string) (common.Object, error) {
	var file, err = dev.fs.OpenFile(key, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0640)
	if err != nil {
		return nil, errors.WithMessagef(err, "creating object %s", key)
	}
	return file, nil
}

func (dev *aferoDevice) Remove(key string) error {
	if err := dev.fs.Remove(key); err != nil {
		return errors.WithMessagef(err, "removing object %s", key)
	}
	log.WithField("key", key).Debug("removed object")
	return nil
}

func (dev *aferoDevice) Reserve(n int64) int64 {
	if n <= 0 {
		return 0
	}
	dev.m.Lock()
	defer dev.m.Unlock()

	if dev.capacity != 0 && dev.used+n > dev.capacity {
		n = dev.capacity - dev.used
	}
	dev.used += n
	return n
}

func (dev *aferoDevice) Release(n int64) {
	dev.m.Lock()
	defer dev.m.Unlock()

	dev.used -= n
	if dev.used < 0 {
		log.WithField("used", dev.used).Panic("device accounting went negative")
	}
}

func (dev *aferoDevice) Used() int64 {
	dev.m.Lock()
	defer dev.m.Unlock()
	return dev.used
}

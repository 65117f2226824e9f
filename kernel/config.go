package kernel

import (
	"io"

	"github.com/jnwhiteh/userkernel/common"
	"github.com/jnwhiteh/userkernel/loader"
)

// Config holds the tunables of a Kernel. Zero values select defaults.
type Config struct {
	Pages  int // physical pages shared by every process
	Procs  int // process table slots
	Inodes int // file slots

	// DeviceDir is the host directory holding file content. When empty,
	// content is held in memory.
	DeviceDir string
	// DeviceCapacity bounds the bytes of file content. Zero is unbounded.
	DeviceCapacity int64

	// ImageCache is the number of decoded executables to keep.
	ImageCache int

	Stdin  io.Reader // console input, or nil for none
	Stdout io.Writer // console output, or nil to discard

	// Registry resolves the entry points of executables.
	Registry *loader.Registry
	// Dump, if set, receives a description of the kernel tables once every
	// process has terminated, before they are torn down.
	Dump io.Writer
}

const defaultImageCache = 64

func (cfg Config) withDefaults() Config {
	if cfg.Pages <= 0 {
		cfg.Pages = common.NR_PAGES
	}
	if cfg.Procs <= 0 {
		cfg.Procs = common.NR_PROCS
	}
	if cfg.Inodes <= 0 {
		cfg.Inodes = common.NR_INODES
	}
	if cfg.ImageCache <= 0 {
		cfg.ImageCache = defaultImageCache
	}
	if cfg.Registry == nil {
		cfg.Registry = loader.NewRegistry()
	}
	return cfg
}

// Package kernel boots the file system, process table and physical page
// pool, and runs programs against them as processes.
package kernel

import (
	"context"
	"io"
	"sync"

	"github.com/jnwhiteh/userkernel/common"
	"github.com/jnwhiteh/userkernel/debug"
	"github.com/jnwhiteh/userkernel/device"
	"github.com/jnwhiteh/userkernel/fs"
	"github.com/jnwhiteh/userkernel/loader"
	"github.com/jnwhiteh/userkernel/metrics"
	"github.com/jnwhiteh/userkernel/proc"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

type Kernel struct {
	cfg Config

	dev    common.Device
	fs     *fs.FileSystem
	table  *proc.Table
	pages  *semaphore.Weighted
	images *loader.Cache

	eg *errgroup.Group

	halted   chan struct{}
	haltOnce sync.Once

	mu         sync.Mutex
	started    bool
	rootStatus int
}

// New boots a Kernel. No process runs until Run is called.
func New(cfg Config) (*Kernel, error) {
	cfg = cfg.withDefaults()

	var dev common.Device
	if cfg.DeviceDir != "" {
		var err error
		if dev, err = device.NewDirDevice(cfg.DeviceDir, cfg.DeviceCapacity); err != nil {
			return nil, err
		}
	} else {
		dev = device.NewMemDevice(cfg.DeviceCapacity)
	}

	var k = &Kernel{
		cfg:    cfg,
		dev:    dev,
		fs:     fs.NewFileSystem(dev, cfg.Inodes, cfg.Stdin, cfg.Stdout),
		table:  proc.NewTable(cfg.Procs),
		pages:  semaphore.NewWeighted(int64(cfg.Pages)),
		halted: make(chan struct{}),
	}
	k.images = loader.NewCache(k.fs, cfg.Registry, cfg.ImageCache)

	log.WithFields(log.Fields{
		"pages":    cfg.Pages,
		"procs":    cfg.Procs,
		"inodes":   cfg.Inodes,
		"device":   cfg.DeviceDir,
		"capacity": cfg.DeviceCapacity,
	}).Info("booted kernel")

	return k, nil
}

// Install writes an executable (or any other file) into the file system.
func (k *Kernel) Install(name string, data []byte) error {
	return errors.WithMessagef(k.fs.Install(name, data), "installing %s", name)
}

// Run starts the root process executing |image| with |argv|, and blocks
// until the machine halts or every process has terminated. The kernel is
// then torn down and the exit status of the root process returned. Halt is
// called if |ctx| is cancelled first. Run may only be called once.
func (k *Kernel) Run(ctx context.Context, image string, argv []string) (int, error) {
	k.mu.Lock()
	if k.started {
		k.mu.Unlock()
		return 0, errors.New("kernel already started")
	}
	k.started = true
	k.mu.Unlock()

	var eg, egCtx = errgroup.WithContext(ctx)
	k.eg = eg

	if _, err := k.spawn(common.NO_PARENT, image, argv); err != nil {
		return 0, k.teardown(errors.WithMessagef(err, "starting %s", image))
	}

	eg.Go(func() error {
		select {
		case <-egCtx.Done():
			k.Halt()
		case <-k.halted:
		case <-k.table.Done():
		}
		return nil
	})

	var err = eg.Wait()

	if k.cfg.Dump != nil {
		k.Dump(k.cfg.Dump)
	}
	if err = k.teardown(err); err != nil {
		return 0, err
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	return k.rootStatus, nil
}

// Halt stops the machine. Processes are terminated at their next system call.
func (k *Kernel) Halt() {
	k.haltOnce.Do(func() {
		log.Info("halting")
		k.table.Halt()
		close(k.halted)
	})
}

func (k *Kernel) isHalted() bool {
	select {
	case <-k.halted:
		return true
	default:
		return false
	}
}

// Dump writes tables describing the files and processes of the kernel.
func (k *Kernel) Dump(w io.Writer) {
	debug.PrintFiles(w, k.fs.Names(), k.fs.Inodes(), k.dev.Used())
	debug.PrintProcesses(w, k.table.Records())
}

// spawn loads |name| and starts it as a child of |parent|.
func (k *Kernel) spawn(parent int, name string, argv []string) (int, error) {
	if err := checkArgv(argv); err != nil {
		return -1, err
	}
	var img, err = k.images.Load(name)
	if err != nil {
		return -1, err
	}

	var pages = int64(img.Pages + common.STACK_PAGES + common.ARGV_PAGES)
	if !k.pages.TryAcquire(pages) {
		return -1, common.ENOMEM
	}
	metrics.PagesInUse.Add(float64(pages))

	pid, err := k.table.Add(parent)
	if err != nil {
		k.releasePages(pages)
		return -1, err
	}
	files, err := k.fs.Spawn(pid)
	if err != nil {
		k.table.Abort(pid)
		k.releasePages(pages)
		return -1, err
	}

	var p = &Process{
		k:      k,
		pid:    pid,
		parent: parent,
		name:   name,
		argv:   append([]string(nil), argv...),
		img:    img,
		files:  files,
		pages:  pages,
	}
	k.table.Start(pid)
	k.eg.Go(func() error {
		p.run()
		return nil
	})

	log.WithFields(log.Fields{"pid": pid, "parent": parent, "image": name, "pages": pages}).
		Info("started process")
	return pid, nil
}

func (k *Kernel) releasePages(pages int64) {
	k.pages.Release(pages)
	metrics.PagesInUse.Sub(float64(pages))
}

// Tear down the file system and process table once every process is gone.
func (k *Kernel) teardown(err error) error {
	if ferr := k.fs.Shutdown(); ferr != nil && err == nil {
		err = errors.WithMessage(ferr, "shutting down file system")
	}
	if perr := k.table.Shutdown(); perr != nil && err == nil {
		err = errors.WithMessage(perr, "shutting down process table")
	}
	log.WithField("err", err).Info("kernel stopped")
	return err
}

// The argument vector must fit in a single page, where each argument takes
// a pointer, its bytes and a terminator.
func checkArgv(argv []string) error {
	var size = 0
	for _, arg := range argv {
		size += 4 + len(arg) + 1
	}
	if size > common.PAGE_SIZE {
		return common.E2BIG
	}
	return nil
}

package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/jessevdk/go-flags"
	"github.com/jnwhiteh/userkernel/kernel"
	"github.com/jnwhiteh/userkernel/loader"
	mbp "github.com/jnwhiteh/userkernel/mainboilerplate"
	"github.com/jnwhiteh/userkernel/programs"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

const iniFilename = "nachos.ini"

// Config is the top-level configuration object of the kernel.
var Config = new(struct {
	Kernel struct {
		Pages          int    `long:"pages" env:"PAGES" default:"1024" description:"Physical pages shared by all processes"`
		Procs          int    `long:"procs" env:"PROCS" default:"64" description:"Maximum number of unreclaimed processes"`
		Inodes         int    `long:"inodes" env:"INODES" default:"512" description:"Maximum number of files, including unlinked files still open"`
		DeviceDir      string `long:"device-dir" env:"DEVICE_DIR" description:"Host directory holding file content. Content is held in memory if empty"`
		DeviceCapacity string `long:"device-capacity" env:"DEVICE_CAPACITY" default:"0" description:"Bytes of file content the device holds (eg, 64MiB). Zero is unbounded"`
	} `group:"Kernel" namespace:"kernel" env-namespace:"KERNEL"`

	Log         mbp.LogConfig         `group:"Logging" namespace:"log" env-namespace:"LOG"`
	Diagnostics mbp.DiagnosticsConfig `group:"Debug" namespace:"debug" env-namespace:"DEBUG"`
})

type cmdRun struct {
	Images string `long:"images" description:"Host directory of additional executables to install"`
	Dump   bool   `long:"dump" description:"Print the kernel tables to stderr once every process has terminated"`

	Args struct {
		Image string   `positional-arg-name:"IMAGE" required:"yes" description:"Executable to run as the root process"`
		Argv  []string `positional-arg-name:"ARGS" description:"Arguments of the root process"`
	} `positional-args:"yes"`
}

func (cmd *cmdRun) Execute([]string) error {
	mbp.Must(mbp.InitLog(Config.Log), "configuring logging")
	mbp.InitDiagnostics(Config.Diagnostics)

	var capacity, err = humanize.ParseBytes(Config.Kernel.DeviceCapacity)
	mbp.Must(err, "invalid device capacity", "capacity", Config.Kernel.DeviceCapacity)

	var reg = loader.NewRegistry()
	programs.Register(reg)

	var dump io.Writer
	if cmd.Dump {
		dump = os.Stderr
	}

	k, err := kernel.New(kernel.Config{
		Pages:          Config.Kernel.Pages,
		Procs:          Config.Kernel.Procs,
		Inodes:         Config.Kernel.Inodes,
		DeviceDir:      Config.Kernel.DeviceDir,
		DeviceCapacity: int64(capacity),
		Stdin:          os.Stdin,
		Stdout:         os.Stdout,
		Registry:       reg,
		Dump:           dump,
	})
	mbp.Must(err, "booting kernel")

	for name, data := range programs.Images() {
		mbp.Must(k.Install(name, data), "installing bundled executable", "name", name)
	}
	if cmd.Images != "" {
		installDir(k, afero.NewOsFs(), cmd.Images)
	}

	var ctx, cancel = context.WithCancel(context.Background())
	var signalCh = make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		if sig, ok := <-signalCh; ok {
			log.WithField("signal", sig).Info("caught signal")
			cancel()
		}
	}()

	status, err := k.Run(ctx, cmd.Args.Image, cmd.Args.Argv)
	signal.Stop(signalCh)
	close(signalCh)
	mbp.Must(err, "kernel failed")

	log.WithField("status", status).Info("goodbye")
	if status != 0 {
		os.Exit(status & 0xff)
	}
	return nil
}

// Install every regular file of |dir| under its base name.
func installDir(k *kernel.Kernel, fs afero.Fs, dir string) {
	var infos, err = afero.ReadDir(fs, dir)
	mbp.Must(err, "reading images directory", "dir", dir)

	for _, info := range infos {
		if !info.Mode().IsRegular() {
			continue
		}
		var path = filepath.Join(dir, info.Name())
		data, err := afero.ReadFile(fs, path)
		mbp.Must(err, "reading executable", "path", path)
		mbp.Must(k.Install(info.Name(), data), "installing executable", "path", path)
	}
}

func main() {
	var parser = flags.NewParser(Config, flags.Default)

	_, _ = parser.AddCommand("run", "Boot the kernel and run an executable", `
Boot the kernel with the bundled executables installed, plus any found in
--images, and run IMAGE as the root process. The kernel stops when the root
process halts or every process has terminated, and exits with the status of
the root process.
`, &cmdRun{})

	mbp.AddPrintConfigCmd(parser, iniFilename)
	mbp.MustParseConfig(parser, iniFilename)
}

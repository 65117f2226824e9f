package kernel

import (
	"runtime"

	"github.com/jnwhiteh/userkernel/common"
	"github.com/jnwhiteh/userkernel/fs"
	"github.com/jnwhiteh/userkernel/loader"
	"github.com/jnwhiteh/userkernel/metrics"
	log "github.com/sirupsen/logrus"
)

// A Process is a running program. It implements the system call surface
// seen by the program, reporting every failure as -1.
type Process struct {
	k      *Kernel
	pid    int
	parent int
	name   string
	argv   []string
	img    *loader.Image
	files  *fs.Process
	pages  int64

	// Set once the program has terminated of its own accord.
	exited  bool
	faulted bool
	status  int
}

// Run the program to completion. Every way out of the program, including
// Exit and faults, passes through terminate.
func (p *Process) run() {
	defer p.terminate()
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{"pid": p.pid, "image": p.name, "fault": r}).
				Warn("process faulted")
			p.exited, p.faulted, p.status = true, true, common.EXIT_FAULT
		}
	}()

	var status = p.img.Program.Run(p)
	p.exited, p.status = true, status
}

// Release the resources of the process, then record its termination so a
// joining parent observes a fully cleaned up child.
func (p *Process) terminate() {
	if !p.exited {
		// Stopped by a halt.
		p.faulted, p.status = true, common.EXIT_FAULT
	}

	p.files.Exit()
	p.k.releasePages(p.pages)

	if p.pid == common.ROOT_PROCESS {
		p.k.mu.Lock()
		p.k.rootStatus = p.status
		p.k.mu.Unlock()
	}
	p.k.table.Exit(p.pid, p.status, p.faulted)

	log.WithFields(log.Fields{
		"pid":     p.pid,
		"image":   p.name,
		"status":  p.status,
		"faulted": p.faulted,
	}).Info("process terminated")
}

// Called on entry to every system call. Once the machine is halted, the
// calling process is stopped.
func (p *Process) enter() {
	if p.k.isHalted() {
		runtime.Goexit()
	}
}

// Convert the result of a system call to the value seen by the program.
func (p *Process) result(call string, v int, err error) int {
	if err != nil {
		metrics.SyscallsTotal.WithLabelValues(call, metrics.Fail).Inc()
		log.WithFields(log.Fields{
			"pid":  p.pid,
			"call": call,
			"kind": common.KindOf(err),
			"err":  err,
		}).Debug("syscall failed")
		return -1
	}
	metrics.SyscallsTotal.WithLabelValues(call, metrics.Ok).Inc()
	return v
}

func (p *Process) Pid() int { return p.pid }

func (p *Process) Args() []string { return append([]string(nil), p.argv...) }

func (p *Process) Creat(name string) int {
	p.enter()
	var fd, err = p.files.Creat(name)
	return p.result("creat", fd, err)
}

func (p *Process) Open(name string) int {
	p.enter()
	var fd, err = p.files.Open(name)
	return p.result("open", fd, err)
}

func (p *Process) Read(fd int, buf []byte, count int) int {
	p.enter()
	var n, err = p.files.Read(fd, buf, count)
	return p.result("read", n, err)
}

func (p *Process) Write(fd int, buf []byte, count int) int {
	p.enter()
	var n, err = p.files.Write(fd, buf, count)
	return p.result("write", n, err)
}

func (p *Process) Close(fd int) int {
	p.enter()
	return p.result("close", 0, p.files.Close(fd))
}

func (p *Process) Unlink(name string) int {
	p.enter()
	return p.result("unlink", 0, p.files.Unlink(name))
}

func (p *Process) Exec(name string, argv []string) int {
	p.enter()
	var pid, err = p.k.spawn(p.pid, name, argv)
	return p.result("exec", pid, err)
}

func (p *Process) Join(pid int, status *int) int {
	p.enter()
	var st, faulted, err = p.k.table.Join(p.pid, pid)
	if err == common.EFAULTED {
		p.enter() // halted while waiting
	}
	if err != nil {
		return p.result("join", -1, err)
	}

	if status != nil {
		*status = st
	}
	if faulted {
		return p.result("join", 0, nil)
	}
	return p.result("join", 1, nil)
}

func (p *Process) Exit(status int) {
	p.exited, p.status = true, status
	metrics.SyscallsTotal.WithLabelValues("exit", metrics.Ok).Inc()
	runtime.Goexit()
}

func (p *Process) Halt() int {
	p.enter()
	if p.pid != common.ROOT_PROCESS {
		return p.result("halt", -1, common.EPERM)
	}
	metrics.SyscallsTotal.WithLabelValues("halt", metrics.Ok).Inc()
	p.exited, p.status = true, 0
	p.k.Halt()
	runtime.Goexit()
	return 0
}

var _ loader.Syscalls = &Process{}

// Package loader turns executable files into runnable programs. An
// executable is a YAML image descriptor naming the program entry point and
// the number of code pages it occupies, optionally carrying a script of
// system calls to interpret.
package loader

// Syscalls is the system call surface available to a running program. Every
// call reports failure by returning -1.
type Syscalls interface {
	// Pid returns the process id of the caller.
	Pid() int
	// Args returns the argument vector passed to exec.
	Args() []string

	Creat(name string) int
	Open(name string) int
	Read(fd int, buf []byte, count int) int
	Write(fd int, buf []byte, count int) int
	Close(fd int) int
	Unlink(name string) int

	// Exec starts the executable |name| as a child of the caller.
	Exec(name string, argv []string) int
	// Join waits for the child |pid| to terminate, storing its exit status
	// through |status| when it is not nil. It returns 1 if the child exited
	// normally, 0 if it faulted and -1 if |pid| is not a joinable child.
	Join(pid int, status *int) int
	// Exit terminates the caller with |status|. It does not return.
	Exit(status int)
	// Halt stops the machine. Only the root process may halt, for any other
	// process Halt returns -1.
	Halt() int
}

// A Program is the code of an executable. Returning from Run is equivalent
// to calling Exit with the returned status.
type Program interface {
	Run(sys Syscalls) int
}

// ProgramFunc adapts a function to a Program.
type ProgramFunc func(sys Syscalls) int

func (fn ProgramFunc) Run(sys Syscalls) int { return fn(sys) }

package common

const (
	OPEN_MAX  = 16  // file descriptors per process
	NAME_MAX  = 256 // maximum length of a file name, in bytes
	PAGE_SIZE = 1024

	STDIN  = 0 // console input descriptor
	STDOUT = 1 // console output descriptor

	ROOT_PROCESS = 0  // pid of the initial process, the only one allowed to halt
	NO_PARENT    = -1 // parent pid of the initial process and of orphans

	STACK_PAGES = 8 // pages reserved for the stack of every process
	ARGV_PAGES  = 1 // pages reserved for the argument vector

	// Exit status recorded for a process that terminated due to a fault.
	EXIT_FAULT = -1

	NR_PROCS  = 64   // default process table slots
	NR_INODES = 512  // default FileIdentity slots
	NR_PAGES  = 1024 // default physical pages

	NO_BIT = -1 // returned by allocators when no bit is free
)

// Access bits of an open file description.
const (
	R_BIT uint16 = 1 << iota
	W_BIT
)

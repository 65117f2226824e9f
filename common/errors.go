package common

import "github.com/pkg/errors"

// Kind classifies an Errno into the failure categories reported by the
// syscall surface. Every failure is reported to user programs as -1, the kind
// only matters for logging, metrics and tests.
type Kind int

const (
	KindNone Kind = iota
	KindInvalidArgument
	KindNotFound
	KindResourceExhausted
	KindFaulted
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindNotFound:
		return "NotFound"
	case KindResourceExhausted:
		return "ResourceExhausted"
	case KindFaulted:
		return "Faulted"
	}
	return "None"
}

// Errno is a kernel error code.
type Errno struct {
	kind Kind
	msg  string
}

func (e *Errno) Error() string { return e.msg }

// Kind returns the failure category of the error.
func (e *Errno) Kind() Kind { return e.kind }

// The message strings are taken from the Minix 3.1.0 source, specifically
// from lib/ansi/errlist.c, where one exists.
var (
	E2BIG        = &Errno{KindInvalidArgument, "Arg list too long"}
	EBADF        = &Errno{KindInvalidArgument, "Bad file number"}
	EFAULT       = &Errno{KindInvalidArgument, "Bad address"}
	EINVAL       = &Errno{KindInvalidArgument, "Invalid argument"}
	ENAMETOOLONG = &Errno{KindInvalidArgument, "File name too long"}
	EPERM        = &Errno{KindInvalidArgument, "Not owner"}

	ECHILD = &Errno{KindNotFound, "No children"}
	ENOENT = &Errno{KindNotFound, "No such file or directory"}

	EAGAIN  = &Errno{KindResourceExhausted, "Resource temporarily unavailable"}
	EBUSY   = &Errno{KindResourceExhausted, "Resource busy"}
	EMFILE  = &Errno{KindResourceExhausted, "Too many open files"}
	ENFILE  = &Errno{KindResourceExhausted, "File table overflow"}
	ENOEXEC = &Errno{KindResourceExhausted, "Exec format error"}
	ENOMEM  = &Errno{KindResourceExhausted, "Not enough core"}
	ENOSPC  = &Errno{KindResourceExhausted, "No space left on device"}

	EFAULTED = &Errno{KindFaulted, "Process terminated abnormally"}
)

// KindOf returns the Kind of |err|, looking through any context attached
// with errors.WithMessage or errors.Wrap. Errors which did not originate as
// an Errno are reported as KindFaulted.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	if errno, ok := errors.Cause(err).(*Errno); ok {
		return errno.kind
	}
	return KindFaulted
}

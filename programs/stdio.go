package programs

import (
	"fmt"

	"github.com/jnwhiteh/userkernel/common"
	"github.com/jnwhiteh/userkernel/loader"
)

func printf(sys loader.Syscalls, format string, args ...interface{}) {
	var b = []byte(fmt.Sprintf(format, args...))
	sys.Write(common.STDOUT, b, len(b))
}

// assert stops the program with status 1 when |cond| does not hold.
func assert(sys loader.Syscalls, cond bool) {
	if !cond {
		printf(sys, "%s", loader.AssertionFailed)
		sys.Exit(1)
	}
}

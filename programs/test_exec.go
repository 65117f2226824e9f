package programs

import (
	"github.com/jnwhiteh/userkernel/loader"
)

// TestExec runs each of fscrasher and matmult ten times in turn, checking
// that every child is joined with status 0.
func TestExec(sys loader.Syscalls) int {
	printf(sys, "Execution Test!\n")

	for _, name := range []string{FSCrasherImage, MatMultImage} {
		for i := 0; i < 10; i++ {
			printf(sys, "----- Execution %s #%d -----\n", name, i+1)

			var status = -1
			var pid = sys.Exec(name, nil)
			assert(sys, pid > 0)
			assert(sys, sys.Join(pid, &status) == 1)
			assert(sys, status == 0)
		}
	}

	printf(sys, "done.\n")
	return 0
}

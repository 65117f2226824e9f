package programs

import (
	"github.com/jnwhiteh/userkernel/common"
	"github.com/jnwhiteh/userkernel/loader"
)

// FSCrasher hammers the file system calls with a mix of valid and invalid
// arguments, exiting with status 0 if every call behaves.
func FSCrasher(sys loader.Syscalls) int {
	var filename = []byte("file0.txt")

	for i := 0; i < common.OPEN_MAX; i++ {
		var fd = sys.Creat(string(filename))
		if fd == -1 {
			printf(sys, "Create File Failed!\n%s", filename)
		} else {
			sys.Write(fd, filename, len(filename))
			sys.Close(fd)
			sys.Unlink(string(filename))
		}

		filename[4]++
		if filename[4] == '9'+1 {
			filename[4] = 'a'
		}
	}

	printf(sys, "Create Nullpointer Test\n")
	assert(sys, sys.Creat("") == -1)
	printf(sys, "Create BadFile Test!\n")
	assert(sys, sys.Creat("!!!") == -1)

	printf(sys, "%d\n", sys.Write(common.STDIN, nil, 0))
	assert(sys, sys.Write(common.STDIN, nil, 1) == -1)
	assert(sys, sys.Write(-1, nil, 0) == 0)
	assert(sys, sys.Write(10000, nil, 514) == -1)
	assert(sys, sys.Write(10000, filename, 1) == -1)
	assert(sys, sys.Write(common.STDOUT, filename, -1) == -1)

	// Only the root process may halt.
	if sys.Pid() != common.ROOT_PROCESS {
		assert(sys, sys.Halt() == -1)
	}
	return 0
}

package fs

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jnwhiteh/userkernel/common"
	"github.com/jnwhiteh/userkernel/device"
	"github.com/jnwhiteh/userkernel/testutils"
)

// Start a file system on an in-memory device with a single process, whose
// console input is |stdin| and whose console output is collected.
func NewTestFileSystem(test *testing.T, stdin string) (*FileSystem, *Process, *bytes.Buffer) {
	stdout := new(bytes.Buffer)
	fs := NewFileSystem(device.NewMemDevice(0), common.NR_INODES, strings.NewReader(stdin), stdout)
	proc, err := fs.Spawn(common.ROOT_PROCESS)
	if err != nil {
		testutils.FatalHere(test, "Failed spawning root process: %s", err)
	}
	return fs, proc, stdout
}

// Exit every process given and shut the file system down.
func ShutdownTestFileSystem(test *testing.T, fs *FileSystem, procs ...*Process) {
	for _, proc := range procs {
		proc.Exit()
	}
	if err := fs.Shutdown(); err != nil {
		testutils.FatalHere(test, "Failed when shutting down filesystem: %s", err)
	}
}

func TestValidName(test *testing.T) {
	var cases = []struct {
		name string
		err  error
	}{
		{"fscrasher.coff", nil},
		{"TEST_file-01", nil},
		{strings.Repeat("n", common.NAME_MAX), nil},
		{strings.Repeat("n", common.NAME_MAX+1), common.ENAMETOOLONG},
		{"", common.EINVAL},
		{"!!!", common.EINVAL},
		{"dir/file", common.EINVAL},
		{"nul\x00byte", common.EINVAL},
		{"space name", common.EINVAL},
	}
	for _, c := range cases {
		if err := validName(c.name); err != c.err {
			testutils.ErrorHere(test, "validName(%q): expected %v, got %v", c.name, c.err, err)
		}
	}
}

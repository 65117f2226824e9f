package kernel

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jnwhiteh/userkernel/common"
	"github.com/jnwhiteh/userkernel/loader"
	"github.com/jnwhiteh/userkernel/programs"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a console which may be written by several processes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Boot a kernel with the bundled programs installed, plus |progs| installed
// as "<entry>.coff" images of a single page.
func newTestKernel(t *testing.T, cfg Config, progs map[string]loader.ProgramFunc) (*Kernel, *syncBuffer) {
	var out = new(syncBuffer)
	cfg.Stdout = out
	cfg.Registry = loader.NewRegistry()
	programs.Register(cfg.Registry)

	var k, err = New(cfg)
	require.NoError(t, err)

	for name, data := range programs.Images() {
		require.NoError(t, k.Install(name, data))
	}
	for entry, fn := range progs {
		cfg.Registry.Register(entry, fn)
		require.NoError(t, k.Install(entry+".coff", loader.Encode(&loader.Image{Entry: entry, Pages: 1})))
	}
	return k, out
}

func TestExecAndJoinTwentyChildren(t *testing.T) {
	var k, out = newTestKernel(t, Config{}, nil)

	var status, err = k.Run(context.Background(), programs.TestExecImage, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, status)

	assert.NotContains(t, out.String(), loader.AssertionFailed)
	assert.Equal(t, 10, strings.Count(out.String(), "Create BadFile Test!"))
	assert.True(t, strings.HasSuffix(out.String(), "done.\n"))
}

func TestScriptImages(t *testing.T) {
	for _, image := range []string{"deferred.coff", "join_twice.coff"} {
		var k, out = newTestKernel(t, Config{}, nil)

		var status, err = k.Run(context.Background(), image, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, status, image)
		assert.NotContains(t, out.String(), loader.AssertionFailed, image)
	}
}

func TestFaultedChildJoinsWithZero(t *testing.T) {
	var result, status int
	var k, _ = newTestKernel(t, Config{}, map[string]loader.ProgramFunc{
		"faulter": func(sys loader.Syscalls) int {
			var table []int
			return table[sys.Pid()] // index out of range
		},
		"root": func(sys loader.Syscalls) int {
			var pid = sys.Exec("faulter.coff", nil)
			result = sys.Join(pid, &status)
			return 0
		},
	})

	var rootStatus, err = k.Run(context.Background(), "root.coff", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, rootStatus)
	assert.Equal(t, 0, result)
	assert.Equal(t, common.EXIT_FAULT, status)
}

func TestExitStatusAndArgs(t *testing.T) {
	var results []int
	var args []string
	var k, _ = newTestKernel(t, Config{}, map[string]loader.ProgramFunc{
		"child": func(sys loader.Syscalls) int {
			args = sys.Args()
			func() {
				sys.Exit(7)
			}()
			panic("not reached")
		},
		"root": func(sys loader.Syscalls) int {
			var status int
			var pid = sys.Exec("child.coff", []string{"one", "two"})
			results = append(results, sys.Join(pid, &status), status)
			results = append(results, sys.Join(pid, nil))

			// Joining with a nil status still reclaims the child.
			pid = sys.Exec("child.coff", nil)
			results = append(results, sys.Join(pid, nil), sys.Join(pid, nil))
			return 3
		},
	})

	var status, err = k.Run(context.Background(), "root.coff", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, status)
	assert.Equal(t, []int{1, 7, -1, 1, -1}, results)
	assert.Nil(t, args) // from the second child
}

func TestExecFailures(t *testing.T) {
	var results = make(map[string]int)
	var k, _ = newTestKernel(t, Config{Pages: 20}, map[string]loader.ProgramFunc{
		"small": func(sys loader.Syscalls) int { return 0 },
		"root": func(sys loader.Syscalls) int {
			results["missing"] = sys.Exec("missing.coff", nil)
			results["invalid"] = sys.Exec("!!!", nil)
			results["malformed"] = sys.Exec("malformed.coff", nil)
			results["large"] = sys.Exec("large.coff", nil)
			results["e2big"] = sys.Exec("small.coff", []string{strings.Repeat("x", common.PAGE_SIZE)})

			// Pages are returned when a child terminates.
			for i := 0; i < 3; i++ {
				var pid = sys.Exec("small.coff", []string{strings.Repeat("x", common.PAGE_SIZE-5)})
				results["small"] += sys.Join(pid, nil)
			}
			return 0
		},
	})
	require.NoError(t, k.Install("malformed.coff", []byte("\x7fELF\x01\x01\x01")))
	require.NoError(t, k.Install("large.coff", loader.Encode(&loader.Image{Entry: "small", Pages: 11})))

	var _, err = k.Run(context.Background(), "root.coff", nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"missing":   -1,
		"invalid":   -1,
		"malformed": -1,
		"large":     -1,
		"e2big":     -1,
		"small":     3,
	}, results)
}

func TestProcessTableExhaustion(t *testing.T) {
	var pids []int
	var k, _ = newTestKernel(t, Config{Procs: 3}, map[string]loader.ProgramFunc{
		"small": func(sys loader.Syscalls) int { return 0 },
		"root": func(sys loader.Syscalls) int {
			// Exited children hold their pid until joined.
			var a, b = sys.Exec("small.coff", nil), sys.Exec("small.coff", nil)
			pids = append(pids, a, b, sys.Exec("small.coff", nil))
			sys.Join(a, nil)
			sys.Join(b, nil)
			pids = append(pids, sys.Exec("small.coff", nil))
			return 0
		},
	})

	var _, err = k.Run(context.Background(), "root.coff", nil)
	require.NoError(t, err)
	require.Len(t, pids, 4)
	assert.Equal(t, -1, pids[2])
	assert.True(t, pids[3] > 0)
}

func TestDeferredDeleteAcrossProcesses(t *testing.T) {
	var k *Kernel
	var seen []string
	var live []int

	k, _ = newTestKernel(t, Config{}, map[string]loader.ProgramFunc{
		"child": func(sys loader.Syscalls) int {
			var fd = sys.Open("shared")
			sys.Unlink("shared")
			var buf = make([]byte, 16)
			var n = sys.Read(fd, buf, len(buf))
			seen = append(seen, string(buf[:n]))
			return 0 // exits holding fd
		},
		"root": func(sys loader.Syscalls) int {
			var writer = sys.Creat("shared")
			var reader = sys.Open("shared")
			sys.Write(writer, []byte("abc"), 3)

			var before = len(k.fs.Inodes())
			sys.Join(sys.Exec("child.coff", nil), nil)

			// The name is gone, but the content is not.
			var buf = make([]byte, 16)
			var n = sys.Read(reader, buf, len(buf))
			seen = append(seen, string(buf[:n]))
			live = append(live, before, len(k.fs.Inodes()), sys.Open("shared"))

			sys.Close(writer)
			sys.Close(reader)
			live = append(live, len(k.fs.Inodes()))
			return 0
		},
	})

	var _, err = k.Run(context.Background(), "root.coff", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"abc", "abc"}, seen)

	// Inodes before the child, after it, the result of opening the name,
	// and after the last close.
	var installed = len(programs.Images()) + 2
	assert.Equal(t, []int{installed + 1, installed + 1, -1, installed}, live)
}

func TestNonRootHaltFails(t *testing.T) {
	var result int
	var k, _ = newTestKernel(t, Config{}, map[string]loader.ProgramFunc{
		"child": func(sys loader.Syscalls) int {
			result = sys.Halt()
			return 0
		},
		"root": func(sys loader.Syscalls) int {
			var status = -1
			sys.Join(sys.Exec("child.coff", nil), &status)
			return status
		},
	})

	var status, err = k.Run(context.Background(), "root.coff", nil)
	require.NoError(t, err)
	assert.Equal(t, -1, result)
	assert.Equal(t, 0, status)
}

func TestOnlyTheInitialProcessMayHalt(t *testing.T) {
	var pids, joins, statuses []int
	var finished bool

	var k, _ = newTestKernel(t, Config{Procs: 4}, map[string]loader.ProgramFunc{
		"impostor": func(sys loader.Syscalls) int {
			return sys.Halt()
		},
		"worker": func(sys loader.Syscalls) int {
			// Outlive the root, then cycle through every pid.
			time.Sleep(20 * time.Millisecond)
			for i := 0; i != 6; i++ {
				var status int
				var pid = sys.Exec("impostor.coff", nil)
				pids = append(pids, pid)
				joins = append(joins, sys.Join(pid, &status))
				statuses = append(statuses, status)
			}
			finished = true
			return 0
		},
		"root": func(sys loader.Syscalls) int {
			sys.Exec("worker.coff", nil)
			return 3
		},
	})

	var status, err = k.Run(context.Background(), "root.coff", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, status)
	assert.True(t, finished)

	require.Len(t, pids, 6)
	for i, pid := range pids {
		assert.True(t, pid > common.ROOT_PROCESS, "impostor pid %d", pid)
		assert.Equal(t, 1, joins[i])
		assert.Equal(t, -1, statuses[i])
	}
}

func TestRootHaltStopsEveryProcess(t *testing.T) {
	var writes int64
	var started = make(chan struct{})
	var once sync.Once

	var k, _ = newTestKernel(t, Config{}, map[string]loader.ProgramFunc{
		"spinner": func(sys loader.Syscalls) int {
			for {
				sys.Write(common.STDOUT, []byte("."), 1)
				atomic.AddInt64(&writes, 1)
				once.Do(func() { close(started) })
			}
		},
		"root": func(sys loader.Syscalls) int {
			sys.Exec("spinner.coff", nil)
			<-started
			sys.Halt()
			panic("not reached")
		},
	})

	var status, err = k.Run(context.Background(), "root.coff", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, status)
	assert.True(t, atomic.LoadInt64(&writes) > 0)
}

func TestOrphansRunToCompletion(t *testing.T) {
	var finished int32
	var k, _ = newTestKernel(t, Config{}, map[string]loader.ProgramFunc{
		"child": func(sys loader.Syscalls) int {
			time.Sleep(20 * time.Millisecond)
			atomic.StoreInt32(&finished, 1)
			return 0
		},
		"root": func(sys loader.Syscalls) int {
			sys.Exec("child.coff", nil)
			return 5 // without joining
		},
	})

	var status, err = k.Run(context.Background(), "root.coff", nil)
	require.NoError(t, err)
	assert.Equal(t, 5, status)
	assert.Equal(t, int32(1), atomic.LoadInt32(&finished))
}

func TestCancellationHalts(t *testing.T) {
	var ctx, cancel = context.WithCancel(context.Background())
	var k, _ = newTestKernel(t, Config{}, map[string]loader.ProgramFunc{
		"spinner": func(sys loader.Syscalls) int {
			for {
				sys.Write(common.STDOUT, []byte("."), 1)
			}
		},
		"root": func(sys loader.Syscalls) int {
			var pid = sys.Exec("spinner.coff", nil)
			cancel()
			sys.Join(pid, nil)
			panic("not reached")
		},
	})

	var status, err = k.Run(ctx, "root.coff", nil)
	require.NoError(t, err)
	assert.Equal(t, common.EXIT_FAULT, status)
}

func TestRootFault(t *testing.T) {
	var k, _ = newTestKernel(t, Config{}, map[string]loader.ProgramFunc{
		"root": func(sys loader.Syscalls) int { panic("boom") },
	})

	var status, err = k.Run(context.Background(), "root.coff", nil)
	require.NoError(t, err)
	assert.Equal(t, common.EXIT_FAULT, status)

	_, err = k.Run(context.Background(), "root.coff", nil)
	assert.EqualError(t, err, "kernel already started")
}

func TestRunMissingImage(t *testing.T) {
	var k, _ = newTestKernel(t, Config{}, nil)

	var _, err = k.Run(context.Background(), "missing.coff", nil)
	assert.Error(t, err)
}

func TestDumpAfterRun(t *testing.T) {
	var dump bytes.Buffer
	var k, _ = newTestKernel(t, Config{Dump: &dump}, map[string]loader.ProgramFunc{
		"root": func(sys loader.Syscalls) int {
			sys.Close(sys.Creat("left.txt"))
			return 0
		},
	})

	var _, err = k.Run(context.Background(), "root.coff", nil)
	require.NoError(t, err)
	assert.Contains(t, dump.String(), "left.txt")
	assert.Contains(t, dump.String(), "Processes (0)")
}

func TestDirDevice(t *testing.T) {
	var dir = t.TempDir()

	// Every boot starts and ends with an empty device directory.
	for i := 0; i != 3; i++ {
		var k, _ = newTestKernel(t, Config{DeviceDir: dir, DeviceCapacity: 1 << 20}, nil)

		var status, err = k.Run(context.Background(), "deferred.coff", nil)
		require.NoError(t, err)
		assert.Equal(t, 0, status)

		entries, err := afero.ReadDir(afero.NewOsFs(), dir)
		require.NoError(t, err)
		assert.Empty(t, entries, "boot %d", i)
	}
}

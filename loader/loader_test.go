package loader

import (
	"fmt"
	"testing"

	"github.com/jnwhiteh/userkernel/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSyscalls records the calls made by a program against a tiny model:
// creat and open hand out increasing descriptors, and exec hands out
// increasing pids which join reports as exited with status 0.
type fakeSyscalls struct {
	calls   []string
	console []byte
	nextFd  int
	nextPid int
	exited  *int
}

func (f *fakeSyscalls) log(format string, args ...interface{}) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeSyscalls) Pid() int       { return 1 }
func (f *fakeSyscalls) Args() []string { return nil }
func (f *fakeSyscalls) Creat(n string) int {
	f.log("creat %s", n)
	f.nextFd++
	return f.nextFd + 1
}
func (f *fakeSyscalls) Open(n string) int { f.log("open %s", n); return -1 }
func (f *fakeSyscalls) Read(fd int, buf []byte, count int) int {
	f.log("read %d %d", fd, count)
	return copy(buf, "abc")
}
func (f *fakeSyscalls) Write(fd int, buf []byte, count int) int {
	if fd == common.STDOUT {
		f.console = append(f.console, buf[:count]...)
		return count
	}
	f.log("write %d %q %d", fd, buf, count)
	if buf == nil && count != 0 {
		return -1
	}
	return count
}
func (f *fakeSyscalls) Close(fd int) int    { f.log("close %d", fd); return 0 }
func (f *fakeSyscalls) Unlink(n string) int { f.log("unlink %s", n); return 0 }
func (f *fakeSyscalls) Exec(n string, argv []string) int {
	f.log("exec %s %v", n, argv)
	f.nextPid++
	return f.nextPid
}
func (f *fakeSyscalls) Join(pid int, status *int) int {
	f.log("join %d", pid)
	if status != nil {
		*status = 0
	}
	return 1
}
func (f *fakeSyscalls) Exit(status int) { f.exited = &status }
func (f *fakeSyscalls) Halt() int       { f.log("halt"); return -1 }

func TestDecode(t *testing.T) {
	var reg = NewRegistry()
	var prog = ProgramFunc(func(Syscalls) int { return 7 })
	reg.Register("main", prog)

	var img, err = Decode([]byte("entry: main\npages: 4\n"), reg)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Pages)
	assert.Equal(t, 7, img.Program.Run(nil))

	for _, bad := range []string{
		"entry: missing\npages: 1\n",  // unregistered entry
		"pages: 1\n",                  // no entry
		"entry: main\npages: -1\n",    // negative pages
		"entry: main\nbogus: field\n", // unknown field
		"\x7fELF\x02\x01\x01",         // not a descriptor at all
		"entry: script\nscript:\n  - call: fork\n",
		"entry: script\nscript:\n  - call: close\n    fd: $fd\n",
		"entry: script\nscript:\n  - call: exit\n    status: zero\n",
	} {
		var _, err = Decode([]byte(bad), reg)
		assert.Equal(t, common.ENOEXEC, errors.Cause(err), "decoding %q", bad)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	var count = 3
	var img = &Image{
		Entry: ScriptEntry,
		Pages: 2,
		Script: []Step{
			{Call: "creat", Name: "out", As: "fd", Expect: "ok"},
			{Call: "write", Fd: "$fd", Data: "hello", Count: &count, Expect: "3"},
		},
	}
	var out, err = Decode(Encode(img), NewRegistry())
	require.NoError(t, err)
	assert.Equal(t, img.Script, out.Script)
	assert.Equal(t, 2, out.Pages)
}

func TestRegistryPanicsOnDuplicate(t *testing.T) {
	var reg = NewRegistry()
	var prog = ProgramFunc(func(Syscalls) int { return 0 })
	reg.Register("main", prog)

	assert.Panics(t, func() { reg.Register("main", prog) })
	assert.Panics(t, func() { reg.Register(ScriptEntry, prog) })
}

func TestScriptMakesCalls(t *testing.T) {
	var img, err = Decode([]byte(`
entry: script
pages: 1
script:
  - call: creat
    name: file{i}.txt
    as: fd
    expect: ok
    repeat: 2
  - call: write
    fd: $fd
    data: "data {i}"
    expect: 6
  - call: write
    fd: $fd
    null: true
    count: 0
    expect: 0
  - call: read
    fd: $fd
    count: 8
    data: abc
  - call: close
    fd: $fd
    expect: 0
  - call: exec
    name: child
    args: [a, b]
    as: pid
    expect: positive
  - call: join
    pid: $pid
    status: status
    expect: 1
  - call: print
    data: "done.\n"
  - call: halt
    expect: fail
`), NewRegistry())
	require.NoError(t, err)

	var sys = new(fakeSyscalls)
	assert.Equal(t, 0, img.Program.Run(sys))
	assert.Nil(t, sys.exited)
	assert.Equal(t, []string{
		"creat file0.txt",
		"creat file1.txt",
		`write 3 "data 0" 6`,
		`write 3 "" 0`,
		"read 3 8",
		"close 3",
		"exec child [a b]",
		"join 1",
		"halt",
	}, sys.calls)
	assert.Equal(t, "done.\n", string(sys.console))
}

func TestScriptAssertionFailure(t *testing.T) {
	var img, err = Decode([]byte(`
entry: script
script:
  - call: open
    name: missing
    expect: ok
  - call: print
    data: unreachable
`), NewRegistry())
	require.NoError(t, err)

	var sys = new(fakeSyscalls)
	assert.Equal(t, 1, img.Program.Run(sys))
	require.NotNil(t, sys.exited)
	assert.Equal(t, 1, *sys.exited)
	assert.Equal(t, AssertionFailed, string(sys.console))
}

type fakeSource struct {
	data    map[string][]byte
	version uint64
	reads   int
}

func (s *fakeSource) Stat(name string) (common.InodeInfo, error) {
	if _, ok := s.data[name]; !ok {
		return common.InodeInfo{}, common.ENOENT
	}
	return common.InodeInfo{Key: name, Version: s.version}, nil
}

func (s *fakeSource) ReadFile(name string) ([]byte, common.InodeInfo, error) {
	var info, err = s.Stat(name)
	s.reads++
	return s.data[name], info, err
}

func TestCacheReloadsChangedImages(t *testing.T) {
	var reg = NewRegistry()
	reg.Register("a", ProgramFunc(func(Syscalls) int { return 1 }))
	reg.Register("b", ProgramFunc(func(Syscalls) int { return 2 }))

	var src = &fakeSource{data: map[string][]byte{
		"prog":   []byte("entry: a\npages: 1\n"),
		"broken": []byte("entry: [\n"),
	}}
	var cache = NewCache(src, reg, 4)

	var img, err = cache.Load("prog")
	require.NoError(t, err)
	assert.Equal(t, 1, img.Program.Run(nil))

	img2, _ := cache.Load("prog")
	assert.True(t, img == img2)
	assert.Equal(t, 1, src.reads)

	// A new version of the file is decoded afresh.
	src.data["prog"] = []byte("entry: b\npages: 1\n")
	src.version++
	img, err = cache.Load("prog")
	require.NoError(t, err)
	assert.Equal(t, 2, img.Program.Run(nil))
	assert.Equal(t, 2, src.reads)
	assert.Equal(t, 2, cache.Len())

	_, err = cache.Load("missing")
	assert.Equal(t, common.ENOENT, err)
	_, err = cache.Load("broken")
	assert.Equal(t, common.ENOEXEC, errors.Cause(err))
}

// Package proc tracks the identity, parentage and exit status of every
// process, and lets a parent block until a child terminates.
package proc

import (
	"sort"
	"sync"

	"github.com/jnwhiteh/userkernel/alloctbl"
	"github.com/jnwhiteh/userkernel/common"
	"github.com/jnwhiteh/userkernel/metrics"
	log "github.com/sirupsen/logrus"
)

// State is the position of a process in its lifecycle.
type State int

const (
	Spawned State = iota
	Running
	Exited
	Faulted
)

func (s State) String() string {
	switch s {
	case Spawned:
		return "spawned"
	case Running:
		return "running"
	case Exited:
		return "exited"
	case Faulted:
		return "faulted"
	}
	return "unknown"
}

// Terminated is true once the process has exited or faulted.
func (s State) Terminated() bool { return s == Exited || s == Faulted }

// Record is a point-in-time view of a process.
type Record struct {
	Pid      int
	Parent   int // NO_PARENT for the root process and orphans
	State    State
	Status   int // valid once terminated
	Children []int
}

type record struct {
	pid      int
	parent   int
	state    State
	status   int
	joining  bool
	children map[int]*record
}

// Table is the process table. Records are reclaimed once joined by their
// parent or, lacking a parent able to join, as soon as they terminate. Every
// pid but ROOT_PROCESS is then available for reuse.
type Table struct {
	pids common.AllocTbl

	records map[int]*record
	live    int
	halted  bool
	done    chan struct{}

	// |cond| signals to blocked Join operations that a process terminated.
	cond *sync.Cond
	mu   sync.Mutex
}

// NewTable returns a Table with room for |size| unreclaimed processes.
func NewTable(size int) *Table {
	var t = &Table{
		pids:    alloctbl.NewAllocTbl("pids", size, common.EAGAIN, true),
		records: make(map[int]*record),
		done:    make(chan struct{}),
	}
	t.cond = sync.NewCond(&t.mu)
	return t
}

// Add creates a record for a new process with the given parent, which is
// NO_PARENT for the root process. It fails with EAGAIN when every pid is in
// use.
func (t *Table) Add(parent int) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.halted {
		return -1, common.EAGAIN
	}
	var p *record
	if parent != common.NO_PARENT {
		if p = t.records[parent]; p == nil || p.state.Terminated() {
			return -1, common.ECHILD
		}
	}

	var pid, err = t.pids.Alloc()
	if err != nil {
		return -1, err
	}
	var r = &record{
		pid:      pid,
		parent:   parent,
		state:    Spawned,
		children: make(map[int]*record),
	}
	t.records[pid] = r
	if p != nil {
		p.children[pid] = r
	}
	t.live++

	metrics.ProcessesLive.Inc()
	metrics.ProcessesSpawnedTotal.Inc()
	return pid, nil
}

// Start marks a spawned process as running.
func (t *Table) Start(pid int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var r = t.mustGet(pid)
	if r.state != Spawned {
		log.WithFields(log.Fields{"pid": pid, "state": r.state}).Panic("starting process twice")
	}
	r.state = Running
}

// Abort removes a process which was added but never started.
func (t *Table) Abort(pid int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var r = t.mustGet(pid)
	if r.state != Spawned {
		log.WithFields(log.Fields{"pid": pid, "state": r.state}).Panic("aborting started process")
	}
	t.live--
	metrics.ProcessesLive.Dec()
	t.reclaim(r)
	t.signalDone()
}

// Exit records the termination of |pid|. The status is written once: a
// second termination of the same process is a kernel bug and panics.
func (t *Table) Exit(pid, status int, faulted bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var r = t.mustGet(pid)
	if r.state.Terminated() {
		log.WithFields(log.Fields{"pid": pid, "status": r.status}).Panic("process terminated twice")
	}

	r.status = status
	if r.state = Exited; faulted {
		r.state = Faulted
		metrics.ProcessesFaultedTotal.Inc()
	}
	t.live--
	metrics.ProcessesLive.Dec()

	// Terminated children can no longer be joined, and running ones are
	// orphaned and reclaimed when they terminate.
	for _, child := range r.children {
		if child.state.Terminated() {
			t.reclaim(child)
		} else {
			child.parent = common.NO_PARENT
		}
	}
	r.children = nil

	if r.parent == common.NO_PARENT {
		t.reclaim(r)
	}

	t.cond.Broadcast()
	t.signalDone()
}

// Join blocks until |pid|, which must be an unjoined child of |parent|,
// terminates. It then reclaims the child and returns its exit status and
// whether it faulted. Join fails with ECHILD if |pid| is not a child of
// |parent| or another join of it is underway, and with EFAULTED if the table
// is halted first.
func (t *Table) Join(parent, pid int) (int, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var r = t.records[pid]
	if r == nil || r.parent != parent || parent == common.NO_PARENT || r.joining {
		return 0, false, common.ECHILD
	}

	r.joining = true
	for !r.state.Terminated() {
		if t.halted {
			r.joining = false
			return 0, false, common.EFAULTED
		}
		t.cond.Wait()
	}
	t.reclaim(r)

	return r.status, r.state == Faulted, nil
}

// Halt wakes every blocked Join and refuses further processes.
func (t *Table) Halt() {
	t.mu.Lock()
	t.halted = true
	t.cond.Broadcast()
	t.mu.Unlock()
}

func (t *Table) Halted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.halted
}

// Live returns the number of processes which have not terminated.
func (t *Table) Live() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live
}

// Done is closed once a process has been added and every process since
// terminated.
func (t *Table) Done() <-chan struct{} { return t.done }

// Records returns a snapshot of every unreclaimed process, ordered by pid.
func (t *Table) Records() []Record {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out = make([]Record, 0, len(t.records))
	for _, r := range t.records {
		var rec = Record{
			Pid:    r.pid,
			Parent: r.parent,
			State:  r.state,
			Status: r.status,
		}
		for pid := range r.children {
			rec.Children = append(rec.Children, pid)
		}
		sort.Ints(rec.Children)
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pid < out[j].Pid })
	return out
}

// Shutdown releases the pid allocator. The table may not be used afterwards.
func (t *Table) Shutdown() error {
	return t.pids.Shutdown()
}

func (t *Table) mustGet(pid int) *record {
	var r = t.records[pid]
	if r == nil {
		log.WithField("pid", pid).Panic("no such process")
	}
	return r
}

// Remove |r| from the table and its parent, freeing its pid. The root's pid
// is never freed, so no later process can be mistaken for the root.
func (t *Table) reclaim(r *record) {
	if p := t.records[r.parent]; p != nil && p.children != nil {
		delete(p.children, r.pid)
	}
	delete(t.records, r.pid)
	if r.pid != common.ROOT_PROCESS {
		t.pids.Free(r.pid)
	}

	log.WithFields(log.Fields{"pid": r.pid, "status": r.status, "state": r.state}).
		Debug("reclaimed process")
}

func (t *Table) signalDone() {
	if t.live == 0 {
		select {
		case <-t.done:
		default:
			close(t.done)
		}
	}
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Keys for syscall result labels.
const (
	Fail = "fail"
	Ok   = "ok"
)

// Collectors for the file system.
var (
	FilesLive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nachos_files",
		Help: "Number of file identities currently held on the device.",
	})
	FilesOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nachos_files_open",
		Help: "Number of file identities with at least one open reference.",
	})
	FilesDestroyedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nachos_files_destroyed_total",
		Help: "Cumulative number of file identities destroyed.",
	})
	DeferredDeletesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nachos_deferred_deletes_total",
		Help: "Cumulative number of unlinks of files which were still open.",
	})
	BytesWrittenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nachos_write_bytes_total",
		Help: "Cumulative number of bytes written to files and the console.",
	})
	BytesReadTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nachos_read_bytes_total",
		Help: "Cumulative number of bytes read from files and the console.",
	})
)

// Collectors for processes and the syscall surface.
var (
	SyscallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nachos_syscalls_total",
		Help: "Cumulative number of syscalls, by call and result.",
	}, []string{"call", "result"})
	ProcessesLive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nachos_processes",
		Help: "Number of processes which have not yet terminated.",
	})
	ProcessesSpawnedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nachos_processes_spawned_total",
		Help: "Cumulative number of processes created by exec.",
	})
	ProcessesFaultedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nachos_processes_faulted_total",
		Help: "Cumulative number of processes terminated by a fault.",
	})
	PagesInUse = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nachos_pages_in_use",
		Help: "Number of physical pages held by live processes.",
	})
)

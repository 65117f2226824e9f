// Package debug renders the kernel tables for humans.
package debug

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jnwhiteh/userkernel/common"
	"github.com/jnwhiteh/userkernel/proc"
	"github.com/olekukonko/tablewriter"
)

// PrintFiles writes a table of every live inode and the names bound to it.
// Inodes which are unlinked but still open are shown without a name.
func PrintFiles(w io.Writer, names map[string]int, inodes []common.InodeInfo, used int64) {
	var byInum = make(map[int][]string)
	for name, inum := range names {
		byInum[inum] = append(byInum[inum], name)
	}

	fmt.Fprintf(w, "Files (%d live, %s stored)\n", len(inodes), humanize.IBytes(uint64(used)))

	var table = tablewriter.NewWriter(w)
	table.Header("Inode", "Name", "Open", "Size", "Version", "Unlinked", "Key")
	for _, info := range inodes {
		var bound = byInum[info.Inum]
		sort.Strings(bound)

		table.Append([]string{
			strconv.Itoa(info.Inum),
			strings.Join(bound, ","),
			strconv.Itoa(info.Count),
			humanize.IBytes(uint64(info.Size)),
			strconv.FormatUint(info.Version, 10),
			strconv.FormatBool(info.Unlinked),
			info.Key,
		})
	}
	table.Render()
}

// PrintProcesses writes a table of every unreclaimed process.
func PrintProcesses(w io.Writer, records []proc.Record) {
	fmt.Fprintf(w, "Processes (%d)\n", len(records))

	var table = tablewriter.NewWriter(w)
	table.Header("Pid", "Parent", "State", "Status", "Children")
	for _, r := range records {
		var status, parent string
		if r.State.Terminated() {
			status = strconv.Itoa(r.Status)
		}
		if r.Parent != common.NO_PARENT {
			parent = strconv.Itoa(r.Parent)
		}
		var children = make([]string, len(r.Children))
		for i, c := range r.Children {
			children[i] = strconv.Itoa(c)
		}

		table.Append([]string{
			strconv.Itoa(r.Pid),
			parent,
			r.State.String(),
			status,
			strings.Join(children, ","),
		})
	}
	table.Render()
}

package fs

import (
	"github.com/jnwhiteh/userkernel/common"
)

// validName checks that |name| is non-empty, no longer than NAME_MAX, and
// made up only of ASCII letters, digits, '.', '_' and '-'.
func validName(name string) error {
	if len(name) == 0 {
		return common.EINVAL
	} else if len(name) > common.NAME_MAX {
		return common.ENAMETOOLONG
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		case c == '.', c == '_', c == '-':
		default:
			return common.EINVAL
		}
	}
	return nil
}

// Find an available slot in the descriptor table of |proc|
func freeSlot(proc *Process) int {
	for i := 0; i < len(proc.files); i++ {
		if proc.files[i] == nil {
			return i
		}
	}
	return -1
}

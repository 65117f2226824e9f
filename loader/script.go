package loader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jnwhiteh/userkernel/common"
	"github.com/pkg/errors"
)

// AssertionFailed is written to the console when a script expectation does
// not hold, before the program exits with status 1.
const AssertionFailed = "Assertion Failed!\n"

// Step is a single system call made by a script.
//
// Integer operands (Fd, Pid, Status of exit, Expect) are either literals or
// "$name" references to a variable bound by the As (or, for join, Status)
// field of an earlier step. Within Name and Data, "{i}" is replaced with the
// iteration number of a repeated step.
type Step struct {
	Call string `yaml:"call"`

	Name  string   `yaml:"name,omitempty"`
	Fd    string   `yaml:"fd,omitempty"`
	Data  string   `yaml:"data,omitempty"`
	Count *int     `yaml:"count,omitempty"` // defaults to len(Data)
	Null  bool     `yaml:"null,omitempty"`  // pass a nil buffer
	Pid   string   `yaml:"pid,omitempty"`
	Args  []string `yaml:"args,omitempty"`
	// Status is the status of exit, or the variable receiving the status
	// of join.
	Status string `yaml:"status,omitempty"`

	// As binds the result of the call to a variable.
	As string `yaml:"as,omitempty"`
	// Expect checks the result of the call: "ok" (not -1), "fail" (-1),
	// "positive", or an integer operand.
	Expect string `yaml:"expect,omitempty"`
	// Repeat runs the step this many times.
	Repeat int `yaml:"repeat,omitempty"`
}

var scriptCalls = map[string]bool{
	"creat": true, "open": true, "read": true, "write": true, "close": true,
	"unlink": true, "exec": true, "join": true, "exit": true, "halt": true,
	"print": true,
}

// Script returns a Program which makes the system calls of |steps| in turn.
// A failed expectation prints AssertionFailed and exits with status 1.
func Script(steps []Step) Program {
	return ProgramFunc(func(sys Syscalls) int {
		var vars = make(map[string]int)

		for _, step := range steps {
			var n = step.Repeat
			if n == 0 {
				n = 1
			}
			for i := 0; i < n; i++ {
				if !runStep(sys, step, i, vars) {
					sys.Write(common.STDOUT, []byte(AssertionFailed), len(AssertionFailed))
					sys.Exit(1)
					return 1
				}
			}
		}
		return 0
	})
}

func runStep(sys Syscalls, step Step, iter int, vars map[string]int) bool {
	var name = strings.Replace(step.Name, "{i}", strconv.Itoa(iter), -1)
	var data = []byte(strings.Replace(step.Data, "{i}", strconv.Itoa(iter), -1))
	var count = len(data)
	if step.Count != nil {
		count = *step.Count
	}
	var buf = data
	if step.Null {
		buf = nil
	}

	var result int
	switch step.Call {
	case "creat":
		result = sys.Creat(name)
	case "open":
		result = sys.Open(name)
	case "write":
		result = sys.Write(operand(step.Fd, vars), buf, count)
	case "print":
		result = sys.Write(common.STDOUT, data, len(data))
	case "read":
		var into []byte
		if !step.Null && count > 0 {
			into = make([]byte, count)
		} else if !step.Null {
			into = []byte{}
		}
		result = sys.Read(operand(step.Fd, vars), into, count)
		if step.Data != "" && (result < 0 || string(into[:result]) != string(data)) {
			return false
		}
	case "close":
		result = sys.Close(operand(step.Fd, vars))
	case "unlink":
		result = sys.Unlink(name)
	case "exec":
		result = sys.Exec(name, step.Args)
	case "join":
		var status int
		if step.Status != "" {
			result = sys.Join(operand(step.Pid, vars), &status)
			vars[step.Status] = status
		} else {
			result = sys.Join(operand(step.Pid, vars), nil)
		}
	case "exit":
		sys.Exit(operand(step.Status, vars))
	case "halt":
		result = sys.Halt()
	}

	if step.As != "" {
		vars[step.As] = result
	}

	switch step.Expect {
	case "":
		return true
	case "ok":
		return result != -1
	case "fail":
		return result == -1
	case "positive":
		return result > 0
	default:
		return result == operand(step.Expect, vars)
	}
}

// Resolve a validated integer operand.
func operand(s string, vars map[string]int) int {
	if strings.HasPrefix(s, "$") {
		return vars[s[1:]]
	}
	var v, _ = strconv.Atoi(s)
	return v
}

// validateScript checks that every step names a known call and that every
// operand is an integer or a variable bound by an earlier step.
func validateScript(steps []Step) error {
	var bound = make(map[string]bool)

	var check = func(idx int, field, s string) error {
		if s == "" {
			return nil
		} else if strings.HasPrefix(s, "$") {
			if !bound[s[1:]] {
				return fmt.Errorf("step %d: %s refers to unbound variable %s", idx, field, s)
			}
		} else if _, err := strconv.Atoi(s); err != nil {
			return errors.Wrapf(err, "step %d: %s", idx, field)
		}
		return nil
	}

	for idx, step := range steps {
		if !scriptCalls[step.Call] {
			return fmt.Errorf("step %d: unknown call %q", idx, step.Call)
		} else if step.Repeat < 0 {
			return fmt.Errorf("step %d: invalid repeat %d", idx, step.Repeat)
		}

		var operands = [][2]string{{"fd", step.Fd}, {"pid", step.Pid}}
		if step.Call == "exit" {
			operands = append(operands, [2]string{"status", step.Status})
		}
		switch step.Expect {
		case "ok", "fail", "positive":
		default:
			operands = append(operands, [2]string{"expect", step.Expect})
		}
		for _, o := range operands {
			if err := check(idx, o[0], o[1]); err != nil {
				return err
			}
		}

		if step.As != "" {
			bound[step.As] = true
		}
		if step.Call == "join" && step.Status != "" {
			bound[step.Status] = true
		}
	}
	return nil
}

// Package testutils holds helpers which report failures at the line of the
// calling test rather than inside the helper.
package testutils

import (
	"fmt"
	"runtime"
	"testing"
)

func ErrorHere(test testing.TB, str string, args ...interface{}) {
	_, file, line, _ := runtime.Caller(1)
	info := fmt.Sprintf("[%s:%d] ", file, line)
	test.Errorf(info+str, args...)
}

func FatalHere(test testing.TB, str string, args ...interface{}) {
	_, file, line, _ := runtime.Caller(1)
	info := fmt.Sprintf("[%s:%d] ", file, line)
	test.Fatalf(info+str, args...)
}

// Errno fails the test unless |err| is exactly |expected|.
func Errno(test testing.TB, err, expected error) {
	if err != expected {
		_, file, line, _ := runtime.Caller(1)
		test.Errorf("[%s:%d] expected error %v, got %v", file, line, expected, err)
	}
}

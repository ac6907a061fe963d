//go:build windows
// +build windows

package sysutil

import "errors"

// RlimitNoFile is not supported on windows, there is no per-process limit of open sockets to check.
func RlimitNoFile() (cur uint64, err error) {
	return 0, errors.New("limit of open files is not available on windows")
}

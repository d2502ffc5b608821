// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"os"
	"os/exec"
)

// BinaryChecker reports whether the bus tool can be resolved.
type BinaryChecker struct {
	name   string
	binary string
}

// NewBinaryChecker creates a checker for an executable name or path.
func NewBinaryChecker(name, binary string) *BinaryChecker {
	return &BinaryChecker{name: name, binary: binary}
}

func (c *BinaryChecker) Name() string {
	return c.name
}

func (c *BinaryChecker) Check(context.Context) CheckResult {
	path, err := exec.LookPath(c.binary)
	if err != nil {
		return CheckResult{
			Status:  StatusUnhealthy,
			Error:   err.Error(),
			Message: c.binary,
		}
	}
	return CheckResult{Status: StatusHealthy, Message: path}
}

// SocketChecker reports whether the ubusd socket exists.
type SocketChecker struct {
	name string
	path string
}

// NewSocketChecker creates a checker for a unix socket path.
func NewSocketChecker(name, path string) *SocketChecker {
	return &SocketChecker{name: name, path: path}
}

func (c *SocketChecker) Name() string {
	return c.name
}

func (c *SocketChecker) Check(context.Context) CheckResult {
	info, err := os.Stat(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return CheckResult{
				Status:  StatusUnhealthy,
				Error:   "socket not found",
				Message: c.path,
			}
		}
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}
	if info.Mode()&os.ModeSocket == 0 {
		return CheckResult{
			Status:  StatusUnhealthy,
			Error:   "not a socket",
			Message: c.path,
		}
	}
	return CheckResult{Status: StatusHealthy, Message: c.path}
}

// FuncChecker adapts a predicate. A false result is reported with the
// given status, typically StatusDegraded for optional components.
type FuncChecker struct {
	name    string
	ok      func() bool
	failed  Status
	message string
}

// NewFuncChecker creates a checker around ok.
func NewFuncChecker(name string, ok func() bool, failed Status, message string) *FuncChecker {
	return &FuncChecker{name: name, ok: ok, failed: failed, message: message}
}

func (c *FuncChecker) Name() string {
	return c.name
}

func (c *FuncChecker) Check(context.Context) CheckResult {
	if c.ok() {
		return CheckResult{Status: StatusHealthy}
	}
	return CheckResult{Status: c.failed, Message: c.message}
}

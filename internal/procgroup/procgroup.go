// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package procgroup runs child processes in their own process group so a
// cancelled command takes its descendants with it.
package procgroup

import (
	"os/exec"
	"time"
)

// WaitDelay bounds how long Wait keeps reading output after the group was
// killed.
const WaitDelay = time.Second

// Bind puts cmd in a new process group and makes context cancellation kill
// the whole group instead of only the leader. Call it before Start on a
// command built with exec.CommandContext.
func Bind(cmd *exec.Cmd) {
	Set(cmd)
	cmd.Cancel = func() error { return Kill(cmd) }
	cmd.WaitDelay = WaitDelay
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package ubus talks to the OpenWrt system bus.
//
// Data calls go through the ubus command-line tool (CLI), one process per
// call. Object discovery uses a persistent connection to the ubusd control
// socket (Conn). Both are wrapped by Client, which the session layer uses
// through the Caller interface.
package ubus

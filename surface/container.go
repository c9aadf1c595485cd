// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

// Container holds the canvas a widget draws into.
type Container interface {
	// Mount installs c, replacing any existing content.
	Mount(c *Canvas)

	// Unmount detaches c if it is mounted and reports whether it was.
	Unmount(c *Canvas) bool
}

// SPDX-License-Identifier: Apache-2.0

// Package version holds build information set through -ldflags.
package version

var (
	// Version is the release version.
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = "none"
)

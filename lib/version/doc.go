// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build information for the argot binary.
//
// Three package-level variables may be injected at build time via
// -ldflags -X:
//
//   - [GitCommit] -- short git SHA of the build
//   - [BuildTime] -- UTC timestamp of the build
//   - [Version] -- semantic version string (set manually for releases)
//
// When they are not injected, the module version and VCS settings
// recorded by the Go toolchain (runtime/debug.ReadBuildInfo) fill the
// gaps, so "go install" builds still report a useful version.
package version

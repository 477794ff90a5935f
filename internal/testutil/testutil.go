// Package testutil provides test helpers for phishcoach tests.
//
// The package is organized into focused files:
//   - assert.go: assertion helpers (MustNoErr, AssertStrings, etc.)
//   - fs_helpers.go: writing sample files into temp directories
//   - encoding.go: legacy-charset byte samples
//
// The email subpackage builds raw .eml training samples.
package testutil

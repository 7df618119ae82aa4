// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// Fatal resolution errors (missing configuration, unparsable inventory files,
// membership cycles) are wrapped in an ActionableError that carries the failed
// operation, the file or entity involved, and remediation suggestions shown by
// the CLI.
package issue

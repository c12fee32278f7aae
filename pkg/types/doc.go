// Package types holds the result values shared by the executor, the
// snapshot walker and the reporters.
package types

// Package core implements skeletor's operations on top of the tree
// engine.
//
// # Apply
//
// Apply turns a declarative document into directories and files:
//
//	document -> tasks.Plan -> tasks.Filter -> executor.Execute
//
// The plan is breadth first, so every directory is created before anything
// inside it. Existing directories are left alone and existing files are
// skipped unless overwrite is set. A dry run classifies each task the same
// way and reports a preview instead of touching the target.
//
// # Snapshot
//
// Snapshot walks an existing directory and produces the document that
// apply would need to recreate it:
//
//	directory -> snapshot.Walker -> snapshot.BuildDocument -> YAML
//
// Ignore patterns prune the walk. Binary files are kept with empty content
// and listed in generated_comments. When the output file already exists
// its created timestamp is carried over.
//
// Neither operation prints. Progress and summaries go to a
// reporter.Reporter.
package core

package skeletor

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Turn directory trees into YAML and back"
	MsgApplyShort      = "Create the tree described by a declarative file"
	MsgSnapshotShort   = "Capture a directory into a declarative file"
	MsgInfoShort       = "Show the metadata of a declarative file"
	MsgGenConfigShort  = "Print the default settings"
	MsgTopicsShort     = "Display available documentation topics"
	MsgTopicsLong      = "Display a list of all available help topics that provide additional documentation beyond command help."
	MsgCompletionShort = "Generate shell completion script"
	MsgVersionShort    = "Print version information"

	// Info output
	MsgInfoHeader      = "Information from %s:\n"
	MsgInfoCreated     = "Created: %s\n"
	MsgInfoNoCreated   = "No created timestamp available."
	MsgInfoUpdated     = "Updated: %s\n"
	MsgInfoNoUpdated   = "No updated timestamp available."
	MsgInfoComments    = "Generated comments:"
	MsgInfoNotes       = "Notes:"
	MsgInfoStats       = "Stats: %d files, %d directories\n"
	MsgInfoStaleStats  = "Tree holds %d files, %d directories\n"
	MsgInfoBlacklist   = "Ignore patterns:"
	MsgInfoItem        = "  %s\n"
	MsgInfoNoDirectory = "Warning: no directories key, apply will refuse this file."

	// Error messages
	MsgErrLoadSettings = "failed to load settings: %w"
	MsgErrFormat       = "invalid --format: %w"
	MsgErrApplyFailed  = "%d of %d entries failed"
	MsgErrSnapFailed   = "%d entries could not be captured"
	MsgErrStdoutOutput = "--stdout and --output cannot be combined"

	// Flag descriptions
	MsgFlagVerbose         = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagFormat          = "Output format: auto, term, text or json"
	MsgFlagConfig          = "Settings file (default $XDG_CONFIG_HOME/skeletor/config.toml)"
	MsgFlagDryRun          = "Preview changes without executing them"
	MsgFlagApplyOutput     = "Directory to create the tree in"
	MsgFlagOverwrite       = "Overwrite files that already exist"
	MsgFlagSnapshotOutput  = "File to write the snapshot to (default .skeletorrc)"
	MsgFlagStdout          = "Print the snapshot instead of writing it"
	MsgFlagExcludeContents = "Record files with empty contents"
	MsgFlagExcludeHidden   = "Leave out dot files and dot directories"
	MsgFlagIgnore          = "Ignore pattern, or a file of patterns (repeatable)"
	MsgFlagIgnoreFile      = "File of ignore patterns (repeatable)"
	MsgFlagNote            = "Note to store in the snapshot"
	MsgFlagEffective       = "Print the settings in use instead of the defaults"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/apply-long.txt
	msgApplyLongRaw string
	MsgApplyLong    = strings.TrimSpace(msgApplyLongRaw)

	//go:embed msgs/apply-example.txt
	msgApplyExampleRaw string
	MsgApplyExample    = strings.TrimRight(msgApplyExampleRaw, "\n")

	//go:embed msgs/snapshot-long.txt
	msgSnapshotLongRaw string
	MsgSnapshotLong    = strings.TrimSpace(msgSnapshotLongRaw)

	//go:embed msgs/snapshot-example.txt
	msgSnapshotExampleRaw string
	MsgSnapshotExample    = strings.TrimRight(msgSnapshotExampleRaw, "\n")

	//go:embed msgs/info-long.txt
	msgInfoLongRaw string
	MsgInfoLong    = strings.TrimSpace(msgInfoLongRaw)

	//go:embed msgs/genconfig-long.txt
	msgGenConfigLongRaw string
	MsgGenConfigLong    = strings.TrimSpace(msgGenConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)

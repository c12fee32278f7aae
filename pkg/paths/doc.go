// Package paths resolves the filesystem locations skeletor works with.
//
// Command line paths may start with "~", which is expanded to the user's
// home directory before they are made absolute. Tool state follows the XDG
// Base Directory specification:
//
//	$XDG_CONFIG_HOME/skeletor/config.toml   settings file
//	$XDG_STATE_HOME/skeletor/skeletor.log   log file
//
// SKELETOR_CONFIG_DIR and SKELETOR_STATE_DIR override the two directories.
package paths

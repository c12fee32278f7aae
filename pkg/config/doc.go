// Package config loads skeletor's tool settings.
//
// Settings are layered with koanf: the embedded defaults, then the user
// settings file (TOML, or YAML when the name ends in .yaml or .yml), then
// SKELETOR_* environment variables. These settings tune the CLI. They are
// unrelated to the declarative tree files apply reads.
package config

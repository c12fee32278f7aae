// Package skeletor is the command line interface: the cobra command tree,
// its messages and its help topics.
package skeletor

import (
	"embed"
	"fmt"
	"io"

	"github.com/arthur-debert/skeletor/internal/version"
	"github.com/arthur-debert/skeletor/pkg/cobrax/topics"
	"github.com/arthur-debert/skeletor/pkg/config"
	"github.com/arthur-debert/skeletor/pkg/logging"
	"github.com/arthur-debert/skeletor/pkg/reporter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed topics
var topicFiles embed.FS

// rootOptions holds the global flags and the settings they select.
type rootOptions struct {
	verbosity  int
	format     string
	configPath string

	settings *config.Config
}

// reporterFor builds the reporter for w from --format and the settings.
func (o *rootOptions) reporterFor(w io.Writer, runID string) (reporter.Reporter, error) {
	name := o.format
	if name == "" {
		name = o.settings.Output.Format
	}
	format, err := reporter.ParseFormat(name)
	if err != nil {
		return nil, fmt.Errorf(MsgErrFormat, err)
	}
	return reporter.New(format, w, reporter.Options{
		Verbose:      o.verbosity > 0,
		PreviewLimit: o.settings.Output.PreviewLimit,
		RunID:        runID,
	}), nil
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "skeletor",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(opts.verbosity)
			logging.LogCommand(cmd.CommandPath(), args)

			settings, err := config.Load(config.LoadOptions{Path: opts.configPath})
			if err != nil {
				return fmt.Errorf(MsgErrLoadSettings, err)
			}
			opts.settings = settings
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand: show help and report incorrect usage
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&opts.format, "format", "", MsgFlagFormat)
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", MsgFlagConfig)

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newApplyCmd(opts))
	rootCmd.AddCommand(newSnapshotCmd(opts))
	rootCmd.AddCommand(newInfoCmd(opts))
	rootCmd.AddCommand(newGenConfigCmd(opts))
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newVersionCmd())

	err := topics.InitializeWithOptions(rootCmd, topicFiles, "topics", topics.Options{
		Renderer: topics.NewGlamourRenderer(),
	})
	if err != nil {
		log.Warn().Err(err).Msg("help topics unavailable")
	}
	rootCmd.SetHelpCommandGroupID("misc")

	return rootCmd
}

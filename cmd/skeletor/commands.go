package skeletor

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/arthur-debert/skeletor/internal/version"
	"github.com/arthur-debert/skeletor/pkg/config"
	"github.com/arthur-debert/skeletor/pkg/core"
	"github.com/arthur-debert/skeletor/pkg/errors"
	"github.com/arthur-debert/skeletor/pkg/ignore"
	"github.com/arthur-debert/skeletor/pkg/paths"
	"github.com/arthur-debert/skeletor/pkg/reporter"
	"github.com/gobwas/glob"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// declarativeFile picks the file named on the command line or the
// configured default.
func declarativeFile(opts *rootOptions, args []string) string {
	if len(args) > 0 {
		return paths.ExpandHome(args[0])
	}
	return opts.settings.Apply.DefaultConfig
}

func newApplyCmd(opts *rootOptions) *cobra.Command {
	var (
		output    string
		overwrite bool
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:     "apply [CONFIG]",
		Short:   MsgApplyShort,
		Long:    MsgApplyLong,
		Example: MsgApplyExample,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile := declarativeFile(opts, args)
			doc, err := core.LoadDocument(afero.NewOsFs(), configFile)
			if err != nil {
				return err
			}

			target, err := paths.Resolve(output)
			if err != nil {
				return err
			}

			runID := core.NewRunID()
			rep, err := opts.reporterFor(cmd.OutOrStdout(), runID)
			if err != nil {
				return err
			}

			log.Info().
				Str("config", configFile).
				Str("target", target).
				Bool("dry_run", dryRun).
				Bool("overwrite", overwrite).
				Msg("Applying declarative file")

			result, err := core.Apply(cmd.Context(), core.ApplyOptions{
				Document:  doc,
				Target:    target,
				DryRun:    dryRun,
				Overwrite: overwrite,
				Reporter:  rep,
				Settings:  opts.settings,
				RunID:     runID,
			})
			if err != nil {
				return err
			}
			if err := result.Err(); err != nil {
				return errors.Wrapf(err, errors.ErrPartialFailure, MsgErrApplyFailed, len(result.Failures), result.TasksTotal)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", ".", MsgFlagApplyOutput)
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, MsgFlagOverwrite)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)

	return cmd
}

func newSnapshotCmd(opts *rootOptions) *cobra.Command {
	var (
		output          string
		toStdout        bool
		excludeContents bool
		excludeHidden   bool
		ignores         []string
		ignoreFiles     []string
		note            string
		dryRun          bool
	)

	cmd := &cobra.Command{
		Use:     "snapshot SOURCE",
		Short:   MsgSnapshotShort,
		Long:    MsgSnapshotLong,
		Example: MsgSnapshotExample,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if toStdout && output != "" {
				return errors.New(errors.ErrInvalidInput, MsgErrStdoutOutput)
			}

			fsys := afero.NewOsFs()
			patterns, err := ignore.Collect(fsys, ignores, ignoreFiles)
			if err != nil {
				return err
			}

			source := paths.ExpandHome(args[0])
			target := ""
			if !toStdout {
				target = opts.settings.Apply.DefaultConfig
				if output != "" {
					target = paths.ExpandHome(output)
				}
				patterns = append(patterns, selfExclusion(source, target)...)
			}

			// Keep stdout for the document itself
			events := cmd.OutOrStdout()
			if toStdout {
				events = cmd.ErrOrStderr()
			}
			runID := core.NewRunID()
			rep, err := opts.reporterFor(events, runID)
			if err != nil {
				return err
			}

			log.Info().
				Str("source", source).
				Str("output", target).
				Int("patterns", len(patterns)).
				Bool("dry_run", dryRun).
				Msg("Capturing snapshot")

			out, err := core.Snapshot(cmd.Context(), core.SnapshotOptions{
				Source:          source,
				Patterns:        patterns,
				IncludeContents: opts.settings.Snapshot.IncludeContents && !excludeContents,
				ExcludeHidden:   !opts.settings.Snapshot.IncludeHidden || excludeHidden,
				DryRun:          dryRun,
				Note:            note,
				Output:          target,
				Reporter:        rep,
				Settings:        opts.settings,
				FileSystem:      fsys,
				RunID:           runID,
			})
			if err != nil {
				return err
			}

			if toStdout && !dryRun {
				if _, err := cmd.OutOrStdout().Write(out.YAML); err != nil {
					return err
				}
			}
			if err := out.Summary.Err(); err != nil {
				return errors.Wrapf(err, errors.ErrPartialFailure, MsgErrSnapFailed, len(out.Summary.Failures))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", MsgFlagSnapshotOutput)
	cmd.Flags().BoolVar(&toStdout, "stdout", false, MsgFlagStdout)
	cmd.Flags().BoolVar(&excludeContents, "exclude-contents", false, MsgFlagExcludeContents)
	cmd.Flags().BoolVar(&excludeHidden, "exclude-hidden", false, MsgFlagExcludeHidden)
	cmd.Flags().StringArrayVarP(&ignores, "ignore", "i", nil, MsgFlagIgnore)
	cmd.Flags().StringArrayVar(&ignoreFiles, "ignore-file", nil, MsgFlagIgnoreFile)
	cmd.Flags().StringVarP(&note, "note", "n", "", MsgFlagNote)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)

	return cmd
}

// selfExclusion keeps a snapshot written inside its own source out of the
// next capture.
func selfExclusion(source, output string) []ignore.Pattern {
	absSource, err := filepath.Abs(source)
	if err != nil {
		return nil
	}
	absOutput, err := filepath.Abs(output)
	if err != nil || absOutput == absSource || !paths.ContainsPath(absSource, absOutput) {
		return nil
	}
	rel, err := filepath.Rel(absSource, absOutput)
	if err != nil {
		return nil
	}
	return []ignore.Pattern{{
		Text:   "/" + glob.QuoteMeta(filepath.ToSlash(rel)),
		Origin: ignore.OriginFile,
		Source: "--output",
		Line:   1,
	}}
}

func newInfoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "info [CONFIG]",
		Short:   MsgInfoShort,
		Long:    MsgInfoLong,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile := declarativeFile(opts, args)
			doc, err := core.LoadDocument(afero.NewOsFs(), configFile)
			if err != nil {
				return err
			}
			report := core.Info(configFile, doc)

			name := opts.format
			if name == "" {
				name = opts.settings.Output.Format
			}
			format, err := reporter.ParseFormat(name)
			if err != nil {
				return fmt.Errorf(MsgErrFormat, err)
			}
			if format == reporter.FormatJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			printInfo(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

func printInfo(w io.Writer, r core.InfoReport) {
	fmt.Fprintf(w, MsgInfoHeader, r.Path)

	if r.Created != "" {
		fmt.Fprintf(w, MsgInfoCreated, r.Created)
	} else {
		fmt.Fprintln(w, MsgInfoNoCreated)
	}
	if r.Updated != "" {
		fmt.Fprintf(w, MsgInfoUpdated, r.Updated)
	} else {
		fmt.Fprintln(w, MsgInfoNoUpdated)
	}

	printItems(w, MsgInfoComments, r.GeneratedComments)
	printItems(w, MsgInfoNotes, r.Notes)

	if r.Stats != nil {
		fmt.Fprintf(w, MsgInfoStats, r.Stats.Files, r.Stats.Directories)
		if *r.Stats != r.Counted {
			fmt.Fprintf(w, MsgInfoStaleStats, r.Counted.Files, r.Counted.Directories)
		}
	} else {
		fmt.Fprintf(w, MsgInfoStats, r.Counted.Files, r.Counted.Directories)
	}

	printItems(w, MsgInfoBlacklist, r.Blacklist)

	if !r.HasDirectories {
		fmt.Fprintln(w, MsgInfoNoDirectory)
	}
}

func printItems(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w, title)
	for _, item := range items {
		fmt.Fprintf(w, MsgInfoItem, item)
	}
}

func newGenConfigCmd(opts *rootOptions) *cobra.Command {
	var effective bool

	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !effective {
				_, err := io.WriteString(cmd.OutOrStdout(), config.GenerateConfigContent())
				return err
			}
			content, err := config.Effective(opts.settings)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), content)
			return err
		},
	}

	cmd.Flags().BoolVar(&effective, "effective", false, MsgFlagEffective)

	return cmd
}

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "topics",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Find the help command and execute it with "topics" argument
			if helpCmd, _, err := cmd.Root().Find([]string{"help"}); err == nil && helpCmd.Name() == "help" {
				if helpCmd.RunE != nil {
					return helpCmd.RunE(helpCmd, []string{"topics"})
				} else if helpCmd.Run != nil {
					helpCmd.Run(helpCmd, []string{"topics"})
					return nil
				}
			}
			return fmt.Errorf("help command not found")
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

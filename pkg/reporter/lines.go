package reporter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/arthur-debert/skeletor/pkg/styles"
	"github.com/arthur-debert/skeletor/pkg/tasks"
	"github.com/arthur-debert/skeletor/pkg/types"
)

const separator = "------------------------------------------"

// painter applies a named style to a string.
type painter func(style, s string) string

func plainPainter(_, s string) string { return s }

func styledPainter(style, s string) string { return styles.Render(style, s) }

// lineReporter writes human readable lines. The text and terminal formats
// differ only in their painter.
type lineReporter struct {
	w     io.Writer
	opts  Options
	paint painter
}

func newLineReporter(w io.Writer, opts Options, p painter) *lineReporter {
	return &lineReporter{w: w, opts: opts, paint: p}
}

func (r *lineReporter) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(r.w, format, args...)
}

func (r *lineReporter) println(s string) {
	_, _ = fmt.Fprintln(r.w, s)
}

func (r *lineReporter) OperationStart(operation, details string) {
	if details == "" {
		r.println(r.paint("Header", operation))
		return
	}
	r.printf("%s %s\n", r.paint("Header", operation), r.paint("Muted", details))
}

func (r *lineReporter) Progress(current, total int, message string) {
	counter := fmt.Sprintf("[%d/%d]", current, total)
	if total <= 0 {
		counter = fmt.Sprintf("[%d]", current)
	}
	if message == "" {
		r.printf("  %s\n", counter)
		return
	}
	r.printf("  %s %s\n", counter, message)
}

func (r *lineReporter) TaskOutcome(o types.TaskOutcome, err error) {
	if o.Outcome == types.OutcomeFailed {
		r.printf("%s %s: %v\n", r.paint("Warning", "warning:"), o.Task.Path, err)
		return
	}
	if !r.opts.Verbose {
		return
	}
	r.printf("  %s %s %s\n", icon(o.Task), r.paint(pathStyle(o.Task), o.Task.Path), r.paint("Muted", "("+o.Outcome.String()+")"))
}

func (r *lineReporter) Warning(message string) {
	r.printf("%s %s\n", r.paint("Warning", "warning:"), message)
}

func (r *lineReporter) Tip(message string) {
	r.printf("%s %s\n", r.paint("Tip", "tip:"), message)
}

func (r *lineReporter) DryRunPreview(p Preview) {
	r.println(r.paint("DryRunBanner", "Dry run enabled."))
	r.println("")

	files, dirs := tasks.Summarize(p.Tasks)
	r.println("Summary of planned operations:")
	r.printf("  • %s files to be created\n", r.paint("Count", fmt.Sprint(files)))
	r.printf("  • %s directories to be created\n", r.paint("Count", fmt.Sprint(dirs)))
	r.printf("  • Total: %s operations\n", r.paint("Count", fmt.Sprint(len(p.Tasks))))

	if len(p.Outcomes) > 0 {
		counts := types.CountOutcomes(p.Outcomes)
		var parts []string
		for _, oc := range []types.Outcome{types.OutcomeCreated, types.OutcomeExisting, types.OutcomeSkipped, types.OutcomeOverwritten, types.OutcomeFailed} {
			if counts[oc] > 0 {
				parts = append(parts, fmt.Sprintf("%d %s", counts[oc], oc))
			}
		}
		r.printf("  • Would be: %s\n", strings.Join(parts, ", "))
	}
	r.println("")

	if len(p.Tasks) > 0 {
		if r.opts.Verbose {
			r.println("Complete list of operations:")
			r.printTasks(p.Tasks)
		} else {
			limit := r.opts.PreviewLimit
			if limit > len(p.Tasks) {
				limit = len(p.Tasks)
			}
			r.printf("Operations preview (showing first %d):\n", limit)
			r.printTasks(p.Tasks[:limit])
			if rest := len(p.Tasks) - limit; rest > 0 {
				r.printf("  ... and %d more\n", rest)
			}
		}
	}

	if len(p.BinaryFiles) > 0 {
		verb := p.Verb
		if verb == "" {
			verb = "skipped"
		}
		r.println("")
		r.printList(fmt.Sprintf("Binary files that would be %s:", verb), p.BinaryFiles, "")
	}

	if len(p.IgnorePatterns) > 0 {
		r.println("")
		r.printList("Ignore patterns that would be used:", p.IgnorePatterns, "")
	}

	r.println("")
	r.println(r.paint("Separator", separator))
	r.println("Dry run complete. No changes were made.")
}

func (r *lineReporter) ApplyComplete(res *types.CreationResult) {
	if res.FilesSkipped > 0 {
		r.println("")
		r.printList("Files skipped (already exist):", res.SkippedFiles, "Use --verbose to see all skipped files")
		r.println("")
		r.Tip("Use --overwrite to update existing files")
	}

	if res.FilesOverwritten > 0 {
		r.println("")
		r.printList("Files updated by --overwrite:", res.OverwrittenFiles, "Use --verbose to see all overwritten files")
	}

	if len(res.Failures) > 0 {
		r.println("")
		r.printFailures(res.Failures)
	}

	r.println(r.paint("Separator", separator))
	r.printf("%s Successfully generated %s files and %s directories in %s\n",
		r.paint("Success", "✅"),
		r.paint("Count", fmt.Sprint(res.FilesCreated)),
		r.paint("Count", fmt.Sprint(res.DirsCreated)),
		r.paint("Duration", formatDuration(res.Duration)))
}

func (r *lineReporter) SnapshotComplete(s *types.SnapshotSummary) {
	if s.Output != "" {
		r.printf("%s %s\n", r.paint("Success", "Snapshot written to"), r.paint("FilePath", s.Output))
	}
	r.printf("Captured %s files and %s directories from %s in %s\n",
		r.paint("Count", fmt.Sprint(s.Files)),
		r.paint("Count", fmt.Sprint(s.Directories)),
		r.paint("FilePath", s.Source),
		r.paint("Duration", formatDuration(s.Duration)))

	if len(s.BinaryFiles) > 0 {
		r.printList("Binary files excluded:", s.BinaryFiles, "")
	}
	if len(s.Failures) > 0 {
		r.printFailures(s.Failures)
	}
}

func (r *lineReporter) printTasks(ts []tasks.Task) {
	for i, t := range ts {
		r.printf("  %d. %s %s\n", i+1, icon(t), r.paint(pathStyle(t), t.Path))
	}
}

// printList shows every item when verbose, otherwise the first few and
// a count of the rest.
func (r *lineReporter) printList(title string, items []string, moreTip string) {
	r.println(title)
	shown := items
	if !r.opts.Verbose && len(items) > r.opts.PreviewLimit {
		shown = items[:r.opts.PreviewLimit]
	}
	for _, item := range shown {
		r.printf("  • %s\n", item)
	}
	if rest := len(items) - len(shown); rest > 0 {
		r.printf("  ... and %d more\n", rest)
		if moreTip != "" {
			r.Tip(moreTip)
		}
	}
}

func (r *lineReporter) printFailures(failures []types.Failure) {
	r.println(r.paint("Error", fmt.Sprintf("%d entries failed:", len(failures))))
	for _, f := range failures {
		r.printf("  • %s: %v\n", r.paint("FilePath", f.Path), f.Err)
	}
}

func icon(t tasks.Task) string {
	if t.IsDir() {
		return "📁"
	}
	return "📄"
}

func pathStyle(t tasks.Task) string {
	if t.IsDir() {
		return "Dir"
	}
	return "File"
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.2fms", float64(d.Microseconds())/1000.0)
}

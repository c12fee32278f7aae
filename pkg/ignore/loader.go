package ignore

import (
	"strings"

	"github.com/arthur-debert/skeletor/pkg/errors"
	"github.com/spf13/afero"
)

// FromFile reads a pattern file, one pattern per line. Every pattern is
// tagged OriginFile with its line number.
func FromFile(fsys afero.Fs, filename string) ([]Pattern, error) {
	data, err := afero.ReadFile(fsys, filename)
	if err != nil {
		return nil, errors.FromIO(err, filename, errors.ErrFileRead)
	}
	return parseLines(data, filename), nil
}

// parseLines splits on "\n" with no limit on line length. A trailing "\r"
// is left for compileRule to strip.
func parseLines(data []byte, source string) []Pattern {
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	out := make([]Pattern, 0, len(lines))
	for i, line := range lines {
		out = append(out, Pattern{
			Text:   line,
			Origin: OriginFile,
			Source: source,
			Line:   i + 1,
		})
	}
	return out
}

// Collect gathers patterns from command line values. A value naming an
// existing regular file is read as a pattern file, anything else is a
// direct pattern. Every entry of files must be an existing file.
func Collect(fsys afero.Fs, values, files []string) ([]Pattern, error) {
	var out []Pattern
	for _, v := range values {
		if isRegularFile(fsys, v) {
			ps, err := FromFile(fsys, v)
			if err != nil {
				return nil, err
			}
			out = append(out, ps...)
			continue
		}
		out = append(out, Pattern{Text: v, Origin: OriginDirect})
	}

	for _, f := range files {
		if !isRegularFile(fsys, f) {
			return nil, errors.Newf(errors.ErrFileNotFound, "ignore file %s does not exist", f).
				WithDetail("path", f)
		}
		ps, err := FromFile(fsys, f)
		if err != nil {
			return nil, err
		}
		out = append(out, ps...)
	}
	return out, nil
}

func isRegularFile(fsys afero.Fs, name string) bool {
	info, err := fsys.Stat(name)
	return err == nil && info.Mode().IsRegular()
}

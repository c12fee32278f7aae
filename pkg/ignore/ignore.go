// Package ignore implements gitignore style exclusion rules for snapshots.
//
// Rules are evaluated in order and the last matching rule wins, so a later
// "!pattern" re-includes what an earlier rule excluded. A trailing slash
// restricts a rule to directories. A pattern containing a slash is
// anchored to the walk root, otherwise it is matched against the base name
// at any depth. "*", "?" and "[...]" never cross a slash, "**" does.
package ignore

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/skeletor/pkg/errors"
	"github.com/gobwas/glob"
)

// Origin records where a pattern came from. It decides whether a pattern
// that fails to compile is fatal.
type Origin int

const (
	// OriginDirect patterns were given explicitly. Invalid ones are fatal.
	OriginDirect Origin = iota
	// OriginFile patterns were read from a pattern file. Invalid ones are
	// skipped with a warning.
	OriginFile
)

func (o Origin) String() string {
	if o == OriginFile {
		return "file"
	}
	return "direct"
}

// Pattern is one raw ignore line and its provenance.
type Pattern struct {
	Text   string
	Origin Origin
	Source string
	Line   int
}

// Direct wraps explicit pattern strings.
func Direct(texts ...string) []Pattern {
	out := make([]Pattern, 0, len(texts))
	for _, t := range texts {
		out = append(out, Pattern{Text: t, Origin: OriginDirect})
	}
	return out
}

// Warning describes a pattern file line that was skipped.
type Warning struct {
	Pattern Pattern
	Err     error
}

// Rule is a compiled pattern.
type Rule struct {
	Pattern  Pattern
	Negate   bool
	DirOnly  bool
	Anchored bool

	globs []glob.Glob
}

func (r *Rule) matches(rel, base string) bool {
	target := base
	if r.Anchored {
		target = rel
	}
	for _, g := range r.globs {
		if g.Match(target) {
			return true
		}
	}
	return false
}

// RuleSet is an ordered list of compiled rules. The zero value and a nil
// RuleSet match nothing.
type RuleSet struct {
	rules []*Rule
}

// Compile turns patterns into a RuleSet. A direct pattern that does not
// compile aborts with a PatternError. A file pattern that does not compile
// is reported to warn, when non-nil, and left out.
func Compile(patterns []Pattern, warn func(Warning)) (*RuleSet, error) {
	rs := &RuleSet{}
	for _, p := range patterns {
		rule, err := compileRule(p)
		if err != nil {
			if p.Origin == OriginDirect {
				return nil, err
			}
			if warn != nil {
				warn(Warning{Pattern: p, Err: err})
			}
			continue
		}
		if rule != nil {
			rs.rules = append(rs.rules, rule)
		}
	}
	return rs, nil
}

// MustCompile is Compile for patterns known to be valid.
func MustCompile(texts ...string) *RuleSet {
	rs, err := Compile(Direct(texts...), nil)
	if err != nil {
		panic(err)
	}
	return rs
}

// compileRule returns nil, nil for blank lines and comments.
func compileRule(p Pattern) (*Rule, error) {
	line := strings.TrimRight(p.Text, "\r")
	line = strings.TrimRight(line, " \t")
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, nil
	}

	rule := &Rule{Pattern: p}
	switch {
	case strings.HasPrefix(line, "!"):
		rule.Negate = true
		line = line[1:]
	case strings.HasPrefix(line, `\!`), strings.HasPrefix(line, `\#`):
		line = line[1:]
	}

	if strings.HasSuffix(line, "/") {
		rule.DirOnly = true
		line = strings.TrimRight(line, "/")
	}

	if strings.Contains(line, "/") {
		rule.Anchored = true
		line = strings.TrimLeft(line, "/")
	}

	if line == "" {
		return nil, patternError(p, nil, "pattern matches nothing")
	}

	for _, expr := range expand(line) {
		g, err := glob.Compile(expr, '/')
		if err != nil {
			return nil, patternError(p, err, "invalid glob")
		}
		rule.globs = append(rule.globs, g)
	}
	return rule, nil
}

// expand lists the glob expressions equivalent to a gitignore pattern.
// "**/" may match zero directories, which a single glob cannot express.
func expand(expr string) []string {
	out := []string{expr}
	if strings.HasPrefix(expr, "**/") {
		out = append(out, strings.TrimPrefix(expr, "**/"))
	}
	for _, e := range out {
		if strings.Contains(e, "/**/") {
			out = append(out, strings.ReplaceAll(e, "/**/", "/"))
		}
	}
	return out
}

func patternError(p Pattern, cause error, msg string) error {
	var err *errors.SkeletorError
	if cause != nil {
		err = errors.Wrapf(cause, errors.ErrPatternInvalid, "%s %q", msg, p.Text)
	} else {
		err = errors.Newf(errors.ErrPatternInvalid, "%s %q", msg, p.Text)
	}
	err = err.WithDetail("pattern", p.Text).WithDetail("origin", p.Origin.String())
	if p.Source != "" {
		err = err.WithDetail("source", p.Source).WithDetail("line", p.Line)
	}
	return err
}

// Match reports whether rel, a path relative to the walk root, is
// excluded. Only the path itself is tested, not its parents.
func (rs *RuleSet) Match(rel string, isDir bool) bool {
	if rs == nil || len(rs.rules) == 0 {
		return false
	}
	rel = strings.Trim(filepath.ToSlash(rel), "/")
	if rel == "" || rel == "." {
		return false
	}
	base := path.Base(rel)
	for i := len(rs.rules) - 1; i >= 0; i-- {
		r := rs.rules[i]
		if r.DirOnly && !isDir {
			continue
		}
		if r.matches(rel, base) {
			return !r.Negate
		}
	}
	return false
}

// MatchesPathOrParents reports whether rel or any directory above it is
// excluded. A file inside an excluded directory cannot be re-included.
func (rs *RuleSet) MatchesPathOrParents(rel string, isDir bool) bool {
	rel = strings.Trim(filepath.ToSlash(rel), "/")
	parts := strings.Split(rel, "/")
	for i := 1; i < len(parts); i++ {
		if rs.Match(strings.Join(parts[:i], "/"), true) {
			return true
		}
	}
	return rs.Match(rel, isDir)
}

// Patterns returns the text of every compiled rule in order.
func (rs *RuleSet) Patterns() []string {
	if rs == nil {
		return nil
	}
	out := make([]string, 0, len(rs.rules))
	for _, r := range rs.rules {
		out = append(out, strings.TrimSpace(r.Pattern.Text))
	}
	return out
}

func (rs *RuleSet) all() []*Rule {
	if rs == nil {
		return nil
	}
	return append([]*Rule(nil), rs.rules...)
}

// Len returns the number of compiled rules.
func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.rules)
}

// Merge returns a RuleSet evaluating rs's rules then other's. Either side
// may be nil.
func (rs *RuleSet) Merge(other *RuleSet) *RuleSet {
	out := &RuleSet{}
	out.rules = append(out.rules, rs.all()...)
	out.rules = append(out.rules, other.all()...)
	return out
}

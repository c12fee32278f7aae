package snapshot

import (
	"fmt"
	"time"

	"github.com/arthur-debert/skeletor/pkg/tree"
	"github.com/spf13/afero"
)

// DocumentOptions supply the metadata a walk cannot observe.
type DocumentOptions struct {
	// SourceLabel names the captured folder in generated_comments.
	// Defaults to the walk root.
	SourceLabel string
	Note        string
	// PreviousCreated is kept as the created timestamp when set.
	PreviousCreated string
	// Now defaults to time.Now.
	Now func() time.Time
}

const (
	sourceComment   = "Snapshot generated from folder: %s"
	noBinaryComment = "No binary files detected."
	binaryComment   = "Binary file detected (contents omitted): %s"
)

// BuildDocument wraps a walk result in a document carrying its metadata.
func BuildDocument(res *Result, rules []string, opts DocumentOptions) *tree.Document {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	stamp := now().UTC().Format(time.RFC3339)

	created := stamp
	if opts.PreviousCreated != "" {
		created = opts.PreviousCreated
	}

	label := opts.SourceLabel
	if label == "" {
		label = res.Root
	}
	comments := []string{fmt.Sprintf(sourceComment, label)}
	if len(res.BinaryFiles) == 0 {
		comments = append(comments, noBinaryComment)
	}
	for _, b := range res.BinaryFiles {
		comments = append(comments, fmt.Sprintf(binaryComment, b))
	}

	var notes []string
	if opts.Note != "" {
		notes = []string{opts.Note}
	}

	stats := res.Tree.Stats()
	doc := tree.NewDocument(res.Tree)
	doc.Metadata = tree.Metadata{
		Created:           created,
		Updated:           stamp,
		GeneratedComments: comments,
		Notes:             notes,
		Stats:             &stats,
		Blacklist:         rules,
		BinaryFiles:       res.BinaryFiles,
	}
	return doc
}

// PreviousCreated returns the created timestamp of an existing snapshot
// at name, or "" when there is none or it cannot be parsed.
func PreviousCreated(fsys afero.Fs, name string) string {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	data, err := afero.ReadFile(fsys, name)
	if err != nil {
		return ""
	}
	doc, err := tree.ParseDocument(data)
	if err != nil {
		return ""
	}
	return doc.Metadata.Created
}

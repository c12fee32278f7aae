package core

import "github.com/arthur-debert/skeletor/pkg/tree"

// InfoReport is the metadata block of a declarative file.
type InfoReport struct {
	Path              string      `json:"path"`
	Created           string      `json:"created,omitempty"`
	Updated           string      `json:"updated,omitempty"`
	GeneratedComments []string    `json:"generated_comments,omitempty"`
	Notes             []string    `json:"notes,omitempty"`
	Stats             *tree.Stats `json:"stats,omitempty"`
	Blacklist         []string    `json:"blacklist,omitempty"`
	// Counted holds the stats of the tree itself, which may differ from
	// a stale stats block.
	Counted        tree.Stats `json:"counted"`
	HasDirectories bool       `json:"has_directories"`
}

// Info summarizes doc without touching the filesystem.
func Info(path string, doc *tree.Document) InfoReport {
	m := doc.Metadata
	return InfoReport{
		Path:              path,
		Created:           m.Created,
		Updated:           m.Updated,
		GeneratedComments: m.GeneratedComments,
		Notes:             m.Notes,
		Stats:             m.Stats,
		Blacklist:         m.Blacklist,
		Counted:           doc.Tree.Stats(),
		HasDirectories:    doc.HasDirectories,
	}
}

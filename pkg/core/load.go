package core

import (
	"github.com/arthur-debert/skeletor/pkg/errors"
	"github.com/arthur-debert/skeletor/pkg/tree"
	"github.com/spf13/afero"
)

// LoadDocument reads and parses a declarative file. A nil fsys reads the
// host filesystem.
func LoadDocument(fsys afero.Fs, path string) (*tree.Document, error) {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.FromIO(err, path, errors.ErrConfigLoad)
	}
	doc, err := tree.ParseDocument(data)
	if err != nil {
		if skErr, ok := err.(*errors.SkeletorError); ok {
			return nil, skErr.WithDetail("file", path)
		}
		return nil, err
	}
	return doc, nil
}

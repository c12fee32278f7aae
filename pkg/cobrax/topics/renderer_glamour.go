package topics

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// GlamourRenderer renders markdown topics with glamour and leaves other
// topics alone. The glamour renderer is built on first use.
type GlamourRenderer struct {
	// Style is a glamour style name or a path to a style file. Empty or
	// "auto" picks a style from the terminal background.
	Style string
	// Width wraps output at this column, 0 keeps glamour's default.
	Width int

	once sync.Once
	term *glamour.TermRenderer
}

// NewGlamourRenderer returns a renderer with terminal style detection.
func NewGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{Style: "auto"}
}

func (r *GlamourRenderer) options() []glamour.TermRendererOption {
	var opts []glamour.TermRendererOption
	if r.Style == "" || r.Style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStylePath(r.Style))
	}
	if r.Width > 0 {
		opts = append(opts, glamour.WithWordWrap(r.Width))
	}
	return opts
}

// Render converts markdown for the terminal. Content that fails to render
// is returned as is.
func (r *GlamourRenderer) Render(content string, ext string) string {
	if ext != ".md" {
		return content
	}

	r.once.Do(func() {
		term, err := glamour.NewTermRenderer(r.options()...)
		if err == nil {
			r.term = term
		}
	})
	if r.term == nil {
		return content
	}

	rendered, err := r.term.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

package topics

// Renderer formats topic content for the terminal. ext is the extension
// of the topic file, such as ".md".
type Renderer interface {
	Render(content string, ext string) string
}

// PlainRenderer prints topics as written.
type PlainRenderer struct{}

// Render returns content unchanged.
func (PlainRenderer) Render(content string, _ string) string {
	return content
}

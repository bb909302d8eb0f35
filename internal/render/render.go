// Package render turns file previews into highlighted HTML for the viewer:
// Markdown through goldmark, everything else through chroma.
package render

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "monokai"

// Heading is an outline entry of a Markdown document.
type Heading struct {
	Level int    `json:"level"`
	Title string `json:"title"`
}

// Rendered is the viewer-ready form of a file.
type Rendered struct {
	HTML     string    `json:"html"`
	Language string    `json:"language"`
	Outline  []Heading `json:"outline,omitempty"`
}

// Renderer renders file content to HTML.
type Renderer struct {
	md        goldmark.Markdown
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// New creates a Renderer using the named chroma style.
func New(style string) *Renderer {
	if style == "" {
		style = DefaultStyle
	}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)

	return &Renderer{
		md:    md,
		style: styles.Get(style),
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.WithLineNumbers(true),
		),
	}
}

// IsMarkdown reports whether name has a Markdown extension.
func IsMarkdown(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// Render converts content of the file called name to HTML. Markdown files
// are rendered as documents; other files are syntax highlighted.
func (r *Renderer) Render(name, content string) (Rendered, error) {
	if IsMarkdown(name) {
		return r.markdown(content)
	}
	return r.highlight(name, content)
}

func (r *Renderer) markdown(content string) (Rendered, error) {
	source := []byte(content)
	var buf bytes.Buffer
	if err := r.md.Convert(source, &buf); err != nil {
		return Rendered{}, err
	}
	return Rendered{
		HTML:     buf.String(),
		Language: "markdown",
		Outline:  r.outline(source),
	}, nil
}

func (r *Renderer) highlight(name, content string) (Rendered, error) {
	lexer := lexers.Match(filepath.Base(name))
	if lexer == nil {
		lexer = lexers.Analyse(content)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, content)
	if err != nil {
		return Rendered{}, err
	}
	var buf bytes.Buffer
	if err := r.formatter.Format(&buf, r.style, it); err != nil {
		return Rendered{}, err
	}
	return Rendered{
		HTML:     buf.String(),
		Language: strings.ToLower(lexer.Config().Name),
	}, nil
}

// outline collects the headings of a Markdown document.
func (r *Renderer) outline(source []byte) []Heading {
	doc := r.md.Parser().Parse(text.NewReader(source))

	var headings []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			headings = append(headings, Heading{
				Level: h.Level,
				Title: headingText(h, source),
			})
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return headings
}

func headingText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*ast.Text); ok {
			buf.Write(t.Segment.Value(source))
		}
	}
	return buf.String()
}

// CSS returns the stylesheet for highlighted output.
func (r *Renderer) CSS() (string, error) {
	var buf bytes.Buffer
	if err := r.formatter.WriteCSS(&buf, r.style); err != nil {
		return "", err
	}
	return buf.String(), nil
}

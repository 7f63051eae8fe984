package htmlcodec

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"

	"github.com/dmitrymomot/mailcraft/core/layout"
)

// ContentWidth is the fixed width of the inner table. The decoder locates the
// content by this value.
const ContentWidth = "600"

const (
	defaultTitle          = "Email"
	defaultPageBackground = "#f6f6f6"
)

// Encoder renders layout trees to email-safe HTML documents.
// An Encoder is immutable after construction and safe for concurrent use.
type Encoder struct {
	title          string
	pageBackground string
	markdown       *converter.Converter
}

// EncoderOption configures an Encoder.
type EncoderOption func(*Encoder)

// WithTitle sets the document <title>.
func WithTitle(title string) EncoderOption {
	return func(e *Encoder) {
		if title != "" {
			e.title = title
		}
	}
}

// WithPageBackground sets the color painted around the content column.
func WithPageBackground(color string) EncoderOption {
	return func(e *Encoder) {
		if color != "" {
			e.pageBackground = color
		}
	}
}

// NewEncoder creates an Encoder.
func NewEncoder(opts ...EncoderOption) *Encoder {
	e := &Encoder{
		title:          defaultTitle,
		pageBackground: defaultPageBackground,
		markdown: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEncoder = NewEncoder()

// Encode renders root with the default encoder.
func Encode(root *layout.Node) string {
	return defaultEncoder.Encode(root)
}

// PlainText renders the plain-text alternative of root with the default encoder.
func PlainText(root *layout.Node) (string, error) {
	return defaultEncoder.PlainText(root)
}

// Encode renders root as a complete HTML document.
// The content sits in a centered table of ContentWidth pixels inside a full-width
// outer table, one row per top-level section.
func (e *Encoder) Encode(root *layout.Node) string {
	bg := escape(e.pageBackground)
	var b strings.Builder
	b.WriteString("<!doctype html>\n<html>\n  <head>\n")
	b.WriteString("    <meta http-equiv=\"Content-Type\" content=\"text/html; charset=UTF-8\" />\n")
	b.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\" />\n")
	fmt.Fprintf(&b, "    <title>%s</title>\n", escape(e.title))
	b.WriteString("  </head>\n")
	fmt.Fprintf(&b, "  <body style=\"margin:0;padding:0;background:%s;\">\n", bg)
	fmt.Fprintf(&b, "    <table role=\"presentation\" cellpadding=\"0\" cellspacing=\"0\" width=\"100%%\" style=\"background:%s;\">\n", bg)
	b.WriteString("      <tr>\n        <td align=\"center\">\n")
	fmt.Fprintf(&b, "          <table role=\"presentation\" cellpadding=\"0\" cellspacing=\"0\" width=\"%s\" style=\"width:%spx;max-width:100%%;\">\n", ContentWidth, ContentWidth)
	b.WriteString("            ")
	writeRows(&b, root)
	b.WriteString("\n          </table>\n        </td>\n      </tr>\n    </table>\n  </body>\n</html>")
	return b.String()
}

// PlainText renders a Markdown-flavoured plain-text version of root, suitable for
// the text/plain part of a multipart message.
func (e *Encoder) PlainText(root *layout.Node) (string, error) {
	var b strings.Builder
	b.WriteString("<table>")
	writeRows(&b, root)
	b.WriteString("</table>")
	text, err := e.markdown.ConvertString(b.String())
	if err != nil {
		return "", fmt.Errorf("htmlcodec: plain text: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// writeRows renders the rows of the inner table. A default-styled root holding
// only sections, as produced when decoding a multi-row document, is flattened so
// each child keeps its own row. Any other root is one row of its own.
func writeRows(b *strings.Builder, root *layout.Node) {
	if root == nil {
		return
	}
	if root.Type == layout.Section && len(root.Children) > 1 && allSections(root.Children) && plainSection(root) {
		for _, c := range root.Children {
			writeSectionRow(b, c)
		}
		return
	}
	if root.Type == layout.Section {
		writeSectionRow(b, root)
		return
	}
	writeNode(b, root)
}

func allSections(nodes []*layout.Node) bool {
	for _, n := range nodes {
		if n.Type != layout.Section {
			return false
		}
	}
	return true
}

// plainSection reports whether n renders exactly like a section with default
// props, so dropping its own row loses nothing.
func plainSection(n *layout.Node) bool {
	if n.Props == nil {
		return true
	}
	defaults := &layout.Node{Type: layout.Section, Props: layout.DefaultSectionProps()}
	for key := range n.Props.Map() {
		v := n.Prop(key)
		if v != "" && v != defaults.Prop(key) {
			return false
		}
	}
	return true
}

func writeSectionRow(b *strings.Builder, n *layout.Node) {
	d := layout.DefaultSectionProps()
	fmt.Fprintf(b, `<tr><td align="%s" style="background:%s;padding:%s;">`,
		attr(n, "align", string(d.Align)),
		attr(n, "backgroundColor", d.BackgroundColor),
		attr(n, "padding", d.Padding),
	)
	writeChildren(b, n)
	b.WriteString("</td></tr>")
}

func writeChildren(b *strings.Builder, n *layout.Node) {
	for _, c := range n.Children {
		writeNode(b, c)
	}
}

func writeNode(b *strings.Builder, n *layout.Node) {
	if n == nil {
		return
	}
	switch n.Type {
	case layout.Section:
		// A section below the top level can't be a row of the inner table,
		// so it gets a full-width table of its own.
		b.WriteString(`<table role="presentation" width="100%" cellpadding="0" cellspacing="0">`)
		writeSectionRow(b, n)
		b.WriteString("</table>")

	case layout.Column:
		d := layout.DefaultColumnProps()
		width := attr(n, "width", d.Width)
		fmt.Fprintf(b, `<table role="presentation" width="%s" style="width:%s;" cellpadding="0" cellspacing="0"><tr><td align="%s" style="padding:%s;">`,
			width, width,
			attr(n, "align", string(d.Align)),
			attr(n, "padding", d.Padding),
		)
		writeChildren(b, n)
		b.WriteString("</td></tr></table>")

	case layout.Text:
		d := layout.DefaultTextProps()
		fmt.Fprintf(b, `<div style="text-align:%s;color:%s;font-size:%s;line-height:%s;">%s</div>`,
			attr(n, "align", string(d.Align)),
			attr(n, "color", d.Color),
			attr(n, "fontSize", d.FontSize),
			attr(n, "lineHeight", d.LineHeight),
			n.Prop("content"),
		)

	case layout.Image:
		d := layout.DefaultImageProps()
		width := attr(n, "width", d.Width)
		img := fmt.Sprintf(`<img src="%s" alt="%s" width="%s" style="display:block;border:0;outline:none;text-decoration:none;width:%spx;max-width:100%%;" />`,
			escape(n.Prop("src")), escape(n.Prop("alt")), width, width)
		if href := n.Prop("href"); href != "" {
			fmt.Fprintf(b, `<a href="%s" target="_blank">%s</a>`, escape(href), img)
			return
		}
		b.WriteString(img)

	case layout.Button:
		d := layout.DefaultButtonProps()
		fmt.Fprintf(b, `<a href="%s" style="display:inline-block;background:%s;color:%s;padding:%s;border-radius:%s;text-decoration:none;font-weight:600;">%s</a>`,
			attr(n, "href", d.Href),
			attr(n, "backgroundColor", d.BackgroundColor),
			attr(n, "color", d.Color),
			attr(n, "padding", d.Padding),
			attr(n, "borderRadius", d.BorderRadius),
			attr(n, "label", d.Label),
		)

	case layout.Spacer:
		h := attr(n, "height", layout.DefaultSpacerProps().Height)
		fmt.Fprintf(b, `<div style="height:%s;line-height:%s;font-size:1px;">&nbsp;</div>`, h, h)
	}
}

// attr returns the escaped prop value, or the escaped fallback when the prop is empty.
func attr(n *layout.Node, key, fallback string) string {
	v := n.Prop(key)
	if v == "" {
		v = fallback
	}
	return escape(v)
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escape(s string) string {
	return escaper.Replace(s)
}

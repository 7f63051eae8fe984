package htmlcodec

import (
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dmitrymomot/mailcraft/core/layout"
	"github.com/dmitrymomot/mailcraft/core/logger"
)

// Decoder rebuilds layout trees from HTML documents shaped like Encoder output.
type Decoder struct {
	factory *layout.Factory
	policy  *bluemonday.Policy
	log     *slog.Logger
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithFactory sets the factory used to build decoded nodes.
func WithFactory(f *layout.Factory) DecoderOption {
	return func(d *Decoder) {
		if f != nil {
			d.factory = f
		}
	}
}

// WithIDGenerator sets the id source of decoded nodes.
func WithIDGenerator(g layout.IDGenerator) DecoderOption {
	return func(d *Decoder) {
		d.factory = layout.NewFactory(layout.WithIDGenerator(g))
	}
}

// WithContentPolicy sanitizes the markup of decoded text blocks with p.
// Without a policy text content is kept verbatim.
func WithContentPolicy(p *bluemonday.Policy) DecoderOption {
	return func(d *Decoder) {
		d.policy = p
	}
}

// WithLogger sets the logger used to report fallbacks.
func WithLogger(l *slog.Logger) DecoderOption {
	return func(d *Decoder) {
		if l != nil {
			d.log = l
		}
	}
}

// NewDecoder creates a Decoder.
func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{
		factory: layout.NewFactory(),
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode parses src with a default Decoder.
func Decode(src string) *layout.Node {
	return NewDecoder().Decode(src)
}

// Decode rebuilds a tree from src. It never fails: markup without a content table,
// or markup that can't be traversed, yields the default starter tree.
// One row of the content table becomes the root section; several rows are wrapped
// in a synthetic root section.
func (d *Decoder) Decode(src string) (root *layout.Node) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Warn("html decode failed, using default tree",
				logger.Component("htmlcodec"),
				logger.Error(fmt.Errorf("panic: %v", r)),
			)
			root = d.factory.Default()
		}
	}()

	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		d.log.Warn("html parse failed, using default tree", logger.Component("htmlcodec"), logger.Error(err))
		return d.factory.Default()
	}

	content := findContentTable(doc)
	if content == nil {
		d.log.Debug("content table not found, using default tree", logger.Component("htmlcodec"))
		return d.factory.Default()
	}

	var sections []*layout.Node
	for _, td := range tableCells(content) {
		sections = append(sections, d.section(td))
	}

	switch len(sections) {
	case 0:
		d.log.Debug("content table has no cells, using default tree", logger.Component("htmlcodec"))
		return d.factory.Default()
	case 1:
		return sections[0]
	default:
		return d.factory.Section(nil, sections...)
	}
}

func (d *Decoder) section(td *html.Node) *layout.Node {
	s := parseStyle(getAttr(td, "style"))
	o := layout.Overrides{}
	set(o, "backgroundColor", first(s["background"], s["background-color"]))
	set(o, "padding", s["padding"])
	set(o, "align", getAttr(td, "align"))
	return d.factory.Section(o, d.blocks(td)...)
}

// blocks classifies the element children of a cell.
func (d *Decoder) blocks(cell *html.Node) []*layout.Node {
	var out []*layout.Node
	for el := range elements(cell) {
		switch el.DataAtom {
		case atom.Table:
			if td, ok := sectionCell(el); ok {
				out = append(out, d.section(td))
			} else {
				out = append(out, d.column(el))
			}
		case atom.Div:
			out = append(out, d.div(el))
		case atom.A:
			if n := d.link(el); n != nil {
				out = append(out, n)
			}
		case atom.Img:
			out = append(out, d.image(el, ""))
		}
	}
	return out
}

func (d *Decoder) column(table *html.Node) *layout.Node {
	o := layout.Overrides{}
	set(o, "width", first(getAttr(table, "width"), parseStyle(getAttr(table, "style"))["width"]))

	var children []*layout.Node
	if cells := tableCells(table); len(cells) > 0 {
		td := cells[0]
		set(o, "padding", parseStyle(getAttr(td, "style"))["padding"])
		set(o, "align", getAttr(td, "align"))
		children = d.blocks(td)
	}
	return d.factory.Column(o, children...)
}

// sectionCell returns the cell of a table wrapping a nested section: a table
// without an inline width whose cell carries a background. Column tables always
// repeat their width in the style attribute.
func sectionCell(table *html.Node) (*html.Node, bool) {
	if parseStyle(getAttr(table, "style"))["width"] != "" {
		return nil, false
	}
	cells := tableCells(table)
	if len(cells) == 0 {
		return nil, false
	}
	s := parseStyle(getAttr(cells[0], "style"))
	if first(s["background"], s["background-color"]) == "" {
		return nil, false
	}
	return cells[0], true
}

// div is a spacer when it carries a height together with a 1px font size or a
// matching line height; otherwise it is a text block.
func (d *Decoder) div(el *html.Node) *layout.Node {
	s := parseStyle(getAttr(el, "style"))
	if h := s["height"]; h != "" && (s["font-size"] == "1px" || s["line-height"] == h) {
		return d.factory.Spacer(layout.Overrides{"height": h})
	}

	content := innerHTML(el)
	if d.policy != nil {
		content = d.policy.Sanitize(content)
	}
	o := layout.Overrides{"content": content}
	set(o, "align", s["text-align"])
	set(o, "color", s["color"])
	set(o, "fontSize", s["font-size"])
	set(o, "lineHeight", s["line-height"])
	return d.factory.Text(o)
}

// link turns an inline-block anchor with a background into a button and an
// anchor wrapping an image into a linked image. Other anchors are skipped.
func (d *Decoder) link(el *html.Node) *layout.Node {
	s := parseStyle(getAttr(el, "style"))
	bg := first(s["background"], s["background-color"])
	if strings.Contains(s["display"], "inline") && bg != "" {
		o := layout.Overrides{"backgroundColor": bg}
		set(o, "label", strings.TrimSpace(textContent(el)))
		set(o, "href", getAttr(el, "href"))
		set(o, "color", s["color"])
		set(o, "padding", s["padding"])
		set(o, "borderRadius", s["border-radius"])
		return d.factory.Button(o)
	}
	if img := findElement(el, atom.Img); img != nil {
		return d.image(img, getAttr(el, "href"))
	}
	return nil
}

func (d *Decoder) image(img *html.Node, href string) *layout.Node {
	width := first(getAttr(img, "width"), strings.TrimSuffix(parseStyle(getAttr(img, "style"))["width"], "px"))
	o := layout.Overrides{
		"src":  getAttr(img, "src"),
		"alt":  getAttr(img, "alt"),
		"href": href,
	}
	set(o, "width", width)
	return d.factory.Image(o)
}

func findContentTable(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Table && getAttr(n, "width") == ContentWidth {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findContentTable(c); t != nil {
			return t
		}
	}
	return nil
}

// tableCells returns the cells of the table's own rows, with or without a row group.
func tableCells(table *html.Node) []*html.Node {
	var cells []*html.Node
	addRow := func(tr *html.Node) {
		for td := range elements(tr) {
			if td.DataAtom == atom.Td {
				cells = append(cells, td)
			}
		}
	}
	for el := range elements(table) {
		switch el.DataAtom {
		case atom.Tr:
			addRow(el)
		case atom.Tbody, atom.Thead, atom.Tfoot:
			for tr := range elements(el) {
				if tr.DataAtom == atom.Tr {
					addRow(tr)
				}
			}
		}
	}
	return cells
}

// elements iterates over the element children of n.
func elements(n *html.Node) iter.Seq[*html.Node] {
	return func(yield func(*html.Node) bool) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if !yield(c) {
				return
			}
		}
	}
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			return c
		}
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

// parseStyle splits an inline style into lower-cased property names and trimmed values.
func parseStyle(style string) map[string]string {
	out := map[string]string{}
	for _, decl := range strings.Split(style, ";") {
		key, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key != "" {
			out[key] = strings.TrimSpace(val)
		}
	}
	return out
}

// innerHTML serializes the children of n the way a browser does. Text escapes
// only &, <, > and no-break spaces, so quotes and apostrophes stay literal and
// encoded content reads back unchanged.
func innerHTML(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeHTML(&b, c)
	}
	return b.String()
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\u00a0", "&nbsp;")
	attrEscaper = strings.NewReplacer("&", "&amp;", `"`, "&quot;", "\u00a0", "&nbsp;")
)

var voidElements = map[atom.Atom]bool{
	atom.Area: true, atom.Base: true, atom.Br: true, atom.Col: true, atom.Embed: true,
	atom.Hr: true, atom.Img: true, atom.Input: true, atom.Link: true, atom.Meta: true,
	atom.Source: true, atom.Track: true, atom.Wbr: true,
}

var rawTextElements = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Xmp: true, atom.Iframe: true,
	atom.Noembed: true, atom.Noframes: true, atom.Plaintext: true,
}

func writeHTML(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if n.Parent != nil && rawTextElements[n.Parent.DataAtom] {
			b.WriteString(n.Data)
			return
		}
		b.WriteString(textEscaper.Replace(n.Data))
	case html.CommentNode:
		b.WriteString("<!--")
		b.WriteString(n.Data)
		b.WriteString("-->")
	case html.ElementNode:
		b.WriteByte('<')
		b.WriteString(n.Data)
		for _, a := range n.Attr {
			b.WriteByte(' ')
			if a.Namespace != "" {
				b.WriteString(a.Namespace)
				b.WriteByte(':')
			}
			b.WriteString(a.Key)
			b.WriteString(`="`)
			b.WriteString(attrEscaper.Replace(a.Val))
			b.WriteByte('"')
		}
		b.WriteByte('>')
		if voidElements[n.DataAtom] {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeHTML(b, c)
		}
		b.WriteString("</")
		b.WriteString(n.Data)
		b.WriteByte('>')
	}
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// set adds key to o unless v is empty, so absent values keep the factory default.
func set(o layout.Overrides, key, v string) {
	if v != "" {
		o[key] = v
	}
}

package layout

import (
	"maps"

	"github.com/spf13/cast"
)

// Align is a horizontal alignment value.
type Align string

// Supported alignments.
const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Props is the attribute record of a node.
// Every block type owns a concrete record with typed fields for the keys it knows;
// keys it doesn't know are kept in Extra and survive every operation.
// Implementations are values: With returns a modified copy and never touches the receiver.
type Props interface {
	// Block reports the block type this record belongs to.
	Block() BlockType
	// Get returns the value stored under key, known or extra.
	Get(key string) (any, bool)
	// With shallow-merges patch over the record and returns the result.
	With(patch map[string]any) Props
	// Map flattens the record into a plain mapping, known keys included even when empty.
	Map() map[string]any
}

// NewProps builds the record for block type t from a plain mapping.
// Unknown block types get RawProps so nothing is lost.
func NewProps(t BlockType, m map[string]any) Props {
	var p Props
	switch t {
	case Section:
		p = SectionProps{}
	case Column:
		p = ColumnProps{}
	case Text:
		p = TextProps{}
	case Image:
		p = ImageProps{}
	case Button:
		p = ButtonProps{}
	case Spacer:
		p = SpacerProps{}
	default:
		p = RawProps{Type: t}
	}
	if len(m) == 0 {
		return p
	}
	return p.With(m)
}

// SectionProps holds section attributes.
type SectionProps struct {
	BackgroundColor string
	Padding         string
	Align           Align
	Extra           map[string]any
}

func (p *SectionProps) fields() []propField {
	return []propField{
		{"backgroundColor", &p.BackgroundColor},
		{"padding", &p.Padding},
		{"align", (*string)(&p.Align)},
	}
}

func (p SectionProps) Block() BlockType                { return Section }
func (p SectionProps) Get(key string) (any, bool)      { return getProp(p.fields(), p.Extra, key) }
func (p SectionProps) Map() map[string]any             { return propsMap(p.fields(), p.Extra) }
func (p SectionProps) With(patch map[string]any) Props { p.Extra = mergeProps(p.fields(), p.Extra, patch); return p }

// ColumnProps holds column attributes.
type ColumnProps struct {
	Width   string
	Padding string
	Align   Align
	Extra   map[string]any
}

func (p *ColumnProps) fields() []propField {
	return []propField{
		{"width", &p.Width},
		{"padding", &p.Padding},
		{"align", (*string)(&p.Align)},
	}
}

func (p ColumnProps) Block() BlockType                { return Column }
func (p ColumnProps) Get(key string) (any, bool)      { return getProp(p.fields(), p.Extra, key) }
func (p ColumnProps) Map() map[string]any             { return propsMap(p.fields(), p.Extra) }
func (p ColumnProps) With(patch map[string]any) Props { p.Extra = mergeProps(p.fields(), p.Extra, patch); return p }

// TextProps holds text attributes. Content is pre-authored markup and is rendered as is.
type TextProps struct {
	Content    string
	Align      Align
	Color      string
	FontSize   string
	LineHeight string
	Extra      map[string]any
}

func (p *TextProps) fields() []propField {
	return []propField{
		{"content", &p.Content},
		{"align", (*string)(&p.Align)},
		{"color", &p.Color},
		{"fontSize", &p.FontSize},
		{"lineHeight", &p.LineHeight},
	}
}

func (p TextProps) Block() BlockType                { return Text }
func (p TextProps) Get(key string) (any, bool)      { return getProp(p.fields(), p.Extra, key) }
func (p TextProps) Map() map[string]any             { return propsMap(p.fields(), p.Extra) }
func (p TextProps) With(patch map[string]any) Props { p.Extra = mergeProps(p.fields(), p.Extra, patch); return p }

// ImageProps holds image attributes. Width is a pixel count without unit.
type ImageProps struct {
	Src   string
	Alt   string
	Width string
	Href  string
	Extra map[string]any
}

func (p *ImageProps) fields() []propField {
	return []propField{
		{"src", &p.Src},
		{"alt", &p.Alt},
		{"width", &p.Width},
		{"href", &p.Href},
	}
}

func (p ImageProps) Block() BlockType                { return Image }
func (p ImageProps) Get(key string) (any, bool)      { return getProp(p.fields(), p.Extra, key) }
func (p ImageProps) Map() map[string]any             { return propsMap(p.fields(), p.Extra) }
func (p ImageProps) With(patch map[string]any) Props { p.Extra = mergeProps(p.fields(), p.Extra, patch); return p }

// ButtonProps holds button attributes.
type ButtonProps struct {
	Label           string
	Href            string
	BackgroundColor string
	Color           string
	Padding         string
	BorderRadius    string
	Extra           map[string]any
}

func (p *ButtonProps) fields() []propField {
	return []propField{
		{"label", &p.Label},
		{"href", &p.Href},
		{"backgroundColor", &p.BackgroundColor},
		{"color", &p.Color},
		{"padding", &p.Padding},
		{"borderRadius", &p.BorderRadius},
	}
}

func (p ButtonProps) Block() BlockType                { return Button }
func (p ButtonProps) Get(key string) (any, bool)      { return getProp(p.fields(), p.Extra, key) }
func (p ButtonProps) Map() map[string]any             { return propsMap(p.fields(), p.Extra) }
func (p ButtonProps) With(patch map[string]any) Props { p.Extra = mergeProps(p.fields(), p.Extra, patch); return p }

// SpacerProps holds spacer attributes.
type SpacerProps struct {
	Height string
	Extra  map[string]any
}

func (p *SpacerProps) fields() []propField {
	return []propField{{"height", &p.Height}}
}

func (p SpacerProps) Block() BlockType                { return Spacer }
func (p SpacerProps) Get(key string) (any, bool)      { return getProp(p.fields(), p.Extra, key) }
func (p SpacerProps) Map() map[string]any             { return propsMap(p.fields(), p.Extra) }
func (p SpacerProps) With(patch map[string]any) Props { p.Extra = mergeProps(p.fields(), p.Extra, patch); return p }

// RawProps carries the attributes of a block type this package doesn't know.
type RawProps struct {
	Type  BlockType
	Extra map[string]any
}

func (p RawProps) Block() BlockType                { return p.Type }
func (p RawProps) Get(key string) (any, bool)      { return getProp(nil, p.Extra, key) }
func (p RawProps) Map() map[string]any             { return propsMap(nil, p.Extra) }
func (p RawProps) With(patch map[string]any) Props { p.Extra = mergeProps(nil, p.Extra, patch); return p }

type propField struct {
	key   string
	value *string
}

func getProp(fields []propField, extra map[string]any, key string) (any, bool) {
	for _, f := range fields {
		if f.key == key {
			return *f.value, true
		}
	}
	v, ok := extra[key]
	return v, ok
}

// mergeProps writes known keys of patch into fields and returns the new extra map.
// The input extra map is cloned before any write.
func mergeProps(fields []propField, extra, patch map[string]any) map[string]any {
	if len(patch) == 0 {
		return extra
	}
	cloned := false
	for key, v := range patch {
		if f, ok := lookupField(fields, key); ok {
			*f.value = cast.ToString(v)
			continue
		}
		if !cloned {
			extra = maps.Clone(extra)
			if extra == nil {
				extra = make(map[string]any, len(patch))
			}
			cloned = true
		}
		extra[key] = v
	}
	return extra
}

func lookupField(fields []propField, key string) (propField, bool) {
	for _, f := range fields {
		if f.key == key {
			return f, true
		}
	}
	return propField{}, false
}

func propsMap(fields []propField, extra map[string]any) map[string]any {
	m := make(map[string]any, len(fields)+len(extra))
	for k, v := range extra {
		m[k] = v
	}
	for _, f := range fields {
		m[f.key] = *f.value
	}
	return m
}

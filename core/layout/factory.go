package layout

// Overrides are caller-supplied props shallow-merged over a block's defaults.
type Overrides = map[string]any

// DefaultSectionProps returns the props every new section starts with.
func DefaultSectionProps() SectionProps {
	return SectionProps{BackgroundColor: "#ffffff", Padding: "24px 24px", Align: AlignLeft}
}

// DefaultColumnProps returns the props every new column starts with.
func DefaultColumnProps() ColumnProps {
	return ColumnProps{Width: "100%", Padding: "0px", Align: AlignLeft}
}

// DefaultTextProps returns the props every new text block starts with.
func DefaultTextProps() TextProps {
	return TextProps{
		Content:    "Write something…",
		Align:      AlignLeft,
		Color:      "#111111",
		FontSize:   "14px",
		LineHeight: "1.5",
	}
}

// DefaultImageProps returns the props every new image starts with.
func DefaultImageProps() ImageProps {
	return ImageProps{Src: "https://via.placeholder.com/600x200", Alt: "Image", Width: "600"}
}

// DefaultButtonProps returns the props every new button starts with.
func DefaultButtonProps() ButtonProps {
	return ButtonProps{
		Label:           "Click me",
		Href:            "#",
		BackgroundColor: "#0f172a",
		Color:           "#ffffff",
		Padding:         "12px 16px",
		BorderRadius:    "4px",
	}
}

// DefaultSpacerProps returns the props every new spacer starts with.
func DefaultSpacerProps() SpacerProps {
	return SpacerProps{Height: "16px"}
}

// Factory builds default-initialized nodes with fresh ids.
type Factory struct {
	ids IDGenerator
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithIDGenerator sets the id source. A nil generator is ignored.
func WithIDGenerator(g IDGenerator) FactoryOption {
	return func(f *Factory) {
		if g != nil {
			f.ids = g
		}
	}
}

// NewFactory creates a Factory backed by DefaultIDGenerator unless configured otherwise.
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{ids: DefaultIDGenerator}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewID returns a fresh id from the factory's generator.
func (f *Factory) NewID() string {
	return f.ids.NewID()
}

// Section creates a section container.
func (f *Factory) Section(overrides Overrides, children ...*Node) *Node {
	return f.container(Section, DefaultSectionProps().With(overrides), children)
}

// Column creates a column container.
func (f *Factory) Column(overrides Overrides, children ...*Node) *Node {
	return f.container(Column, DefaultColumnProps().With(overrides), children)
}

// Text creates a text block.
func (f *Factory) Text(overrides Overrides) *Node {
	return f.leaf(Text, DefaultTextProps().With(overrides))
}

// Image creates an image block.
func (f *Factory) Image(overrides Overrides) *Node {
	return f.leaf(Image, DefaultImageProps().With(overrides))
}

// Button creates a button block.
func (f *Factory) Button(overrides Overrides) *Node {
	return f.leaf(Button, DefaultButtonProps().With(overrides))
}

// Spacer creates a spacer block.
func (f *Factory) Spacer(overrides Overrides) *Node {
	return f.leaf(Spacer, DefaultSpacerProps().With(overrides))
}

// Block creates a default node of type t, as a block palette would.
// Returns false for unknown types.
func (f *Factory) Block(t BlockType) (*Node, bool) {
	switch t {
	case Section:
		return f.Section(nil), true
	case Column:
		return f.Column(nil), true
	case Text:
		return f.Text(nil), true
	case Image:
		return f.Image(nil), true
	case Button:
		return f.Button(nil), true
	case Spacer:
		return f.Spacer(nil), true
	}
	return nil, false
}

// Default returns the minimal starter document: one section holding one column
// with a single "Hello" text block.
func (f *Factory) Default() *Node {
	return f.Section(nil, f.Column(nil, f.Text(Overrides{"content": "Hello"})))
}

func (f *Factory) container(t BlockType, props Props, children []*Node) *Node {
	kids := make([]*Node, 0, len(children))
	for _, c := range children {
		if c != nil {
			kids = append(kids, c)
		}
	}
	return &Node{ID: f.ids.NewID(), Type: t, Props: props, Children: kids}
}

func (f *Factory) leaf(t BlockType, props Props) *Node {
	return &Node{ID: f.ids.NewID(), Type: t, Props: props}
}

var defaultFactory = NewFactory()

// NewSection creates a section using the default factory.
func NewSection(overrides Overrides, children ...*Node) *Node {
	return defaultFactory.Section(overrides, children...)
}

// NewColumn creates a column using the default factory.
func NewColumn(overrides Overrides, children ...*Node) *Node {
	return defaultFactory.Column(overrides, children...)
}

// NewText creates a text block using the default factory.
func NewText(overrides Overrides) *Node { return defaultFactory.Text(overrides) }

// NewImage creates an image using the default factory.
func NewImage(overrides Overrides) *Node { return defaultFactory.Image(overrides) }

// NewButton creates a button using the default factory.
func NewButton(overrides Overrides) *Node { return defaultFactory.Button(overrides) }

// NewSpacer creates a spacer using the default factory.
func NewSpacer(overrides Overrides) *Node { return defaultFactory.Spacer(overrides) }

// Package layout provides the document model of an email design: a tree of
// sections, columns, text, images, buttons and spacers, plus the persistent
// operations used to edit it.
//
// # Features
//
//   - Typed prop records per block type with an escape hatch for unknown keys
//   - Factories that merge caller overrides over built-in defaults
//   - Injectable id generation for deterministic tests
//   - Persistent tree operations that share untouched subtrees
//   - No-op policy for unknown ids, clamping for out-of-range indexes
//   - Undo/redo history of tree snapshots
//
// # Building a Tree
//
//	import "github.com/dmitrymomot/mailcraft/core/layout"
//
//	root := layout.NewSection(nil,
//		layout.NewColumn(nil,
//			layout.NewText(layout.Overrides{"content": "Welcome aboard!", "align": "center"}),
//			layout.NewSpacer(nil),
//			layout.NewButton(layout.Overrides{"label": "Get started", "href": "https://example.com"}),
//		),
//	)
//
// Factories can be configured with a custom id source:
//
//	f := layout.NewFactory(layout.WithIDGenerator(layout.SequenceIDGenerator("n")))
//	text := f.Text(nil) // text.ID == "n1"
//
// # Editing
//
// Every operation takes a tree and returns the next version of it. The input is
// never modified, so older versions stay valid and can be kept for undo:
//
//	next := layout.PatchProps(root, textID, map[string]any{"color": "#334155"})
//	next = layout.InsertAt(next, columnID, layout.NewImage(nil), 0)
//	next = layout.ReorderSibling(next, buttonID, -1)
//	next = layout.Relocate(next, imageID, otherColumnID)
//	next = layout.Remove(next, spacerID)
//
// Operations that reference an id not present in the tree return the input tree
// unchanged, so callers never need to validate ids before requesting an edit.
//
// # Props
//
// Each block type owns a record type (SectionProps, TextProps, ...). Values of
// known keys are coerced to strings; unknown keys are preserved verbatim in Extra:
//
//	p := layout.DefaultImageProps().With(map[string]any{"width": 320, "data-track": true})
//	img := p.(layout.ImageProps)
//	// img.Width == "320", img.Extra["data-track"] == true
package layout

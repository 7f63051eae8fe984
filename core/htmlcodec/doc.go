// Package htmlcodec converts layout trees to email-safe HTML and back.
//
// The encoder emits table-based markup that survives email clients without full
// CSS support: a full-width outer table centers an inner table of ContentWidth
// pixels, and every top-level section is one row of that inner table. Columns are
// nested tables, text blocks are divs, buttons are styled anchors and spacers are
// divs with a degenerate font size.
//
//	doc := htmlcodec.Encode(root)
//	text, err := htmlcodec.PlainText(root) // text/plain alternative
//
// The decoder reverses the mapping by locating the inner table and classifying
// each element by its shape. It never returns an error; anything it can't read
// decodes to the default starter tree.
//
//	dec := htmlcodec.NewDecoder(
//		htmlcodec.WithContentPolicy(bluemonday.UGCPolicy()),
//		htmlcodec.WithLogger(log),
//	)
//	root := dec.Decode(doc)
//
// Ids are regenerated on decode, everything else round-trips for trees built
// from the layout factories.
package htmlcodec

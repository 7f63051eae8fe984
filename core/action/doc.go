// Package action defines the edit commands an external collaborator may send,
// turns its untrusted replies into clean command lists and applies them to a
// layout tree.
//
// The vocabulary is closed: Insert, Update, Remove, Select and Replace. The wire
// form is an envelope with an actions array:
//
//	{"actions":[
//		{"type":"insert","parentId":"c1","index":0,"node":{"type":"text","props":{"content":"Hi"}}},
//		{"type":"update","id":"t1","props":{"color":"#334155"}},
//		{"type":"remove","id":"s1"},
//		{"type":"select","id":"t1"},
//		{"type":"replace","root":{"type":"section","props":{},"children":[]}}
//	]}
//
// Parse tolerates code fences, bare arrays and leading or trailing prose, and
// never returns an error:
//
//	batch := action.NewSanitizer(
//		action.WithContentPolicy(bluemonday.UGCPolicy()),
//	).Parse(reply)
//
//	out := action.Apply(root, batch.Actions)
//	if out.Focused {
//		editor.Focus(out.Focus)
//	}
package action

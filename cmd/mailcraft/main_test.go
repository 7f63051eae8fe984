package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docopt/docopt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailcraft/core/action"
	"github.com/dmitrymomot/mailcraft/core/layout"
	"github.com/dmitrymomot/mailcraft/core/logger"
)

type collaboratorFunc func(ctx context.Context, root *layout.Node, instruction string) (action.Batch, error)

func (f collaboratorFunc) Send(ctx context.Context, root *layout.Node, instruction string) (action.Batch, error) {
	return f(ctx, root, instruction)
}

func runCLI(t *testing.T, a *app, stdin string, args ...string) (string, string) {
	t.Helper()
	opts, err := docopt.ParseArgs(usage, args, version)
	require.NoError(t, err)

	var out, errOut bytes.Buffer
	a.stdin = strings.NewReader(stdin)
	a.stdout = &out
	a.stderr = &errOut
	if a.log == nil {
		a.log = logger.Discard()
	}
	require.NoError(t, a.run(t.Context(), opts))
	return out.String(), errOut.String()
}

func writeTree(t *testing.T, root *layout.Node) string {
	t.Helper()
	data, err := json.Marshal(root)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "tree.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestNewCommand(t *testing.T) {
	t.Parallel()
	out, _ := runCLI(t, &app{}, "", "new")

	var root layout.Node
	require.NoError(t, json.Unmarshal([]byte(out), &root))
	assert.Equal(t, layout.Section, root.Type)
	assert.Equal(t, 3, layout.Count(&root))
}

func TestRenderCommand(t *testing.T) {
	t.Parallel()
	root := layout.NewSection(nil, layout.NewColumn(nil, layout.NewText(layout.Overrides{"content": "Hi <b>there</b>"})))
	path := writeTree(t, root)

	html, _ := runCLI(t, &app{}, "", "render", path, "--title=Digest")
	assert.Contains(t, html, "<title>Digest</title>")
	assert.Contains(t, html, `width="600"`)

	text, _ := runCLI(t, &app{}, "", "render", path, "--text")
	assert.Contains(t, text, "Hi **there**")

	outFile := filepath.Join(t.TempDir(), "out.html")
	stdout, _ := runCLI(t, &app{}, "", "render", path, "--out="+outFile)
	assert.Empty(t, stdout)
	assert.FileExists(t, outFile)
}

func TestParseCommand(t *testing.T) {
	t.Parallel()
	page := `<table width="600"><tr><td><div>Hi <script>x()</script>there</div></td></tr></table>`

	out, _ := runCLI(t, &app{}, page, "parse", "-", "--sanitize")
	var root layout.Node
	require.NoError(t, json.Unmarshal([]byte(out), &root))
	require.Len(t, root.Children, 1)
	assert.Equal(t, layout.Text, root.Children[0].Type)
	assert.NotContains(t, root.Children[0].Prop("content"), "script")
}

func TestAssistCommand(t *testing.T) {
	t.Parallel()
	f := layout.NewFactory(layout.WithIDGenerator(layout.SequenceIDGenerator("n")))
	path := writeTree(t, f.Default())

	var got string
	a := &app{collaborator: collaboratorFunc(func(_ context.Context, root *layout.Node, instruction string) (action.Batch, error) {
		got = instruction
		return action.Batch{
			Actions: []action.Action{
				action.Update{ID: "n1", Props: map[string]any{"content": "Welcome"}},
				action.Select{ID: "n1"},
			},
			Summary: "Applied: 1 update, 1 select.",
		}, nil
	})}

	out, msg := runCLI(t, a, "", "assist", path, "say welcome")
	assert.Equal(t, "say welcome", got)
	assert.Contains(t, msg, "Applied: 1 update, 1 select.")

	var root layout.Node
	require.NoError(t, json.Unmarshal([]byte(out), &root))
	n, ok := layout.Find(&root, "n1")
	require.True(t, ok)
	assert.Equal(t, "Welcome", n.Prop("content"))
}

func TestPreviewCommand(t *testing.T) {
	t.Parallel()
	path := writeTree(t, layout.NewFactory().Default())
	dir := t.TempDir()

	runCLI(t, &app{}, "", "preview", path, "--to=user@example.com", "--tag=promo", "--dir="+dir)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var exts []string
	for _, e := range entries {
		exts = append(exts, filepath.Ext(e.Name()))
	}
	assert.ElementsMatch(t, []string{".html", ".txt", ".json"}, exts)
}

func TestReadTreeRejectsNonSectionRoot(t *testing.T) {
	t.Parallel()
	path := writeTree(t, layout.NewText(nil))

	opts, err := docopt.ParseArgs(usage, []string{"render", path}, version)
	require.NoError(t, err)
	a := &app{stdout: &bytes.Buffer{}, log: logger.Discard()}
	require.Error(t, a.run(t.Context(), opts))
}

package explore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/standardbeagle/apisan/internal/check"
	"github.com/standardbeagle/apisan/internal/config"
	"github.com/standardbeagle/apisan/internal/trace"
)

func writeTraceFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := "@SYM_EXEC_EXTRACTOR_BEGIN\n" + body + "\n@SYM_EXEC_EXTRACTOR_END\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func callBody(callExpr, code string) string {
	return `<DOC><NODE><EVENT><KIND>@LOG_CALL</KIND><CALL>` + callExpr + `</CALL><CODE>` + code + `</CODE></EVENT>` +
		`<NODE><EVENT><KIND>@LOG_EOP</KIND></EVENT></NODE></NODE></DOC>`
}

func testConfig(root string) *config.Config {
	cfg := config.Default(root)
	cfg.Include = []string{"**/*.as"}
	return cfg
}

func TestDiscoverFilesHonorsIncludeExclude(t *testing.T) {
	dir := t.TempDir()
	writeTraceFile(t, dir, "a.as", callBody("foo()", "foo();"))
	writeTraceFile(t, dir, "b.txt", callBody("bar()", "bar();"))

	cfg := testConfig(dir)
	exp := New(check.Echo{}, trace.NewReader(nil), cfg)
	files, err := exp.DiscoverFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(dir, "a.as"), files[0])
}

func TestDiscoverFilesAppliesExcludeOverInclude(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "vendor"), 0o755))
	writeTraceFile(t, dir, "keep.as", callBody("foo()", "foo();"))
	writeTraceFile(t, filepath.Join(dir, "vendor"), "skip.as", callBody("bar()", "bar();"))

	cfg := testConfig(dir)
	cfg.Exclude = []string{"vendor/**"}
	exp := New(check.Echo{}, trace.NewReader(nil), cfg)
	files, err := exp.DiscoverFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(dir, "keep.as"), files[0])
}

func TestExploreSequentialAggregatesAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	writeTraceFile(t, dir, "a.as", callBody("foo()", "a_foo();"))
	writeTraceFile(t, dir, "b.as", callBody("bar()", "b_bar();"))

	cfg := testConfig(dir)
	exp := New(check.Echo{}, trace.NewReader(nil), cfg)
	bugs, err := exp.Explore(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, bugs) // echo never reports bugs
}

func TestExploreParallelMatchesSequentialOnEcho(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	for i, code := range []string{"c1();", "c2();", "c3();", "c4();"} {
		writeTraceFile(t, dir, fileName(i), callBody("foo()", code))
	}

	cfg := testConfig(dir)
	exp := New(check.Echo{}, trace.NewReader(nil), cfg)
	seq, err := exp.Explore(context.Background(), dir)
	require.NoError(t, err)
	bugs, err := exp.ExploreParallel(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, bugs)
	assert.Equal(t, seq, bugs)
}

func fileName(i int) string {
	return string(rune('a'+i)) + ".as"
}

func TestDiscoverFilesSkipsDirectoryNamedLikeTraceFile(t *testing.T) {
	dir := t.TempDir()
	writeTraceFile(t, dir, "good.as", callBody("foo()", "good();"))
	// a directory masquerading with an .as extension: DiscoverFiles must
	// not list it, and the good file beside it must still be found.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "bad.as"), 0o755))

	cfg := testConfig(dir)
	exp := New(check.Echo{}, trace.NewReader(nil), cfg)

	files, err := exp.DiscoverFiles(dir)
	require.NoError(t, err)
	// the directory entry itself is always skipped by DiscoverFiles (it
	// only walks into it); this proves the good file is still found.
	assert.Contains(t, files, filepath.Join(dir, "good.as"))
	assert.NotContains(t, files, filepath.Join(dir, "bad.as"))
}

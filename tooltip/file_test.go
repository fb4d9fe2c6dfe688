package tooltip_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/tooltipgen/stringtest"
	"go.jacobcolvin.com/tooltipgen/tooltip"
)

var (
	playerSource = stringtest.Input(`
		using UnityEngine;

		public class Player : MonoBehaviour {
		    /// <summary>Hit points.</summary>
		    public int health;
		}
	`)
	playerWant = stringtest.Input(`
		using UnityEngine;

		public class Player : MonoBehaviour {
		    /// <summary>Hit points.</summary>
		    [Tooltip("Hit points.")]
		    public int health;
		}
	`)
	helperSource = stringtest.Input(`
		public static class Helper {
		    /// <summary>Unused.</summary>
		    public static int value;
		}
	`)
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}

func TestProcessFile(t *testing.T) {
	t.Parallel()

	g := newGenerator(t)
	dir := t.TempDir()

	player := filepath.Join(dir, "Player.cs")
	helper := filepath.Join(dir, "Helper.cs")

	writeFile(t, player, playerSource)
	writeFile(t, helper, helperSource)

	updated, err := g.ProcessFile(player, nil)
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, playerWant, readFile(t, player))

	updated, err = g.ProcessFile(player, nil)
	require.NoError(t, err)
	assert.False(t, updated)

	updated, err = g.ProcessFile(helper, nil)
	require.NoError(t, err)
	assert.False(t, updated)
	assert.Equal(t, helperSource, readFile(t, helper))
}

func TestProcessFileTo(t *testing.T) {
	t.Parallel()

	g := newGenerator(t)
	dir := t.TempDir()

	in := filepath.Join(dir, "Player.cs")
	out := filepath.Join(dir, "Player.out.cs")

	writeFile(t, in, playerSource)

	updated, err := g.ProcessFileTo(in, out, nil)
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, playerSource, readFile(t, in))
	assert.Equal(t, playerWant, readFile(t, out))
}

func TestProcessFileMissing(t *testing.T) {
	t.Parallel()

	g := newGenerator(t)

	updated, err := g.ProcessFile(filepath.Join(t.TempDir(), "Missing.cs"), nil)
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestProcessFilePermissionDenied(t *testing.T) {
	t.Parallel()

	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	g := newGenerator(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "Player.cs")

	writeFile(t, path, playerSource)
	require.NoError(t, os.Chmod(path, 0o444))

	updated, err := g.ProcessFile(path, nil)
	require.NoError(t, err)
	assert.False(t, updated)
	assert.Equal(t, playerSource, readFile(t, path))
}

func TestProcessFileEncoding(t *testing.T) {
	t.Parallel()

	enc, err := tooltip.LookupEncoding("windows-1252")
	require.NoError(t, err)
	require.NotNil(t, enc)

	g := newGenerator(t)
	path := filepath.Join(t.TempDir(), "Player.cs")

	// "Dégâts" in windows-1252.
	src := "using UnityEngine;\npublic class Player : MonoBehaviour {\n    /// <summary>D\xe9g\xe2ts</summary>\n    public int damage;\n}\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	updated, err := g.ProcessFile(path, enc)
	require.NoError(t, err)
	assert.True(t, updated)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(got, []byte("    [Tooltip(\"D\xe9g\xe2ts\")]\n    public int damage;")), "got %q", got)

	text, err := tooltip.ReadSource(path, enc)
	require.NoError(t, err)
	assert.Contains(t, text, `[Tooltip("Dégâts")]`)
}

func TestProcessFileUndecodedBytes(t *testing.T) {
	t.Parallel()

	g := newGenerator(t)
	path := filepath.Join(t.TempDir(), "Player.cs")

	src := "using UnityEngine;\n// caf\xe9\npublic class Player : MonoBehaviour {\n    /// <summary>\n    /// Hi\n    /// </summary>\n    public int a;\n}\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	updated, err := g.ProcessFile(path, nil)
	require.NoError(t, err)
	assert.True(t, updated)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(got, []byte("using UnityEngine;\n// caf\xe9\n")), "got %q", got)
	assert.True(t, bytes.Contains(got, []byte("    [Tooltip(\"Hi\")]\n    public int a;")), "got %q", got)
}

func TestLookupEncoding(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "utf-8", "UTF8"} {
		enc, err := tooltip.LookupEncoding(name)
		require.NoError(t, err)
		assert.Nil(t, enc, name)
	}

	enc, err := tooltip.LookupEncoding("utf-16le")
	require.NoError(t, err)
	assert.NotNil(t, enc)

	_, err = tooltip.LookupEncoding("klingon")
	require.ErrorIs(t, err, tooltip.ErrInvalidOption)
}

func TestBatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	paths := []string{
		filepath.Join(dir, "Player.cs"),
		filepath.Join(dir, "Helper.cs"),
		filepath.Join(dir, "Missing.cs"),
	}

	writeFile(t, paths[0], playerSource)
	writeFile(t, paths[1], helperSource)

	dry := &tooltip.Batch{Generator: newGenerator(t), Jobs: 2, DryRun: true}

	results, err := dry.Run(t.Context(), paths)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, paths[0], results[0].Path)
	assert.True(t, results[0].Changed)
	assert.Equal(t, playerSource, results[0].Before)
	assert.Equal(t, playerWant, results[0].After)
	assert.False(t, results[1].Changed)
	assert.False(t, results[2].Changed)
	require.NoError(t, results[2].Err)
	assert.Equal(t, playerSource, readFile(t, paths[0]), "dry run must not write")

	wet := &tooltip.Batch{Generator: newGenerator(t)}

	results, err = wet.Run(t.Context(), paths)
	require.NoError(t, err)
	assert.True(t, results[0].Changed)
	assert.Empty(t, results[0].After)
	assert.Equal(t, playerWant, readFile(t, paths[0]))
}

func TestBatchCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	b := &tooltip.Batch{Generator: newGenerator(t), Jobs: 1}

	_, err := b.Run(ctx, []string{"a.cs", "b.cs"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestPathFilter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	for _, rel := range []string{
		"Assets/Scripts/Player.cs",
		"Assets/Scripts/Enemy.cs",
		"Assets/Scripts/README.md",
		"Library/ScriptAssemblies/Gen.cs",
		"Packages/com.unity.ui/Runtime/Button.cs",
	} {
		writeFile(t, filepath.Join(dir, filepath.FromSlash(rel)), "")
	}

	f := tooltip.DefaultPathFilter()

	files, err := f.Collect(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "Assets", "Scripts", "Enemy.cs"),
		filepath.Join(dir, "Assets", "Scripts", "Player.cs"),
	}, files)

	single, err := f.Collect(filepath.Join(dir, "Assets", "Scripts", "Player.cs"), filepath.Join(dir, "Assets", "Scripts", "README.md"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "Assets", "Scripts", "Player.cs")}, single)

	assert.True(t, f.Match("Assets/Player.cs"))
	assert.False(t, f.Match("Assets/Player.txt"))
	assert.False(t, f.Match("Project/Library/Player.cs"))

	_, err = f.Collect(filepath.Join(dir, "nope"))
	require.ErrorIs(t, err, tooltip.ErrReadInput)
}

func TestPathFilterExcluded(t *testing.T) {
	t.Parallel()

	f := tooltip.DefaultPathFilter()

	assert.True(t, f.Excluded(filepath.Join("Project", "Library")))
	assert.True(t, f.Excluded(filepath.Join("Project", "Packages", "com.unity.ui")))
	assert.False(t, f.Excluded(filepath.Join("Project", "Assets")))
	assert.False(t, f.Excluded(filepath.Join("Project", "LibraryCode")))
}

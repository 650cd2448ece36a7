package artifact

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyCreatesAndOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "services", "widget", "api.ts")

	a := Artifact{Kind: KindClientAPI, Path: path, Content: []byte("v1\n"), Policy: AlwaysOverwrite}
	results, err := Apply([]Artifact{a}, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, OutcomeCreated, results[0].Outcome)
	assert.Equal(t, 3, results[0].Bytes)

	results, err = Apply([]Artifact{a}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnchanged, results[0].Outcome)

	a.Content = []byte("v2\n")
	results, err = Apply([]Artifact{a}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, OutcomeOverwritten, results[0].Outcome)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "v2\n", string(got))
}

func TestApplyReplacesWithoutLeftovers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "types.ts")

	for _, content := range []string{"v1\n", "v2\n", "v3\n"} {
		a := Artifact{Kind: KindClientTypes, Path: path, Content: []byte(content), Policy: AlwaysOverwrite}
		_, err := Apply([]Artifact{a}, zerolog.Nop())
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not survive a write")
	assert.Equal(t, "types.ts", entries[0].Name())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular())
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "v3\n", string(got))
}

func TestApplyWriteIfAbsentPreservesBytes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dto", "widget.dto.ts")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	handEdited := []byte("// edited by hand\nexport const x = 1;\n")
	require.NoError(t, os.WriteFile(path, handEdited, 0o644))

	a := Artifact{Kind: KindServerDTO, Path: path, Content: []byte("generated\n"), Policy: WriteIfAbsent}
	results, err := Apply([]Artifact{a}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, OutcomePreserved, results[0].Outcome)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, handEdited, got)
}

func TestApplyWriteIfAbsentCreates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widget.dto.ts")
	a := Artifact{Kind: KindServerDTO, Path: path, Content: []byte("generated\n"), Policy: WriteIfAbsent}

	results, err := Apply([]Artifact{a}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, results[0].Outcome)
}

func TestApplyStructuralMerge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widget.openapi.json")
	var seen []byte
	a := Artifact{
		Kind:    KindOpenAPIDoc,
		Path:    path,
		Content: []byte("fresh"),
		Policy:  StructuralMerge,
		Merge: func(existing []byte) ([]byte, error) {
			seen = existing
			return append([]byte("merged:"), existing...), nil
		},
	}

	results, err := Apply([]Artifact{a}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, results[0].Outcome)
	assert.Nil(t, seen, "merge should not run for a new file")

	results, err = Apply([]Artifact{a}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, OutcomeMerged, results[0].Outcome)
	assert.Equal(t, "fresh", string(seen))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "merged:fresh", string(got))
}

func TestApplyMergeFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	a := Artifact{
		Kind:   KindOpenAPIDoc,
		Path:   path,
		Policy: StructuralMerge,
		Merge:  func([]byte) ([]byte, error) { return nil, errors.New("boom") },
	}
	_, err := Apply([]Artifact{a}, zerolog.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWrite)

	var we *WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, "merge", we.Op)
}

func TestApplyRejectsDuplicates(t *testing.T) {
	dir := t.TempDir()
	a := Artifact{Path: filepath.Join(dir, "a.ts"), Content: []byte("1")}
	b := Artifact{Path: filepath.Join(dir, ".", "a.ts"), Content: []byte("2")}

	_, err := Apply([]Artifact{a, b}, zerolog.Nop())
	assert.ErrorIs(t, err, ErrDuplicatePath)

	_, statErr := os.Stat(a.Path)
	assert.True(t, os.IsNotExist(statErr), "nothing should be written")
}

func TestApplyRequiresMergeFunc(t *testing.T) {
	_, err := Apply([]Artifact{{Path: "x.json", Policy: StructuralMerge}}, zerolog.Nop())
	assert.Error(t, err)
}

func TestPolicyString(t *testing.T) {
	assert.Equal(t, "always-overwrite", AlwaysOverwrite.String())
	assert.Equal(t, "write-if-absent", WriteIfAbsent.String())
	assert.Equal(t, "structural-merge", StructuralMerge.String())
}

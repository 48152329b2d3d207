package storage

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadArea_Resolve(t *testing.T) {
	area := NewUploadArea(t.TempDir())

	path, err := area.Resolve("trabalho-1", "relatorio.pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(area.Root(), "trabalho-1", "relatorio.pdf"), path)
}

func TestUploadArea_Resolve_RejectsTraversal(t *testing.T) {
	area := NewUploadArea(t.TempDir())

	cases := []struct {
		name     string
		filename string
	}{
		{"parent dir", ".."},
		{"parent traversal", "../../etc/passwd"},
		{"nested traversal", "docs/../../escape.txt"},
		{"absolute path", "/etc/passwd"},
		{"backslash traversal", "..\\..\\windows\\system.ini"},
		{"embedded separator", "sub/dir.txt"},
		{"current dir", "."},
		{"empty", ""},
		{"dot prefix traversal", "./../escape"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path, err := area.Resolve("trabalho-1", tc.filename)
			require.ErrorIs(t, err, ErrInvalidFilename)
			assert.Empty(t, path)
		})
	}
}

func TestUploadArea_Resolve_RejectsBadTrabalhoID(t *testing.T) {
	area := NewUploadArea(t.TempDir())

	_, err := area.Resolve("../other", "file.txt")
	require.ErrorIs(t, err, ErrInvalidFilename)

	_, err = area.Resolve("", "file.txt")
	require.ErrorIs(t, err, ErrInvalidFilename)
}

func TestUploadArea_WriteAndOpen_RoundTrip(t *testing.T) {
	area := NewUploadArea(t.TempDir())
	content := []byte("conteudo do relatorio final")

	err := area.Write("trabalho-1", "relatorio.pdf", bytes.NewReader(content))
	require.NoError(t, err)

	f, err := area.Open("trabalho-1", "relatorio.pdf")
	require.NoError(t, err)
	defer f.Close()

	got, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestUploadArea_Write_Overwrites(t *testing.T) {
	area := NewUploadArea(t.TempDir())

	require.NoError(t, area.Write("t1", "notas.txt", strings.NewReader("primeira")))
	require.NoError(t, area.Write("t1", "notas.txt", strings.NewReader("segunda")))

	f, err := area.Open("t1", "notas.txt")
	require.NoError(t, err)
	defer f.Close()

	got, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "segunda", string(got))
}

func TestUploadArea_Open_Missing(t *testing.T) {
	area := NewUploadArea(t.TempDir())

	_, err := area.Open("trabalho-1", "nunca-enviado.txt")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUploadArea_Stat_Missing(t *testing.T) {
	area := NewUploadArea(t.TempDir())

	_, err := area.Stat("trabalho-1", "nunca-enviado.txt")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUploadArea_EnsureDir_Idempotent(t *testing.T) {
	area := NewUploadArea(t.TempDir())

	require.NoError(t, area.EnsureDir("trabalho-1"))
	require.NoError(t, area.EnsureDir("trabalho-1"))

	info, err := os.Stat(filepath.Join(area.Root(), "trabalho-1"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestUploadArea_FilesIsolatedPerTrabalho(t *testing.T) {
	area := NewUploadArea(t.TempDir())

	require.NoError(t, area.Write("t1", "same.txt", strings.NewReader("de t1")))
	require.NoError(t, area.Write("t2", "same.txt", strings.NewReader("de t2")))

	f, err := area.Open("t1", "same.txt")
	require.NoError(t, err)
	defer f.Close()
	got, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "de t1", string(got))
}

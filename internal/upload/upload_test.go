package upload

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func headerFor(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
	if contentType != "" {
		h["Content-Type"] = []string{contentType}
	}
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	_, fh, err := req.FormFile("file")
	require.NoError(t, err)
	return fh
}

func TestSaveImageWritesFile(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	fh := headerFor(t, "qr.png", "image/png", []byte("png-bytes"))
	path, err := store.SaveImage(fh)
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(path, dir))
	require.Equal(t, ".png", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte("png-bytes"), data)
}

func TestSaveImageRejectsOversizedFile(t *testing.T) {
	store := NewStore(t.TempDir())
	store.MaxSize = 8

	fh := headerFor(t, "big.png", "image/png", []byte("way more than 8 bytes"))
	_, err := store.SaveImage(fh)
	require.ErrorContains(t, err, "file too large")
}

func TestSaveImageRejectsBadExtension(t *testing.T) {
	store := NewStore(t.TempDir())

	fh := headerFor(t, "notes.pdf", "application/pdf", []byte("%PDF"))
	_, err := store.SaveImage(fh)
	require.ErrorContains(t, err, "only image files are allowed")
}

func TestSaveImageRejectsMismatchedContentType(t *testing.T) {
	store := NewStore(t.TempDir())

	fh := headerFor(t, "fake.png", "application/octet-stream", []byte("nope"))
	_, err := store.SaveImage(fh)
	require.ErrorContains(t, err, "only image files are allowed")
}

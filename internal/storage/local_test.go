package storage

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

func uploadHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["file"][0]
}

func TestLocalStore_Put(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/media")
	require.NoError(t, err)

	url, err := store.Put(uploadHeader(t, "logo.png", []byte("image bytes")))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/media/"))
	require.True(t, strings.HasSuffix(url, "_logo.png"))

	data, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, "/media/")))
	require.NoError(t, err)
	require.Equal(t, []byte("image bytes"), data)
}

func TestLocalStore_PutSameNameTwice(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/media")
	require.NoError(t, err)

	first, err := store.Put(uploadHeader(t, "logo.png", []byte("one")))
	require.NoError(t, err)
	second, err := store.Put(uploadHeader(t, "logo.png", []byte("two")))
	require.NoError(t, err)

	require.NotEqual(t, first, second)
}

func TestNewLocalStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "media")
	store, err := NewLocalStore(dir, "/media")
	require.NoError(t, err)
	require.Equal(t, dir, store.Dir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

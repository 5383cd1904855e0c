package report

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShubhenduKH/TestMyBlood/internal/config"
	"github.com/ShubhenduKH/TestMyBlood/internal/model"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(config.UploadsConfig{Dir: t.TempDir(), MaxSizeMB: 1})
	require.NoError(t, err)
	return s
}

// uploadFile builds a real multipart.FileHeader the way gin hands it to
// the handler.
func uploadFile(t *testing.T, name, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="report"; filename="` + name + `"`}
	h["Content-Type"] = []string{contentType}
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["report"][0]
}

func TestSaveAcceptsAllowedTypes(t *testing.T) {
	s := newTestStorage(t)

	for contentType, ext := range map[string]string{
		"application/pdf": ".pdf",
		"image/jpeg":      ".jpg",
		"image/png":       ".png",
	} {
		fh := uploadFile(t, "report.bin", contentType, []byte("content"))
		name, resolved, err := s.Save(fh)
		require.NoError(t, err, contentType)
		assert.Equal(t, contentType, resolved)
		assert.True(t, strings.HasSuffix(name, ext), "%s -> %s", contentType, name)
		// Stored name is generated, never the client's filename.
		assert.NotEqual(t, "report.bin", name)

		path, err := s.Path(name)
		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []byte("content"), data)
	}
}

func TestSaveRejectsDisallowedType(t *testing.T) {
	s := newTestStorage(t)

	for _, contentType := range []string{
		"application/octet-stream",
		"text/html",
		"application/x-msdownload",
		"image/svg+xml",
		"",
	} {
		fh := uploadFile(t, "evil.exe", contentType, []byte("x"))
		_, _, err := s.Save(fh)
		assert.ErrorIs(t, err, model.ErrInvalidInput, "content type %q", contentType)
	}
}

func TestSaveRejectsOversizedFile(t *testing.T) {
	s := newTestStorage(t)

	big := bytes.Repeat([]byte("a"), 1<<20+1)
	fh := uploadFile(t, "big.pdf", "application/pdf", big)
	_, _, err := s.Save(fh)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestSaveParsesContentTypeParameters(t *testing.T) {
	s := newTestStorage(t)

	fh := uploadFile(t, "r.pdf", "application/pdf; charset=binary", []byte("x"))
	_, resolved, err := s.Save(fh)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", resolved)
}

func TestPathRejectsTraversal(t *testing.T) {
	s := newTestStorage(t)

	for _, name := range []string{"../secret.txt", "a/b.pdf", "..", ""} {
		_, err := s.Path(name)
		assert.Error(t, err, name)
		assert.NotErrorIs(t, err, model.ErrNotFound, name)
	}
}

func TestPathMissingFile(t *testing.T) {
	s := newTestStorage(t)
	_, err := s.Path("nope.pdf")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestNewStorageCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	_, err := NewStorage(config.UploadsConfig{Dir: dir, MaxSizeMB: 10})
	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

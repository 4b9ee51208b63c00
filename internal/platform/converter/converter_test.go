package converter

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phrazzld/memorybook/internal/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fakePDF = "%PDF-1.7\n%fake\n"

func TestHTTPConverterConvert(t *testing.T) {
	t.Parallel()

	var gotHTML string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, ConvertPath, r.URL.Path)

		file, header, err := r.FormFile("files")
		if !assert.NoError(t, err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer func() { _ = file.Close() }()
		assert.Equal(t, "index.html", header.Filename)

		raw, _ := io.ReadAll(file)
		gotHTML = string(raw)

		w.Header().Set("Content-Type", "application/pdf")
		_, _ = io.WriteString(w, fakePDF)
	}))
	t.Cleanup(srv.Close)

	outDir := filepath.Join(t.TempDir(), "out")
	c, err := NewHTTPConverter(Config{BaseURL: srv.URL + "/", OutputDir: outDir}, nil)
	require.NoError(t, err)

	artifact, err := c.Convert(context.Background(), "<!DOCTYPE html><p>hi</p>", "adas-memory-book")
	require.NoError(t, err)

	assert.Equal(t, "<!DOCTYPE html><p>hi</p>", gotHTML)
	assert.Equal(t, outDir, filepath.Dir(artifact.Path))
	assert.True(t, strings.HasPrefix(filepath.Base(artifact.Path), "adas-memory-book-"))
	assert.Equal(t, ".pdf", filepath.Ext(artifact.Path))
	assert.Equal(t, int64(len(fakePDF)), artifact.Size)

	written, err := os.ReadFile(artifact.Path)
	require.NoError(t, err)
	assert.Equal(t, fakePDF, string(written))
}

func TestHTTPConverterErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "chromium crashed", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	outDir := t.TempDir()
	c, err := NewHTTPConverter(Config{BaseURL: srv.URL, OutputDir: outDir}, nil)
	require.NoError(t, err)

	_, err = c.Convert(context.Background(), "<html>", "book")
	require.ErrorIs(t, err, ErrConversionFailed)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "chromium crashed")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no file is left behind on failure")
}

func TestHTTPConverterUnreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewHTTPConverter(Config{BaseURL: url, OutputDir: t.TempDir()}, nil)
	require.NoError(t, err)

	_, err = c.Convert(context.Background(), "<html>", "book")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sending conversion request")
}

func TestNewHTTPConverterValidatesConfig(t *testing.T) {
	t.Parallel()

	_, err := NewHTTPConverter(Config{OutputDir: t.TempDir()}, nil)
	assert.Error(t, err)

	_, err = NewHTTPConverter(Config{BaseURL: "http://localhost:3000"}, nil)
	assert.Error(t, err)
}

func TestHTTPConverterDiscard(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()
	c, err := NewHTTPConverter(Config{BaseURL: "http://converter.invalid", OutputDir: outDir}, nil)
	require.NoError(t, err)

	path := filepath.Join(outDir, "adas-memory-book-123.pdf")
	require.NoError(t, os.WriteFile(path, []byte(fakePDF), 0o600))

	require.NoError(t, c.Discard(context.Background(), export.Artifact{Path: path}))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Discarding twice is fine.
	assert.NoError(t, c.Discard(context.Background(), export.Artifact{Path: path}))

	outside := filepath.Join(t.TempDir(), "keep.pdf")
	require.NoError(t, os.WriteFile(outside, []byte(fakePDF), 0o600))
	assert.Error(t, c.Discard(context.Background(), export.Artifact{Path: outside}))
	assert.Error(t, c.Discard(context.Background(), export.Artifact{}))
	_, err = os.Stat(outside)
	assert.NoError(t, err)
}

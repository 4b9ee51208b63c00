// Package converter turns rendered book markup into PDF files by calling a
// Gotenberg-compatible HTML conversion service.
package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/phrazzld/memorybook/internal/export"
	"github.com/phrazzld/memorybook/internal/platform/logger"
)

// ConvertPath is the conversion endpoint relative to the service URL.
const ConvertPath = "/forms/chromium/convert/html"

// DefaultTimeout bounds a conversion when the config does not.
const DefaultTimeout = 60 * time.Second

// ErrConversionFailed is returned when the service answers with a non-2xx
// status or its response cannot be stored.
var ErrConversionFailed = errors.New("pdf conversion failed")

// Config holds configuration for the HTTP converter.
type Config struct {
	// BaseURL is the conversion service URL (e.g., "http://localhost:3000").
	BaseURL string

	// OutputDir is where converted PDFs are written. It is created if missing.
	OutputDir string

	// Timeout bounds the whole request. Defaults to DefaultTimeout.
	Timeout time.Duration
}

// HTTPConverter implements export.Converter over HTTP.
type HTTPConverter struct {
	baseURL    string
	outputDir  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPConverter creates a converter posting to cfg.BaseURL.
func NewHTTPConverter(cfg Config, logger *slog.Logger) (*HTTPConverter, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("converter base URL is required")
	}
	if cfg.OutputDir == "" {
		return nil, fmt.Errorf("converter output directory is required")
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &HTTPConverter{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		outputDir:  cfg.OutputDir,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With(slog.String("component", "pdf_converter")),
	}, nil
}

// Ensure HTTPConverter implements export.Converter
var _ export.Converter = (*HTTPConverter)(nil)

// Convert uploads html as index.html and writes the returned PDF to a new
// file named after name in the output directory.
func (c *HTTPConverter) Convert(ctx context.Context, html, name string) (export.Artifact, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	body, contentType, err := multipartBody(html)
	if err != nil {
		return export.Artifact{}, fmt.Errorf("building conversion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ConvertPath, body)
	if err != nil {
		return export.Artifact{}, fmt.Errorf("creating conversion request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return export.Artifact{}, fmt.Errorf("sending conversion request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("conversion service returned an error",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(detail)))
		return export.Artifact{}, fmt.Errorf("%w: status %d: %s",
			ErrConversionFailed, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	out, err := os.CreateTemp(c.outputDir, name+"-*.pdf")
	if err != nil {
		return export.Artifact{}, fmt.Errorf("%w: creating output file: %v", ErrConversionFailed, err)
	}

	size, copyErr := io.Copy(out, resp.Body)
	closeErr := out.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(out.Name())
		return export.Artifact{}, fmt.Errorf("%w: writing output file: %v",
			ErrConversionFailed, errors.Join(copyErr, closeErr))
	}

	log.Info("converted book to pdf",
		slog.String("path", out.Name()),
		slog.Int64("size", size),
		slog.Duration("duration", time.Since(start)))

	return export.Artifact{Path: out.Name(), Size: size}, nil
}

var _ export.Discarder = (*HTTPConverter)(nil)

// Discard removes a converted file that was never shared. Only files inside
// the output directory are touched; a file that is already gone is not an
// error.
func (c *HTTPConverter) Discard(ctx context.Context, artifact export.Artifact) error {
	rel, err := filepath.Rel(c.outputDir, artifact.Path)
	outside := rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
	if err != nil || artifact.Path == "" || rel == "." || outside {
		return fmt.Errorf("refusing to discard %q outside %s", artifact.Path, c.outputDir)
	}

	if err := os.Remove(artifact.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing unshared pdf: %w", err)
	}

	logger.FromContextOrDefault(ctx, c.logger).Debug("discarded unshared pdf",
		slog.String("path", artifact.Path))
	return nil
}

// multipartBody wraps html in a form with a single index.html file part.
func multipartBody(html string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("files", "index.html")
	if err != nil {
		return nil, "", err
	}
	if _, err := io.WriteString(part, html); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// Package share is the server-side stand-in for a device share sheet: it
// files exported documents under a shared directory with a JSON sidecar
// describing how they should be presented.
package share

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/phrazzld/memorybook/internal/export"
	"github.com/phrazzld/memorybook/internal/platform/logger"
)

// SharedDirName is the subdirectory of the output directory holding shared files.
const SharedDirName = "shared"

// ErrInvalidShare is returned for artifacts or options the sink cannot file.
var ErrInvalidShare = errors.New("invalid share request")

// Manifest is the sidecar written next to each shared file.
type Manifest struct {
	BookID      string    `json:"book_id"`
	FileName    string    `json:"file_name"`
	MIMEType    string    `json:"mime_type"`
	DialogTitle string    `json:"dialog_title"`
	Size        int64     `json:"size"`
	SharedAt    time.Time `json:"shared_at"`
}

// DirectorySink implements export.Sink by moving artifacts into
// <root>/shared/<book id>/<file name>.
type DirectorySink struct {
	root   string
	logger *slog.Logger
	now    func() time.Time
}

// NewDirectorySink creates a sink rooted at dir.
func NewDirectorySink(dir string, logger *slog.Logger) *DirectorySink {
	if logger == nil {
		logger = slog.Default()
	}
	return &DirectorySink{
		root:   filepath.Join(dir, SharedDirName),
		logger: logger.With(slog.String("component", "share_sink")),
		now:    time.Now,
	}
}

var _ export.Sink = (*DirectorySink)(nil)

// Share implements export.Sink. A previous share of the same file name for the
// same book is replaced.
func (s *DirectorySink) Share(ctx context.Context, artifact export.Artifact, opts export.ShareOptions) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	name := filepath.Base(opts.FileName)
	if artifact.Path == "" || name == "." || name == string(filepath.Separator) || name != opts.FileName {
		return fmt.Errorf("%w: artifact %q as %q", ErrInvalidShare, artifact.Path, opts.FileName)
	}

	dir := filepath.Join(s.root, opts.BookID.String())
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create share directory: %w", err)
	}

	dest := filepath.Join(dir, name)
	if err := moveFile(artifact.Path, dest); err != nil {
		return fmt.Errorf("failed to move %s into share directory: %w", artifact.Path, err)
	}

	manifest := Manifest{
		BookID:      opts.BookID.String(),
		FileName:    name,
		MIMEType:    opts.MIMEType,
		DialogTitle: opts.DialogTitle,
		Size:        artifact.Size,
		SharedAt:    s.now().UTC(),
	}
	raw, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode share manifest: %w", err)
	}
	if err := os.WriteFile(dest+".json", raw, 0o640); err != nil {
		return fmt.Errorf("failed to write share manifest: %w", err)
	}

	log.Info("document shared",
		slog.String("path", dest),
		slog.String("mime_type", opts.MIMEType),
		slog.String("dialog_title", opts.DialogTitle))
	return nil
}

// moveFile renames src to dst, copying when they are on different devices.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return os.Remove(src)
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/afero"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
)

// FileProgressBackend keeps one learner's progress as a JSON object keyed by
// item ID in a single file. Timestamps are written as RFC 3339 strings.
type FileProgressBackend struct {
	fs   afero.Fs
	path string
	now  func() time.Time
}

// NewFileProgressBackend stores the progress of userID under dir.
func NewFileProgressBackend(fs afero.Fs, dir string, userID int64) *FileProgressBackend {
	return &FileProgressBackend{
		fs:   fs,
		path: filepath.Join(dir, "progress-"+strconv.FormatInt(userID, 10)+".json"),
		now:  time.Now,
	}
}

// Path returns the file holding the progress.
func (b *FileProgressBackend) Path() string {
	return b.path
}

func (b *FileProgressBackend) Load(_ context.Context) (entities.ProgressMap, error) {
	data, err := afero.ReadFile(b.fs, b.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return entities.ProgressMap{}, nil
		}
		return nil, fmt.Errorf("read progress file: %w", err)
	}

	var progress entities.ProgressMap
	if err := json.Unmarshal(data, &progress); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptProgress, b.path, err)
	}

	now := b.now().UTC()
	out := make(entities.ProgressMap, len(progress))
	for id, rec := range progress {
		if rec.ItemID == "" {
			rec.ItemID = id
		}
		rec.Normalize(now)
		out[id] = rec
	}

	return out, nil
}

// Save replaces the file with progress. The new content is written to a
// temporary file first and renamed over the old one.
func (b *FileProgressBackend) Save(_ context.Context, progress entities.ProgressMap) error {
	if progress == nil {
		progress = entities.ProgressMap{}
	}

	data, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}

	if err := b.fs.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("create progress dir: %w", err)
	}

	tmp := b.path + ".tmp"
	if err := afero.WriteFile(b.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("write progress file: %w", err)
	}
	if err := b.fs.Rename(tmp, b.path); err != nil {
		return fmt.Errorf("replace progress file: %w", err)
	}

	return nil
}

func (b *FileProgressBackend) Clear(_ context.Context) error {
	if err := b.fs.Remove(b.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove progress file: %w", err)
	}
	return nil
}

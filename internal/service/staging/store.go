package staging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skillforge/academy-backend/internal/config"
)

// ErrTooLarge reports an upload exceeding the configured size cap.
var ErrTooLarge = errors.New("uploaded file exceeds size limit")

// StagedFile references one file written to the staging directory.
type StagedFile struct {
	// Filename is the original client-provided name, kept for the
	// attachment header. Path is where the bytes actually live.
	Filename string
	Path     string
}

// Store writes uploads into a shared scratch directory with unique names
// and sweeps anything that outlives the retention window.
type Store struct {
	dir      string
	maxBytes int64
	ttl      time.Duration
}

// NewStore prepares the staging directory.
func NewStore(cfg config.UploadConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	return &Store{dir: cfg.Dir, maxBytes: cfg.MaxBytes, ttl: cfg.TTL}, nil
}

// Save streams one upload to disk under a collision-free name.
func (s *Store) Save(filename string, r io.Reader) (StagedFile, error) {
	base := sanitizeFilename(filename)
	path := filepath.Join(s.dir, uuid.NewString()+"_"+base)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return StagedFile{}, fmt.Errorf("create staged file: %w", err)
	}

	written, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && written > s.maxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		os.Remove(path)
		return StagedFile{}, err
	}

	return StagedFile{Filename: base, Path: path}, nil
}

// Release deletes a staged file once its consumer is done with it.
func (s *Store) Release(file StagedFile) {
	if file.Path == "" {
		return
	}
	if err := os.Remove(file.Path); err != nil && !os.IsNotExist(err) {
		log.Printf("[staging] failed to release %s: %v", file.Path, err)
	}
}

// Run sweeps expired files until the context is cancelled. Covers uploads
// orphaned by failed sends or crashes.
func (s *Store) Run(ctx context.Context) {
	interval := s.ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed, err := s.Sweep(time.Now()); err != nil {
				log.Printf("[staging] sweep failed: %v", err)
			} else if removed > 0 {
				log.Printf("[staging] swept %d expired file(s)", removed)
			}
		}
	}
}

// Sweep removes files whose age exceeds the retention window.
func (s *Store) Sweep(now time.Time) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) <= s.ttl {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." || base == ".." {
		return "upload.bin"
	}
	return base
}

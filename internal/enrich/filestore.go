package enrich

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// FileStore keeps the per-batch session directories holding the uploaded
// input and the enriched output. Sessions are transient: a sweeper removes
// directories older than the retention window.
type FileStore struct {
	root      string
	retention time.Duration
}

// NewFileStore creates a file store rooted at dir. An empty dir falls back
// to a "wine-enrichment" folder under the system temp directory.
func NewFileStore(dir string, retention time.Duration) (*FileStore, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "wine-enrichment")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "filestore: create root %s", dir)
	}
	if retention <= 0 {
		retention = time.Hour
	}
	return &FileStore{root: dir, retention: retention}, nil
}

// WriteSession stores the input and output CSVs under a fresh session
// directory and returns the session id and the output file path.
func (f *FileStore) WriteSession(input, output []byte) (string, string, error) {
	session := uuid.NewString()
	dir := filepath.Join(f.root, session)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", eris.Wrapf(err, "filestore: create session %s", session)
	}

	if err := os.WriteFile(filepath.Join(dir, "input.csv"), input, 0o644); err != nil {
		return "", "", eris.Wrap(err, "filestore: write input")
	}
	outPath := filepath.Join(dir, "enriched.csv")
	if err := os.WriteFile(outPath, output, 0o644); err != nil {
		return "", "", eris.Wrap(err, "filestore: write output")
	}
	return session, outPath, nil
}

// OutputPath returns the enriched CSV path for a session, or ErrValidation
// when the session does not exist.
func (f *FileStore) OutputPath(session string) (string, error) {
	p := filepath.Join(f.root, session, "enriched.csv")
	if _, err := os.Stat(p); err != nil {
		return "", eris.Wrapf(ErrValidation, "unknown session %s", session)
	}
	return p, nil
}

// Sweep removes session directories older than the retention window and
// returns how many were removed.
func (f *FileStore) Sweep() (int, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return 0, eris.Wrap(err, "filestore: read root")
	}

	cutoff := time.Now().Add(-f.retention)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(f.root, entry.Name())); err != nil {
			zap.L().Warn("filestore: remove session", zap.String("session", entry.Name()), zap.Error(err))
			continue
		}
		removed++
	}
	return removed, nil
}

// StartSweeper runs Sweep periodically until ctx is done.
func (f *FileStore) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := f.Sweep(); err != nil {
					zap.L().Warn("filestore: sweep", zap.Error(err))
				} else if n > 0 {
					zap.L().Info("filestore: swept sessions", zap.Int("removed", n))
				}
			}
		}
	}()
}

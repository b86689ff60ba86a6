package tokenstore

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/renameio/v2"

	"scan-dashboard/internal/common/errors"
	"scan-dashboard/internal/common/logger"
	"scan-dashboard/internal/models"
)

type fileDocument struct {
	Version int             `json:"version"`
	Session *models.Session `json:"session"`
}

// FileStore keeps the session in a single JSON document readable only by
// the owner. Writes replace the file atomically.
type FileStore struct {
	path string
	log  logger.Logger
	mu   sync.Mutex
}

func NewFileStore(path string, log logger.Logger) *FileStore {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &FileStore{path: path, log: log.WithFields(map[string]interface{}{"store": "file"})}
}

func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Get(_ context.Context) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, notFound()
	}
	if err != nil {
		return nil, errors.NewSessionStoreError("read", err)
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil || doc.Version != SchemaVersion || !doc.Session.Complete() {
		f.log.Warn("Discarding unreadable session file", map[string]interface{}{
			"path":    f.path,
			"version": doc.Version,
		})
		if rmErr := f.remove(); rmErr != nil {
			return nil, rmErr
		}
		return nil, notFound()
	}
	return doc.Session, nil
}

func (f *FileStore) Set(_ context.Context, session models.Session) error {
	if err := checkComplete(session); err != nil {
		return err
	}

	data, err := json.MarshalIndent(fileDocument{Version: SchemaVersion, Session: &session}, "", "  ")
	if err != nil {
		return errors.NewSessionStoreError("encode", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return errors.NewSessionStoreError("mkdir", err)
	}
	if err := renameio.WriteFile(f.path, data, 0o600); err != nil {
		return errors.NewSessionStoreError("write", err)
	}
	return nil
}

func (f *FileStore) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.remove()
}

func (f *FileStore) remove() error {
	if err := os.Remove(f.path); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return errors.NewSessionStoreError("remove", err)
	}
	return nil
}

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"edgectl/internal/logging"
)

// FileStore keeps the session in a JSON file. Access is serialised within
// the process by a mutex and across processes by a sidecar lock file.
type FileStore struct {
	path   string
	lock   *flock.Flock
	logger *slog.Logger
	mu     sync.Mutex
}

// NewFileStore builds a FileStore backed by path.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	return &FileStore{
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: logging.NewComponentLogger(logger, "session"),
	}
}

// Path returns the backing file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the session file. Unusable records are removed.
func (s *FileStore) Load() (Info, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("session read failed", logging.Error(err))
		}
		return Info{}, false
	}
	info, err := decodeRecord(data)
	if err != nil {
		s.logger.Debug("discarding session record",
			logging.String("path", s.path),
			logging.Error(err),
		)
		s.clearLocked()
		return Info{}, false
	}
	return info, true
}

func (s *FileStore) read() ([]byte, error) {
	if _, err := os.Stat(s.path); err != nil {
		return nil, err
	}
	if err := s.ensureDir(); err != nil {
		return nil, err
	}
	if err := s.lock.RLock(); err != nil {
		return nil, fmt.Errorf("acquire session lock: %w", err)
	}
	defer s.unlock()
	return os.ReadFile(s.path)
}

// Save writes info atomically with owner-only permissions.
func (s *FileStore) Save(info Info) error {
	if !info.Valid() {
		return errMissingToken
	}
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureDir(); err != nil {
		return err
	}
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("acquire session lock: %w", err)
	}
	defer s.unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return fmt.Errorf("create session temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("chmod session temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close session temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

// Clear removes the session file. Failures are logged.
func (s *FileStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *FileStore) clearLocked() {
	if err := s.ensureDir(); err != nil {
		s.logger.Warn("session clear failed", logging.Error(err))
		return
	}
	if err := s.lock.Lock(); err != nil {
		s.logger.Warn("session clear failed", logging.Error(err))
		return
	}
	defer s.unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("session clear failed", logging.String("path", s.path), logging.Error(err))
	}
}

func (s *FileStore) ensureDir() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("ensure session directory: %w", err)
	}
	return nil
}

func (s *FileStore) unlock() {
	if err := s.lock.Unlock(); err != nil {
		s.logger.Warn("failed to release session lock", logging.Error(err))
	}
}

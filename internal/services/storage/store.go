// Package storage persists the last complete ledger snapshot to disk so
// analyses can still be served when the remote ledger is unreachable.
// Snapshot files are optionally encrypted at rest with an Age scrypt
// passphrase, since they contain the user's full transaction history.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"filippo.io/age"

	"ledgerlens/internal/models"
)

const (
	// ageHeader is the prefix of Age-encrypted files.
	ageHeader = "age-encryption.org"

	// snapshotFile holds the serialized last-good snapshot.
	snapshotFile = "snapshot.json"

	// markerFile indicates encryption is enabled for the data directory.
	markerFile = ".encrypted"

	// verifyFile is used to validate the passphrase before trusting it.
	verifyFile = ".encryption-verify"

	// verifyMagic is the expected content of the verify file.
	verifyMagic = `{"magic":"ledgerlens-encryption-verify","version":1}`
)

// ErrNoSnapshot is returned when no snapshot has been persisted yet.
var ErrNoSnapshot = fmt.Errorf("no cached snapshot on disk")

// Store reads and writes the on-disk snapshot, transparently handling
// encryption when it is enabled.
type Store struct {
	dir       string
	encrypted bool
	identity  *age.ScryptIdentity
	recipient *age.ScryptRecipient
	mu        sync.RWMutex
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	s := &Store{dir: dir}
	if _, err := os.Stat(filepath.Join(dir, markerFile)); err == nil {
		s.encrypted = true
	}
	return s, nil
}

// IsEncrypted reports whether encryption at rest is enabled.
func (s *Store) IsEncrypted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.encrypted
}

// IsUnlocked reports whether snapshots can currently be read and written.
func (s *Store) IsUnlocked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.encrypted || s.identity != nil
}

// EnableEncryption turns on encryption at rest with the given passphrase
// and re-encrypts any existing snapshot.
func (s *Store) EnableEncryption(passphrase string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.encrypted {
		return fmt.Errorf("encryption is already enabled")
	}
	if len(passphrase) < 8 {
		return fmt.Errorf("passphrase must be at least 8 characters")
	}

	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return fmt.Errorf("create recipient: %w", err)
	}
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return fmt.Errorf("create identity: %w", err)
	}

	verified, err := encryptData([]byte(verifyMagic), recipient)
	if err != nil {
		return fmt.Errorf("encrypt verification file: %w", err)
	}
	if err := s.atomicWrite(filepath.Join(s.dir, verifyFile), verified); err != nil {
		return fmt.Errorf("write verification file: %w", err)
	}

	// Re-encrypt the current snapshot under the new passphrase, if any.
	snapPath := filepath.Join(s.dir, snapshotFile)
	if plain, err := os.ReadFile(snapPath); err == nil && !isAgeEncrypted(plain) {
		sealed, err := encryptData(plain, recipient)
		if err != nil {
			return fmt.Errorf("encrypt snapshot: %w", err)
		}
		if err := s.atomicWrite(snapPath, sealed); err != nil {
			return fmt.Errorf("rewrite snapshot: %w", err)
		}
	}

	if err := s.atomicWrite(filepath.Join(s.dir, markerFile), nil); err != nil {
		return fmt.Errorf("write marker file: %w", err)
	}

	s.encrypted = true
	s.identity = identity
	s.recipient = recipient
	return nil
}

// Unlock validates the passphrase against the verification file and keeps
// the derived keys in memory.
func (s *Store) Unlock(passphrase string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.encrypted {
		return nil
	}

	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return fmt.Errorf("create identity: %w", err)
	}

	sealed, err := os.ReadFile(filepath.Join(s.dir, verifyFile))
	if err != nil {
		return fmt.Errorf("read verification file: %w", err)
	}
	plain, err := decryptData(sealed, identity)
	if err != nil || string(plain) != verifyMagic {
		return fmt.Errorf("incorrect passphrase")
	}

	s.identity = identity
	s.recipient, _ = age.NewScryptRecipient(passphrase)
	return nil
}

// Lock drops the derived keys from memory.
func (s *Store) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = nil
	s.recipient = nil
}

// SaveSnapshot persists a snapshot, encrypting it when enabled.
func (s *Store) SaveSnapshot(snap *models.Snapshot) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if s.encrypted {
		if s.recipient == nil {
			return fmt.Errorf("storage is locked")
		}
		if data, err = encryptData(data, s.recipient); err != nil {
			return fmt.Errorf("encrypt snapshot: %w", err)
		}
	}

	return s.atomicWrite(filepath.Join(s.dir, snapshotFile), data)
}

// LoadSnapshot reads the persisted snapshot, decrypting it when needed.
func (s *Store) LoadSnapshot() (*models.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(s.dir, snapshotFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSnapshot
		}
		return nil, err
	}

	if isAgeEncrypted(data) {
		if s.identity == nil {
			return nil, fmt.Errorf("snapshot is encrypted but storage is locked")
		}
		if data, err = decryptData(data, s.identity); err != nil {
			return nil, fmt.Errorf("decrypt snapshot: %w", err)
		}
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// atomicWrite writes through a temp file plus rename so a crash can never
// leave a half-written snapshot behind.
func (s *Store) atomicWrite(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func encryptData(data []byte, recipient *age.ScryptRecipient) ([]byte, error) {
	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, recipient)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decryptData(data []byte, identity *age.ScryptIdentity) ([]byte, error) {
	r, err := age.Decrypt(bytes.NewReader(data), identity)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

func isAgeEncrypted(data []byte) bool {
	return len(data) > len(ageHeader) && string(data[:len(ageHeader)]) == ageHeader
}

package watch

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"sync"
)

// HashFile computes a SHA-256 hash of the file contents
func HashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// Tracker remembers the content hash of each file it has seen so that a
// save without changes does not trigger regeneration.
type Tracker struct {
	mu     sync.Mutex
	hashes map[string]string
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{hashes: make(map[string]string)}
}

// Seed records the current hash of every readable file without reporting
// it as changed.
func (t *Tracker) Seed(paths ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, p := range paths {
		if h, err := HashFile(p); err == nil {
			t.hashes[p] = h
		}
	}
}

// Changed returns the paths whose content differs from the last recorded
// hash, in input order, and records the new hashes. Unreadable files are
// skipped and forgotten, so a file that is deleted and recreated with the
// same content still counts as changed. The first read error is returned
// along with the result.
func (t *Tracker) Changed(paths []string) ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var changed []string
	var firstErr error
	for _, p := range paths {
		h, err := HashFile(p)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			delete(t.hashes, p)
			continue
		}
		if t.hashes[p] != h {
			t.hashes[p] = h
			changed = append(changed, p)
		}
	}
	return changed, firstErr
}

package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DefaultOutputDir is the directory, relative to the working directory, that
// accepted images are written to.
const DefaultOutputDir = "Fetched_Images"

// Manager owns the output directory and the set of content hashes saved
// during one fetch session.
type Manager struct {
	outputDir string
	seen      map[string]struct{}
	mu        sync.RWMutex
}

// NewManager creates the output directory if needed and returns a manager
// with an empty seen-content set.
func NewManager(outputDir string) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Manager{
		outputDir: outputDir,
		seen:      make(map[string]struct{}),
	}, nil
}

// IsDuplicate reports whether content with this hash was already accepted
func (m *Manager) IsDuplicate(hash string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.seen[hash]
	return ok
}

// MarkSeen records a content hash as accepted
func (m *Manager) MarkSeen(hash string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seen[hash] = struct{}{}
}

// SaveImage writes data to filename inside the output directory, replacing
// any existing file of that name, and returns the written path.
func (m *Manager) SaveImage(data []byte, filename string) (string, error) {
	path := filepath.Join(m.outputDir, filename)

	tempFile := path + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}

	_, err = out.Write(data)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to write image data: %w", err)
	}

	if closeErr != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return path, nil
}

// GetSeenCount returns the number of distinct contents accepted so far
func (m *Manager) GetSeenCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.seen)
}

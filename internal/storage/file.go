package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileRecorder keeps the turn log as one JSON object per line.
type FileRecorder struct {
	mu   sync.Mutex
	path string
}

// NewFileRecorder creates the log file and its directory if they are missing.
func NewFileRecorder(path string) (*FileRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("turn log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("turn log: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("turn log: %w", err)
	}
	return &FileRecorder{path: path}, nil
}

// AppendInteraction writes the event and its newline in a single write.
func (r *FileRecorder) AppendInteraction(event Event) error {
	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	line = append(line, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()
	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open turn log: %w", err)
	}
	_, werr := f.Write(line)
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		return fmt.Errorf("append turn log: %w", err)
	}
	return nil
}

// LoadInteractions returns the logged events oldest first. Lines that do not
// decode, such as a torn last line, are skipped.
func (r *FileRecorder) LoadInteractions() ([]Event, error) {
	r.mu.Lock()
	data, err := os.ReadFile(r.path)
	r.mu.Unlock()
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read turn log: %w", err)
	}

	var events []Event
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var ev Event
		if json.Unmarshal(line, &ev) != nil {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	BackupsDirName = "Backups"
	stampLayout    = "20060102150405"
	// stamps carry ten-thousandths of a second
	stampStep = 100 * time.Microsecond
)

var (
	ErrMalformed = errors.New("storage: malformed collection file")
	ErrBackup    = errors.New("storage: backup failed")
)

// JSONFile keeps a collection as a pretty-printed JSON array in a single file.
// Every Save copies the current file into the backups directory first and refuses
// to touch the primary file when that copy can not be verified.
type JSONFile[T any] struct {
	path      string
	backupDir string
	readOnly  bool
	now       func() time.Time
	log       *slog.Logger

	mu        sync.Mutex
	lastStamp time.Time
}

type Option func(*options)

type options struct {
	backupDir string
	readOnly  bool
	now       func() time.Time
	log       *slog.Logger
}

// WithBackupDir overrides the default sibling "Backups" directory.
func WithBackupDir(dir string) Option { return func(o *options) { o.backupDir = dir } }

// WithReadOnly makes Backup and Save report success without writing anything.
func WithReadOnly(ro bool) Option { return func(o *options) { o.readOnly = ro } }

func WithClock(now func() time.Time) Option { return func(o *options) { o.now = now } }

func WithLogger(l *slog.Logger) Option { return func(o *options) { o.log = l } }

func NewJSONFile[T any](path string, opts ...Option) (*JSONFile[T], error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage: empty file path")
	}
	o := options{now: time.Now, log: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.backupDir == "" {
		o.backupDir = filepath.Join(filepath.Dir(path), BackupsDirName)
	}
	return &JSONFile[T]{
		path:      path,
		backupDir: o.backupDir,
		readOnly:  o.readOnly,
		now:       o.now,
		log:       o.log,
	}, nil
}

func (f *JSONFile[T]) Path() string      { return f.path }
func (f *JSONFile[T]) BackupDir() string { return f.backupDir }
func (f *JSONFile[T]) ReadOnly() bool    { return f.readOnly }

// Load returns the stored items. A missing file is created holding an empty array.
func (f *JSONFile[T]) Load() ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.ensureFile(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, f.path, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Backup copies the primary file into the backups directory and returns the copy's path.
func (f *JSONFile[T]) Backup() (string, error) {
	if f.readOnly {
		return "", nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.backupUnlocked()
}

// Save rewrites the whole file with items, but only after a verified backup.
func (f *JSONFile[T]) Save(items []T) error {
	if f.readOnly {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.ensureFile(); err != nil {
		return err
	}
	if _, err := f.backupUnlocked(); err != nil {
		return err
	}
	if items == nil {
		items = []T{}
	}
	return f.replace(items)
}

// replace writes items to a temp file next to the primary and renames it into place,
// so the primary holds either the old or the new collection, never a partial one.
func (f *JSONFile[T]) replace(items []T) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", f.path, err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(f.path), "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			if err := os.Remove(tmpName); err != nil && !errors.Is(err, os.ErrNotExist) {
				f.log.Warn("remove temp file", "path", tmpName, "err", err)
			}
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	committed = true
	return nil
}

func (f *JSONFile[T]) ensureFile() error {
	if _, err := os.Stat(f.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", f.path, err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	if err := os.WriteFile(f.path, []byte("[]\n"), 0o644); err != nil {
		return fmt.Errorf("create %s: %w", f.path, err)
	}
	return nil
}

func (f *JSONFile[T]) backupUnlocked() (string, error) {
	if err := os.MkdirAll(f.backupDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: ensure dir: %v", ErrBackup, err)
	}
	dst := filepath.Join(f.backupDir, BackupName(f.path, f.nextStamp()))
	if err := copyFile(f.path, dst); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackup, err)
	}
	if _, err := os.Stat(dst); err != nil {
		return "", fmt.Errorf("%w: verify %s: %v", ErrBackup, dst, err)
	}
	f.log.Debug("collection backed up", "path", f.path, "backup", dst)
	return dst, nil
}

// nextStamp never returns the same instant twice for one file.
func (f *JSONFile[T]) nextStamp() time.Time {
	t := f.now().Truncate(stampStep)
	if !t.After(f.lastStamp) {
		t = f.lastStamp.Add(stampStep)
	}
	f.lastStamp = t
	return t
}

// BackupName turns "retorts.json" into "retorts_<timestamp>.json".
func BackupName(path string, at time.Time) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s_%s.json", base, Stamp(at))
}

// Stamp formats t as yyyyMMddHHmmss followed by four fraction digits.
func Stamp(t time.Time) string {
	return fmt.Sprintf("%s%04d", t.Format(stampLayout), t.Nanosecond()/int(stampStep))
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func(in *os.File) {
		_ = in.Close()
	}(in)
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

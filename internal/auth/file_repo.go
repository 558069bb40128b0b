package auth

import (
	"errors"
	"fmt"
	"sync"

	"dmb-chatter/internal/storage"
)

var ErrUnknownUser = errors.New("auth: unknown user")

// FileRepository stores admins as a JSON array, backing the file up before every write.
type FileRepository struct {
	file *storage.JSONFile[User]
	mu   sync.Mutex
}

func NewFileRepository(path string, opts ...storage.Option) (*FileRepository, error) {
	f, err := storage.NewJSONFile[User](path, opts...)
	if err != nil {
		return nil, err
	}
	// create the file up front so a bad path shows at startup
	if _, err := f.Load(); err != nil {
		return nil, fmt.Errorf("admins file: %w", err)
	}
	return &FileRepository{file: f}, nil
}

func (r *FileRepository) LoadAll() ([]User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.file.Load()
}

func (r *FileRepository) Upsert(user User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	users, err := r.file.Load()
	if err != nil {
		return err
	}
	updated := false
	for i, u := range users {
		if u.ID == user.ID {
			users[i] = user
			updated = true
			break
		}
	}
	if !updated {
		users = append(users, user)
	}
	return r.file.Save(users)
}

func (r *FileRepository) Remove(userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	users, err := r.file.Load()
	if err != nil {
		return err
	}
	out := make([]User, 0, len(users))
	for _, u := range users {
		if u.ID != userID {
			out = append(out, u)
		}
	}
	if len(out) == len(users) {
		return fmt.Errorf("%w: %d", ErrUnknownUser, userID)
	}
	return r.file.Save(out)
}

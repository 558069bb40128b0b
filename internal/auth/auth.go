// Package auth keeps the set of users allowed to run admin commands.
package auth

import (
	"sort"
	"sync"
)

type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type Repository interface {
	LoadAll() ([]User, error)
	Upsert(user User) error
	Remove(userID int64) error
}

type Service struct {
	repo   Repository
	mu     sync.RWMutex
	admins map[int64]User
}

// NewWithRepo loads the persisted admins and merges the ids configured in the environment.
func NewWithRepo(repo Repository, initial []int64) (*Service, error) {
	s := &Service{repo: repo, admins: make(map[int64]User)}
	if repo != nil {
		users, err := repo.LoadAll()
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			s.admins[u.ID] = u
		}
	}
	// env ids come without usernames
	for _, id := range initial {
		if _, ok := s.admins[id]; !ok {
			s.admins[id] = User{ID: id}
		}
	}
	return s, nil
}

func (s *Service) IsAdmin(userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.admins[userID]
	return ok
}

// Upsert persists first, so a failed write leaves the registry unchanged.
func (s *Service) Upsert(user User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.repo != nil {
		if err := s.repo.Upsert(user); err != nil {
			return err
		}
	}
	s.admins[user.ID] = user
	return nil
}

func (s *Service) Remove(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.repo != nil {
		if err := s.repo.Remove(userID); err != nil {
			return err
		}
	}
	delete(s.admins, userID)
	return nil
}

// List returns the admins ordered by id.
func (s *Service) List() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]User, 0, len(s.admins))
	for _, u := range s.admins {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IDs returns the admin ids, for notifications.
func (s *Service) IDs() []int64 {
	users := s.List()
	out := make([]int64, 0, len(users))
	for _, u := range users {
		out = append(out, u.ID)
	}
	return out
}

package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/llamacto/llama-gin/internal/model"
	"github.com/llamacto/llama-gin/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// memStore is an in-memory UserStore with the same uniqueness guarantee as the database.
type memStore struct {
	mu     sync.Mutex
	users  map[uint]*model.User
	nextID uint
	calls  int
	err    error

	// afterFindByID runs once, after the row is read and before it is returned
	afterFindByID func()
}

func newMemStore() *memStore {
	return &memStore{users: make(map[uint]*model.User)}
}

func (s *memStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	email = repository.NormalizeEmail(email)
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memStore) FindByID(_ context.Context, id uint) (*model.User, error) {
	s.mu.Lock()
	s.calls++
	if s.err != nil {
		s.mu.Unlock()
		return nil, s.err
	}
	u, ok := s.users[id]
	var cp model.User
	if ok {
		cp = *u
	}
	hook := s.afterFindByID
	s.afterFindByID = nil
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
	if !ok {
		return nil, nil
	}
	return &cp, nil
}

func (s *memStore) Insert(_ context.Context, email, passwordHash string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	email = repository.NormalizeEmail(email)
	for _, u := range s.users {
		if u.Email == email {
			return nil, repository.ErrDuplicateEmail
		}
	}
	s.nextID++
	u := &model.User{ID: s.nextID, Email: email, HashedPassword: passwordHash, IsActive: true}
	s.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (s *memStore) List(_ context.Context, offset, limit int) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	ids := make([]int, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)

	out := []model.User{}
	for i := offset; i < len(ids) && len(out) < limit; i++ {
		out = append(out, *s.users[uint(ids[i])])
	}
	return out, nil
}

func (s *memStore) SetActive(_ context.Context, id uint, active bool) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	u.IsActive = active
	cp := *u
	return &cp, nil
}

func (s *memStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

var errStoreDown = errors.New("connection refused")

func newTestHasher() PasswordHasher {
	return NewBcryptHasher(bcrypt.MinCost)
}

// countingHasher records Verify calls and the hashes they were given.
type countingHasher struct {
	PasswordHasher
	mu       sync.Mutex
	verified []string
}

func (h *countingHasher) Verify(plaintext, hash string) bool {
	h.mu.Lock()
	h.verified = append(h.verified, hash)
	h.mu.Unlock()
	return h.PasswordHasher.Verify(plaintext, hash)
}

func (h *countingHasher) verifyCalls() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.verified...)
}

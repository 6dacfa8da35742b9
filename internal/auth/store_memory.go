package auth

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type MemStore struct {
	mu      sync.RWMutex
	byEmail map[string]Operator
	cost    int
}

func NewMemStore() *MemStore {
	return &MemStore{byEmail: make(map[string]Operator), cost: bcrypt.DefaultCost}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *MemStore) Add(email, password, role string) (Operator, error) {
	email = normalizeEmail(email)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return Operator{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[email]; ok {
		return Operator{}, ErrEmailExists
	}

	op := Operator{ID: "op_" + uuid.NewString(), Email: email, Hash: hash, Role: role}
	s.byEmail[email] = op
	return op, nil
}

func (s *MemStore) Verify(email, password string) (Operator, error) {
	s.mu.RLock()
	op, ok := s.byEmail[normalizeEmail(email)]
	s.mu.RUnlock()

	if !ok {
		return Operator{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(op.Hash, []byte(password)); err != nil {
		return Operator{}, ErrInvalidCredentials
	}

	return op, nil
}

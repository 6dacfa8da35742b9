package auth

import (
	"errors"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const RoleAdmin = "admin"

// Operator is a shop staff account allowed to change the catalog and orders.
type Operator struct {
	ID    string
	Email string
	Hash  []byte
	Role  string
}

type OperatorStore interface {
	Add(email, password, role string) (Operator, error)
	Verify(email, password string) (Operator, error)
}

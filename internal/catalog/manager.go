package catalog

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"MiniShop/pkg/kit"
)

// Result is the tagged outcome every catalog operation reports. Callers must
// check OK before reading Data.
type Result struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`

	err error
}

// Err returns the failure behind a non-OK result, or nil.
func (r Result) Err() error { return r.err }

const (
	msgAdded        = "Product added successfully"
	msgPriceUpdated = "Price updated successfully"
)

var failures = []struct {
	err    error
	status int
	msg    string
}{
	{ErrValidation, http.StatusBadRequest, "All fields are required"},
	{ErrDuplicateID, http.StatusConflict, "Product ID already exists"},
	{ErrInvalidPrice, http.StatusBadRequest, "Price cannot be negative"},
	{ErrNotFound, http.StatusNotFound, "Product not found"},
}

func failure(err error) Result {
	for _, f := range failures {
		if errors.Is(err, f.err) {
			return Result{Message: f.msg, err: err}
		}
	}
	return Result{Message: "Internal error", err: err}
}

// StatusFor maps a result to the HTTP status the catalog service answers with.
func StatusFor(r Result, success int) int {
	if r.OK {
		return success
	}
	for _, f := range failures {
		if errors.Is(r.err, f.err) {
			return f.status
		}
	}
	return http.StatusInternalServerError
}

// Manager exposes the catalog through Result values.
type Manager struct {
	store Store
	ops   *kit.OutcomeCounter
}

func NewManager(store Store, reg prometheus.Registerer) *Manager {
	return &Manager{
		store: store,
		ops: kit.NewOutcomeCounter(reg, "catalog_operations_total",
			"Catalog operations by name and outcome", "op", "outcome"),
	}
}

func (m *Manager) Store() Store { return m.store }

func (m *Manager) AddProduct(np NewProduct) Result {
	p, err := m.store.Add(np)
	return m.done("add", Result{OK: true, Message: msgAdded, Data: p}, err)
}

func (m *Manager) UpdatePrice(id string, price float64) Result {
	p, err := m.store.UpdatePrice(id, price)
	return m.done("update_price", Result{OK: true, Message: msgPriceUpdated, Data: p}, err)
}

func (m *Manager) AvailableProducts() Result {
	return m.done("list_available", Result{OK: true, Data: m.store.ListAvailable()}, nil)
}

func (m *Manager) ProductsByCategory(category string) Result {
	return m.done("list_by_category", Result{OK: true, Data: m.store.ListByCategory(category)}, nil)
}

func (m *Manager) AllProducts() Result {
	return m.done("list_all", Result{OK: true, Data: m.store.ListAll()}, nil)
}

func (m *Manager) done(op string, ok Result, err error) Result {
	if err != nil {
		res := failure(err)
		m.ops.Inc(op, outcomeLabel(err))
		return res
	}
	m.ops.Inc(op, "ok")
	return ok
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrDuplicateID):
		return "duplicate_id"
	case errors.Is(err, ErrInvalidPrice):
		return "invalid_price"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	}
	return "error"
}

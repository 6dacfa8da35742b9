package report

import (
	"bytes"
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemStore evaluates the report queries in process, with the same joins,
// grouping and ordering the Mongo pipelines produce.
type MemStore struct {
	mu        sync.RWMutex
	customers []Customer
	orders    []Order
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) CreateCustomer(ctx context.Context, c Customer) (Customer, error) {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customerLocked(c.ID); ok {
		return Customer{}, ErrConflict
	}
	s.customers = append(s.customers, c)
	return c, nil
}

func (s *MemStore) CreateOrder(ctx context.Context, o Order) (Order, error) {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	o = cloneOrder(o)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customerLocked(o.CustomerID); !ok {
		return Order{}, ErrCustomerNotFound
	}
	for _, existing := range s.orders {
		if existing.ID == o.ID {
			return Order{}, ErrConflict
		}
	}
	s.orders = append(s.orders, o)
	return cloneOrder(o), nil
}

func (s *MemStore) UpdateOrderStatus(ctx context.Context, orderID string, status Status) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].OrderID == orderID {
			s.orders[i].Status = status
			return true, nil
		}
	}
	return false, nil
}

func (s *MemStore) DeleteOrder(ctx context.Context, orderID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].OrderID == orderID {
			s.orders = slices.Delete(s.orders, i, i+1)
			return true, nil
		}
	}
	return false, nil
}

func (s *MemStore) OrdersByCustomer(ctx context.Context, customerID primitive.ObjectID, byDate bool) ([]Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Order, 0)
	for _, o := range s.orders {
		if o.CustomerID == customerID {
			out = append(out, cloneOrder(o))
		}
	}
	if byDate {
		sort.SliceStable(out, func(i, j int) bool {
			if !out[i].OrderDate.Equal(out[j].OrderDate) {
				return out[i].OrderDate.Before(out[j].OrderDate)
			}
			return out[i].OrderID < out[j].OrderID
		})
	}
	return out, nil
}

func (s *MemStore) OrdersByCustomerName(ctx context.Context, name string) ([]Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Order, 0)
	for _, o := range s.orders {
		if c, ok := s.customerLocked(o.CustomerID); ok && c.Name == name {
			out = append(out, cloneOrder(o))
		}
	}
	return out, nil
}

func (s *MemStore) CustomerForOrder(ctx context.Context, orderID string) (Customer, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.orders {
		if o.OrderID != orderID {
			continue
		}
		c, ok := s.customerLocked(o.CustomerID)
		return c, ok, nil
	}
	return Customer{}, false, nil
}

func (s *MemStore) SpendByCustomer(ctx context.Context) ([]CustomerSpend, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.spendLocked()
	sort.Slice(out, func(i, j int) bool { return idLess(out[i].CustomerID, out[j].CustomerID) })
	return out, nil
}

func (s *MemStore) TopCustomersBySpend(ctx context.Context, n int) ([]CustomerSpend, error) {
	if err := checkTopN(n); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.spendLocked()
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalSpent != out[j].TotalSpent {
			return out[i].TotalSpent > out[j].TotalSpent
		}
		return idLess(out[i].CustomerID, out[j].CustomerID)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *MemStore) spendLocked() []CustomerSpend {
	idx := map[primitive.ObjectID]int{}
	out := make([]CustomerSpend, 0)
	for _, o := range s.orders {
		c, ok := s.customerLocked(o.CustomerID)
		if !ok {
			continue
		}
		i, seen := idx[c.ID]
		if !seen {
			i = len(out)
			idx[c.ID] = i
			out = append(out, CustomerSpend{CustomerID: c.ID, CustomerName: c.Name})
		}
		out[i].TotalSpent += o.TotalValue
	}
	return out
}

func (s *MemStore) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := map[Status]int64{}
	for _, o := range s.orders {
		counts[o.Status]++
	}

	out := make([]StatusCount, 0, len(counts))
	for st, n := range counts {
		out = append(out, StatusCount{Status: st, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out, nil
}

func (s *MemStore) MostRecentOrders(ctx context.Context) ([]CustomerOrder, error) {
	return s.firstOrderPerCustomer(moreRecent), nil
}

func (s *MemStore) MostExpensiveOrders(ctx context.Context) ([]CustomerOrder, error) {
	return s.firstOrderPerCustomer(moreExpensive), nil
}

func moreRecent(a, b Order) bool {
	if !a.OrderDate.Equal(b.OrderDate) {
		return a.OrderDate.After(b.OrderDate)
	}
	return a.OrderID < b.OrderID
}

func moreExpensive(a, b Order) bool {
	if a.TotalValue != b.TotalValue {
		return a.TotalValue > b.TotalValue
	}
	if !a.OrderDate.Equal(b.OrderDate) {
		return a.OrderDate.Before(b.OrderDate)
	}
	return a.OrderID < b.OrderID
}

func (s *MemStore) firstOrderPerCustomer(better func(a, b Order) bool) []CustomerOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	best := map[primitive.ObjectID]Order{}
	for _, o := range s.orders {
		if _, ok := s.customerLocked(o.CustomerID); !ok {
			continue
		}
		if cur, ok := best[o.CustomerID]; !ok || better(o, cur) {
			best[o.CustomerID] = o
		}
	}

	out := make([]CustomerOrder, 0, len(best))
	for id, o := range best {
		c, _ := s.customerLocked(id)
		out = append(out, CustomerOrder{CustomerID: id, CustomerName: c.Name, Order: summarize(o)})
	}
	sort.Slice(out, func(i, j int) bool { return idLess(out[i].CustomerID, out[j].CustomerID) })
	return out
}

func (s *MemStore) CustomersWithoutOrders(ctx context.Context) ([]Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ordered := map[primitive.ObjectID]bool{}
	for _, o := range s.orders {
		ordered[o.CustomerID] = true
	}

	out := make([]Customer, 0)
	for _, c := range s.customers {
		if !ordered[c.ID] {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return idLess(out[i].ID, out[j].ID) })
	return out, nil
}

func (s *MemStore) AverageItemsPerOrder(ctx context.Context) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.orders) == 0 {
		return 0, nil
	}
	var items int
	for _, o := range s.orders {
		items += len(o.Items)
	}
	return float64(items) / float64(len(s.orders)), nil
}

func (s *MemStore) CustomersWithOrdersSince(ctx context.Context, since time.Time) ([]CustomerActivity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]CustomerActivity, 0)
	for _, c := range s.customers {
		var latest time.Time
		recent := false
		for _, o := range s.orders {
			if o.CustomerID != c.ID {
				continue
			}
			if !o.OrderDate.Before(since) {
				recent = true
			}
			if o.OrderDate.After(latest) {
				latest = o.OrderDate
			}
		}
		if recent {
			out = append(out, CustomerActivity{CustomerID: c.ID, Name: c.Name, Email: c.Email, MostRecentOrder: latest})
		}
	}
	sort.Slice(out, func(i, j int) bool { return idLess(out[i].CustomerID, out[j].CustomerID) })
	return out, nil
}

func (s *MemStore) ProductsOrderedBy(ctx context.Context, customerName string) ([]ProductQuantity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	qty := map[string]int64{}
	for _, o := range s.orders {
		c, ok := s.customerLocked(o.CustomerID)
		if !ok || c.Name != customerName {
			continue
		}
		for _, it := range o.Items {
			qty[it.ProductName] += int64(it.Quantity)
		}
	}

	out := make([]ProductQuantity, 0, len(qty))
	for name, n := range qty {
		out = append(out, ProductQuantity{ProductName: name, TotalQuantity: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductName < out[j].ProductName })
	return out, nil
}

func (s *MemStore) CustomerOrderLines(ctx context.Context) ([]CustomerOrderLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]CustomerOrderLine, 0, len(s.orders))
	for _, c := range s.customers {
		for _, o := range s.orders {
			if o.CustomerID == c.ID {
				out = append(out, CustomerOrderLine{CustomerID: c.ID, Name: c.Name, Email: c.Email, Order: summarize(o)})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.CustomerID != b.CustomerID {
			return idLess(a.CustomerID, b.CustomerID)
		}
		if !a.Order.OrderDate.Equal(b.Order.OrderDate) {
			return a.Order.OrderDate.Before(b.Order.OrderDate)
		}
		return a.Order.OrderID < b.Order.OrderID
	})
	return out, nil
}

func (s *MemStore) customerLocked(id primitive.ObjectID) (Customer, bool) {
	for _, c := range s.customers {
		if c.ID == id {
			return c, true
		}
	}
	return Customer{}, false
}

func idLess(a, b primitive.ObjectID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

func cloneOrder(o Order) Order {
	o.Items = slices.Clone(o.Items)
	return o
}

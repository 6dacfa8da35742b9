package report

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"MiniShop/pkg/kit"
)

const (
	defaultTopN       = 3
	defaultRecentDays = 30
)

type Server struct {
	Store Store
	Log   *zap.Logger
	Now   func() time.Time
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.ready)

	r.Route("/reports", func(r chi.Router) {
		r.Post("/customers", s.createCustomer)
		r.Get("/customers/{id}/orders", s.ordersByCustomer)
		r.Get("/customers/by-name/{name}/orders", s.ordersByCustomerName)
		r.Get("/customers/by-name/{name}/products", s.productsOrderedBy)

		r.Post("/orders", s.createOrder)
		r.Get("/orders/{orderID}/customer", s.customerForOrder)
		r.Patch("/orders/{orderID}/status", s.updateStatus)
		r.Delete("/orders/{orderID}", s.deleteOrder)

		r.Get("/spend", s.spend)
		r.Get("/status-counts", s.statusCounts)
		r.Get("/recent-orders", s.recentOrders)
		r.Get("/expensive-orders", s.expensiveOrders)
		r.Get("/inactive-customers", s.inactiveCustomers)
		r.Get("/average-items", s.averageItems)
		r.Get("/top-customers", s.topCustomers)
		r.Get("/active-customers", s.activeCustomers)
		r.Get("/customer-orders", s.customerOrders)
	})

	return r
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
	defer cancel()

	if err := s.Store.Ping(ctx); err != nil {
		if s.Log != nil {
			s.Log.Warn("readyz failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

type addressReq struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	Zipcode string `json:"zipcode"`
}

type createCustomerReq struct {
	Name    string     `json:"name" validate:"required"`
	Email   string     `json:"email" validate:"required,email"`
	Address addressReq `json:"address"`
	Phone   string     `json:"phone"`
}

func (s *Server) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req createCustomerReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteBadRequest(w, r, err)
		return
	}

	c, err := s.Store.CreateCustomer(r.Context(), Customer{
		Name:             req.Name,
		Email:            req.Email,
		Address:          Address(req.Address),
		Phone:            req.Phone,
		RegistrationDate: s.now().UTC(),
	})
	if err != nil {
		s.writeStoreError(w, r, "create customer", err)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, c)
}

type itemReq struct {
	ProductName string  `json:"product_name" validate:"required"`
	Quantity    int     `json:"quantity" validate:"gt=0"`
	Price       float64 `json:"price" validate:"gte=0"`
}

type createOrderReq struct {
	CustomerID string    `json:"customer_id" validate:"required,mongodb"`
	Items      []itemReq `json:"items" validate:"required,min=1,dive"`
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteBadRequest(w, r, err)
		return
	}

	customerID, err := primitive.ObjectIDFromHex(req.CustomerID)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad customer_id", nil)
		return
	}

	items := make([]Item, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, Item(it))
	}

	o, err := s.Store.CreateOrder(r.Context(), NewOrder(customerID, items, s.now()))
	if err != nil {
		s.writeStoreError(w, r, "create order", err)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, o)
}

func (s *Server) ordersByCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}
	byDate := r.URL.Query().Get("sort") == "order_date"

	orders, err := s.Store.OrdersByCustomer(r.Context(), id, byDate)
	s.respond(w, r, "orders by customer", orders, err)
}

func (s *Server) ordersByCustomerName(w http.ResponseWriter, r *http.Request) {
	orders, err := s.Store.OrdersByCustomerName(r.Context(), chi.URLParam(r, "name"))
	s.respond(w, r, "orders by customer name", orders, err)
}

func (s *Server) productsOrderedBy(w http.ResponseWriter, r *http.Request) {
	rows, err := s.Store.ProductsOrderedBy(r.Context(), chi.URLParam(r, "name"))
	s.respond(w, r, "products ordered by customer", rows, err)
}

func (s *Server) customerForOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	c, found, err := s.Store.CustomerForOrder(r.Context(), orderID)
	if err != nil {
		s.writeStoreError(w, r, "customer for order", err)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"order_id": orderID})
		return
	}
	kit.WriteJSON(w, http.StatusOK, c)
}

type statusReq struct {
	Status Status `json:"status" validate:"required"`
}

func (s *Server) updateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	var req statusReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteBadRequest(w, r, err)
		return
	}

	ok, err := s.Store.UpdateOrderStatus(r.Context(), orderID, req.Status)
	if err == nil && !ok {
		err = ErrNotFound
	}
	if err != nil {
		s.writeStoreError(w, r, "update order status", err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, map[string]any{"order_id": orderID, "status": req.Status})
}

func (s *Server) deleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	ok, err := s.Store.DeleteOrder(r.Context(), orderID)
	if err == nil && !ok {
		err = ErrNotFound
	}
	if err != nil {
		s.writeStoreError(w, r, "delete order", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) spend(w http.ResponseWriter, r *http.Request) {
	rows, err := s.Store.SpendByCustomer(r.Context())
	s.respond(w, r, "spend by customer", rows, err)
}

func (s *Server) statusCounts(w http.ResponseWriter, r *http.Request) {
	rows, err := s.Store.CountByStatus(r.Context())
	s.respond(w, r, "count by status", rows, err)
}

func (s *Server) recentOrders(w http.ResponseWriter, r *http.Request) {
	rows, err := s.Store.MostRecentOrders(r.Context())
	s.respond(w, r, "most recent orders", rows, err)
}

func (s *Server) expensiveOrders(w http.ResponseWriter, r *http.Request) {
	rows, err := s.Store.MostExpensiveOrders(r.Context())
	s.respond(w, r, "most expensive orders", rows, err)
}

func (s *Server) inactiveCustomers(w http.ResponseWriter, r *http.Request) {
	rows, err := s.Store.CustomersWithoutOrders(r.Context())
	s.respond(w, r, "customers without orders", rows, err)
}

func (s *Server) averageItems(w http.ResponseWriter, r *http.Request) {
	avg, err := s.Store.AverageItemsPerOrder(r.Context())
	s.respond(w, r, "average items", map[string]float64{"average_items": avg}, err)
}

func (s *Server) topCustomers(w http.ResponseWriter, r *http.Request) {
	n, ok := intQuery(w, r, "n", defaultTopN)
	if !ok {
		return
	}
	rows, err := s.Store.TopCustomersBySpend(r.Context(), n)
	s.respond(w, r, "top customers", rows, err)
}

func (s *Server) activeCustomers(w http.ResponseWriter, r *http.Request) {
	days, ok := intQuery(w, r, "days", defaultRecentDays)
	if !ok {
		return
	}
	if days < 0 {
		kit.WriteError(w, r, http.StatusBadRequest, "bad days", map[string]any{"days": days})
		return
	}
	since := s.now().AddDate(0, 0, -days)

	rows, err := s.Store.CustomersWithOrdersSince(r.Context(), since)
	s.respond(w, r, "customers with recent orders", rows, err)
}

func (s *Server) customerOrders(w http.ResponseWriter, r *http.Request) {
	rows, err := s.Store.CustomerOrderLines(r.Context())
	s.respond(w, r, "customer order lines", rows, err)
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, op string, v any, err error) {
	if err != nil {
		s.writeStoreError(w, r, op, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, v)
}

func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		kit.WriteError(w, r, http.StatusNotFound, "not found", nil)
	case errors.Is(err, ErrCustomerNotFound):
		kit.WriteError(w, r, http.StatusNotFound, "customer not found", nil)
	case errors.Is(err, ErrInvalidArgument):
		kit.WriteError(w, r, http.StatusBadRequest, "invalid argument", nil)
	case errors.Is(err, ErrConflict):
		kit.WriteError(w, r, http.StatusConflict, "already exists", nil)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		kit.WriteError(w, r, http.StatusGatewayTimeout, "timeout", nil)
	default:
		if s.Log != nil {
			s.Log.Error(op+" failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

func objectIDParam(w http.ResponseWriter, r *http.Request, name string) (primitive.ObjectID, bool) {
	raw := chi.URLParam(r, name)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad "+name, map[string]any{name: raw})
		return primitive.NilObjectID, false
	}
	return id, true
}

func intQuery(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad "+name, map[string]any{name: raw})
		return 0, false
	}
	return n, true
}

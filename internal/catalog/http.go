package catalog

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"MiniShop/pkg/kit"
)

type Server struct {
	Manager *Manager
	Log     *zap.Logger
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := s.Manager.Store().Ping(ctx); err != nil {
			if s.Log != nil {
				s.Log.Warn("readyz failed", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", s.list)
		r.Post("/", s.add)
		r.Get("/{id}", s.get)
		r.Patch("/{id}/price", s.updatePrice)
	})

	return r
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var res Result
	switch {
	case q.Has("category"):
		res = s.Manager.ProductsByCategory(q.Get("category"))
	case q.Has("available"):
		onlyAvailable, err := strconv.ParseBool(q.Get("available"))
		if err != nil {
			kit.WriteError(w, r, http.StatusBadRequest, "bad available flag", map[string]any{"available": q.Get("available")})
			return
		}
		if onlyAvailable {
			res = s.Manager.AvailableProducts()
		} else {
			res = s.Manager.AllProducts()
		}
	default:
		res = s.Manager.AllProducts()
	}
	kit.WriteJSON(w, http.StatusOK, res)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, ok := s.Manager.Store().Get(id)
	if !ok {
		res := failure(ErrNotFound)
		kit.WriteJSON(w, StatusFor(res, http.StatusOK), res)
		return
	}
	kit.WriteJSON(w, http.StatusOK, Result{OK: true, Data: p})
}

type addReq struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Price     *float64 `json:"price"`
	Available *bool    `json:"available"`
}

func (s *Server) add(w http.ResponseWriter, r *http.Request) {
	var req addReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteBadRequest(w, r, err)
		return
	}

	res := s.Manager.AddProduct(NewProduct(req))
	s.logFailure("add product failed", res, req.ID)
	kit.WriteJSON(w, StatusFor(res, http.StatusCreated), res)
}

type priceReq struct {
	Price *float64 `json:"price" validate:"required"`
}

func (s *Server) updatePrice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req priceReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteBadRequest(w, r, err)
		return
	}

	res := s.Manager.UpdatePrice(id, *req.Price)
	s.logFailure("update price failed", res, id)
	kit.WriteJSON(w, StatusFor(res, http.StatusOK), res)
}

func (s *Server) logFailure(msg string, res Result, id string) {
	if res.OK || s.Log == nil {
		return
	}
	s.Log.Info(msg, zap.Error(res.Err()), zap.String("product_id", id))
}

package catalog_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"MiniShop/internal/catalog"
)

type result struct {
	OK      bool            `json:"ok"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newCatalogTS(t *testing.T) *httptest.Server {
	t.Helper()

	s := &catalog.Server{
		Manager: catalog.NewManager(catalog.NewMemStore(), nil),
		Log:     zap.NewNop(),
	}
	ts := httptest.NewServer(catalog.NewHandler(s, catalog.HTTPDeps{Log: zap.NewNop(), Service: "catalog"}))
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url string, body any) (int, result) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	var res result
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &res); err != nil {
		t.Fatalf("decode: %v body=%s", err, string(raw))
	}
	return resp.StatusCode, res
}

func products(t *testing.T, res result) []catalog.Product {
	t.Helper()

	var out []catalog.Product
	if err := json.Unmarshal(res.Data, &out); err != nil {
		t.Fatalf("decode products: %v data=%s", err, string(res.Data))
	}
	return out
}

func TestCatalogHTTP_Scenario(t *testing.T) {
	ts := newCatalogTS(t)

	status, res := do(t, http.MethodPost, ts.URL+"/products", map[string]any{
		"id": "1", "name": "Laptop", "category": "Electronics", "price": 999.99,
	})
	if status != http.StatusCreated || !res.OK {
		t.Fatalf("add laptop status=%d res=%+v", status, res)
	}

	var laptop catalog.Product
	if err := json.Unmarshal(res.Data, &laptop); err != nil {
		t.Fatalf("decode laptop: %v", err)
	}
	if !laptop.Available {
		t.Fatalf("laptop should default to available")
	}

	status, _ = do(t, http.MethodPost, ts.URL+"/products", map[string]any{
		"id": "2", "name": "Headphones", "category": "Electronics", "price": 99.99, "available": false,
	})
	if status != http.StatusCreated {
		t.Fatalf("add headphones status=%d", status)
	}

	status, res = do(t, http.MethodPatch, ts.URL+"/products/1/price", map[string]any{"price": 899.99})
	if status != http.StatusOK || res.Message != "Price updated successfully" {
		t.Fatalf("update price status=%d res=%+v", status, res)
	}

	_, res = do(t, http.MethodGet, ts.URL+"/products?available=true", nil)
	avail := products(t, res)
	if len(avail) != 1 || avail[0].ID != "1" || avail[0].Price != 899.99 {
		t.Fatalf("available=%+v", avail)
	}

	_, res = do(t, http.MethodGet, ts.URL+"/products?category=Electronics", nil)
	if got := products(t, res); len(got) != 2 {
		t.Fatalf("electronics=%+v", got)
	}

	_, res = do(t, http.MethodGet, ts.URL+"/products", nil)
	if got := products(t, res); len(got) != 2 {
		t.Fatalf("all=%+v", got)
	}
}

func TestCatalogHTTP_Errors(t *testing.T) {
	ts := newCatalogTS(t)

	add := map[string]any{"id": "1", "name": "Laptop", "category": "Electronics", "price": 999.99}
	if status, _ := do(t, http.MethodPost, ts.URL+"/products", add); status != http.StatusCreated {
		t.Fatalf("add status=%d", status)
	}

	status, res := do(t, http.MethodPost, ts.URL+"/products", add)
	if status != http.StatusConflict || res.Message != "Product ID already exists" {
		t.Fatalf("duplicate status=%d res=%+v", status, res)
	}

	status, res = do(t, http.MethodPost, ts.URL+"/products", map[string]any{"id": "2", "name": "Mouse", "category": "Electronics"})
	if status != http.StatusBadRequest || res.Message != "All fields are required" {
		t.Fatalf("missing price status=%d res=%+v", status, res)
	}

	status, res = do(t, http.MethodPatch, ts.URL+"/products/1/price", map[string]any{"price": -1})
	if status != http.StatusBadRequest || res.Message != "Price cannot be negative" {
		t.Fatalf("negative status=%d res=%+v", status, res)
	}

	status, res = do(t, http.MethodPatch, ts.URL+"/products/404/price", map[string]any{"price": 1})
	if status != http.StatusNotFound || res.Message != "Product not found" {
		t.Fatalf("missing status=%d res=%+v", status, res)
	}

	status, res = do(t, http.MethodGet, ts.URL+"/products/404", nil)
	if status != http.StatusNotFound || res.OK {
		t.Fatalf("get missing status=%d res=%+v", status, res)
	}

	_, res = do(t, http.MethodGet, ts.URL+"/products", nil)
	if got := products(t, res); len(got) != 1 || got[0].Price != 999.99 {
		t.Fatalf("catalog changed by failed calls: %+v", got)
	}
}

func TestCatalogHTTP_PriceRequired(t *testing.T) {
	ts := newCatalogTS(t)

	req, _ := http.NewRequest(http.MethodPatch, ts.URL+"/products/1/price", bytes.NewBufferString(`{}`))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d", resp.StatusCode)
	}
}

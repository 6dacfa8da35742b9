package kit

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type sample struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
	Qty   int    `json:"qty" validate:"gt=0"`
}

func decode(t *testing.T, body string) (sample, error) {
	t.Helper()

	var s sample
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	err := DecodeJSON(httptest.NewRecorder(), req, &s)
	return s, err
}

func TestDecodeJSONValid(t *testing.T) {
	s, err := decode(t, `{"name":"a","qty":2}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Name != "a" || s.Qty != 2 {
		t.Fatalf("decoded %+v", s)
	}
}

func TestDecodeJSONRejects(t *testing.T) {
	cases := map[string]string{
		"unknown field": `{"name":"a","qty":1,"extra":true}`,
		"trailing data": `{"name":"a","qty":1}{}`,
		"malformed":     `{"name":`,
		"missing name":  `{"qty":1}`,
		"bad email":     `{"name":"a","qty":1,"email":"nope"}`,
		"zero qty":      `{"name":"a","qty":0}`,
	}
	for name, body := range cases {
		_, err := decode(t, body)
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Fatalf("%s: expected DecodeError, got %v", name, err)
		}
	}
}

func TestWriteBadRequestUsesFieldNames(t *testing.T) {
	_, err := decode(t, `{"qty":0}`)

	rec := httptest.NewRecorder()
	WriteBadRequest(rec, httptest.NewRequest(http.MethodPost, "/", nil), err)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", rec.Code)
	}

	var body struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "validation failed" || body.Details["name"] != "is required" || body.Details["qty"] != "must be greater than 0" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

package gateway

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandler_HandleStorefront(t *testing.T) {
	t.Run("strips the prefix and keeps the query", func(t *testing.T) {
		storefront := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/menu" {
				t.Errorf("expected /menu, got %s", r.URL.Path)
			}
			if r.URL.Query().Get("cuisine") != "sri lankan" {
				t.Errorf("expected cuisine filter, got %q", r.URL.RawQuery)
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"demo":true}`))
		}))
		defer storefront.Close()

		handler := NewHandler(
			NewServiceProxy(storefront.URL, storefront.Client()),
			NewServiceProxy("http://unused", http.DefaultClient),
			discardLogger(),
		)

		req := httptest.NewRequest(http.MethodGet, "/api/store/menu?cuisine=sri+lankan", nil)
		rec := httptest.NewRecorder()

		handler.HandleStorefront(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}
		if rec.Header().Get("Content-Type") != "application/json" {
			t.Errorf("expected application/json, got %s", rec.Header().Get("Content-Type"))
		}
		if rec.Body.String() != `{"demo":true}` {
			t.Errorf("unexpected body: %s", rec.Body.String())
		}
	})

	t.Run("forwards PUT with body", func(t *testing.T) {
		storefront := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut || r.URL.Path != "/sessions/s-1/cart/veg-1" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			body, _ := io.ReadAll(r.Body)
			if string(body) != `{"quantity":2}` {
				t.Errorf("unexpected body: %s", body)
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer storefront.Close()

		handler := NewHandler(
			NewServiceProxy(storefront.URL, storefront.Client()),
			NewServiceProxy("http://unused", http.DefaultClient),
			discardLogger(),
		)

		req := httptest.NewRequest(http.MethodPut, "/api/store/sessions/s-1/cart/veg-1", strings.NewReader(`{"quantity":2}`))
		rec := httptest.NewRecorder()

		handler.HandleStorefront(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}
	})

	t.Run("returns 502 when storefront unavailable", func(t *testing.T) {
		handler := NewHandler(
			NewServiceProxy("http://localhost:99999", &http.Client{}),
			NewServiceProxy("http://unused", http.DefaultClient),
			discardLogger(),
		)

		req := httptest.NewRequest(http.MethodGet, "/api/store/menu", nil)
		rec := httptest.NewRecorder()

		handler.HandleStorefront(rec, req)

		if rec.Code != http.StatusBadGateway {
			t.Errorf("expected status 502, got %d", rec.Code)
		}

		var resp map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp["error"] != "service unavailable" {
			t.Errorf("expected 'service unavailable', got %s", resp["error"])
		}
	})
}

func TestHandler_HandleAdmin(t *testing.T) {
	t.Run("preserves downstream error status", func(t *testing.T) {
		admin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/orders/unknown" {
				t.Errorf("expected /orders/unknown, got %s", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"order not found"}`))
		}))
		defer admin.Close()

		handler := NewHandler(
			NewServiceProxy("http://unused", http.DefaultClient),
			NewServiceProxy(admin.URL, admin.Client()),
			discardLogger(),
		)

		req := httptest.NewRequest(http.MethodGet, "/api/admin/orders/unknown", nil)
		rec := httptest.NewRecorder()

		handler.HandleAdmin(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
	})
}

func TestWithMiddleware(t *testing.T) {
	var upstreamID string
	admin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamID = r.Header.Get("X-Request-Id")
		w.WriteHeader(http.StatusOK)
	}))
	defer admin.Close()

	handler := NewHandler(
		NewServiceProxy("http://unused", http.DefaultClient),
		NewServiceProxy(admin.URL, admin.Client()),
		discardLogger(),
	)
	server := WithMiddleware(handler.Routes(nil), []string{"https://shop.example"})

	t.Run("answers CORS preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/admin/settings", nil)
		req.Header.Set("Origin", "https://shop.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPut)
		rec := httptest.NewRecorder()

		server.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example" {
			t.Errorf("expected allowed origin, got %q", got)
		}
	})

	t.Run("propagates the request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/settings", nil)
		req.Header.Set("X-Request-Id", "req-123")
		rec := httptest.NewRecorder()

		server.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if upstreamID != "req-123" {
			t.Errorf("expected upstream to see req-123, got %q", upstreamID)
		}
		if rec.Header().Get("X-Request-Id") != "req-123" {
			t.Errorf("expected response header req-123, got %q", rec.Header().Get("X-Request-Id"))
		}
	})

	t.Run("unknown prefixes are not proxied", func(t *testing.T) {
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
	})
}

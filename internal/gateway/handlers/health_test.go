package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
)

func upstream(status int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health/ready" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(status)
	}))
}

func readiness(t *testing.T, upstreams map[string]string) (int, map[string]any) {
	t.Helper()
	app := fiber.New()
	NewHealth(upstreams, time.Second).Register(app)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var body map[string]any
	json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func TestReadiness(t *testing.T) {
	ok := upstream(http.StatusOK)
	defer ok.Close()
	down := upstream(http.StatusServiceUnavailable)
	defer down.Close()

	tests := []struct {
		name      string
		upstreams map[string]string
		status    int
		state     string
	}{
		{"all ready", map[string]string{"playbook": ok.URL, "render": ok.URL}, http.StatusOK, "ready"},
		{"one down", map[string]string{"playbook": down.URL, "render": ok.URL}, http.StatusServiceUnavailable, "degraded"},
		{"unreachable", map[string]string{"playbook": "http://127.0.0.1:1"}, http.StatusServiceUnavailable, "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := readiness(t, tt.upstreams)
			if status != tt.status || body["status"] != tt.state {
				t.Errorf("Expected %d %s, got %d %v", tt.status, tt.state, status, body)
			}
			services, _ := body["services"].(map[string]any)
			if len(services) != len(tt.upstreams) {
				t.Errorf("Expected %d services, got %v", len(tt.upstreams), services)
			}
		})
	}
}

func TestLiveness(t *testing.T) {
	app := fiber.New()
	NewHealth(nil, time.Second).Register(app)

	for _, path := range []string{"/health/live", "/health/startup"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, resp.StatusCode)
		}
	}
}

package docs

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
)

func get(t *testing.T, app *fiber.App, target string) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestDocs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openapi.yaml")
	if err := os.WriteFile(path, []byte("openapi: 3.0.3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	app := fiber.New()
	Register(app, path, "Playbook API")

	status, body := get(t, app, "/docs/openapi.yaml")
	if status != http.StatusOK || body != "openapi: 3.0.3\n" {
		t.Errorf("Unexpected spec response %d %q", status, body)
	}

	status, body = get(t, app, "/docs")
	if status != http.StatusOK || !strings.Contains(body, "<title>Playbook API</title>") {
		t.Errorf("Unexpected UI response %d", status)
	}
}

func TestDocsMissingSpec(t *testing.T) {
	app := fiber.New()
	Register(app, filepath.Join(t.TempDir(), "missing.yaml"), "x")

	if status, _ := get(t, app, "/docs/openapi.yaml"); status != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", status)
	}
}

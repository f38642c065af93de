package docs

import (
	"os"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Swagger Handlers
// ============================================================

// Register serves the OpenAPI document at /docs/openapi.yaml and a Swagger UI
// page reading it at /docs.
func Register(r fiber.Router, specPath, title string) {
	r.Get("/docs/openapi.yaml", Spec(specPath))
	r.Get("/docs", UI(title))
}

// Spec serves the YAML document at path, read on every request.
func Spec(path string) fiber.Handler {
	return func(c fiber.Ctx) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "spec not found"})
		}
		c.Type("yaml")
		return c.Send(data)
	}
}

func UI(title string) fiber.Handler {
	page := `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>` + title + `</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
<script>
  window.onload = () => {
    window.ui = SwaggerUIBundle({
      url: 'docs/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
    });
  };
</script>
</body>
</html>`

	return func(c fiber.Ctx) error {
		c.Type("html")
		return c.SendString(page)
	}
}

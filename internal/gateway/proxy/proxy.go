package proxy

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
)

// forwardedHeaders are copied from the client request to the upstream.
var forwardedHeaders = []string{"Content-Type", "Accept", "Origin"}

// ============================================================
// Proxy Handler
// ============================================================

// Proxy forwards requests to one upstream service. The gateway prefix is
// stripped so /api/v1/plays/1 reaches {target}/plays/1.
type Proxy struct {
	target string
	strip  string
	client *http.Client
}

func New(target, strip string, timeout time.Duration) *Proxy {
	return &Proxy{
		target: strings.TrimRight(target, "/"),
		strip:  strip,
		client: &http.Client{Timeout: timeout},
	}
}

// Target returns the upstream URL for the request path and query.
func (p *Proxy) Target(path string, query []byte) string {
	url := p.target + strings.TrimPrefix(path, p.strip)
	if len(query) > 0 {
		url += "?" + string(query)
	}
	return url
}

// Handler forwards any method with its raw body.
func (p *Proxy) Handler(c fiber.Ctx) error {
	targetURL := p.Target(c.Path(), c.Request().URI().QueryString())
	log.Printf("[PROXY] %s %s -> %s (%d bytes)", c.Method(), c.Path(), targetURL, len(c.Body()))

	req, err := http.NewRequestWithContext(c.Context(), c.Method(), targetURL, bytes.NewReader(c.Body()))
	if err != nil {
		log.Printf("[PROXY] build request error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "proxy failed"})
	}
	for _, h := range forwardedHeaders {
		if v := c.Get(h); v != "" {
			req.Header.Set(h, v)
		}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		log.Printf("[PROXY] Error: %v", err)
		return c.Status(502).JSON(fiber.Map{"error": "failed to reach upstream service"})
	}
	defer resp.Body.Close()

	return copyResponse(c, resp)
}

func copyResponse(c fiber.Ctx, resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[PROXY] Read response error: %v", err)
		return c.Status(502).JSON(fiber.Map{"error": "invalid upstream response"})
	}

	for key, values := range resp.Header {
		if len(values) > 0 {
			c.Set(key, values[0])
		}
	}

	c.Status(resp.StatusCode)
	return c.Send(data)
}

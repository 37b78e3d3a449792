package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"tablepos/internal/config"
	"tablepos/internal/http/handlers"
	"tablepos/internal/pos"
	"tablepos/internal/repos"
)

// newTestApp mounts every route over a fresh in-memory store, the way main does.
func newTestApp(t *testing.T) (*fiber.App, *repos.Store) {
	t.Helper()
	cfg := config.Config{DBDSN: ":memory:", TaxRate: pos.DefaultTaxRate, TemplatesDir: "../../web/templates"}
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	store := repos.NewStore(db)
	last, err := store.Orders.MaxSequence(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	engine := html.New(cfg.TemplatesDir, ".html")
	app := fiber.New(fiber.Config{Views: engine, ErrorHandler: handlers.ErrorHandler})
	app.Server().MaxRequestBodySize = 1 << 20
	app.Use(requestid.New())
	handlers.NewDeps(store, cfg, pos.NewCounter(last)).Mount(app)
	return app, store
}

// client keeps the sid cookie between calls like a browser would.
type client struct {
	t   *testing.T
	app *fiber.App
	sid string
}

func (c *client) do(method, path string, body any) (int, []byte) {
	c.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			c.t.Fatal(err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: c.sid})
	}
	resp, err := c.app.Test(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if sid := extractCookie(resp, "sid"); sid != "" {
		c.sid = sid
	}
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out
}

// decode runs do and unmarshals the body into v, failing unless the status is want.
func (c *client) decode(method, path string, body any, want int, v any) {
	c.t.Helper()
	code, out := c.do(method, path, body)
	if code != want {
		c.t.Fatalf("%s %s: want %d, got %d body=%s", method, path, want, code, out)
	}
	if v != nil {
		if err := json.Unmarshal(out, v); err != nil {
			c.t.Fatalf("%s %s: decode %s: %v", method, path, out, err)
		}
	}
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

type tableResp struct {
	ID             string `json:"id"`
	Number         int    `json:"number"`
	Seats          int    `json:"seats"`
	Status         string `json:"status"`
	CurrentOrderID string `json:"currentOrderId"`
	Server         string `json:"server"`
}

func (c *client) table(number int) tableResp {
	c.t.Helper()
	var tables []tableResp
	c.decode("GET", "/api/v1/tables", nil, http.StatusOK, &tables)
	for _, tb := range tables {
		if tb.Number == number {
			return tb
		}
	}
	c.t.Fatalf("table %d not found", number)
	return tableResp{}
}

package handlers_test

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"testing"
)

type logEntry struct {
	Level  string         `json:"level"`
	ReqID  string         `json:"req_id"`
	Action string         `json:"action"`
	Err    string         `json:"err"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	b  *bytes.Buffer
	mu *sync.Mutex
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedBuf{b: &buf, mu: &mu})
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findEntry(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}

func TestLogs_ValidationFailureIsWarned(t *testing.T) {
	app, _ := newTestApp(t)
	c := &client{t: t, app: app}

	entries := captureLogs(t, func() {
		c.decode("POST", "/api/v1/orders", map[string]any{"partySize": 99}, http.StatusBadRequest, nil)
	})
	e, ok := findEntry(entries, "validation.fail")
	if !ok {
		t.Fatalf("validation.fail not logged: %+v", entries)
	}
	if e.Level != "warn" || e.Fields["field"] != "partySize" || e.ReqID == "" {
		t.Fatalf("unexpected entry: %+v", e)
	}
}

func TestLogs_StateChangesAreAudited(t *testing.T) {
	app, _ := newTestApp(t)
	c := &client{t: t, app: app}

	entries := captureLogs(t, func() {
		tb := c.table(3)
		c.decode("POST", "/api/v1/tables/"+tb.ID+"/seat", map[string]any{"partySize": 4, "server": "Mike"}, http.StatusOK, nil)
		c.decode("POST", "/api/v1/cart/items", map[string]string{"itemId": "margherita-pizza"}, http.StatusOK, nil)
		c.decode("POST", "/api/v1/orders", map[string]any{"customerName": "Bob", "partySize": 4, "tableId": tb.ID}, http.StatusCreated, nil)
		c.decode("POST", "/api/v1/orders/ORD-001/advance", nil, http.StatusOK, nil)
	})

	for _, action := range []string{"table_seated", "order_placed", "order_status_changed"} {
		e, ok := findEntry(entries, action)
		if !ok {
			t.Fatalf("%s not logged: %+v", action, entries)
		}
		if e.Level != "audit" {
			t.Fatalf("%s: want audit level, got %q", action, e.Level)
		}
	}
	placed, _ := findEntry(entries, "order_placed")
	if placed.Fields["order_id"] != "ORD-001" {
		t.Fatalf("order_placed fields: %+v", placed.Fields)
	}
}

func TestLogs_ConflictIsWarnedNotErrored(t *testing.T) {
	app, _ := newTestApp(t)
	c := &client{t: t, app: app}
	tb := c.table(4)

	entries := captureLogs(t, func() {
		c.decode("POST", "/api/v1/tables/"+tb.ID+"/clear", nil, http.StatusConflict, nil)
	})
	e, ok := findEntry(entries, "table.clear.rejected")
	if !ok || e.Level != "warn" {
		t.Fatalf("rejection not warned: %+v", entries)
	}
	if _, ok := findEntry(entries, "table.clear.fail"); ok {
		t.Fatal("engine rejection must not be logged as an error")
	}
}

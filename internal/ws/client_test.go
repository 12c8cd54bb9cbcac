package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads events until one of type typ arrives.
func readUntil(t *testing.T, conn *websocket.Conn, typ string) Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for %q: %v", typ, err)
		}
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if ev.Type == typ {
			return ev
		}
	}
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	if err := conn.WriteJSON(message(t, typ, payload)); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestServerLiveOrder(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	rec := &mockRecorder{}
	srv := httptest.NewServer(NewServer(hub, Deps{
		Menu:     sampleMenu(),
		Orders:   rec,
		Notifier: hub,
	}, nil))
	t.Cleanup(srv.Close)

	buyer := dial(t, srv)
	watcher := dial(t, srv)

	readUntil(t, buyer, "categories")
	for {
		p := decodePayload[MenuPayload](t, readUntil(t, buyer, "menu"))
		if !p.Loading {
			break
		}
	}

	send(t, buyer, "open_order", map[string]string{"item_id": "2", "trigger": "order-btn-2"})
	readUntil(t, buyer, "dialog")
	send(t, buyer, "set_quantity", map[string]int{"quantity": 4})
	send(t, buyer, "submit_order", nil)

	placed := decodePayload[PlacedPayload](t, readUntil(t, buyer, "order_placed"))
	if placed.ItemID != "2" || placed.Quantity != 4 {
		t.Errorf("placed = %+v", placed)
	}

	count := decodePayload[OrderCount](t, readUntil(t, watcher, "order_count"))
	if count.ItemID != "2" || count.Added != 4 {
		t.Errorf("watcher saw %+v", count)
	}
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://cafesang.vn"})

	tests := []struct {
		origin string
		want   bool
	}{
		{"https://cafesang.vn", true},
		{"https://evil.example", false},
		{"", true},
	}
	for _, tc := range tests {
		r := httptest.NewRequest(http.MethodGet, "/ws/menu", nil)
		if tc.origin != "" {
			r.Header.Set("Origin", tc.origin)
		}
		if got := check(r); got != tc.want {
			t.Errorf("origin %q: got %v, want %v", tc.origin, got, tc.want)
		}
	}

	if !originChecker([]string{"*"})(httptest.NewRequest(http.MethodGet, "/", nil)) {
		t.Error("wildcard should allow any origin")
	}
}

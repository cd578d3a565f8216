package dev

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialReload(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, rs *ReloadServer, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for rs.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("client count: got %d, want %d", rs.ClientCount(), want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestReloadServerBroadcast(t *testing.T) {
	rs := NewReloadServer()
	defer rs.Close()

	srv := httptest.NewServer(http.HandlerFunc(rs.HandleWebSocket))
	defer srv.Close()

	conn := dialReload(t, srv)
	waitForClients(t, rs, 1)

	rs.NotifyReload("main.go")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg ReloadMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Type != ReloadTypeFull {
		t.Errorf("type: got %q, want %q", msg.Type, ReloadTypeFull)
	}
	if msg.File != "main.go" {
		t.Errorf("file: got %q, want main.go", msg.File)
	}
}

func TestReloadServerNotifyError(t *testing.T) {
	rs := NewReloadServer()
	defer rs.Close()

	srv := httptest.NewServer(http.HandlerFunc(rs.HandleWebSocket))
	defer srv.Close()

	conn := dialReload(t, srv)
	waitForClients(t, rs, 1)

	rs.NotifyError("syntax error")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg ReloadMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Type != ReloadTypeError {
		t.Errorf("type: got %q, want %q", msg.Type, ReloadTypeError)
	}
	if msg.Error != "syntax error" {
		t.Errorf("error: got %q", msg.Error)
	}
}

func TestReloadServerDisconnect(t *testing.T) {
	rs := NewReloadServer()
	defer rs.Close()

	srv := httptest.NewServer(http.HandlerFunc(rs.HandleWebSocket))
	defer srv.Close()

	conn := dialReload(t, srv)
	waitForClients(t, rs, 1)

	conn.Close()
	waitForClients(t, rs, 0)
}

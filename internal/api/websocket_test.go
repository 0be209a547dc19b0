package api

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/driftlab/device-checkout/internal/device"
)

func dialWebSocket(t *testing.T, srv *Server) *websocket.Conn {
	t.Helper()

	ts := httptest.NewServer(srv.buildRouter())
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dialing websocket: %v", err)
	}
	t.Cleanup(func() {
		conn.Close()
	})
	return conn
}

func TestHubBroadcastsReservationEvents(t *testing.T) {
	srv, _ := testServer(t)
	conn := dialWebSocket(t, srv)

	// Wait for the hub to register the client.
	deadline := time.Now().Add(2 * time.Second)
	for srv.hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered with hub")
		}
		time.Sleep(10 * time.Millisecond)
	}

	srv.hub.Publish(device.Event{
		Type:   device.EventReserved,
		Device: &device.Device{ID: 1, DeviceName: "unit1"},
	})

	//nolint:errcheck // Deadline best-effort; read error caught below
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading broadcast: %v", err)
	}

	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decoding broadcast: %v", err)
	}
	if msg.Type != device.EventReserved {
		t.Errorf("event type: got %q, want %q", msg.Type, device.EventReserved)
	}
	if msg.Timestamp == "" {
		t.Error("broadcast missing timestamp")
	}

	payload, ok := msg.Payload.(map[string]any)
	if !ok {
		t.Fatalf("unexpected payload: %v", msg.Payload)
	}
	if payload["device_name"] != "unit1" {
		t.Errorf("payload device name: got %v, want unit1", payload["device_name"])
	}
}

func TestReservationEndpointBroadcasts(t *testing.T) {
	srv, db := testServer(t)
	seedDevice(t, db, "unit1")
	conn := dialWebSocket(t, srv)

	deadline := time.Now().Add(2 * time.Second)
	for srv.hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered with hub")
		}
		time.Sleep(10 * time.Millisecond)
	}

	rec := doRequest(t, srv, "POST", "/api/v1/reservations",
		`{"device":{"pool_id":1},"device_owner":"alice"}`)
	if rec.Code != 200 {
		t.Fatalf("reservation failed: %d (%s)", rec.Code, rec.Body.String())
	}

	//nolint:errcheck // Deadline best-effort; read error caught below
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading broadcast: %v", err)
	}

	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decoding broadcast: %v", err)
	}
	if msg.Type != device.EventReserved {
		t.Errorf("event type: got %q, want %q", msg.Type, device.EventReserved)
	}
}

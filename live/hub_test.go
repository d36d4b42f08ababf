package live

import (
	"encoding/json"
	"testing"
	"time"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send:   make(chan []byte, 10),
		UserID: "admin1",
	}

	hub.register <- client

	hub.BroadcastEvent("order.created", map[string]any{"orderNumber": "RF-00000001"})

	select {
	case got := <-client.Send:
		var ev Event
		if err := json.Unmarshal(got, &ev); err != nil {
			t.Fatalf("bad event payload: %v", err)
		}
		if ev.Type != "order.created" {
			t.Fatalf("event type = %q, want order.created", ev.Type)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for event")
	}

	hub.unregister <- client
}

func TestHubStopDisconnectsClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{Send: make(chan []byte, 1), UserID: "admin1"}
	hub.register <- client

	hub.Stop()

	select {
	case _, ok := <-client.Send:
		if ok {
			t.Fatal("expected closed send channel after Stop")
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for disconnect")
	}

	// broadcasting after Stop must not block
	done := make(chan struct{})
	go func() {
		hub.BroadcastEvent("order.created", nil)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("BroadcastEvent blocked after Stop")
	}
}

func TestAddAfterStopDoesNotBlock(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	hub.Stop()

	done := make(chan bool, 1)
	go func() {
		done <- hub.add(&Client{Send: make(chan []byte, 1), UserID: "admin1"})
	}()

	select {
	case ok := <-done:
		if ok {
			t.Fatal("add reported success after Stop")
		}
	case <-time.After(1 * time.Second):
		t.Fatal("add blocked after Stop")
	}
}

package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"
)

// mockClient creates a Client with a send channel but no real connection.
func mockClient(hub *Hub, groupID int64) *Client {
	return &Client{
		hub:     hub,
		conn:    nil,
		groupID: groupID,
		send:    make(chan []byte, sendBufferSize),
	}
}

func TestRegisterUnregister(t *testing.T) {
	hub := NewHub(slog.Default())

	c1 := mockClient(hub, 1)
	c2 := mockClient(hub, 1)

	hub.Register(c1)
	hub.Register(c2)

	if got := hub.ClientCount(1); got != 2 {
		t.Fatalf("expected 2 clients, got %d", got)
	}

	hub.Unregister(c1)

	if got := hub.ClientCount(1); got != 1 {
		t.Fatalf("expected 1 client after unregister, got %d", got)
	}

	hub.Unregister(c2)

	if got := hub.ClientCount(1); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
}

func TestDoubleUnregister(t *testing.T) {
	hub := NewHub(slog.Default())
	c := mockClient(hub, 1)
	hub.Register(c)
	hub.Unregister(c)
	// Should not panic
	hub.Unregister(c)

	if got := hub.ClientCount(1); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
}

func TestBroadcastStaysInGroup(t *testing.T) {
	hub := NewHub(slog.Default())

	same := mockClient(hub, 1)
	other := mockClient(hub, 2)
	hub.Register(same)
	hub.Register(other)

	msg := NewMessage("shopping_task", "created", 42)
	hub.Broadcast(1, msg)

	select {
	case data := <-same.send:
		var got Message
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.Type != "shopping_task_created" {
			t.Errorf("expected type shopping_task_created, got %s", got.Type)
		}
		if got.ID != 42 {
			t.Errorf("expected id 42, got %d", got.ID)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for message")
	}

	select {
	case <-other.send:
		t.Fatal("client in another group must not receive the broadcast")
	default:
	}

	hub.Unregister(same)
	hub.Unregister(other)
}

func TestBroadcastEmptyHub(t *testing.T) {
	hub := NewHub(slog.Default())
	// Should not panic
	hub.Broadcast(1, NewMessage("fridge_item", "deleted", 1))
}

func TestBroadcastFullBuffer(t *testing.T) {
	hub := NewHub(slog.Default())

	c := mockClient(hub, 1)
	hub.Register(c)

	// Fill the send buffer
	for i := 0; i < sendBufferSize; i++ {
		hub.Broadcast(1, NewMessage("test", "fill", int64(i)))
	}

	// This should drop the message, not panic or block
	hub.Broadcast(1, NewMessage("test", "dropped", 999))

	// Drain to verify buffer was full
	count := 0
	for {
		select {
		case <-c.send:
			count++
		default:
			goto done
		}
	}
done:
	if count != sendBufferSize {
		t.Errorf("expected %d messages, got %d", sendBufferSize, count)
	}

	hub.Unregister(c)
}

func TestNewMessage(t *testing.T) {
	msg := NewMessage("meal_plan", "updated", 5)
	if msg.Type != "meal_plan_updated" {
		t.Errorf("expected type meal_plan_updated, got %s", msg.Type)
	}
	if msg.Entity != "meal_plan" {
		t.Errorf("expected entity meal_plan, got %s", msg.Entity)
	}
	if msg.Action != "updated" {
		t.Errorf("expected action updated, got %s", msg.Action)
	}
	if msg.ID != 5 {
		t.Errorf("expected id 5, got %d", msg.ID)
	}
}

func TestConcurrentAccess(t *testing.T) {
	hub := NewHub(slog.Default())
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := mockClient(hub, 1)
			hub.Register(c)
			hub.Broadcast(1, NewMessage("test", "concurrent", 0))
			for {
				select {
				case <-c.send:
				default:
					hub.Unregister(c)
					return
				}
			}
		}()
	}

	wg.Wait()

	if got := hub.ClientCount(1); got != 0 {
		t.Errorf("expected 0 clients after concurrent test, got %d", got)
	}
}

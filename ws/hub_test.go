package ws

import (
	"encoding/json"
	"testing"
	"time"
)

// newTestClient, conn'suz bir client üretir — hub testleri yalnızca
// send channel'ı ve oda üyeliğini gözlemler, gerçek socket gerekmez.
func newTestClient(h *Hub, memberID int64) *Client {
	return &Client{
		hub:      h,
		memberID: memberID,
		rooms:    make(map[int64]bool),
		send:     make(chan []byte, sendBufferSize),
	}
}

func recvEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case data := <-c.send:
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("invalid event payload: %v", err)
		}
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestBroadcastToRoomOnlyReachesSubscribers(t *testing.T) {
	h := NewHub()

	inRoom := newTestClient(h, 1)
	otherRoom := newTestClient(h, 2)
	noRoom := newTestClient(h, 3)

	h.addClient(inRoom)
	h.addClient(otherRoom)
	h.addClient(noRoom)

	h.joinRoom(inRoom, 10)
	h.joinRoom(otherRoom, 20)

	h.BroadcastToRoom(10, Event{Op: OpReceiveMessage, Data: "hello"})

	ev := recvEvent(t, inRoom)
	if ev.Op != OpReceiveMessage {
		t.Errorf("op = %q, want %q", ev.Op, OpReceiveMessage)
	}
	if ev.Seq == 0 {
		t.Error("broadcast event must carry a sequence number")
	}

	if len(otherRoom.send) != 0 {
		t.Error("client in another room must not receive the event")
	}
	if len(noRoom.send) != 0 {
		t.Error("client in no room must not receive the event")
	}
}

func TestLeaveRoomStopsDelivery(t *testing.T) {
	h := NewHub()
	c := newTestClient(h, 1)
	h.addClient(c)
	h.joinRoom(c, 10)
	h.leaveRoom(c, 10)

	h.BroadcastToRoom(10, Event{Op: OpReceiveMessage})

	if len(c.send) != 0 {
		t.Error("client that left the room must not receive events")
	}
	if len(c.rooms) != 0 {
		t.Error("client room set must be empty after leave")
	}
}

func TestJoinRoomIsIdempotent(t *testing.T) {
	h := NewHub()
	c := newTestClient(h, 1)
	h.addClient(c)
	h.joinRoom(c, 10)
	h.joinRoom(c, 10)

	h.BroadcastToRoom(10, Event{Op: OpReceiveMessage})

	if len(c.send) != 1 {
		t.Errorf("expected exactly 1 delivery, got %d", len(c.send))
	}
}

func TestRemoveClientLeavesAllRooms(t *testing.T) {
	h := NewHub()
	c := newTestClient(h, 1)
	stays := newTestClient(h, 2)

	h.addClient(c)
	h.addClient(stays)
	h.joinRoom(c, 10)
	h.joinRoom(c, 20)
	h.joinRoom(stays, 10)

	h.removeClient(c)

	h.mu.RLock()
	if _, ok := h.rooms[20]; ok {
		t.Error("room 20 must be dropped when its last member disconnects")
	}
	if len(h.rooms[10]) != 1 {
		t.Errorf("room 10 must keep the remaining client, got %d", len(h.rooms[10]))
	}
	h.mu.RUnlock()

	// send channel kapatıldı
	if _, ok := <-c.send; ok {
		t.Error("send channel must be closed after removal")
	}
}

func TestSequenceNumbersIncrease(t *testing.T) {
	h := NewHub()
	c := newTestClient(h, 1)
	h.addClient(c)
	h.joinRoom(c, 10)

	h.BroadcastToRoom(10, Event{Op: OpReceiveMessage})
	h.BroadcastToRoom(10, Event{Op: OpReceiveMessage})

	first := recvEvent(t, c)
	second := recvEvent(t, c)
	if second.Seq <= first.Seq {
		t.Errorf("seq must increase: %d then %d", first.Seq, second.Seq)
	}
}

func TestShutdownClosesAllClients(t *testing.T) {
	h := NewHub()
	a := newTestClient(h, 1)
	b := newTestClient(h, 2)
	h.addClient(a)
	h.addClient(b)
	h.joinRoom(a, 10)

	h.Shutdown()

	if _, ok := <-a.send; ok {
		t.Error("client a send channel must be closed")
	}
	if _, ok := <-b.send; ok {
		t.Error("client b send channel must be closed")
	}

	// Shutdown sonrası broadcast panic'lemez, kimseye gitmez
	h.BroadcastToRoom(10, Event{Op: OpReceiveMessage})
}

package irisfast

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

func TestEgress_HTTPMode(t *testing.T) {
	b := &fakeBridge{}
	e := NewEgress(ModeHTTP, false, newBridgeClient(t, b), nil, nil)
	if err := e.SendText(context.Background(), "room-1", "hi"); err != nil {
		t.Fatalf("SendText: %v", err)
	}
	if len(b.replies) != 1 || b.replies[0].Type != "text" {
		t.Fatalf("unexpected replies: %+v", b.replies)
	}
}

func TestEgress_AutoFallsBackToHTTP(t *testing.T) {
	b := &fakeBridge{}
	ws := NewWebSocket("ws://unused", 0, 0)
	e := NewEgress(ModeAuto, false, newBridgeClient(t, b), ws, nil)
	if err := e.SendImage(context.Background(), "room-1", "aW1n"); err != nil {
		t.Fatalf("SendImage: %v", err)
	}
	if len(b.replies) != 1 || b.replies[0].Type != "image" {
		t.Fatalf("expected http fallback, got %+v", b.replies)
	}
}

func TestEgress_WSModeRequiresConnection(t *testing.T) {
	e := NewEgress(ModeWS, false, nil, NewWebSocket("ws://unused", 0, 0), nil)
	if err := e.SendText(context.Background(), "r", "x"); !errors.Is(err, ErrWSNotConnected) {
		t.Fatalf("expected ErrWSNotConnected, got %v", err)
	}
	if err := NewEgress(ModeWS, false, nil, nil, nil).SendText(context.Background(), "r", "x"); !errors.Is(err, ErrWSUnavailable) {
		t.Fatalf("expected ErrWSUnavailable, got %v", err)
	}
	if err := NewEgress(ModeWS, true, nil, NewWebSocket("ws://unused", 0, 0), nil).SendText(context.Background(), "r", "x"); err != nil {
		t.Fatalf("dry run should succeed, got %v", err)
	}
}

// echoBridge pushes one chat event to each client and records reply frames.
type echoBridge struct {
	mu      sync.Mutex
	replies []ReplyRequest
	got     chan struct{}
}

func (b *echoBridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")
	ctx := r.Context()
	sender := "alice"
	if err := wsjson.Write(ctx, conn, Message{Msg: "!board", Room: "room-1", Sender: &sender}); err != nil {
		return
	}
	for {
		var rr ReplyRequest
		if err := wsjson.Read(ctx, conn, &rr); err != nil {
			return
		}
		b.mu.Lock()
		b.replies = append(b.replies, rr)
		b.mu.Unlock()
		b.got <- struct{}{}
	}
}

func TestWebSocket_ReceivesAndReplies(t *testing.T) {
	bridge := &echoBridge{got: make(chan struct{}, 1)}
	srv := httptest.NewServer(bridge)
	defer srv.Close()

	ws := NewWebSocket("ws"+strings.TrimPrefix(srv.URL, "http"), 0, 0)
	received := make(chan *Message, 1)
	ws.OnMessage(func(m *Message) { received <- m })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := ws.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if ws.State() != WSStateConnected {
		t.Fatalf("state = %s", ws.State())
	}

	select {
	case m := <-received:
		if m.Msg != "!board" || m.UserID() != "alice" {
			t.Fatalf("unexpected message %+v", m)
		}
	case <-ctx.Done():
		t.Fatalf("no message received")
	}

	e := NewEgress(ModeAuto, false, nil, ws, nil)
	if err := e.SendText(ctx, "room-1", "pong"); err != nil {
		t.Fatalf("ws SendText: %v", err)
	}
	select {
	case <-bridge.got:
	case <-ctx.Done():
		t.Fatalf("bridge did not receive reply")
	}
	bridge.mu.Lock()
	if len(bridge.replies) != 1 || bridge.replies[0].Data != "pong" {
		t.Fatalf("unexpected replies %+v", bridge.replies)
	}
	bridge.mu.Unlock()

	if err := ws.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

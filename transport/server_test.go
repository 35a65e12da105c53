package transport

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/beehive/game"
	"github.com/pthm-cable/beehive/systems"
)

// chanSink records events on a channel and refuses once it is full.
type chanSink struct {
	events chan systems.InputEvent
}

func (s *chanSink) Enqueue(ev systems.InputEvent) bool {
	select {
	case s.events <- ev:
		return true
	default:
		return false
	}
}

func startServer(t *testing.T, sink InputSink, queue int) (*Server, *websocket.Conn) {
	t.Helper()
	srv := NewServer(sink, WorldInfo{Width: 1600, Height: 1000}, queue)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	var welcome WelcomeMsg
	readJSON(t, conn, &welcome)
	if welcome.Type != TypeWelcome || welcome.World.Width != 1600 {
		t.Fatalf("unexpected welcome %+v", welcome)
	}
	return srv, conn
}

func readJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := json.Unmarshal(msg, v); err != nil {
		t.Fatalf("decode %s: %v", msg, err)
	}
}

func TestInputReachesSink(t *testing.T) {
	sink := &chanSink{events: make(chan systems.InputEvent, 8)}
	_, conn := startServer(t, sink, 4)

	msgs := []InputMsg{
		{Type: TypeKey, Action: "forward", Down: true},
		{Type: TypeLook, DX: 12},
		{Type: TypeJoystick, X: 0.5, Y: -1},
		{Type: TypeJoystickRelease},
	}
	for _, m := range msgs {
		if err := conn.WriteJSON(m); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	want := []systems.InputEvent{
		{Kind: systems.EventKey, Action: systems.ActionForward, Down: true},
		{Kind: systems.EventLook, DX: 12},
		{Kind: systems.EventJoystick, X: 0.5, Y: -1},
		{Kind: systems.EventJoystickRelease},
	}
	for i, w := range want {
		select {
		case got := <-sink.events:
			if got != w {
				t.Errorf("event %d = %+v, want %+v", i, got, w)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for event %d", i)
		}
	}
}

func TestBadInputIsSkipped(t *testing.T) {
	sink := &chanSink{events: make(chan systems.InputEvent, 8)}
	srv, conn := startServer(t, sink, 4)

	_ = conn.WriteMessage(websocket.TextMessage, []byte("not json"))
	_ = conn.WriteJSON(InputMsg{Type: TypeKey, Action: "sideways"})
	_ = conn.WriteJSON(InputMsg{Type: "teleport"})
	_ = conn.WriteJSON(InputMsg{Type: TypeKey, Action: "jump", Down: true})

	select {
	case got := <-sink.events:
		if got.Action != systems.ActionJump {
			t.Errorf("expected jump, got %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the valid event")
	}
	if n := srv.BadInputs(); n != 3 {
		t.Errorf("expected 3 bad inputs, got %d", n)
	}
}

func TestFramesReachClient(t *testing.T) {
	sink := &chanSink{events: make(chan systems.InputEvent, 1)}
	srv, conn := startServer(t, sink, 4)

	if n := srv.Clients(); n != 1 {
		t.Fatalf("expected 1 client, got %d", n)
	}

	srv.Publish(game.Frame{
		Tick:  7,
		Honey: 12.5,
		Entities: []game.EntityFrame{
			{Kind: game.KindPlayer, ID: 1, X: 10, Y: 20},
		},
	})

	var f FrameMsg
	readJSON(t, conn, &f)
	if f.Type != TypeFrame || f.Tick != 7 || f.Honey != 12.5 {
		t.Fatalf("unexpected frame %+v", f)
	}
	if len(f.Entities) != 1 || f.Entities[0].Kind != game.KindPlayer || f.Entities[0].Y != 20 {
		t.Errorf("unexpected entities %+v", f.Entities)
	}
}

func TestSlowClientDropsFrames(t *testing.T) {
	srv := NewServer(&chanSink{events: make(chan systems.InputEvent, 1)}, WorldInfo{}, 2)
	out := make(chan []byte, 2)
	id := srv.addClient(out)

	for i := 0; i < 5; i++ {
		srv.Publish(game.Frame{Tick: int32(i)})
	}
	if n := srv.DroppedFrames(); n != 3 {
		t.Errorf("expected 3 dropped frames, got %d", n)
	}

	// The buffered frames are the oldest ones
	var f FrameMsg
	if err := json.Unmarshal(<-out, &f); err != nil || f.Tick != 0 {
		t.Errorf("expected tick 0 first, got %+v (%v)", f, err)
	}

	srv.removeClient(id)
	if srv.Clients() != 0 {
		t.Error("client should be removed")
	}
}

func TestFullSinkCountsDroppedInput(t *testing.T) {
	sink := &chanSink{events: make(chan systems.InputEvent, 1)}
	srv, conn := startServer(t, sink, 4)

	_ = conn.WriteJSON(InputMsg{Type: TypeLook, DX: 1})
	_ = conn.WriteJSON(InputMsg{Type: TypeLook, DX: 2})

	deadline := time.Now().Add(2 * time.Second)
	for srv.DroppedInputs() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if n := srv.DroppedInputs(); n != 1 {
		t.Errorf("expected 1 dropped input, got %d", n)
	}
}

func TestInputMsgEvent(t *testing.T) {
	tests := []struct {
		msg     InputMsg
		want    systems.InputEvent
		wantErr bool
	}{
		{InputMsg{Type: TypeKey, Action: "up", Down: true}, systems.InputEvent{Kind: systems.EventKey, Action: systems.ActionUp, Down: true}, false},
		{InputMsg{Type: TypeKey, Action: "backward"}, systems.InputEvent{Kind: systems.EventKey, Action: systems.ActionBackward}, false},
		{InputMsg{Type: TypeKey, Action: ""}, systems.InputEvent{}, true},
		{InputMsg{Type: ""}, systems.InputEvent{}, true},
		{InputMsg{Type: TypeLook, DX: 1e30}, systems.InputEvent{Kind: systems.EventLook, DX: systems.MaxLookDelta}, false},
		{InputMsg{Type: TypeLook, DX: -1e30}, systems.InputEvent{Kind: systems.EventLook, DX: -systems.MaxLookDelta}, false},
	}
	for _, tt := range tests {
		got, err := tt.msg.Event()
		if (err != nil) != tt.wantErr {
			t.Errorf("%+v: err = %v, wantErr %v", tt.msg, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("%+v: got %+v, want %+v", tt.msg, got, tt.want)
		}
	}
}

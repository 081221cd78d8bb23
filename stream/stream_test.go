package stream

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/phanxgames/glimmer"
)

// dial serves d over a test HTTP server, connects one websocket client,
// and returns the connection with the initial snapshot already read.
func dial(t *testing.T, d *Device) (*websocket.Conn, Frame) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(d.Handler))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })

	var snapshot Frame
	if err := conn.ReadJSON(&snapshot); err != nil {
		t.Fatalf("reading snapshot: %v", err)
	}
	waitForClients(t, d, 1)
	return conn, snapshot
}

func waitForClients(t *testing.T, d *Device, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for d.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("ClientCount = %d, want %d", d.ClientCount(), n)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestNewRejectsBadSize(t *testing.T) {
	if _, err := New(0, 8); err == nil {
		t.Error("New(0, 8) should fail")
	}
	if _, err := New(8, -1); err == nil {
		t.Error("New(8, -1) should fail")
	}
}

func TestSnapshotOnConnect(t *testing.T) {
	d, err := New(4, 4)
	if err != nil {
		t.Fatal(err)
	}
	d.SetPixel(1, 2, glimmer.RGB{R: 255})
	d.SetPixel(3, 0, glimmer.RGB{B: 128})

	_, snapshot := dial(t, d)

	if snapshot.Width != 4 || snapshot.Height != 4 {
		t.Errorf("snapshot size = %dx%d, want 4x4", snapshot.Width, snapshot.Height)
	}
	if len(snapshot.Pixels) != 2 {
		t.Fatalf("snapshot has %d pixels, want 2", len(snapshot.Pixels))
	}
}

func TestPresentBroadcastsDeltas(t *testing.T) {
	d, err := New(4, 4)
	if err != nil {
		t.Fatal(err)
	}
	conn, snapshot := dial(t, d)

	if len(snapshot.Pixels) != 0 {
		t.Fatalf("empty grid snapshot has %d pixels", len(snapshot.Pixels))
	}

	d.SetPixel(2, 1, glimmer.RGB{G: 200})
	d.SetPixel(2, 1, glimmer.RGB{G: 200}) // same value, no second delta
	d.Present()

	var frame Frame
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("reading frame: %v", err)
	}
	if len(frame.Pixels) != 1 {
		t.Fatalf("frame has %d pixels, want 1", len(frame.Pixels))
	}
	p := frame.Pixels[0]
	if p.X != 2 || p.Y != 1 || p.G != 200 {
		t.Errorf("delta pixel = %+v, want x=2 y=1 g=200", p)
	}
}

func TestPresentWithoutChangesSendsNothing(t *testing.T) {
	d, err := New(4, 4)
	if err != nil {
		t.Fatal(err)
	}
	conn, _ := dial(t, d)

	d.Present()

	conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	if err := conn.ReadJSON(&Frame{}); err == nil {
		t.Error("expected no frame after a changeless Present")
	}
}

func TestClosedClientIsDropped(t *testing.T) {
	d, err := New(4, 4)
	if err != nil {
		t.Fatal(err)
	}
	conn, _ := dial(t, d)

	conn.Close()
	waitForClients(t, d, 0)
}

// Package stream is a websocket backend for glimmer: frames are
// broadcast as JSON pixel deltas to every connected client, so a browser
// page can mirror the animation.
package stream

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/phanxgames/glimmer"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The demo pages are served from this same process.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Pixel is one changed cell in a frame message.
type Pixel struct {
	X int   `json:"x"`
	Y int   `json:"y"`
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Frame is the JSON message broadcast on every Present. The first frame
// sent to a new client carries every non-black pixel; later frames carry
// only the cells that changed.
type Frame struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Pixels []Pixel `json:"pixels"`
}

// Device renders a glimmer pixel grid to all connected websocket
// clients. It satisfies [glimmer.Device].
type Device struct {
	width  int
	height int

	mu      sync.Mutex
	pixels  []glimmer.RGB
	changed map[int]struct{}
	clients map[*websocket.Conn]struct{}
}

// New creates a Device for a width x height grid. Register its Handler
// on an HTTP mux and run the server to accept clients.
func New(width, height int) (*Device, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("stream: invalid grid size %dx%d", width, height)
	}
	return &Device{
		width:   width,
		height:  height,
		pixels:  make([]glimmer.RGB, width*height),
		changed: make(map[int]struct{}),
		clients: make(map[*websocket.Conn]struct{}),
	}, nil
}

// Size returns the grid dimensions.
func (d *Device) Size() (w, h int) { return d.width, d.height }

// SetPixel buffers a pixel write for the next Present.
func (d *Device) SetPixel(x, y int, c glimmer.RGB) {
	if x < 0 || x >= d.width || y < 0 || y >= d.height {
		return
	}
	d.mu.Lock()
	idx := y*d.width + x
	if d.pixels[idx] != c {
		d.pixels[idx] = c
		d.changed[idx] = struct{}{}
	}
	d.mu.Unlock()
}

// Present broadcasts the changed pixels to every client. Clients whose
// connection fails are dropped.
func (d *Device) Present() {
	d.mu.Lock()
	if len(d.changed) == 0 || len(d.clients) == 0 {
		d.changed = make(map[int]struct{})
		d.mu.Unlock()
		return
	}
	frame := Frame{Width: d.width, Height: d.height}
	for idx := range d.changed {
		c := d.pixels[idx]
		frame.Pixels = append(frame.Pixels, Pixel{
			X: idx % d.width, Y: idx / d.width, R: c.R, G: c.G, B: c.B,
		})
	}
	d.changed = make(map[int]struct{})
	conns := make([]*websocket.Conn, 0, len(d.clients))
	for conn := range d.clients {
		conns = append(conns, conn)
	}
	d.mu.Unlock()

	payload, err := json.Marshal(frame)
	if err != nil {
		d.Logf("stream: encoding frame: %v", err)
		return
	}
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			d.drop(conn)
		}
	}
}

// Logf writes to the standard logger.
func (d *Device) Logf(format string, args ...any) { log.Printf(format, args...) }

// Handler upgrades an HTTP request to a websocket client and sends it a
// snapshot of the current grid.
func (d *Device) Handler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		d.Logf("stream: upgrade from %s: %v", r.RemoteAddr, err)
		return
	}

	snapshot := Frame{Width: d.width, Height: d.height}
	d.mu.Lock()
	for idx, c := range d.pixels {
		if c != glimmer.Black {
			snapshot.Pixels = append(snapshot.Pixels, Pixel{
				X: idx % d.width, Y: idx / d.width, R: c.R, G: c.G, B: c.B,
			})
		}
	}
	d.clients[conn] = struct{}{}
	d.mu.Unlock()

	if err := conn.WriteJSON(snapshot); err != nil {
		d.drop(conn)
		return
	}

	// Drain (and discard) client messages so pings are answered and
	// closed connections are noticed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				d.drop(conn)
				return
			}
		}
	}()
}

// ClientCount returns the number of connected clients.
func (d *Device) ClientCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.clients)
}

func (d *Device) drop(conn *websocket.Conn) {
	d.mu.Lock()
	if _, ok := d.clients[conn]; ok {
		delete(d.clients, conn)
		conn.Close()
	}
	d.mu.Unlock()
}

// Package meshws serves geosphere meshes over websocket connections.
// Clients send JSON [Request] messages and receive a JSON [Response] for each.
package meshws

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"slices"
	"sync"

	"github.com/chewxy/math32"
	"github.com/gorilla/websocket"
	"github.com/soypat/geosphere"
	"github.com/soypat/geosphere/meshtool"
)

// Request asks for a mesh to be regenerated.
type Request struct {
	// Shape is one of "sphere", "hemisphere" or "pyramid". Empty means sphere.
	Shape      string  `json:"shape"`
	Radius     float32 `json:"radius"`
	Level      int     `json:"level"`
	Correction bool    `json:"correction"`
}

// Response carries a generated mesh or, when Type is "error", the reason generation failed.
type Response struct {
	Type      string       `json:"type"`
	Error     string       `json:"error,omitempty"`
	Shape     string       `json:"shape,omitempty"`
	Level     int          `json:"level"`
	Positions [][3]float32 `json:"positions,omitempty"`
	Normals   [][3]float32 `json:"normals,omitempty"`
	Indices   []int32      `json:"indices,omitempty"`
	BoundsMin [3]float32   `json:"boundsMin"`
	BoundsMax [3]float32   `json:"boundsMax"`
	Triangles int          `json:"triangles"`
}

type Config struct {
	// MaxComplexity caps the level of pyramid hemisphere requests. Defaults to 30.
	MaxComplexity int
	// MaxRadius rejects larger radii when positive.
	MaxRadius float32
	// AllowedOrigins lists the permitted Origin headers. All origins are allowed when empty.
	AllowedOrigins []string
	Silent         bool
}

// Server upgrades HTTP requests to websocket connections. Each connection is
// served by its own goroutine with its own generator and buffers.
type Server struct {
	cfg      Config
	upgrader websocket.Upgrader
	mu       sync.Mutex
	conns    map[*websocket.Conn]struct{}
}

// NewServer returns a [Server] ready to be registered as an http.Handler.
func NewServer(cfg Config) (*Server, error) {
	if cfg.MaxComplexity < 0 || cfg.MaxRadius < 0 {
		return nil, errors.New("negative limit in meshws config")
	}
	if cfg.MaxComplexity == 0 {
		cfg.MaxComplexity = 30
	}
	s := &Server{
		cfg:   cfg,
		conns: make(map[*websocket.Conn]struct{}),
	}
	s.upgrader.CheckOrigin = func(r *http.Request) bool {
		if len(cfg.AllowedOrigins) == 0 {
			return true
		}
		return slices.Contains(cfg.AllowedOrigins, r.Header.Get("Origin"))
	}
	return s, nil
}

// Connections returns the number of open websocket connections.
func (s *Server) Connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Close closes all open connections.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for conn := range s.conns {
		errs = append(errs, conn.Close())
	}
	clear(s.conns)
	return errors.Join(errs...)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logf("websocket upgrade error: %s", err)
		return
	}
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	var sess session
	sess.buf = meshtool.NewBuffer(&sess.mesh, meshtool.Triangles)
	for {
		var req Request
		err = conn.ReadJSON(&req)
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logf("websocket read error: %s", err)
			}
			return
		}
		resp, err := sess.generate(req, s.cfg)
		if err != nil {
			resp = Response{Type: "error", Error: err.Error(), Level: req.Level}
		}
		err = conn.WriteJSON(&resp)
		if err != nil {
			s.logf("websocket write error: %s", err)
			return
		}
	}
}

func (s *Server) logf(format string, args ...any) {
	if !s.cfg.Silent {
		log.Printf(format, args...)
	}
}

// session is the per connection generation state. Buffers are reused between requests.
type session struct {
	gen  geosphere.Generator
	mesh meshtool.Mesh
	buf  *meshtool.Buffer
}

func (sess *session) generate(req Request, cfg Config) (Response, error) {
	shape := geosphere.ShapeSphere
	if req.Shape != "" {
		var err error
		shape, err = geosphere.ParseShape(req.Shape)
		if err != nil {
			return Response{}, err
		}
	}
	switch {
	case !(req.Radius > 0) || math32.IsInf(req.Radius, 1):
		return Response{}, fmt.Errorf("radius must be positive and finite, got %g", req.Radius)
	case cfg.MaxRadius > 0 && req.Radius > cfg.MaxRadius:
		return Response{}, fmt.Errorf("radius %g exceeds maximum %g", req.Radius, cfg.MaxRadius)
	case shape == geosphere.ShapePyramid && req.Level > cfg.MaxComplexity:
		return Response{}, fmt.Errorf("complexity %d exceeds maximum %d", req.Level, cfg.MaxComplexity)
	}
	sess.gen.Generate(sess.buf, shape, req.Radius, req.Level, req.Correction)

	m := &sess.mesh
	resp := Response{
		Type:      "mesh",
		Shape:     shape.String(),
		Level:     req.Level,
		Positions: make([][3]float32, len(m.Positions)),
		Normals:   make([][3]float32, len(m.Normals)),
		Indices:   make([]int32, 0, len(m.Indices)),
		BoundsMin: [3]float32{m.Bounds.Min.X, m.Bounds.Min.Y, m.Bounds.Min.Z},
		BoundsMax: [3]float32{m.Bounds.Max.X, m.Bounds.Max.Y, m.Bounds.Max.Z},
	}
	if shape != geosphere.ShapePyramid {
		// Report the table level actually used.
		resp.Level = max(0, min(req.Level, geosphere.MaxLevel))
	} else {
		resp.Level = max(0, req.Level)
	}
	for i, p := range m.Positions {
		resp.Positions[i] = [3]float32{p.X, p.Y, p.Z}
	}
	for i, n := range m.Normals {
		resp.Normals[i] = [3]float32{n.X, n.Y, n.Z}
	}
	idx := m.Indices
	for i := 0; i+2 < len(idx); i += 3 {
		a, b, c := idx[i], idx[i+1], idx[i+2]
		if a == b || b == c || a == c {
			continue // Zeroed slack past the active triangles.
		}
		resp.Indices = append(resp.Indices, int32(a), int32(b), int32(c))
	}
	resp.Triangles = len(resp.Indices) / 3
	return resp, nil
}

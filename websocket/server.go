package websocket

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	lbm "github.com/UnwiseGiraffeX86/Air-Tunnel/lbm-solver"
)

// HttpParams configures the combined static file host and websocket
// endpoint.
type HttpParams struct {
	Address string
	Prefix  string
	Root    string
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Server drives the solver on a fixed cadence and fans field snapshots out
// to every connected browser. Clients send paint and parameter messages
// back over the same socket.
type Server struct {
	solver *lbm.Solver
	params HttpParams

	// StepsPerFrame solver steps run between broadcasts at FrameRate
	// frames per second.
	StepsPerFrame int
	FrameRate     int

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// frame is the wire form of one rendered simulation state.
type frame struct {
	Step      int            `json:"step"`
	Width     int            `json:"width"`
	Height    int            `json:"height"`
	Speed2    []float64      `json:"speed2"`
	Obstacle  []bool         `json:"obstacle"`
	Drag      float64        `json:"drag"`
	Lift      float64        `json:"lift"`
	Unstable  bool           `json:"unstable"`
	Particles []lbm.Particle `json:"particles"`
}

// clientMessage is what browsers send back: obstacle paints and parameter
// changes. Absent parameter fields are left untouched.
type clientMessage struct {
	Type string `json:"type"`

	// paint
	X     int  `json:"x"`
	Y     int  `json:"y"`
	Solid bool `json:"solid"`

	// param
	Tau         *float64 `json:"tau,omitempty"`
	InletSpeed  *float64 `json:"inletSpeed,omitempty"`
	InletAngle  *float64 `json:"inletAngle,omitempty"`
	Smagorinsky *float64 `json:"smagorinsky,omitempty"`
}

// NewServer wires a solver to an address and a static root to serve the
// browser viewer from.
func NewServer(solver *lbm.Solver, params HttpParams) *Server {
	return &Server{
		solver:        solver,
		params:        params,
		StepsPerFrame: 5,
		FrameRate:     30,
		clients:       make(map[*websocket.Conn]bool),
	}
}

// Run serves until the listener fails. The broadcast loop steps the solver
// whether or not anyone is connected, so a reconnecting client sees a
// developed flow.
func (s *Server) Run() error {
	root, err := filepath.Abs(s.params.Root)
	if err != nil {
		return err
	}

	go s.broadcastLoop()

	mux := http.NewServeMux()
	mux.Handle(s.params.Prefix, http.StripPrefix(s.params.Prefix, http.FileServer(http.Dir(root))))
	mux.HandleFunc("/ws", s.wsHandler)

	logrus.Infof("serving %s as %s on %s", root, s.params.Prefix, s.params.Address)
	server := http.Server{
		Addr:    s.params.Address,
		Handler: mux,
	}
	return server.ListenAndServe()
}

// wsHandler upgrades the http connection and registers the client.
func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	upgrader.CheckOrigin = func(r *http.Request) bool { return true }

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		if _, ok := err.(websocket.HandshakeError); !ok {
			logrus.Warnf("websocket upgrade: %v", err)
		}
		return
	}

	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()
	logrus.Infof("client connected: %s", conn.RemoteAddr())

	go s.readSocket(conn)
}

// readSocket consumes paint and parameter messages until the peer goes
// away.
func (s *Server) readSocket(conn *websocket.Conn) {
	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.Warnf("websocket read: %v", err)
			}
			return
		}

		var cm clientMessage
		if err := json.Unmarshal(msg, &cm); err != nil {
			logrus.Warnf("bad client message: %v", err)
			continue
		}
		s.apply(cm)
	}
}

// apply routes one client message into the solver. Invalid parameter
// values are logged and dropped; painting outside the grid is already a
// no-op in the solver.
func (s *Server) apply(cm clientMessage) {
	switch cm.Type {
	case "paint":
		s.solver.SetObstacle(cm.X, cm.Y, cm.Solid)
	case "param":
		cfg := s.solver.Config()
		if cm.Tau != nil {
			if err := s.solver.SetTau(*cm.Tau); err != nil {
				logrus.Warnf("rejected tau %g: %v", *cm.Tau, err)
			}
		}
		if cm.InletSpeed != nil || cm.InletAngle != nil {
			speed := cfg.InletSpeed
			angle := cfg.InletAngleDeg
			if cm.InletSpeed != nil {
				speed = *cm.InletSpeed
			}
			if cm.InletAngle != nil {
				angle = *cm.InletAngle
			}
			if err := s.solver.SetInlet(speed, angle); err != nil {
				logrus.Warnf("rejected inlet (%g, %g deg): %v", speed, angle, err)
			}
		}
		if cm.Smagorinsky != nil {
			if err := s.solver.SetSmagorinsky(*cm.Smagorinsky); err != nil {
				logrus.Warnf("rejected smagorinsky %g: %v", *cm.Smagorinsky, err)
			}
		}
	default:
		logrus.Warnf("unknown message type %q", cm.Type)
	}
}

// broadcastLoop advances the solver and pushes a frame to every client at
// the configured rate.
func (s *Server) broadcastLoop() {
	ticker := time.NewTicker(time.Second / time.Duration(s.FrameRate))
	defer ticker.Stop()

	for range ticker.C {
		for i := 0; i < s.StepsPerFrame; i++ {
			s.solver.Step()
		}
		s.broadcast(s.buildFrame())
	}
}

func (s *Server) buildFrame() frame {
	w := s.solver.Width()
	h := s.solver.Height()
	fr := frame{
		Step:      s.solver.StepCount(),
		Width:     w,
		Height:    h,
		Speed2:    make([]float64, w*h),
		Obstacle:  make([]bool, w*h),
		Drag:      s.solver.DragForce(),
		Lift:      s.solver.LiftForce(),
		Unstable:  s.solver.Unstable(),
		Particles: s.solver.Particles(),
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			i := y*w + x
			fr.Speed2[i] = s.solver.Speed2(x, y)
			fr.Obstacle[i] = s.solver.IsObstacle(x, y)
		}
	}
	return fr
}

func (s *Server) broadcast(fr frame) {
	data, err := json.Marshal(fr)
	if err != nil {
		logrus.Warnf("frame marshal: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			logrus.Warnf("client %s dropped: %v", conn.RemoteAddr(), err)
			delete(s.clients, conn)
			conn.Close()
		}
	}
}

package metricsrv

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/chanconsole/chanconsole/internal/stats"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Server is the loopback metrics HTTP server described in spec.md §4.E.
// It answers GET /metrics with a JSON snapshot and, when streaming is
// enabled, upgrades GET /metrics/stream to a websocket that pushes a
// fresh snapshot every time the collator applies an event.
type Server struct {
	registry     *stats.Registry
	upgrader     websocket.Upgrader
	enableStream bool

	mu      sync.Mutex
	conns   map[*websocket.Conn]struct{}
	httpSrv *http.Server
}

// NewServer constructs a Server bound to registry. enableStream gates
// whether Start registers the /metrics/stream route; when false, only
// the polling /metrics endpoint is served. Call Start to bind and begin
// serving.
func NewServer(registry *stats.Registry, enableStream bool) *Server {
	s := &Server{
		registry:     registry,
		enableStream: enableStream,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Loopback-only server; any origin is a local process.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
	return s
}

// Start binds to 127.0.0.1:port and serves in a new goroutine. It returns
// once the listener is bound (so callers can observe bind failure
// synchronously) or an error wrapping the bind failure, naming the
// environment variable override per spec.md §4.E.
func (s *Server) Start(port uint16) error {
	router := httprouter.New()
	router.GET("/metrics", s.handleMetrics)
	if s.enableStream {
		router.GET("/metrics/stream", s.handleStream)
	}
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintln(w, "Not found")
	})

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "bind metrics server to %s (override with CHANCONSOLE_METRICS_PORT)", addr)
	}

	s.httpSrv = &http.Server{Handler: router}
	log.WithField("addr", addr).Info("channel metrics server listening")

	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("channel metrics server stopped unexpectedly")
		}
	}()

	if s.enableStream && s.registry.OnApplied == nil {
		s.registry.OnApplied = s.broadcast
	}

	return nil
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	payload := stats.SnapshotSerializable(s.registry)
	body, err := jsonAPI.Marshal(payload)
	if err != nil {
		log.WithError(err).Error("failed to serialize metrics")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, "Internal server error: %s", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("metrics stream upgrade failed")
		return
	}

	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()

	// Send an initial snapshot immediately so a new subscriber doesn't
	// wait for the next state change.
	s.pushTo(conn, stats.SnapshotSerializable(s.registry))

	// Drain and discard inbound frames so the connection's read-side stays
	// healthy; the protocol here is server-push only.
	go func() {
		defer s.dropConn(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) dropConn(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	conn.Close()
}

func (s *Server) broadcast(stats.Event) {
	payload := stats.SnapshotSerializable(s.registry)
	s.mu.Lock()
	targets := make([]*websocket.Conn, 0, len(s.conns))
	for c := range s.conns {
		targets = append(targets, c)
	}
	s.mu.Unlock()

	for _, c := range targets {
		s.pushTo(c, payload)
	}
}

func (s *Server) pushTo(conn *websocket.Conn, payload []stats.Serializable) {
	conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	if err := conn.WriteJSON(payload); err != nil {
		s.dropConn(conn)
	}
}

// Shutdown stops accepting new connections. Used only by tests; the
// production lazy-singleton server runs for process lifetime per
// spec.md §9.
func (s *Server) Shutdown() {
	if s.httpSrv != nil {
		s.httpSrv.Close()
	}
}

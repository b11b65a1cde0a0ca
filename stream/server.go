package stream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/lixenwraith/dockstrike/health"
	"github.com/lixenwraith/dockstrike/sim"
)

// Source is the session surface the server reads and commands
type Source interface {
	ID() string
	Snapshot() sim.Snapshot
	Status() map[string]any
	DestroyCell(cellID int) error
	LaunchIdle() int
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server exposes the event stream and session views over HTTP
type Server struct {
	source Source
	hub    *Hub
	logger *log.Logger
	router *mux.Router
	http   *http.Server
}

func NewServer(addr string, source Source, hub *Hub, logger *log.Logger) *Server {
	s := &Server{
		source: source,
		hub:    hub,
		logger: logger,
		router: mux.NewRouter(),
	}
	s.routes()
	s.http = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/ws", s.handleStream)
	s.router.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	s.router.HandleFunc("/cells", s.handleCells).Methods(http.MethodGet)
	s.router.HandleFunc("/cells/{id:[0-9]+}", s.handleCell).Methods(http.MethodGet)
	s.router.HandleFunc("/cells/{id:[0-9]+}/destroy", s.handleDestroy).Methods(http.MethodPost)
	s.router.HandleFunc("/carriers", s.handleCarriers).Methods(http.MethodGet)
	s.router.HandleFunc("/carriers/launch", s.handleLaunchIdle).Methods(http.MethodPost)
}

// Handler returns the router for embedding or tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves in the background; listen errors are logged
func (s *Server) Start() {
	go func() {
		s.logger.Info("stream server listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("stream server failed", "err", err)
		}
	}()
}

// Stop shuts the server down within ctx
func (s *Server) Stop(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	s.logger.Info("stream server stopped")
	return err
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	codec, err := CodecByName(r.URL.Query().Get("codec"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	s.hub.attach(conn, codec)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := s.source.Status()
	status["observers"] = s.hub.Clients()
	status["frames_dropped"] = s.hub.Dropped()
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleCells(w http.ResponseWriter, r *http.Request) {
	snap := s.source.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"session": snap.Session,
		"tick":    snap.Tick,
		"cells":   snap.Cells,
	})
}

func (s *Server) handleCell(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	for _, c := range s.source.Snapshot().Cells {
		if c.ID == id {
			writeJSON(w, http.StatusOK, c)
			return
		}
	}
	writeError(w, http.StatusNotFound, "cell not found")
}

func (s *Server) handleDestroy(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	err := s.source.DestroyCell(id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, map[string]any{"cell": id, "destroyed": true})
	case errors.Is(err, sim.ErrCellNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, health.ErrCellAlreadyDestroyed):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleCarriers(w http.ResponseWriter, r *http.Request) {
	snap := s.source.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"session":  snap.Session,
		"tick":     snap.Tick,
		"carriers": snap.Carriers,
	})
}

func (s *Server) handleLaunchIdle(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"launched": s.source.LaunchIdle()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

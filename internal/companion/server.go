package companion

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"habitforge/internal/engine"
)

// Server bridges the companion app to the coordinator. Reads go through
// Snapshot, mutations re-enter the coordinator like any other caller.
type Server struct {
	coord  *engine.Coordinator
	hub    *Hub
	logger *slog.Logger

	httpServer *http.Server
	upgrader   websocket.Upgrader
}

// NewServer builds a companion server listening on addr.
func NewServer(addr string, coord *engine.Coordinator, logger *slog.Logger) *Server {
	s := &Server{
		coord:  coord,
		hub:    NewHub(logger),
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Companion runs on the same device or local network.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	r := chi.NewRouter()
	r.Get("/snapshot", s.handleSnapshot)
	r.Get("/ws", s.handleWS)
	r.Post("/quests/{questID}/complete", s.handleCompleteQuest)
	r.Post("/bosses/{bossID}/tasks/{taskID}/complete", s.handleCompleteTask)
	r.Post("/bosses/{bossID}/goal", s.handleUpdateGoal)
	r.Post("/progress", s.handleProgress)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	return s
}

// Handler exposes the HTTP routes. Tests drive it directly through
// httptest instead of binding a port.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// PushSnapshot serializes the current snapshot and fans it out to every
// connected client. Wire it to the coordinator's change hook.
func (s *Server) PushSnapshot() {
	snap := s.coord.Snapshot()
	payload, err := json.Marshal(snap)
	if err != nil {
		s.logger.Error("serialize snapshot", "err", err)
		return
	}
	s.hub.Broadcast(payload)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go s.hub.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("companion server listening", "addr", s.httpServer.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.coord.Snapshot())
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	c := newClient(s.hub, conn)
	// Seed the current state before the hub owns the channel; once the
	// client is registered only the hub may send on or close it.
	if payload, err := json.Marshal(s.coord.Snapshot()); err == nil {
		c.send <- payload
	}
	s.hub.register <- c
	go c.writePump()
	go c.readPump()
}

func (s *Server) handleCompleteQuest(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "questID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid quest id")
		return
	}
	reward, err := s.coord.CompleteQuest(id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reward)
}

func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	bossID, err := uuid.Parse(chi.URLParam(r, "bossID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid boss id")
		return
	}
	taskID, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}
	result, err := s.coord.CompleteMicroTask(bossID, taskID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	bossID, err := uuid.Parse(chi.URLParam(r, "bossID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid boss id")
		return
	}
	var body struct {
		Value float64 `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	result, err := s.coord.UpdateDynamicGoal(bossID, body.Value)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleProgress accepts tracker readings. Unknown targets are a soft
// no-op so trackers never have to special-case deleted quests.
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TargetID string  `json:"targetId"`
		Value    float64 `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	id, err := uuid.Parse(body.TargetID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid target id")
		return
	}
	update := s.coord.ReportProgress(id, body.Value, time.Now())
	writeJSON(w, http.StatusOK, update)
}

func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrQuestNotFound),
		errors.Is(err, engine.ErrBossNotFound),
		errors.Is(err, engine.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, engine.ErrAlreadyCompleted),
		errors.Is(err, engine.ErrQuestExpired),
		errors.Is(err, engine.ErrNotDynamic),
		errors.Is(err, engine.ErrDynamicBoss):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

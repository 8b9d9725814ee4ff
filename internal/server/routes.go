package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/adour/souvenir/internal/engine"
	"github.com/go-chi/chi/v5"
)

// oracleTimeout bounds the semantic phase of a scan or an extraction call.
const oracleTimeout = 60 * time.Second

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), oracleTimeout)
	defer cancel()

	result, err := s.engine.Scan(ctx, req.Message)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), oracleTimeout)
	defer cancel()

	result, err := s.engine.ExtractAndStore(ctx, req.Message)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleContext(w http.ResponseWriter, r *http.Request) {
	message := r.URL.Query().Get("message")
	if message == "" {
		writeError(w, http.StatusBadRequest, "message parameter required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), oracleTimeout)
	defer cancel()

	text, err := s.engine.ContextForMessage(ctx, message)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"context": text})
}

func (s *Server) handleCreateTrigger(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Word     string   `json:"word"`
		Category string   `json:"category"`
		Synonyms []string `json:"synonyms"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	t, err := s.engine.CreateTrigger(req.Word, engine.ParseCategory(req.Category), req.Synonyms)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleListTriggers(w http.ResponseWriter, r *http.Request) {
	category := engine.Category(r.URL.Query().Get("category"))
	triggers := s.engine.ListTriggers(category)
	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(triggers),
		"triggers": triggers,
	})
}

func (s *Server) handleGetTrigger(w http.ResponseWriter, r *http.Request) {
	t, ok := s.engine.GetTrigger(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "trigger not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTrigger(w http.ResponseWriter, r *http.Request) {
	// Unknown ids are a no-op, not an error.
	if err := s.engine.DeleteTrigger(chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateMemory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content    string   `json:"content"`
		Category   string   `json:"category"`
		Importance int      `json:"importance"`
		TriggerIDs []string `json:"trigger_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	m, err := s.engine.CreateMemory(req.Content, engine.ParseCategory(req.Category), req.Importance, req.TriggerIDs)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleListMemories(w http.ResponseWriter, r *http.Request) {
	category := engine.Category(r.URL.Query().Get("category"))
	memories := s.engine.ListMemories(category)
	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(memories),
		"memories": memories,
	})
}

func (s *Server) handleGetMemory(w http.ResponseWriter, r *http.Request) {
	m, ok := s.engine.GetMemory(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "memory not found")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleDeleteMemory(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.DeleteMemory(chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.ComputeStats())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Export())
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var ds engine.Dataset
	if err := json.NewDecoder(r.Body).Decode(&ds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := s.engine.Import(&ds); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "imported",
		"triggers": len(ds.Triggers),
		"memories": len(ds.Memories),
	})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Clear(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

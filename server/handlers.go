package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/chatvault-ai/chatvault/core"
	"github.com/chatvault-ai/chatvault/storage"
)

// Envelope shapes are a published contract consumed by the front end; field
// names must not change.

type newSessionRequest struct {
	SessionName string `json:"session_name"`
}

type switchSessionRequest struct {
	SessionID string `json:"session_id"`
}

type sessionResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

type chatRequest struct {
	Query string `json:"query"`
}

type saveChatResponse struct {
	Success  bool   `json:"success"`
	BlobName string `json:"blob_name,omitempty"`
	Message  string `json:"message"`
}

type sessionListResponse struct {
	Sessions []core.SessionInfo `json:"sessions"`
}

type deleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	var req newSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id, err := s.registry.CreateSession(r.Context(), req.SessionName)
	if err != nil {
		writeJSON(w, http.StatusOK, sessionResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to create session: %v", err),
		})
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		Success:   true,
		SessionID: id,
		Message:   "New session created successfully",
	})
}

func (s *Server) handleSwitchSession(w http.ResponseWriter, r *http.Request) {
	var req switchSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.registry.SwitchSession(r.Context(), req.SessionID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeJSON(w, http.StatusOK, sessionResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to switch session: %v", err),
		})
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		Success:   true,
		SessionID: req.SessionID,
		Message:   "Session switched successfully",
	})
}

func (s *Server) handleCurrentSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.Current())
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.orch == nil {
		writeError(w, http.StatusServiceUnavailable, "Agent service not initialized")
		return
	}
	var req chatRequest
	if !decodeBody(w, r, &req) {
		return
	}
	reply, err := s.orch.ProcessQuery(r.Context(), req.Query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) handleSaveChat(w http.ResponseWriter, r *http.Request) {
	if !s.registry.Current().HasUserMessages {
		writeJSON(w, http.StatusOK, saveChatResponse{
			Success: true,
			Message: "No chat history to save (empty conversation)",
		})
		return
	}
	blobName, err := s.registry.SaveCurrent(r.Context())
	if err != nil {
		writeJSON(w, http.StatusOK, saveChatResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to save chat: %v", err),
		})
		return
	}
	writeJSON(w, http.StatusOK, saveChatResponse{
		Success:  true,
		BlobName: blobName,
		Message:  fmt.Sprintf("Session %q saved successfully", s.registry.Current().SessionID),
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.registry.ListSessions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if sessions == nil {
		sessions = []core.SessionInfo{}
	}
	writeJSON(w, http.StatusOK, sessionListResponse{Sessions: sessions})
}

func (s *Server) handleLoadSession(w http.ResponseWriter, r *http.Request) {
	blobName := r.PathValue("blob_name")
	snap, err := s.registry.LoadSnapshot(r.Context(), blobName)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Chat session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	blobName := r.PathValue("blob_name")
	if err := s.registry.DeleteSnapshot(r.Context(), blobName); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Chat session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{
		Success: true,
		Message: "Chat session deleted successfully",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "healthy",
		"agent_initialized": s.orch != nil,
		"timestamp":         time.Now().UTC().Format(time.RFC3339),
	})
}

// decodeBody decodes the JSON request body into v, writing a 400 and
// returning false on malformed input.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

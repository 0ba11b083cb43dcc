package http

import (
	"net/http"

	"meudinheiro/internal/aggregate"
	"meudinheiro/internal/core"
	"meudinheiro/internal/log"
)

type viewResponse struct {
	View  core.ViewMode   `json:"view"`
	Views []core.ViewMode `json:"views"`
}

func (s *Server) currentView() viewResponse {
	return viewResponse{View: s.session.ViewMode(), Views: s.session.Views()}
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Profile())
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var p core.UserProfile
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	updated, err := s.session.UpdateProfile(r.Context(), p)
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleOnboarding(w http.ResponseWriter, r *http.Request) {
	var p core.UserProfile
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	done, err := s.session.CompleteOnboarding(r.Context(), p)
	if err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	writeJSON(w, http.StatusOK, done)
}

func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.currentView())
}

func (s *Server) handleSetView(w http.ResponseWriter, r *http.Request) {
	var body struct {
		View core.ViewMode `json:"view"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	if err := s.session.SetViewMode(body.View); err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, s.currentView())
}

func (s *Server) handleGetRange(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.DateRange())
}

func (s *Server) handleSetRange(w http.ResponseWriter, r *http.Request) {
	var body aggregate.DateRange
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	if err := s.session.SetDateRange(body); err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.DateRange())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Reset(r.Context()); err != nil {
		writeError(w, r, log.OpReset, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Notifications())
}

func (s *Server) handleCreateNotification(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message string                `json:"message"`
		Type    core.NotificationKind `json:"type"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, log.OpCreate, err)
		return
	}
	if body.Message == "" {
		writeError(w, r, log.OpCreate, badRequest("message is required"))
		return
	}
	writeJSON(w, http.StatusCreated, s.session.AddNotification(r.Context(), body.Message, body.Type))
}

func (s *Server) handleDismissNotification(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.session.RemoveNotification(id) {
		writeJSON(w, http.StatusNotFound, errorBody{
			Error: "notification " + id + " not found",
			Code:  log.ErrorTypeNotFound,
		})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

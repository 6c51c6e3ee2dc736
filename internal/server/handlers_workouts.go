package server

import (
	"net/http"

	"github.com/claude/gymbuddy/internal/workout"
)

type createWorkoutRequest struct {
	Name              string `json:"name"`
	Notes             string `json:"notes"`
	Program           *int64 `json:"program"`
	TemplateSessionID *int64 `json:"template_session_id"`
}

type updateWorkoutRequest struct {
	Name  *string `json:"name"`
	Notes *string `json:"notes"`
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	sessions, err := s.svc.ListSessions(r.Context(), uid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var req createWorkoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	detail, err := s.svc.CreateSession(r.Context(), uid, workout.NewSession{
		Name:              req.Name,
		Notes:             req.Notes,
		ProgramID:         req.Program,
		TemplateSessionID: req.TemplateSessionID,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, detail)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	detail, err := s.svc.GetSession(r.Context(), uid, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleUpdateWorkout(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req updateWorkoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	detail, err := s.svc.UpdateSession(r.Context(), uid, id, workout.SessionPatch{Name: req.Name, Notes: req.Notes})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.svc.DeleteSession(r.Context(), uid, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	view, err := s.svc.Template(r.Context(), uid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handlePreviousExercises(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	view, err := s.svc.PreviousExercises(r.Context(), uid, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleUserExercises(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	types, err := s.svc.UserExercises(r.Context(), uid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types)
}

func (s *Server) handleLastExercisePerformance(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	exerciseID, err := parseID(r.URL.Query().Get("exercise_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise_id: " + err.Error()})
		return
	}
	perf, err := s.svc.LastExercisePerformance(r.Context(), uid, exerciseID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, perf)
}

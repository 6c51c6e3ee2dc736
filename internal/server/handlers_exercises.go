package server

import (
	"net/http"

	"github.com/claude/gymbuddy/internal/workout"
)

type createExerciseTypeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// addExerciseRequest names the exercise by catalog id or by name.
type addExerciseRequest struct {
	Exercise          *int64 `json:"exercise"`
	ExerciseName      string `json:"exercise_name"`
	Position          int    `json:"position"`
	UserPreferredName string `json:"user_preferred_name"`
}

type updatePerformedExerciseRequest struct {
	UserPreferredName *string `json:"user_preferred_name"`
	Position          *int    `json:"position"`
}

func (s *Server) handleListExerciseTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.svc.ListExerciseTypes(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types)
}

func (s *Server) handleGetExerciseType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	et, err := s.svc.GetExerciseType(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, et)
}

func (s *Server) handleCreateExerciseType(w http.ResponseWriter, r *http.Request) {
	var req createExerciseTypeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	et, created, err := s.svc.CreateExerciseType(r.Context(), req.Name, req.Description)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, et)
}

func (s *Server) handleListWorkoutExercises(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	list, err := s.svc.ListExercises(r.Context(), uid, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleAddWorkoutExercise(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req addExerciseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	pe, err := s.svc.AddExercise(r.Context(), uid, id, workout.NewPerformedExercise{
		Exercise:      workout.ExerciseRef{ID: req.Exercise, Name: req.ExerciseName},
		Position:      req.Position,
		PreferredName: req.UserPreferredName,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, pe)
}

func (s *Server) handleGetPerformedExercise(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	pe, err := s.svc.GetPerformedExercise(r.Context(), uid, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pe)
}

func (s *Server) handleUpdatePerformedExercise(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req updatePerformedExerciseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	pe, err := s.svc.UpdatePerformedExercise(r.Context(), uid, id, workout.PerformedExercisePatch{
		PreferredName: req.UserPreferredName,
		Position:      req.Position,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pe)
}

func (s *Server) handleDeletePerformedExercise(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.svc.DeletePerformedExercise(r.Context(), uid, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

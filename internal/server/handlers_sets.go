package server

import (
	"net/http"

	"github.com/claude/gymbuddy/internal/workout"
)

type addSetRequest struct {
	Position int             `json:"position"`
	Reps     *int            `json:"reps"`
	Weight   *workout.Weight `json:"weight"`
	Notes    string          `json:"notes"`
}

// updateSetRequest distinguishes an absent weight (unchanged) from null
// (no longer tracked).
type updateSetRequest struct {
	Reps   *int           `json:"reps"`
	Weight optionalWeight `json:"weight"`
	Notes  *string        `json:"notes"`
}

func (s *Server) handleAddSet(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req addSetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Reps == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reps is required"})
		return
	}
	set, err := s.svc.AddSet(r.Context(), uid, id, workout.NewSet{
		Position: req.Position,
		Reps:     *req.Reps,
		Weight:   req.Weight,
		Notes:    req.Notes,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, set)
}

func (s *Server) handleGetSet(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	set, err := s.svc.GetSet(r.Context(), uid, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

func (s *Server) handleUpdateSet(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req updateSetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	patch := workout.SetPatch{Reps: req.Reps, Notes: req.Notes}
	if req.Weight.set {
		patch.Weight = req.Weight.value
		patch.ClearWeight = req.Weight.value == nil
	}
	set, err := s.svc.UpdateSet(r.Context(), uid, id, patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

func (s *Server) handleDeleteSet(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.svc.DeleteSet(r.Context(), uid, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package server

import (
	"net/http"
)

type noteResponse struct {
	ExerciseID int64  `json:"exercise_id"`
	Note       string `json:"note"`
}

type saveNoteRequest struct {
	Note string `json:"note"`
}

// handleGetNote returns 404 when the caller never saved a note for the
// exercise. A saved empty note is returned as "".
func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	exerciseID, ok := pathID(w, r, "exerciseID")
	if !ok {
		return
	}
	text, found, err := s.svc.Note(r.Context(), uid, exerciseID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no note for this exercise"})
		return
	}
	writeJSON(w, http.StatusOK, noteResponse{ExerciseID: exerciseID, Note: text})
}

func (s *Server) handleSaveNote(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	exerciseID, ok := pathID(w, r, "exerciseID")
	if !ok {
		return
	}
	var req saveNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	note, err := s.svc.SaveNote(r.Context(), uid, exerciseID, req.Note)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

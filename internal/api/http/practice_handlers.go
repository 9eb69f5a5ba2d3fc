package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	authmw "github.com/provamaster/provamaster/internal/auth/middleware"
	"github.com/provamaster/provamaster/internal/events"
	"github.com/provamaster/provamaster/internal/practice"
	"github.com/provamaster/provamaster/internal/rbac"
)

func CreateSessionHandler(store practice.Store, evts *events.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			TopicID        string `json:"topic_id"`
			TotalQuestions int    `json:"total_questions"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.TopicID == "" || req.TotalQuestions < 0 {
			http.Error(w, "topic_id and total_questions required", http.StatusBadRequest)
			return
		}
		sess, err := store.CreateSession(r.Context(), practice.Session{
			TopicID:        req.TopicID,
			UserID:         authmw.SubjectFromContext(r.Context()),
			TotalQuestions: req.TotalQuestions,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if evts != nil {
			if err := evts.Append(r.Context(), events.TypeSessionCreated, sess.ID, sess); err != nil {
				log.Printf("event log: %v", err)
			}
		}
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, sess)
	}
}

func GetSessionHandler(store practice.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := ownedSession(store, w, r)
		if !ok {
			return
		}
		writeJSON(w, sess)
	}
}

func InsertAttemptHandler(store practice.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := ownedSession(store, w, r)
		if !ok {
			return
		}
		var a practice.Attempt
		if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if a.QuestionID == "" || a.SelectedAnswer == "" {
			http.Error(w, "question_id and selected_answer required", http.StatusBadRequest)
			return
		}
		a.SessionID = sess.ID
		if err := store.InsertAttempt(r.Context(), a); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}
}

func IncrementCorrectHandler(store practice.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := ownedSession(store, w, r)
		if !ok {
			return
		}
		if err := store.IncrementCorrect(r.Context(), sess.ID); err != nil {
			writePracticeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func CompleteSessionHandler(store practice.Store, evts *events.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := ownedSession(store, w, r)
		if !ok {
			return
		}
		var req struct {
			CorrectAnswers int   `json:"correct_answers"`
			CompletedAt    int64 `json:"completed_at"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		// The client's clock is authoritative for the run it timed; fall
		// back to server time when the field is absent.
		completedAt := time.Now()
		if req.CompletedAt > 0 {
			completedAt = time.Unix(req.CompletedAt, 0)
		}
		if err := store.CompleteSession(r.Context(), sess.ID, req.CorrectAnswers, completedAt); err != nil {
			writePracticeErr(w, err)
			return
		}
		if evts != nil {
			if err := evts.Append(r.Context(), events.TypeSessionCompleted, sess.ID,
				map[string]int{"correct_answers": req.CorrectAnswers}); err != nil {
				log.Printf("event log: %v", err)
			}
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func ListAttemptsHandler(store practice.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := ownedSession(store, w, r)
		if !ok {
			return
		}
		list, err := store.ListAttempts(r.Context(), sess.ID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, list)
	}
}

// ownedSession loads the session from the URL and enforces that the caller
// owns it, unless their role can view all sessions.
func ownedSession(store practice.Store, w http.ResponseWriter, r *http.Request) (practice.Session, bool) {
	id := chi.URLParam(r, "sessionID")
	sess, err := store.GetSession(r.Context(), id)
	if err != nil {
		writePracticeErr(w, err)
		return practice.Session{}, false
	}
	sub := authmw.SubjectFromContext(r.Context())
	role := rbac.RoleFromContext(r.Context())
	if sess.UserID != sub && !rbac.NewChecker(nil).Has(role, "session:view-all") {
		http.Error(w, "forbidden", http.StatusForbidden)
		return practice.Session{}, false
	}
	return sess, true
}

func writePracticeErr(w http.ResponseWriter, err error) {
	if errors.Is(err, practice.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

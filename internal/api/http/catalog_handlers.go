package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/provamaster/provamaster/internal/catalog"
)

func ListPackagesHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListPackages(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, list)
	}
}

func GetPackageHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "packageID")
		p, err := store.GetPackage(r.Context(), id)
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		writeJSON(w, p)
	}
}

func ListTopicsHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "packageID")
		list, err := store.ListTopics(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, list)
	}
}

func GetTopicHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "topicID")
		t, err := store.GetTopic(r.Context(), id)
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		writeJSON(w, t)
	}
}

// GET /questions?topic_ids=a,b,c — the "topic id in set" read. Answers and
// rationales are included: grading happens in the client session engine.
func ListQuestionsHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids := catalog.ParseTopicIDs(r.URL.Query().Get("topic_ids"))
		if len(ids) == 0 {
			http.Error(w, "topic_ids required", http.StatusBadRequest)
			return
		}
		list, err := store.ListQuestions(r.Context(), ids)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, list)
	}
}

func PutPackageHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p catalog.ExamPackage
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if p.Title == "" {
			http.Error(w, "title required", http.StatusBadRequest)
			return
		}
		if err := store.PutPackage(r.Context(), p); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}
}

func PutTopicHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var t catalog.Topic
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if t.PackageID == "" || t.Title == "" {
			http.Error(w, "package_id and title required", http.StatusBadRequest)
			return
		}
		if err := store.PutTopic(r.Context(), t); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}
}

func PutQuestionHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q catalog.Question
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if q.TopicID == "" || q.Text == "" {
			http.Error(w, "topic_id and text required", http.StatusBadRequest)
			return
		}
		if err := store.PutQuestion(r.Context(), q); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeStoreErr(w http.ResponseWriter, err error) {
	if errors.Is(err, catalog.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

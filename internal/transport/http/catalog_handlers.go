package http

import (
	"fmt"
	"net/http"
	"strconv"

	"roit-learning-service/internal/app"
	"roit-learning-service/internal/domain"

	"github.com/go-chi/chi/v5"
)

func contentFilter(r *http.Request) (domain.ContentFilter, error) {
	q := r.URL.Query()
	filter := domain.ContentFilter{
		Category: domain.Category(q.Get("category")),
		Subject:  q.Get("subject"),
		Chapter:  q.Get("chapter"),
		Search:   q.Get("search"),
	}
	if raw := q.Get("class"); raw != "" {
		class, err := strconv.Atoi(raw)
		if err != nil {
			return filter, fmt.Errorf("%w: class must be a number", domain.ErrInvalidInput)
		}
		filter.Class = class
	}
	return filter, nil
}

func ListContentHandler(catalog *app.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := contentFilter(r)
		if err != nil {
			writeError(w, err)
			return
		}
		items, err := catalog.List(r.Context(), filter)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func GetContentHandler(catalog *app.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := catalog.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

func SubjectsHandler(catalog *app.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := contentFilter(r)
		if err != nil {
			writeError(w, err)
			return
		}
		subjects, err := catalog.Subjects(r.Context(), filter.Category, filter.Class)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, subjects)
	}
}

func ChaptersHandler(catalog *app.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := contentFilter(r)
		if err != nil {
			writeError(w, err)
			return
		}
		chapters, err := catalog.Chapters(r.Context(), filter.Category, filter.Class, filter.Subject)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, chapters)
	}
}

func RecordViewHandler(catalog *app.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := catalog.RecordView(r.Context(), mustUser(r), chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func RecordDownloadHandler(catalog *app.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := catalog.RecordDownload(r.Context(), mustUser(r), chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func RecentlyViewedHandler(catalog *app.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := catalog.RecentlyViewed(r.Context(), mustUser(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func DownloadsHandler(catalog *app.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := catalog.Downloads(r.Context(), mustUser(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

// CreateContentHandler stores metadata for a file already uploaded to the file store.
func CreateContentHandler(catalog *app.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var content domain.Content
		if err := decodeJSON(r, &content); err != nil {
			writeError(w, err)
			return
		}
		created, err := catalog.Create(r.Context(), mustUser(r), content)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func DeleteContentHandler(catalog *app.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

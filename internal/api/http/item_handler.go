package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"usethis-backend/internal/domain"
)

func (h *handler) listCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"categories": h.svc.Items.ListCategories(r.Context())})
}

func (h *handler) searchItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ItemFilter{
		Query:         q.Get("q"),
		Category:      q.Get("category"),
		Location:      q.Get("location"),
		AvailableOnly: q.Get("available") == "true",
	}
	if raw := q.Get("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, r, domain.NewValidationError("max_price", "must be a number"))
			return
		}
		filter.MaxPrice = v
	}
	var err error
	if filter.Page, err = queryInt32(r, "page", 1); err != nil {
		writeError(w, r, err)
		return
	}
	if filter.PageSize, err = queryInt32(r, "page_size", 20); err != nil {
		writeError(w, r, err)
		return
	}

	items, total, err := h.svc.Items.SearchItems(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(items, total, filter.Page, filter.PageSize))
}

func (h *handler) listMyItems(w http.ResponseWriter, r *http.Request) {
	sess, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pageNum, err := queryInt32(r, "page", 1)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pageSize, err := queryInt32(r, "page_size", 20)
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, total, err := h.svc.Items.ListMyItems(r.Context(), sess.UserID, pageNum, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(items, total, pageNum, pageSize))
}

func (h *handler) getItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.svc.Items.GetItem(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *handler) createItem(w http.ResponseWriter, r *http.Request) {
	sess, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var item domain.Item
	if !decodeJSON(w, r, &item) {
		return
	}
	created, err := h.svc.Items.CreateItem(r.Context(), sess.UserID, &item)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handler) updateItem(w http.ResponseWriter, r *http.Request) {
	sess, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var upd domain.ItemUpdate
	if !decodeJSON(w, r, &upd) {
		return
	}
	updated, err := h.svc.Items.UpdateItem(r.Context(), sess.UserID, id, upd)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	sess, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Items.DeleteItem(r.Context(), sess.UserID, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) toggleAvailability(w http.ResponseWriter, r *http.Request) {
	sess, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.svc.Items.ToggleAvailability(r.Context(), sess.UserID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *handler) archiveItem(w http.ResponseWriter, r *http.Request) {
	sess, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Items.ArchiveItem(r.Context(), sess.UserID, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) quote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	q, err := h.svc.Bookings.Quote(r.Context(), id, r.URL.Query().Get("start_date"), r.URL.Query().Get("end_date"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// uploadImage takes a multipart form with the file in "image". The size
// limit is enforced again by the service after reading.
func (h *handler) uploadImage(w http.ResponseWriter, r *http.Request) {
	sess, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+1<<16)
	file, header, err := r.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, domain.NewValidationError("image", "file is too large"))
			return
		}
		writeError(w, r, domain.NewValidationError("image", "is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		writeError(w, r, domain.NewValidationError("image", "could not be read"))
		return
	}
	url, err := h.svc.Images.UploadItemImage(r.Context(), sess.UserID, id, header.Filename, data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

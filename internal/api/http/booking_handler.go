package http

import (
	"net/http"

	"usethis-backend/internal/domain"
)

type createBookingRequest struct {
	ItemID    int32  `json:"item_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type transitionRequest struct {
	Action string `json:"action"`
}

type reviewRequest struct {
	Target  string `json:"target"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *handler) createBooking(w http.ResponseWriter, r *http.Request) {
	sess, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req createBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	b, err := h.svc.Bookings.CreateBooking(r.Context(), sess.UserID, req.ItemID, req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *handler) listBookings(w http.ResponseWriter, r *http.Request) {
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
	role := domain.ActorRole(r.URL.Query().Get("role"))
	list, total, err := h.svc.Bookings.ListBookings(r.Context(), sess.UserID, role, r.URL.Query().Get("status"), pageNum, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPage(list, total, pageNum, pageSize))
}

func (h *handler) getBooking(w http.ResponseWriter, r *http.Request) {
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
	b, err := h.svc.Bookings.GetBooking(r.Context(), sess.UserID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *handler) transitionBooking(w http.ResponseWriter, r *http.Request) {
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
	var req transitionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	action, err := domain.ParseBookingAction(req.Action)
	if err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.svc.Bookings.Transition(r.Context(), sess.UserID, id, action)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *handler) submitReview(w http.ResponseWriter, r *http.Request) {
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
	var req reviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	review, err := h.svc.Reviews.SubmitReview(r.Context(), sess.UserID, id, domain.ReviewTarget(req.Target), req.Rating, req.Comment)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (h *handler) listItemReviews(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	reviews, rating, err := h.svc.Reviews.ListItemReviews(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"reviews": reviews, "rating": rating})
}

func (h *handler) listUserReviews(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	reviews, err := h.svc.Reviews.ListUserReviews(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"reviews": reviews})
}

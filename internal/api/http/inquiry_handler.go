package http

import (
	"net/http"

	"usethis-backend/internal/domain"
)

type inquiryRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type replyRequest struct {
	Message string `json:"message"`
}

func (h *handler) createInquiry(w http.ResponseWriter, r *http.Request) {
	sess, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	itemID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req inquiryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	inq, err := h.svc.Inquiries.CreateInquiry(r.Context(), sess.UserID, itemID, req.Subject, req.Message)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, inq)
}

// listInquiries serves both boxes: ?box=received (default) or ?box=sent.
func (h *handler) listInquiries(w http.ResponseWriter, r *http.Request) {
	sess, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var list []domain.Inquiry
	switch r.URL.Query().Get("box") {
	case "", "received":
		list, err = h.svc.Inquiries.ListReceived(r.Context(), sess.UserID, r.URL.Query().Get("status"))
	case "sent":
		list, err = h.svc.Inquiries.ListSent(r.Context(), sess.UserID)
	default:
		err = domain.NewValidationError("box", "must be one of: received sent")
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []domain.Inquiry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"inquiries": list})
}

// replyInquiry returns the inquiry with its conversation id so the client
// can jump straight into the thread.
func (h *handler) replyInquiry(w http.ResponseWriter, r *http.Request) {
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
	var req replyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	inq, err := h.svc.Inquiries.Reply(r.Context(), sess.UserID, id, req.Message)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inq)
}

func (h *handler) dismissInquiry(w http.ResponseWriter, r *http.Request) {
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
	inq, err := h.svc.Inquiries.Dismiss(r.Context(), sess.UserID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inq)
}

package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"usethis-backend/internal/service"
)

// Services is everything the HTTP API calls into.
type Services struct {
	Auth          service.AuthService
	Items         service.ItemService
	Bookings      service.BookingService
	Reviews       service.ReviewService
	Inquiries     service.InquiryService
	Conversations service.ConversationService
	Images        service.ImageStorageService
	Notifications service.NotificationService
}

// FileRoutes is implemented by storage backends that serve their own files.
type FileRoutes interface {
	RegisterRoutes(r *mux.Router, prefix string)
}

type Options struct {
	AllowedOrigins []string
	MaxUploadBytes int64
	// Files, when set, is mounted under /files/.
	Files FileRoutes
}

type handler struct {
	svc       Services
	maxUpload int64
}

func NewRouter(svc Services, opts Options) http.Handler {
	h := &handler{svc: svc, maxUpload: opts.MaxUploadBytes}
	if h.maxUpload <= 0 {
		h.maxUpload = 5 << 20
	}

	r := mux.NewRouter()
	r.Use(recoverPanic, authMiddleware(svc.Auth))

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	if opts.Files != nil {
		opts.Files.RegisterRoutes(r, "/files/")
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/signup", h.signUp).Methods(http.MethodPost)
	api.HandleFunc("/auth/signin", h.signIn).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", h.refresh).Methods(http.MethodPost)
	api.HandleFunc("/auth/signout", h.signOut).Methods(http.MethodPost)
	api.HandleFunc("/me", h.me).Methods(http.MethodGet)

	api.HandleFunc("/categories", h.listCategories).Methods(http.MethodGet)
	api.HandleFunc("/items", h.searchItems).Methods(http.MethodGet)
	api.HandleFunc("/items", h.createItem).Methods(http.MethodPost)
	api.HandleFunc("/items/mine", h.listMyItems).Methods(http.MethodGet)
	api.HandleFunc("/items/{id:[0-9]+}", h.getItem).Methods(http.MethodGet)
	api.HandleFunc("/items/{id:[0-9]+}", h.updateItem).Methods(http.MethodPut)
	api.HandleFunc("/items/{id:[0-9]+}", h.deleteItem).Methods(http.MethodDelete)
	api.HandleFunc("/items/{id:[0-9]+}/quote", h.quote).Methods(http.MethodGet)
	api.HandleFunc("/items/{id:[0-9]+}/availability", h.toggleAvailability).Methods(http.MethodPost)
	api.HandleFunc("/items/{id:[0-9]+}/archive", h.archiveItem).Methods(http.MethodPost)
	api.HandleFunc("/items/{id:[0-9]+}/images", h.uploadImage).Methods(http.MethodPost)
	api.HandleFunc("/items/{id:[0-9]+}/reviews", h.listItemReviews).Methods(http.MethodGet)
	api.HandleFunc("/items/{id:[0-9]+}/inquiries", h.createInquiry).Methods(http.MethodPost)
	api.HandleFunc("/users/{id:[0-9]+}/reviews", h.listUserReviews).Methods(http.MethodGet)

	api.HandleFunc("/bookings", h.createBooking).Methods(http.MethodPost)
	api.HandleFunc("/bookings", h.listBookings).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id:[0-9]+}", h.getBooking).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id:[0-9]+}/transitions", h.transitionBooking).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id:[0-9]+}/reviews", h.submitReview).Methods(http.MethodPost)

	api.HandleFunc("/inquiries", h.listInquiries).Methods(http.MethodGet)
	api.HandleFunc("/inquiries/{id:[0-9]+}/reply", h.replyInquiry).Methods(http.MethodPost)
	api.HandleFunc("/inquiries/{id:[0-9]+}/dismiss", h.dismissInquiry).Methods(http.MethodPost)

	api.HandleFunc("/conversations", h.listConversations).Methods(http.MethodGet)
	api.HandleFunc("/conversations", h.startConversation).Methods(http.MethodPost)
	api.HandleFunc("/conversations/{id:[0-9]+}/messages", h.openConversation).Methods(http.MethodGet)
	api.HandleFunc("/conversations/{id:[0-9]+}/messages", h.sendMessage).Methods(http.MethodPost)

	api.HandleFunc("/notifications", h.listNotifications).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id:[0-9]+}/read", h.markNotificationRead).Methods(http.MethodPost)

	c := cors.New(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: true,
		AllowedHeaders:   []string{"Content-Type", "Authorization", requestIDHeader},
	})
	return requestLogger(c.Handler(r))
}

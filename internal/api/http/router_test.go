package http_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	api "usethis-backend/internal/api/http"
	"usethis-backend/internal/domain"
	"usethis-backend/internal/security"
	"usethis-backend/internal/session"
	"usethis-backend/internal/utils"
)

type testAPI struct {
	handler   http.Handler
	auth      *MockAuthService
	items     *MockItemService
	bookings  *MockBookingService
	inquiries *MockInquiryService
	images    *MockImageService
}

const (
	accessToken  = "access-token"
	refreshToken = "refresh-token"
)

func newTestAPI() *testAPI {
	a := &testAPI{
		auth:      new(MockAuthService),
		items:     new(MockItemService),
		bookings:  new(MockBookingService),
		inquiries: new(MockInquiryService),
		images:    new(MockImageService),
	}
	a.auth.On("Authenticate", mock.Anything, accessToken, security.TokenTypeAccess).
		Return(&session.Session{UserID: 20, Email: "renter@test.com", RawToken: accessToken}, nil)
	a.auth.On("Authenticate", mock.Anything, refreshToken, security.TokenTypeRefresh).
		Return(&session.Session{UserID: 20, Email: "renter@test.com", RawToken: refreshToken}, nil)
	a.auth.On("Authenticate", mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrUnauthorized)

	a.handler = api.NewRouter(api.Services{
		Auth:      a.auth,
		Items:     a.items,
		Bookings:  a.bookings,
		Inquiries: a.inquiries,
		Images:    a.images,
	}, api.Options{AllowedOrigins: []string{"http://localhost:5173"}, MaxUploadBytes: 1 << 20})
	return a
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestRouter_Health(t *testing.T) {
	a := newTestAPI()
	rec := a.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_PublicSearch(t *testing.T) {
	a := newTestAPI()
	a.items.On("SearchItems", mock.Anything, domain.ItemFilter{
		Query: "tent", Category: "Outdoors", MaxPrice: 20, AvailableOnly: true, Page: 1, PageSize: 20,
	}).Return([]domain.Item{{ID: 1, Title: "Tent"}}, int32(1), nil)

	rec := a.do(http.MethodGet, "/api/v1/items?q=tent&category=Outdoors&max_price=20&available=true", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(1), body["total"])
	assert.Len(t, body["items"], 1)
	a.auth.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything, mock.Anything)
}

func TestRouter_ProtectedRouteNeedsToken(t *testing.T) {
	a := newTestAPI()

	rec := a.do(http.MethodGet, "/api/v1/items/mine", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(http.MethodGet, "/api/v1/items/mine", "forged", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	a.items.AssertNotCalled(t, "ListMyItems", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRouter_CreateBooking(t *testing.T) {
	a := newTestAPI()
	a.bookings.On("CreateBooking", mock.Anything, int32(20), int32(5), "2024-01-01", "2024-01-04").
		Return(&domain.Booking{ID: 9, ItemID: 5, RenterID: 20, Status: domain.BookingStatusPending, TotalPrice: 33}, nil)

	rec := a.do(http.MethodPost, "/api/v1/bookings", accessToken,
		map[string]any{"item_id": 5, "start_date": "2024-01-01", "end_date": "2024-01-04"})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "pending", body["status"])
}

func TestRouter_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"Validation", domain.NewValidationError("action", "bad"), http.StatusBadRequest},
		{"Transition", &domain.InvalidTransitionError{Entity: "booking", From: "returned", Action: "cancel"}, http.StatusConflict},
		{"NotFound", domain.ErrNotFound, http.StatusNotFound},
		{"Forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"Remote", domain.Remote("bookings.update_status", errors.New("conn refused")), http.StatusBadGateway},
		{"Unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := newTestAPI()
			a.bookings.On("Transition", mock.Anything, int32(20), int32(7), domain.BookingActionCancel).Return(nil, tc.err)

			rec := a.do(http.MethodPost, "/api/v1/bookings/7/transitions", accessToken, map[string]string{"action": "cancel"})
			assert.Equal(t, tc.status, rec.Code)
			assert.NotEmpty(t, decode(t, rec)["error"])
		})
	}

	t.Run("Remote Hides Cause", func(t *testing.T) {
		a := newTestAPI()
		a.bookings.On("Transition", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, domain.Remote("bookings.get", errors.New("password authentication failed")))

		rec := a.do(http.MethodPost, "/api/v1/bookings/7/transitions", accessToken, map[string]string{"action": "start"})
		assert.NotContains(t, rec.Body.String(), "password")
		assert.Contains(t, rec.Body.String(), "please try again")
	})

	t.Run("Unknown Action", func(t *testing.T) {
		a := newTestAPI()
		rec := a.do(http.MethodPost, "/api/v1/bookings/7/transitions", accessToken, map[string]string{"action": "teleport"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "action", decode(t, rec)["field"])
		a.bookings.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRouter_Quote(t *testing.T) {
	a := newTestAPI()
	a.bookings.On("Quote", mock.Anything, int32(5), "2024-01-01", "2024-01-03").
		Return(&utils.Quote{Days: 2, DailyRate: 10, Subtotal: 20, ServiceFee: 2, Total: 22}, nil)
	a.bookings.On("Quote", mock.Anything, int32(5), "2024-01-03", "2024-01-01").
		Return(nil, &domain.InvalidRangeError{Start: "2024-01-03", End: "2024-01-01"})

	rec := a.do(http.MethodGet, "/api/v1/items/5/quote?start_date=2024-01-01&end_date=2024-01-03", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(22), decode(t, rec)["total"])

	rec = a.do(http.MethodGet, "/api/v1/items/5/quote?start_date=2024-01-03&end_date=2024-01-01", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_RefreshUsesRefreshToken(t *testing.T) {
	a := newTestAPI()
	a.auth.On("Refresh", mock.Anything, refreshToken).
		Return(&security.TokenPair{AccessToken: "a2", RefreshToken: "r2", ExpiresIn: 900}, nil)

	rec := a.do(http.MethodPost, "/api/v1/auth/refresh", accessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(http.MethodPost, "/api/v1/auth/refresh", refreshToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "r2", decode(t, rec)["refresh_token"])
}

func TestRouter_ReplyInquiry(t *testing.T) {
	a := newTestAPI()
	convID := int32(12)
	a.inquiries.On("Reply", mock.Anything, int32(20), int32(4), "Yes").
		Return(&domain.Inquiry{ID: 4, Status: domain.InquiryStatusResponded, ConversationID: &convID}, nil)

	rec := a.do(http.MethodPost, "/api/v1/inquiries/4/reply", accessToken, map[string]string{"message": "Yes"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(12), body["conversation_id"])
	assert.Equal(t, "responded", body["status"])
}

func TestRouter_UploadImage(t *testing.T) {
	a := newTestAPI()
	img := []byte("\x89PNG\r\n\x1a\nrest")
	a.images.On("UploadItemImage", mock.Anything, int32(20), int32(5), "tent.png", img).
		Return("http://localhost:8080/files/items/5/a.png", nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "tent.png")
	require.NoError(t, err)
	_, _ = fw.Write(img)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/items/5/images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+accessToken)
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "http://localhost:8080/files/items/5/a.png", decode(t, rec)["url"])
}

func TestRouter_CORSPreflight(t *testing.T) {
	a := newTestAPI()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/bookings", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	a.auth.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything, mock.Anything)
}

func TestRouter_UpdateItemIgnoresAvailabilityAndImages(t *testing.T) {
	a := newTestAPI()
	a.items.On("UpdateItem", mock.Anything, int32(20), int32(5), domain.ItemUpdate{
		Title: "Big Tent", Category: "Outdoors", Location: "Portland", PricePerDay: 14,
	}).Return(&domain.Item{ID: 5, Title: "Big Tent", IsAvailable: true}, nil)

	rec := a.do(http.MethodPut, "/api/v1/items/5", accessToken, map[string]any{
		"title": "Big Tent", "category": "Outdoors", "location": "Portland", "price_per_day": 14,
		"is_available": false, "image_urls": []string{},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["is_available"])
	a.items.AssertExpectations(t)
}

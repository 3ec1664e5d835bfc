// Package client is a small Go client for the UseThis HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"usethis-backend/internal/domain"
	"usethis-backend/internal/security"
	"usethis-backend/internal/utils"
)

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string `json:"error"`
	Field   string `json:"field"`
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("api error %d: %s: %s", e.Status, e.Field, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type Client struct {
	httpClient *http.Client
	baseURL    string

	mu     sync.RWMutex
	tokens *security.TokenPair
}

func New(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{httpClient: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

func (c *Client) accessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.tokens == nil {
		return ""
	}
	return c.tokens.AccessToken
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s %s: encode body: %w", method, path, err)
		}
		rdr = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, rdr)
	if err != nil {
		return fmt.Errorf("%s %s: build request: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.accessToken(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: do request: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

type authResult struct {
	User   *domain.User        `json:"user"`
	Tokens *security.TokenPair `json:"tokens"`
}

// SignIn stores the returned tokens for later calls.
func (c *Client) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	var res authResult
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/signin", nil,
		map[string]string{"email": email, "password": password}, &res)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.tokens = res.Tokens
	c.mu.Unlock()
	return res.User, nil
}

// Page is one page of a listing endpoint.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Total    int32 `json:"total"`
	Page     int32 `json:"page"`
	PageSize int32 `json:"page_size"`
}

// SearchParams is comparable so it can key a query.Refresher.
type SearchParams struct {
	Query         string
	Category      string
	Location      string
	MaxPrice      float64
	AvailableOnly bool
	Page          int32
	PageSize      int32
}

func (p SearchParams) values() url.Values {
	v := url.Values{}
	if p.Query != "" {
		v.Set("q", p.Query)
	}
	if p.Category != "" {
		v.Set("category", p.Category)
	}
	if p.Location != "" {
		v.Set("location", p.Location)
	}
	if p.MaxPrice > 0 {
		v.Set("max_price", strconv.FormatFloat(p.MaxPrice, 'f', -1, 64))
	}
	if p.AvailableOnly {
		v.Set("available", "true")
	}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(int(p.Page)))
	}
	if p.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(int(p.PageSize)))
	}
	return v
}

func (c *Client) SearchItems(ctx context.Context, p SearchParams) (*Page[domain.Item], error) {
	var out Page[domain.Item]
	if err := c.do(ctx, http.MethodGet, "/api/v1/items", p.values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetItem(ctx context.Context, id int32) (*domain.Item, error) {
	var out domain.Item
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/items/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Quote(ctx context.Context, itemID int32, startDate, endDate string) (*utils.Quote, error) {
	q := url.Values{"start_date": {startDate}, "end_date": {endDate}}
	var out utils.Quote
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/items/%d/quote", itemID), q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateBooking(ctx context.Context, itemID int32, startDate, endDate string) (*domain.Booking, error) {
	body := map[string]any{"item_id": itemID, "start_date": startDate, "end_date": endDate}
	var out domain.Booking
	if err := c.do(ctx, http.MethodPost, "/api/v1/bookings", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TransitionBooking(ctx context.Context, bookingID int32, action domain.BookingAction) (*domain.Booking, error) {
	var out domain.Booking
	path := fmt.Sprintf("/api/v1/bookings/%d/transitions", bookingID)
	if err := c.do(ctx, http.MethodPost, path, nil, map[string]string{"action": string(action)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReplyInquiry returns the answered inquiry; its ConversationID is the
// thread to open next.
func (c *Client) ReplyInquiry(ctx context.Context, inquiryID int32, message string) (*domain.Inquiry, error) {
	var out domain.Inquiry
	path := fmt.Sprintf("/api/v1/inquiries/%d/reply", inquiryID)
	if err := c.do(ctx, http.MethodPost, path, nil, map[string]string{"message": message}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) OpenConversation(ctx context.Context, conversationID int32) ([]domain.Message, error) {
	var out struct {
		Messages []domain.Message `json:"messages"`
	}
	path := fmt.Sprintf("/api/v1/conversations/%d/messages", conversationID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

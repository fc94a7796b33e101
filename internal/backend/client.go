// Package backend is the HTTP/JSON client for the external EquiShare
// backend, the sole system of record for users, tools, rentals, deposits,
// and feedback. Every call is a single attempt: no retry, backoff, or
// circuit breaking. Session credentials travel request-scoped through the
// context, never in client state.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"equishare-gateway/internal/domain"
	"equishare-gateway/internal/logger"
)

type credentialsKey struct{}

// WithCredentials returns a context carrying the backend session cookie for
// subsequent calls.
func WithCredentials(ctx context.Context, cookie string) context.Context {
	return context.WithValue(ctx, credentialsKey{}, cookie)
}

func credentialsFrom(ctx context.Context) string {
	if v, ok := ctx.Value(credentialsKey{}).(string); ok {
		return v
	}
	return ""
}

// Client talks to the EquiShare backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// do performs one request. Non-2xx responses become *APIError; transport
// failures wrap ErrUnreachable. When out is non-nil the response body is
// decoded into it.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if creds := credentialsFrom(ctx); creds != "" {
		req.Header.Set("Cookie", creds)
	}

	logger.BackendCall(method, path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.BackendResult(method, path, 0, err)
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		logger.BackendResult(method, path, resp.StatusCode, err)
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := parseAPIError(resp.StatusCode, data)
		logger.BackendResult(method, path, resp.StatusCode, apiErr)
		return apiErr
	}
	logger.BackendResult(method, path, resp.StatusCode, nil)

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode backend response: %w", err)
		}
	}
	return nil
}

// --- Session lifecycle ---

// meResponse tolerates both shapes the backend has used: a nested "user"
// object and the user fields at the top level.
type meResponse struct {
	User     *domain.User `json:"user"`
	ID       int32        `json:"id"`
	FullName string       `json:"fullName"`
	Username string       `json:"username"`
	Email    string       `json:"email"`
}

// Me resolves the current identity from the backend session cookie.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var res meResponse
	if err := c.do(ctx, http.MethodGet, "/api/me/", nil, &res); err != nil {
		return nil, err
	}
	if res.User != nil {
		return res.User, nil
	}
	if res.Username != "" || res.ID != 0 {
		return &domain.User{ID: res.ID, FullName: res.FullName, Username: res.Username, Email: res.Email}, nil
	}
	return nil, &APIError{StatusCode: http.StatusUnauthorized, Detail: "no active session"}
}

type loginResponse struct {
	User *domain.User `json:"user"`
}

// Login authenticates against the backend and returns the user plus the
// session cookie(s) the backend set, serialized as a Cookie header value.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	payload := map[string]string{"email": email, "password": password}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode login payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/login/", bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logger.BackendCall(http.MethodPost, "/api/login/")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.BackendResult(http.MethodPost, "/api/login/", 0, err)
		return nil, "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := parseAPIError(resp.StatusCode, body)
		logger.BackendResult(http.MethodPost, "/api/login/", resp.StatusCode, apiErr)
		return nil, "", apiErr
	}
	logger.BackendResult(http.MethodPost, "/api/login/", resp.StatusCode, nil)

	var res loginResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, "", fmt.Errorf("failed to decode login response: %w", err)
	}
	if res.User == nil {
		return nil, "", fmt.Errorf("login response carried no user")
	}

	pairs := make([]string, 0, 2)
	for _, ck := range resp.Cookies() {
		pairs = append(pairs, ck.Name+"="+ck.Value)
	}
	return res.User, strings.Join(pairs, "; "), nil
}

// Signup registers a new account. The backend requires a fresh login after.
func (c *Client) Signup(ctx context.Context, fullName, username, email, password string) error {
	payload := map[string]string{
		"fullName": fullName,
		"username": username,
		"email":    email,
		"password": password,
	}
	return c.do(ctx, http.MethodPost, "/api/signup/", payload, nil)
}

// Logout invalidates the backend session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/logout/", nil, nil)
}

// --- Tools ---

func (c *Client) ListTools(ctx context.Context) ([]domain.Tool, error) {
	var tools []domain.Tool
	if err := c.do(ctx, http.MethodGet, "/api/tools/", nil, &tools); err != nil {
		return nil, err
	}
	return tools, nil
}

func (c *Client) GetTool(ctx context.Context, id int32) (*domain.Tool, error) {
	var tool domain.Tool
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/tools/%d/", id), nil, &tool); err != nil {
		return nil, err
	}
	return &tool, nil
}

func (c *Client) CreateTool(ctx context.Context, tool *domain.Tool) (*domain.Tool, error) {
	var created domain.Tool
	if err := c.do(ctx, http.MethodPost, "/api/tools/", tool, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTool patches the named fields only.
func (c *Client) UpdateTool(ctx context.Context, id int32, fields map[string]any) (*domain.Tool, error) {
	var updated domain.Tool
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/tools/%d/", id), fields, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteTool(ctx context.Context, id int32) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/tools/%d/", id), nil, nil)
}

// ToolAvailability fetches the booked windows for a tool. Callers treat any
// error, 404 included, as "no known unavailability".
func (c *Client) ToolAvailability(ctx context.Context, id int32) (*domain.ToolAvailability, error) {
	var av domain.ToolAvailability
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/tools/%d/availability/", id), nil, &av); err != nil {
		return nil, err
	}
	return &av, nil
}

// --- Rental transactions ---

func (c *Client) ListRentals(ctx context.Context) ([]domain.RentalTransaction, error) {
	var rentals []domain.RentalTransaction
	if err := c.do(ctx, http.MethodGet, "/api/rentaltransactions/", nil, &rentals); err != nil {
		return nil, err
	}
	return rentals, nil
}

func (c *Client) GetRental(ctx context.Context, id int32) (*domain.RentalTransaction, error) {
	var rental domain.RentalTransaction
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/rentaltransactions/%d/", id), nil, &rental); err != nil {
		return nil, err
	}
	return &rental, nil
}

// CreateRentalInput is the POST /api/rentaltransactions/ payload.
type CreateRentalInput struct {
	OwnerID       int32   `json:"owner_id"`
	BorrowerID    int32   `json:"borrower_id"`
	ToolID        int32   `json:"tool_id"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	TotalPrice    float64 `json:"total_price"`
	PaymentStatus string  `json:"payment_status"`
	Status        string  `json:"status"`
}

func (c *Client) CreateRental(ctx context.Context, in CreateRentalInput) (*domain.RentalTransaction, error) {
	var rental domain.RentalTransaction
	if err := c.do(ctx, http.MethodPost, "/api/rentaltransactions/", in, &rental); err != nil {
		return nil, err
	}
	return &rental, nil
}

// UpdateRental patches the named fields only.
func (c *Client) UpdateRental(ctx context.Context, id int32, fields map[string]any) (*domain.RentalTransaction, error) {
	var updated domain.RentalTransaction
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/rentaltransactions/%d/", id), fields, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// CheckAvailabilityConflict runs the pre-submission conflict check.
func (c *Client) CheckAvailabilityConflict(ctx context.Context, toolID int32, startDate, endDate string) (bool, error) {
	payload := map[string]any{
		"tool_id":    toolID,
		"start_date": startDate,
		"end_date":   endDate,
	}
	var res struct {
		HasConflict bool `json:"has_conflict"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/check-availability-conflict/", payload, &res); err != nil {
		return false, err
	}
	return res.HasConflict, nil
}

// --- Borrow requests ---

func (c *Client) UserBorrowRequests(ctx context.Context) ([]domain.BorrowRequest, error) {
	var requests []domain.BorrowRequest
	if err := c.do(ctx, http.MethodGet, "/api/borrow-requests/user/", nil, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (c *Client) ApproveBorrowRequest(ctx context.Context, id int32, ownerResponse string) error {
	payload := map[string]string{"owner_response": ownerResponse}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/borrow-requests/%d/approve/", id), payload, nil)
}

func (c *Client) RejectBorrowRequest(ctx context.Context, id int32, ownerResponse string) error {
	payload := map[string]string{"owner_response": ownerResponse}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/borrow-requests/%d/reject/", id), payload, nil)
}

func (c *Client) CancelBorrowRequest(ctx context.Context, id int32) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/borrow-requests/%d/cancel/", id), nil, nil)
}

// --- Deposits ---

func (c *Client) ListDeposits(ctx context.Context) ([]domain.Deposit, error) {
	var deposits []domain.Deposit
	if err := c.do(ctx, http.MethodGet, "/api/deposits/", nil, &deposits); err != nil {
		return nil, err
	}
	return deposits, nil
}

func (c *Client) CreateDeposit(ctx context.Context, rentalID int32, amount float64) (*domain.Deposit, error) {
	payload := map[string]any{
		"rental_transaction": rentalID,
		"amount":             amount,
		"status":             string(domain.DepositPending),
	}
	var deposit domain.Deposit
	if err := c.do(ctx, http.MethodPost, "/api/deposits/", payload, &deposit); err != nil {
		return nil, err
	}
	return &deposit, nil
}

// --- Feedback & reviews ---

func (c *Client) ListFeedbacks(ctx context.Context) ([]domain.Feedback, error) {
	var feedbacks []domain.Feedback
	if err := c.do(ctx, http.MethodGet, "/api/feedbacks/", nil, &feedbacks); err != nil {
		return nil, err
	}
	return feedbacks, nil
}

func (c *Client) CreateFeedback(ctx context.Context, toolID int32, rating float64, comment string) (*domain.Feedback, error) {
	payload := map[string]any{"tool": toolID, "rating": rating, "comment": comment}
	var fb domain.Feedback
	if err := c.do(ctx, http.MethodPost, "/api/feedbacks/", payload, &fb); err != nil {
		return nil, err
	}
	return &fb, nil
}

func (c *Client) ListUserReviews(ctx context.Context) ([]domain.UserReview, error) {
	var reviews []domain.UserReview
	if err := c.do(ctx, http.MethodGet, "/api/userreviews/", nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (c *Client) CreateUserReview(ctx context.Context, revieweeID int32, rating float64, comment string) (*domain.UserReview, error) {
	payload := map[string]any{"reviewee": revieweeID, "rating": rating, "comment": comment}
	var review domain.UserReview
	if err := c.do(ctx, http.MethodPost, "/api/userreviews/", payload, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// --- Users ---

// UpdateUser patches profile fields on the backend user record.
func (c *Client) UpdateUser(ctx context.Context, id int32, fields map[string]any) (*domain.User, error) {
	var updated domain.User
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/users/%d/", id), fields, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

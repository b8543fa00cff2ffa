package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"gostay/internal/models"
)

// TestClient provides methods for testing a running API instance
type TestClient struct {
	BaseURL    string
	Email      string
	Password   string
	HTTPClient *http.Client
}

// NewTestClient creates a client against the URL in GOSTAY_API_URL.
// Tests are skipped when the variable is not set.
func NewTestClient(t *testing.T) *TestClient {
	baseURL := os.Getenv("GOSTAY_API_URL")
	if baseURL == "" {
		t.Skip("GOSTAY_API_URL is not set, skipping integration test")
	}

	return &TestClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WithAuth returns a copy of the client that sends Basic Auth credentials
func (c *TestClient) WithAuth(email, password string) *TestClient {
	cp := *c
	cp.Email = email
	cp.Password = password
	return &cp
}

func (c *TestClient) makeRequest(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reqBody)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Email != "" {
		req.SetBasicAuth(c.Email, c.Password)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}

	return resp
}

func decodeInto(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func requireStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		t.Fatalf("Expected status %d, got %d. Body: %s", want, resp.StatusCode, string(body))
	}
}

// Register creates a user account and returns the credentials
func (c *TestClient) Register(t *testing.T) (email, password string) {
	email = fmt.Sprintf("it-%d@gostay.example", time.Now().UnixNano())
	password = "integration-pass"

	resp := c.makeRequest(t, http.MethodPost, "/api/auth/register", models.RegisterRequest{
		Name:     "Integration Test",
		Email:    email,
		Password: password,
	})
	requireStatus(t, resp, http.StatusCreated)
	resp.Body.Close()

	return email, password
}

// CreateBooking submits a booking and returns the server response along with
// the HTTP status code.
func (c *TestClient) CreateBooking(t *testing.T, req models.CreateBookingRequest) (*models.CreateBookingResponse, int) {
	resp := c.makeRequest(t, http.MethodPost, "/api/bookings", req)
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		t.Logf("CreateBooking returned %d: %s", resp.StatusCode, string(body))
		return nil, resp.StatusCode
	}

	var booking models.CreateBookingResponse
	code := resp.StatusCode
	decodeInto(t, resp, &booking)
	return &booking, code
}

// GetBooking fetches one booking by its public id
func (c *TestClient) GetBooking(t *testing.T, bookingID string) *models.BookingResponseItem {
	resp := c.makeRequest(t, http.MethodGet, "/api/bookings/"+bookingID, nil)
	requireStatus(t, resp, http.StatusOK)

	var item models.BookingResponseItem
	decodeInto(t, resp, &item)
	return &item
}

// SendWebhook posts a payment gateway notification
func (c *TestClient) SendWebhook(t *testing.T, payload models.PaymentWebhookPayload) int {
	resp := c.makeRequest(t, http.MethodPost, "/api/payments/webhook", payload)
	defer resp.Body.Close()
	return resp.StatusCode
}

// GetLoyalty fetches the loyalty profile of the authenticated user
func (c *TestClient) GetLoyalty(t *testing.T) *models.LoyaltyResponse {
	resp := c.makeRequest(t, http.MethodGet, "/api/loyalty", nil)
	requireStatus(t, resp, http.StatusOK)

	var loyalty models.LoyaltyResponse
	decodeInto(t, resp, &loyalty)
	return &loyalty
}

// GetTransactions fetches the bonus ledger of the authenticated user
func (c *TestClient) GetTransactions(t *testing.T) []models.BonusTransactionItem {
	resp := c.makeRequest(t, http.MethodGet, "/api/loyalty/transactions", nil)
	requireStatus(t, resp, http.StatusOK)

	var items []models.BonusTransactionItem
	decodeInto(t, resp, &items)
	return items
}

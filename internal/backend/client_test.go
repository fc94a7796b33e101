package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"equishare-gateway/internal/domain"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, 2*time.Second), srv
}

func TestListTools_DecodesMixedDecimals(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tools/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		// One tool prices as a JSON number, the other as a decimal string.
		w.Write([]byte(`[
			{"id": 1, "name": "Drill", "pricing_type": "daily", "price_per_day": 12.5, "isAvailable": true, "owner_id": 3},
			{"id": 2, "name": "Saw", "pricing_type": "weekly", "price_per_week": "70.00", "isAvailable": false, "owner_id": 4}
		]`))
	}))
	defer srv.Close()

	tools, err := client.ListTools(context.Background())
	assert.NoError(t, err)
	assert.Len(t, tools, 2)
	assert.Equal(t, 12.5, tools[0].PricePerDay.Float())
	assert.Equal(t, 70.0, tools[1].PricePerWeek.Float())
	assert.True(t, tools[0].IsAvailable)
	assert.False(t, tools[1].IsAvailable)
}

func TestDo_CredentialsTravelViaContext(t *testing.T) {
	var gotCookie string
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ctx := WithCredentials(context.Background(), "sessionid=abc; csrftoken=xyz")
	_, err := client.ListTools(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "sessionid=abc; csrftoken=xyz", gotCookie)
}

func TestDo_APIErrorParsing(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"non_field_errors": ["This tool is not available for rental"]}`))
	}))
	defer srv.Close()

	_, err := client.GetTool(context.Background(), 1)
	assert.Error(t, err)

	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t,
		"This tool is currently not available for rental. It may be already rented or temporarily unavailable.",
		apiErr.FriendlyMessage())
}

func TestDo_FieldErrors(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"email": ["Enter a valid email address."]}`))
	}))
	defer srv.Close()

	err := client.Signup(context.Background(), "A B", "ab", "bad", "password123")
	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Enter a valid email address.", apiErr.FriendlyMessage())
}

func TestDo_Unreachable(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := client.ListTools(context.Background())
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestToolAvailability_NotFound(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "Not found."}`))
	}))
	defer srv.Close()

	_, err := client.ToolAvailability(context.Background(), 42)
	assert.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsUnauthorized(err))
}

func TestLogin_CapturesBackendCookies(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/login/", r.URL.Path)
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ana@example.com", body["email"])

		http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "s3cret"})
		http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "tok"})
		w.Write([]byte(`{"user": {"id": 5, "fullName": "Ana", "username": "ana", "email": "ana@example.com"}}`))
	}))
	defer srv.Close()

	user, cookie, err := client.Login(context.Background(), "ana@example.com", "pw")
	assert.NoError(t, err)
	assert.Equal(t, int32(5), user.ID)
	assert.Contains(t, cookie, "sessionid=s3cret")
	assert.Contains(t, cookie, "csrftoken=tok")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Invalid credentials"}`))
	}))
	defer srv.Close()

	_, _, err := client.Login(context.Background(), "ana@example.com", "wrong")
	assert.True(t, IsUnauthorized(err))
}

func TestMe_ToleratesBothShapes(t *testing.T) {
	t.Run("NestedUser", func(t *testing.T) {
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"user": {"id": 5, "username": "ana"}}`))
		}))
		defer srv.Close()

		user, err := client.Me(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, "ana", user.Username)
	})

	t.Run("FlatFields", func(t *testing.T) {
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"id": 5, "username": "ana", "fullName": "Ana"}`))
		}))
		defer srv.Close()

		user, err := client.Me(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, int32(5), user.ID)
		assert.Equal(t, "Ana", user.FullName)
	})

	t.Run("EmptyBodyMeansNoSession", func(t *testing.T) {
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		_, err := client.Me(context.Background())
		assert.True(t, IsUnauthorized(err))
	})
}

func TestCheckAvailabilityConflict(t *testing.T) {
	var gotBody map[string]any
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/check-availability-conflict/", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"has_conflict": true}`))
	}))
	defer srv.Close()

	conflict, err := client.CheckAvailabilityConflict(context.Background(), 9, "2024-07-04", "2024-07-06")
	assert.NoError(t, err)
	assert.True(t, conflict)
	assert.Equal(t, float64(9), gotBody["tool_id"])
	assert.Equal(t, "2024-07-04", gotBody["start_date"])
}

func TestDecimalMarshal(t *testing.T) {
	d := domain.Decimal(12.5)
	data, err := json.Marshal(d)
	assert.NoError(t, err)
	assert.Equal(t, "12.50", string(data))
}

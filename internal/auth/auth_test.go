package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "garagy/internal/errors"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	id := Identity{AdminID: "a1", Email: "a@garagy.test", GarageID: "g1"}

	tok, err := m.Issue(id)
	require.NoError(t, err)

	got, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = NewTokenManager("other", time.Hour).Parse(tok)
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))
}

func TestTokenExpiry(t *testing.T) {
	m := NewTokenManager("secret", time.Minute)
	issued := time.Now()
	m.now = func() time.Time { return issued }
	tok, err := m.Issue(Identity{AdminID: "a1", GarageID: "g1"})
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = m.Parse(tok)
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))
	assert.Equal(t, "session expired", apperrors.UserMessage(err))
}

func TestIssueWithoutSecret(t *testing.T) {
	_, err := NewTokenManager("", time.Hour).Issue(Identity{AdminID: "a"})
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	var seen Identity
	h := AdminAuthMiddleware(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tok, err := m.Issue(Identity{AdminID: "a1", GarageID: "g1"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + tok, http.StatusNoContent},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + tok, http.StatusUnauthorized},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/layout", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusUnauthorized {
				assert.Equal(t, LoginPath, rec.Header().Get("Location"))
				var body map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, "UNAUTHORIZED", body["code"])
				assert.NotEmpty(t, body["error"])
			}
		})
	}
	assert.Equal(t, "g1", seen.GarageID)
}

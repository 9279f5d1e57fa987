package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// mockValidator is a mock implementation of TokenValidator
type mockValidator struct {
	userID int
	role   int
	err    error
}

func (m *mockValidator) ValidateAccessToken(token string) (int, int, error) {
	return m.userID, m.role, m.err
}

func TestRoleMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		validator      *mockValidator
		requiredRole   int
		authHeader     string
		cookie         string
		expectedStatus int
	}{
		{
			name:           "no token",
			validator:      &mockValidator{},
			requiredRole:   2,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid token",
			validator:      &mockValidator{err: errors.New("bad")},
			requiredRole:   2,
			authHeader:     "Bearer abc",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "insufficient role",
			validator:      &mockValidator{userID: 5, role: 1},
			requiredRole:   2,
			authHeader:     "Bearer abc",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "sufficient role via header",
			validator:      &mockValidator{userID: 5, role: 3},
			requiredRole:   2,
			authHeader:     "bearer abc",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "cookie token",
			validator:      &mockValidator{userID: 5, role: 1},
			requiredRole:   0,
			cookie:         "abc",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser, gotRole int
			handler := RoleMiddleware(tt.validator, tt.requiredRole)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser, _ = GetUserID(r.Context())
				gotRole, _ = GetRole(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "access_token", Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, tt.validator.userID, gotUser)
				assert.Equal(t, tt.validator.role, gotRole)
			}
		})
	}
}

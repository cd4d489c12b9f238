package admin

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"polly/pkg/requestcontext"
)

type stubValidator struct {
	claims *Claims
	err    error
}

func (s stubValidator) ValidateToken(string) (*Claims, error) {
	return s.claims, s.err
}

func TestRequireRole(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name        string
		header      string
		validator   stubValidator
		wantStatus  int
		wantSubject string
	}{
		{
			name:       "missing header",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "non-bearer header",
			header:     "Basic abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			header:     "Bearer bad",
			validator:  stubValidator{err: errors.New("invalid token")},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing role",
			header:     "Bearer good",
			validator:  stubValidator{claims: &Claims{Subject: "ops", Roles: []string{"reader"}}},
			wantStatus: http.StatusForbidden,
		},
		{
			name:        "authorized",
			header:      "Bearer good",
			validator:   stubValidator{claims: &Claims{Subject: "ops", Roles: []string{"codelist:admin"}}},
			wantStatus:  http.StatusNoContent,
			wantSubject: "ops",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var subject string
			handler := RequireRole(tt.validator, "codelist:admin", logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				subject = requestcontext.AdminSubject(r.Context())
				w.WriteHeader(http.StatusNoContent)
			}))

			req := httptest.NewRequest(http.MethodPost, "/admin/codelist/refresh", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantSubject, subject)
		})
	}
}

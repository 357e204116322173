package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"stipendia/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return &Service{logger: logger}
}

func TestWriteErrorStatusMapping(t *testing.T) {
	s := newTestService(t)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{
			name:   "validation maps to 400",
			err:    &types.ValidationError{Fields: []string{"school"}},
			status: 400,
		},
		{
			name:   "authorization maps to 403",
			err:    &types.AuthorizationError{Role: types.RoleSponsor, Op: "review cases"},
			status: 403,
		},
		{
			name:   "not found maps to 404",
			err:    &types.NotFoundError{Entity: "case", ID: "abc"},
			status: 404,
		},
		{
			name:   "precondition maps to 409",
			err:    &types.PreconditionError{Reason: "applicant case is PENDING, not accepted"},
			status: 409,
		},
		{
			name:   "invalid transition maps to 409",
			err:    &types.InvalidTransitionError{Entity: "case", ID: "abc", Status: "ACCEPTED"},
			status: 409,
		},
		{
			name:   "anything else maps to 500",
			err:    errors.New("pool exhausted"),
			status: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.writeError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Contains(t, body, "error")

			if tt.status == 500 {
				assert.Equal(t, "internal server error", body["error"])
			} else {
				assert.Equal(t, tt.err.Error(), body["error"])
			}
		})
	}
}

func TestWriteErrorDoesNotLeakWrappedInternals(t *testing.T) {
	s := newTestService(t)

	rec := httptest.NewRecorder()
	s.writeError(rec, errors.New("connect to db-internal-host:5432 refused"))

	assert.Equal(t, 500, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db-internal-host")
}

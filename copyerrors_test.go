package tablewriter

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := newError(KindConnection, "connect", cause)

	assert.Equal(t, "tablewriter: connect: connection error: dial tcp: connection refused", err.Error())
	assert.True(t, IsConnectionError(err))
	assert.False(t, IsTransportError(err))
	assert.True(t, errors.Is(err, ErrIO))
	assert.True(t, errors.Is(err, cause))

	wrapped := fmt.Errorf("loading batch: %w", newError(KindTransport, "flush", cause))
	assert.True(t, IsTransportError(wrapped))
	assert.True(t, errors.Is(wrapped, ErrIO))

	cfgErr := configError("validate", "missing %s", "table")
	assert.True(t, IsConfigurationError(cfgErr))
	assert.False(t, errors.Is(cfgErr, ErrIO))

	assert.False(t, IsConnectionError(cause))
	assert.Equal(t, "unknown", Kind(0).String())
}

func TestIsRetryable(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{"plain transport", newError(KindTransport, "flush", errors.New("eof")), true},
		{"connection", newError(KindConnection, "connect", errors.New("refused")), true},
		{"configuration", configError("validate", "bad"), false},
		{"not ours", errors.New("other"), false},
		{"unique violation", newError(KindTransport, "flush", &pgconn.PgError{Code: "23505"}), false},
		{"bad input", newError(KindTransport, "flush", &pgconn.PgError{Code: "22P02"}), false},
		{"undefined table", newError(KindTransport, "flush", &pgconn.PgError{Code: "42P01"}), false},
		{"auth", newError(KindConnection, "connect", &pgconn.PgError{Code: "28P01"}), false},
		{"no database", newError(KindConnection, "connect", &pgconn.PgError{Code: "3D000"}), false},
		{"admin shutdown", newError(KindTransport, "flush", &pgconn.PgError{Code: "57P01"}), true},
		{"serialization", newError(KindTransport, "flush", &pgconn.PgError{Code: "40001"}), true},
		{"canceled", newError(KindTransport, "flush", context.Canceled), false},
		{"deadline", newError(KindConnection, "connect", context.DeadlineExceeded), false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsRetryable(tc.err))
		})
	}
}

func TestSQLState(t *testing.T) {
	err := newError(KindTransport, "flush", &pgconn.PgError{Code: "23505"})
	assert.Equal(t, "23505", SQLState(err))
	assert.Empty(t, SQLState(errors.New("x")))
}

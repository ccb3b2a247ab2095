package tablewriter

import (
	"context"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlushWithRetry(t *testing.T) {
	w, copier := newTestWriter(t, 1024, "A")
	copier.failures = []error{errors.New("reset"), errors.New("reset")}
	require.NoError(t, w.WriteRow("a"))

	err := FlushWithRetry(context.Background(), w, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, copier.calls)
	assert.Equal(t, [][]interface{}{{"a"}}, copier.rows())
	assert.True(t, w.IsEmpty())
}

func TestFlushWithRetryGivesUp(t *testing.T) {
	w, copier := newTestWriter(t, 1024, "A")
	copier.failures = []error{errors.New("reset"), errors.New("reset"), errors.New("reset")}
	require.NoError(t, w.WriteRow("a"))

	err := FlushWithRetry(context.Background(), w, 2, 0)
	assert.True(t, IsTransportError(err))
	assert.Equal(t, 2, copier.calls)
	assert.False(t, w.IsEmpty())
}

func TestFlushWithRetryStopsOnDataError(t *testing.T) {
	w, copier := newTestWriter(t, 1024, "A")
	copier.failures = []error{&pgconn.PgError{Code: "22P02", Message: "invalid input syntax"}}
	require.NoError(t, w.WriteRow("not-a-number"))

	err := FlushWithRetry(context.Background(), w, 5, 0)
	assert.True(t, IsTransportError(err))
	assert.Equal(t, "22P02", SQLState(err))
	assert.Equal(t, 1, copier.calls)
}

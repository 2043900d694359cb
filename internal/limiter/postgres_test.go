package limiter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newLimiter(t *testing.T, p Policy) (*PG, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	l := NewPG(mock, p)
	l.now = func() time.Time { return fixedNow }
	return l, mock
}

func TestAllow_NoRow_Allows(t *testing.T) {
	l, mock := newLimiter(t, DefaultPolicy)
	mock.ExpectQuery(`SELECT blocked_until FROM auth_limiter`).
		WithArgs("a@b.c", []byte("h")).
		WillReturnError(pgx.ErrNoRows)

	ok, dur, err := l.Allow(context.Background(), "a@b.c", []byte("h"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Zero(t, dur)
}

func TestAllow_BlockedUntilFuture(t *testing.T) {
	l, mock := newLimiter(t, DefaultPolicy)
	mock.ExpectQuery(`SELECT blocked_until FROM auth_limiter`).
		WithArgs("a@b.c", []byte("h")).
		WillReturnRows(pgxmock.NewRows([]string{"blocked_until"}).AddRow(fixedNow.Add(10 * time.Minute)))

	ok, dur, err := l.Allow(context.Background(), "a@b.c", []byte("h"))
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 10*time.Minute, dur)
}

func TestAllow_PastBlock_Allows(t *testing.T) {
	l, mock := newLimiter(t, DefaultPolicy)
	mock.ExpectQuery(`SELECT blocked_until FROM auth_limiter`).
		WithArgs("a@b.c", []byte("h")).
		WillReturnRows(pgxmock.NewRows([]string{"blocked_until"}).AddRow(fixedNow.Add(-time.Minute)))

	ok, _, err := l.Allow(context.Background(), "a@b.c", []byte("h"))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestAllow_DBError_Propagates(t *testing.T) {
	l, mock := newLimiter(t, DefaultPolicy)
	boom := errors.New("db boom")
	mock.ExpectQuery(`SELECT blocked_until FROM auth_limiter`).
		WithArgs("a@b.c", []byte("h")).
		WillReturnError(boom)

	ok, _, err := l.Allow(context.Background(), "a@b.c", []byte("h"))
	require.ErrorIs(t, err, boom)
	require.False(t, ok)
}

func TestSuccess_ResetsCounters(t *testing.T) {
	l, mock := newLimiter(t, DefaultPolicy)
	mock.ExpectExec(`INSERT INTO auth_limiter`).
		WithArgs("a@b.c", []byte("h")).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, l.Success(context.Background(), "a@b.c", []byte("h")))
}

func TestSuccess_ExecError_Propagates(t *testing.T) {
	l, mock := newLimiter(t, DefaultPolicy)
	mock.ExpectExec(`INSERT INTO auth_limiter`).
		WithArgs("a@b.c", []byte("h")).
		WillReturnError(errors.New("exec fail"))

	require.Error(t, l.Success(context.Background(), "a@b.c", []byte("h")))
}

func TestFailure_BelowThreshold_NoBlock(t *testing.T) {
	l, mock := newLimiter(t, DefaultPolicy)
	mock.ExpectQuery(`RETURNING fail_count`).
		WithArgs("a@b.c", []byte("h"), DefaultPolicy.Window).
		WillReturnRows(pgxmock.NewRows([]string{"fail_count"}).AddRow(2))

	blocked, dur, err := l.Failure(context.Background(), "a@b.c", []byte("h"))
	require.NoError(t, err)
	require.False(t, blocked)
	require.Zero(t, dur)
}

func TestFailure_BlocksAtThreshold(t *testing.T) {
	p := Policy{Window: 5 * time.Minute, MaxFails: 3, BlockFor: 10 * time.Minute}
	l, mock := newLimiter(t, p)
	mock.ExpectQuery(`RETURNING fail_count`).
		WithArgs("a@b.c", []byte("h"), p.Window).
		WillReturnRows(pgxmock.NewRows([]string{"fail_count"}).AddRow(3))
	mock.ExpectExec(`UPDATE auth_limiter SET blocked_until`).
		WithArgs("a@b.c", []byte("h"), fixedNow.Add(10*time.Minute)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	blocked, dur, err := l.Failure(context.Background(), "a@b.c", []byte("h"))
	require.NoError(t, err)
	require.True(t, blocked)
	require.Equal(t, 10*time.Minute, dur)
}

func TestFailure_DBErrorOnReturning(t *testing.T) {
	l, mock := newLimiter(t, DefaultPolicy)
	mock.ExpectQuery(`RETURNING fail_count`).
		WithArgs("a@b.c", []byte("h"), DefaultPolicy.Window).
		WillReturnError(errors.New("query error"))

	_, _, err := l.Failure(context.Background(), "a@b.c", []byte("h"))
	require.Error(t, err)
}

func TestNewPG_ZeroPolicyUsesDefault(t *testing.T) {
	l := NewPG(nil, Policy{})
	require.Equal(t, DefaultPolicy, l.policy)
}

func TestHashIP_Determinism(t *testing.T) {
	a := HashIP("1.2.3.4")
	b := HashIP("1.2.3.4")
	c := HashIP("5.6.7.8")
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.Len(t, a, 32)
}

func TestNop_NeverBlocks(t *testing.T) {
	var l Limiter = Nop{}
	ok, _, err := l.Allow(context.Background(), "k", nil)
	require.NoError(t, err)
	require.True(t, ok)
	blocked, _, err := l.Failure(context.Background(), "k", nil)
	require.NoError(t, err)
	require.False(t, blocked)
	require.NoError(t, l.Success(context.Background(), "k", nil))
}

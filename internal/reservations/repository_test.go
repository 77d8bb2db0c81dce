package reservations

import (
	"errors"
	"testing"
	"time"

	"cinetix/internal/shared/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// dryRunDB builds statements without a live connection so the SQL the
// repository emits can be asserted on.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=cinetix dbname=cinetix",
	}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db
}

func TestLockedByIDEmitsRowLock(t *testing.T) {
	db := dryRunDB(t)

	var reservation Reservation
	stmt := lockedByID(db, uuid.New()).Find(&reservation).Statement

	assert.Contains(t, stmt.SQL.String(), "FOR UPDATE")
}

func TestConfirmHeldGuardsStatus(t *testing.T) {
	db := dryRunDB(t)

	stmt := confirmHeldTx(db, uuid.New()).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, "UPDATE")
	assert.Contains(t, sql, "status = ")
	assert.Contains(t, stmt.Vars, StatusBooked)
	assert.Contains(t, stmt.Vars, StatusHeld)
}

func TestCancelActiveGuardsStatus(t *testing.T) {
	db := dryRunDB(t)

	now := time.Now()
	stmt := cancelActiveTx(db, uuid.New(), now).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, "status IN")
	assert.Contains(t, stmt.Vars, StatusCancelled)
	assert.Contains(t, stmt.Vars, StatusHeld)
	assert.Contains(t, stmt.Vars, StatusBooked)
}

func TestIsSerializationFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{
			"serialization failure",
			errors.New("ERROR: could not serialize access due to read/write dependencies among transactions (SQLSTATE 40001)"),
			true,
		},
		{
			"deadlock",
			errors.New("ERROR: deadlock detected (SQLSTATE 40P01)"),
			true,
		},
		{"duplicate key", gorm.ErrDuplicatedKey, false},
		{"plain error", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isSerializationFailure(tt.err))
		})
	}
}

func TestClaimWithRetrySucceedsAfterAbort(t *testing.T) {
	serializationErr := errors.New("ERROR: could not serialize access (SQLSTATE 40001)")

	calls := 0
	err := claimWithRetry(func() error {
		calls++
		if calls < 3 {
			return serializationErr
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestClaimWithRetryMapsExhaustionToConflict(t *testing.T) {
	serializationErr := errors.New("ERROR: could not serialize access (SQLSTATE 40001)")

	calls := 0
	err := claimWithRetry(func() error {
		calls++
		return serializationErr
	})

	assert.ErrorIs(t, err, errs.ErrSeatsAlreadyReserved)
	assert.Equal(t, claimAttempts, calls)
}

func TestClaimWithRetryPassesThroughOtherErrors(t *testing.T) {
	calls := 0
	err := claimWithRetry(func() error {
		calls++
		return errs.ErrSeatsAlreadyReserved
	})

	assert.ErrorIs(t, err, errs.ErrSeatsAlreadyReserved)
	assert.Equal(t, 1, calls, "non-serialization errors are not retried")
}

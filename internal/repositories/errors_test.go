package repositories

import (
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapPostgresError(t *testing.T) {
	assert.NoError(t, mapPostgresError(nil))

	plain := errors.New("connection reset")
	assert.Same(t, plain, mapPostgresError(plain))

	tests := []struct {
		name string
		err  *pgconn.PgError
		want error
	}{
		{
			name: "unique violation",
			err:  &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "idx_frameworks_code"},
			want: ErrDuplicate,
		},
		{
			name: "dangling reference",
			err: &pgconn.PgError{
				Code:   pgerrcode.ForeignKeyViolation,
				Detail: `Key (framework_id)=(x) is not present in table "frameworks".`,
			},
			want: ErrReferenceMissing,
		},
		{
			name: "parent still referenced",
			err: &pgconn.PgError{
				Code:   pgerrcode.ForeignKeyViolation,
				Detail: `Key (id)=(x) is still referenced from table "projects".`,
			},
			want: ErrStillReferenced,
		},
		{
			name: "numeric overflow",
			err:  &pgconn.PgError{Code: pgerrcode.NumericValueOutOfRange, Message: "numeric field overflow"},
			want: ErrConstraint,
		},
		{
			name: "check violation",
			err:  &pgconn.PgError{Code: pgerrcode.CheckViolation, ConstraintName: "projects_contract_amount_check"},
			want: ErrConstraint,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapPostgresError(tt.err)
			assert.ErrorIs(t, got, tt.want)

			var pgErr *pgconn.PgError
			assert.True(t, errors.As(got, &pgErr), "original error stays reachable")
		})
	}

	other := mapPostgresError(&pgconn.PgError{Code: pgerrcode.DeadlockDetected, Message: "deadlock detected"})
	assert.Contains(t, other.Error(), "deadlock detected")
}

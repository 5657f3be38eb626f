package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrDuplicate        = errors.New("duplicate record")
	ErrReferenceMissing = errors.New("referenced record does not exist")
	ErrStillReferenced  = errors.New("record is still referenced")
	ErrConstraint       = errors.New("constraint violation")
)

// mapPostgresError maps PostgreSQL errors onto the repository sentinels.
// Errors that are not from the server are returned unchanged.
func mapPostgresError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return fmt.Errorf("%w: %s: %w", ErrDuplicate, pgErr.ConstraintName, err)

	case pgerrcode.ForeignKeyViolation:
		// The same code is raised for a dangling insert/update and for deleting a parent row.
		if isStillReferenced(pgErr) {
			return fmt.Errorf("%w: %s: %w", ErrStillReferenced, pgErr.ConstraintName, err)
		}
		return fmt.Errorf("%w: %s: %w", ErrReferenceMissing, pgErr.ConstraintName, err)

	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation, pgerrcode.InvalidTextRepresentation,
		pgerrcode.NumericValueOutOfRange:
		return fmt.Errorf("%w: %s: %w", ErrConstraint, pgErr.ConstraintName, err)

	default:
		return fmt.Errorf("postgres error [%s]: %s: %w", pgErr.Code, pgErr.Message, err)
	}
}

// isStillReferenced reports whether a foreign key error came from deleting or
// updating the referenced row ("... is still referenced from table ...").
func isStillReferenced(pgErr *pgconn.PgError) bool {
	return strings.Contains(pgErr.Detail, "is still referenced from table")
}

package pgerrs_test

import (
	"errors"
	"fmt"
	"testing"

	"fulfillment/internal/adapters/out/postgres/pgerrs"
	"fulfillment/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		conflict bool
	}{
		{name: "serialization failure", err: &pgconn.PgError{Code: "40001"}, conflict: true},
		{name: "deadlock", err: &pgconn.PgError{Code: "40P01"}, conflict: true},
		{name: "unique violation", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), conflict: true},
		{name: "gorm duplicated key", err: gorm.ErrDuplicatedKey, conflict: true},
		{name: "foreign key violation", err: &pgconn.PgError{Code: "23503"}},
		{name: "plain error", err: errors.New("connection reset")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := pgerrs.Translate(tc.err, "order", "o-1")

			assert.Equal(t, tc.conflict, pgerrs.IsConflict(tc.err))
			if tc.conflict {
				require.ErrorIs(t, err, errs.ErrConcurrencyConflict)
				return
			}
			assert.Equal(t, tc.err, err)
		})
	}

	require.NoError(t, pgerrs.Translate(nil, "order", "o-1"))
}

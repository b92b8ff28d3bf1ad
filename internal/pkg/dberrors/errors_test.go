package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateKeyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "postgres unique", err: &pgconn.PgError{Code: "23505"}, want: true},
		{name: "postgres fk", err: &pgconn.PgError{Code: "23503"}, want: false},
		{name: "mysql duplicate wrapped", err: fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062}), want: true},
		{name: "plain", err: errors.New("boom"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDuplicateKeyError(tt.err))
		})
	}
}

func TestIsForeignKeyError(t *testing.T) {
	assert.True(t, IsForeignKeyError(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsForeignKeyError(&mysql.MySQLError{Number: 1451}))
	assert.False(t, IsForeignKeyError(&mysql.MySQLError{Number: 1062}))
	assert.False(t, IsForeignKeyError(errors.New("boom")))
}

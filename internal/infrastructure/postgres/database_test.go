package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "parameters kept",
			query: "SELECT id FROM invoices WHERE business_id = $1 AND id = $12",
			want:  "SELECT id FROM invoices WHERE business_id = $1 AND id = $12",
		},
		{
			name:  "string literal replaced",
			query: "SELECT * FROM customers WHERE email = 'ada@example.com'",
			want:  "SELECT * FROM customers WHERE email = '?'",
		},
		{
			name:  "escaped quote inside literal",
			query: "SELECT 1 FROM customers WHERE name = 'O''Brien'",
			want:  "SELECT ? FROM customers WHERE name = '?'",
		},
		{
			name:  "numeric literal replaced",
			query: "UPDATE products SET stock_quantity = 42.5",
			want:  "UPDATE products SET stock_quantity = ?",
		},
		{
			name:  "identifier digits kept",
			query: "SELECT col2 FROM t1",
			want:  "SELECT col2 FROM t1",
		},
		{
			name:  "whitespace collapsed",
			query: "SELECT id\n\t\tFROM invoices",
			want:  "SELECT id FROM invoices",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeQuery(tt.query))
		})
	}
}

func TestSanitizeQuery_Truncates(t *testing.T) {
	long := "SELECT "
	for len(long) < 400 {
		long += "column_name, "
	}
	got := sanitizeQuery(long)
	assert.Len(t, got, 259)
	assert.Equal(t, "...", got[256:])
}

func TestExtractSQLVerb(t *testing.T) {
	assert.Equal(t, "SELECT", extractSQLVerb("\n\t\tselect id from invoices"))
	assert.Equal(t, "INSERT", extractSQLVerb("INSERT INTO invoices VALUES ($1)"))
	assert.Equal(t, "COMMIT", extractSQLVerb("commit"))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%INV-1%", likePattern("INV-1"))
	assert.Equal(t, `%50\%\_off%`, likePattern("50%_off"))
}

func TestNullHelpers(t *testing.T) {
	assert.False(t, nullString("").Valid)
	assert.True(t, nullString("x").Valid)

	empty := ""
	assert.False(t, nullStringPtr(nil).Valid)
	assert.False(t, nullStringPtr(&empty).Valid)

	id := "acc-1"
	ns := nullStringPtr(&id)
	assert.Equal(t, "acc-1", *stringPtr(ns))
	assert.Nil(t, stringPtr(nullString("")))

	assert.False(t, optionalString(nil).Valid)
	assert.True(t, optionalString(&empty).Valid, "empty string clears a column")
}

func TestIsUniqueViolation(t *testing.T) {
	dup := &pq.Error{Code: "23505", Constraint: "business_profiles_user_id_key"}
	assert.True(t, isUniqueViolation(dup))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", dup)))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("23505")))
	assert.False(t, isUniqueViolation(nil))
}

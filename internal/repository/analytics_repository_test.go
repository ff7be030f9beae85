package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// The analytics queries bind date bounds as nullable strings so that an
// omitted ?from= or ?to= turns into SQL NULL instead of an invalid ''::date
// cast.
func TestNullDate(t *testing.T) {
	v := nullDate("2026-08-01")
	assert.True(t, v.Valid)
	assert.Equal(t, "2026-08-01", v.String)

	v = nullDate("")
	assert.False(t, v.Valid)
}

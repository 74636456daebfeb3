package shared

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidatePositiveQuantity(t *testing.T) {
	tests := []struct {
		qty     string
		wantErr bool
	}{
		{"1", false},
		{"0.0001", false},
		{"12.3400", false},
		{"99999999999999.9999", false},
		{"0", true},
		{"-1", true},
		{"0.00005", true},
		{"1.00001", true},
		{"100000000000000", true},
	}

	for _, tt := range tests {
		t.Run(tt.qty, func(t *testing.T) {
			err := ValidatePositiveQuantity(decimal.RequireFromString(tt.qty))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidQuantity)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestIsTransientPersistenceError(t *testing.T) {
	transient := NewTransientPersistenceError("save", assert.AnError)

	assert.True(t, IsTransientPersistenceError(transient))
	assert.True(t, IsPersistenceError(transient))
	assert.Same(t, transient, NewPersistenceError("retry", transient))
	assert.False(t, IsTransientPersistenceError(NewPersistenceError("save", assert.AnError)))
	assert.False(t, IsTransientPersistenceError(ErrNotFound))
}

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name   string `validate:"required,min=3"`
	Rating *int   `validate:"omitempty,gte=0,lte=5"`
}

func TestValidateStruct(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateStruct(sampleRequest{Name: "abc"}))
	assert.Error(t, v.ValidateStruct(sampleRequest{Name: ""}))

	six := 6
	err := v.ValidateStruct(sampleRequest{Name: "abc", Rating: &six})
	require.Error(t, err)

	formatted := FormatValidationErrors(err)
	assert.Contains(t, formatted["rating"], "less than or equal to 5")
}

func TestValidateUsername(t *testing.T) {
	ok, _ := ValidateUsername("viet_pham-01")
	assert.True(t, ok)

	ok, msg := ValidateUsername("ab")
	assert.False(t, ok)
	assert.Contains(t, msg, "at least 3")

	ok, msg = ValidateUsername("bad name!")
	assert.False(t, ok)
	assert.Contains(t, msg, "can only contain")
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello\x00 "))
}

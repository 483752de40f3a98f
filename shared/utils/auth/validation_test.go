package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("vendedor@acme.com"))
	assert.NoError(t, ValidateEmail("  vendedor@acme.com  "))

	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("missing@domain@twice"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("secret"))
	assert.Error(t, ValidatePassword("12345"))
	assert.Error(t, ValidatePassword(""))
}

func TestValidateRequired(t *testing.T) {
	assert.NoError(t, ValidateRequired("Acme", "name"))

	err := ValidateRequired("   ", "name")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestValidateLength(t *testing.T) {
	assert.NoError(t, ValidateLength("Acme Corp", "business name", 1, 200))

	err := ValidateLength("", "business name", 1, 200)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "at least 1")

	err = ValidateLength(strings.Repeat("x", 201), "business name", 1, 200)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "at most 200")

	// Surrounding whitespace does not count toward the bounds.
	assert.NoError(t, ValidateLength("  "+strings.Repeat("x", 200)+"  ", "business name", 1, 200))
}

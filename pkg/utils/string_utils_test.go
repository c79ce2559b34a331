package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRUT(t *testing.T) {
	assert.Equal(t, "12345678-5", NormalizeRUT(" 12.345.678-5 "))
	assert.Equal(t, "12345678-K", NormalizeRUT("12345678k"))
	assert.Equal(t, "", NormalizeRUT("  "))
}

func TestIsValidRUT(t *testing.T) {
	valid := []string{"12.345.678-5", "11.111.111-1", "12345678-5", "123456785"}
	for _, rut := range valid {
		assert.True(t, IsValidRUT(rut), rut)
	}
	invalid := []string{"12.345.678-9", "", "-5", "12a45678-5", "+1234567-8", "12345678-55"}
	for _, rut := range invalid {
		assert.False(t, IsValidRUT(rut), rut)
	}
}

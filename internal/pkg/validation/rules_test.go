package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name string  `validate:"required,notblank"`
	Link *string `validate:"omitempty,whatsapp"`
}

func TestRegister(t *testing.T) {
	v := validator.New()
	require.NoError(t, Register(v))

	good := "https://chat.whatsapp.com/AbCdEf123"
	assert.NoError(t, v.Struct(sample{Name: "Chess", Link: &good}))

	bad := "https://example.com/x"
	assert.Error(t, v.Struct(sample{Name: "Chess", Link: &bad}))
	assert.Error(t, v.Struct(sample{Name: "   "}))
}

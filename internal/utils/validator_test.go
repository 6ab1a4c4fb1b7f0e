// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerPayload struct {
	Username   string `validate:"required,username"`
	Email      string `validate:"required,email"`
	Password   string `validate:"required,strong_password"`
	TicketType string `validate:"omitempty,ticket_type"`
	Role       string `validate:"omitempty,role"`
}

func TestValidateStructAcceptsValidPayload(t *testing.T) {
	err := ValidateStruct(&registerPayload{
		Username:   "night_owl_9",
		Email:      "owl@example.com",
		Password:   "Str0ng!pass",
		TicketType: "group",
		Role:       "promoter",
	})
	assert.NoError(t, err)
}

func TestValidateStructWeakPassword(t *testing.T) {
	err := ValidateStruct(&registerPayload{
		Username: "night_owl",
		Email:    "owl@example.com",
		Password: "alllowercase",
	})
	require.Error(t, err)

	errs := GetValidationErrors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, "password", errs[0].Field)
	assert.Equal(t, "strong_password", errs[0].Tag)
}

func TestValidateStructBadUsername(t *testing.T) {
	err := ValidateStruct(&registerPayload{
		Username: "no spaces allowed",
		Email:    "owl@example.com",
		Password: "Str0ng!pass",
	})
	require.Error(t, err)

	errs := GetValidationErrors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, "username", errs[0].Tag)
}

func TestValidateStructUnknownTicketTypeAndRole(t *testing.T) {
	err := ValidateStruct(&registerPayload{
		Username:   "night_owl",
		Email:      "owl@example.com",
		Password:   "Str0ng!pass",
		TicketType: "vip",
		Role:       "superuser",
	})
	require.Error(t, err)

	errs := GetValidationErrors(err)
	tags := make(map[string]bool)
	for _, e := range errs {
		tags[e.Tag] = true
	}
	assert.True(t, tags["ticket_type"])
	assert.True(t, tags["role"])
}

func TestGetValidationErrorsOnNil(t *testing.T) {
	assert.Empty(t, GetValidationErrors(nil))
}

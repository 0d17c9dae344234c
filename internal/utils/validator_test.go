// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registrationInput struct {
	Username string `validate:"required,username"`
	Password string `validate:"required,strong_password"`
	Phone    string `validate:"omitempty,phone"`
}

func TestStrongPassword(t *testing.T) {
	cases := []struct {
		password string
		ok       bool
	}{
		{"Abcdef12", true},
		{"abcdef12", false}, // no uppercase
		{"ABCDEF12", false}, // no lowercase
		{"Abcdefgh", false}, // no number
		{"Ab1", false},      // too short
	}

	for _, tc := range cases {
		err := ValidateStruct(&registrationInput{Username: "ravi_k", Password: tc.password})
		if tc.ok {
			assert.NoError(t, err, "password %q", tc.password)
		} else {
			assert.Error(t, err, "password %q", tc.password)
		}
	}
}

func TestUsernameRules(t *testing.T) {
	valid := []string{"ravi", "ravi_kumar", "farmer42"}
	invalid := []string{"ab", "has space", "has-dash", "ïllegal"}

	for _, u := range valid {
		assert.NoError(t, ValidateStruct(&registrationInput{Username: u, Password: "Abcdef12"}), "username %q", u)
	}
	for _, u := range invalid {
		assert.Error(t, ValidateStruct(&registrationInput{Username: u, Password: "Abcdef12"}), "username %q", u)
	}
}

func TestPhoneRules(t *testing.T) {
	valid := []string{"", "+919876543210", "9876543210"}
	invalid := []string{"12ab34", "+91 98765", "123"}

	for _, p := range valid {
		assert.NoError(t, ValidateStruct(&registrationInput{Username: "ravi", Password: "Abcdef12", Phone: p}), "phone %q", p)
	}
	for _, p := range invalid {
		assert.Error(t, ValidateStruct(&registrationInput{Username: "ravi", Password: "Abcdef12", Phone: p}), "phone %q", p)
	}
}

func TestGetValidationErrors(t *testing.T) {
	err := ValidateStruct(&registrationInput{})
	require.Error(t, err)

	errors := GetValidationErrors(err)
	require.Len(t, errors, 2)
	assert.Equal(t, "username", errors[0].Field)
	assert.Equal(t, "required", errors[0].Tag)
}

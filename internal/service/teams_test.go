package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(v string) *string { return &v }

func TestCreateTeamInputValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   CreateTeamInput
		wantErr bool
	}{
		{name: "valid", input: CreateTeamInput{Name: "Ball Hogs"}},
		{name: "valid with logo", input: CreateTeamInput{Name: "Ball Hogs", LogoURL: strPtr("https://cdn.example/logo.png")}},
		{name: "missing name", input: CreateTeamInput{}, wantErr: true},
		{name: "bad logo url", input: CreateTeamInput{Name: "Ball Hogs", LogoURL: strPtr("not a url")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateInput(tt.input)
			if tt.wantErr {
				require.NotNil(t, err)
				assert.Equal(t, 400, err.Status)
			} else {
				assert.Nil(t, err)
			}
		})
	}
}

func TestCreatePlayerInputValidation(t *testing.T) {
	jersey := func(n int) *int { return &n }

	tests := []struct {
		name    string
		input   CreatePlayerInput
		wantErr bool
	}{
		{name: "valid", input: CreatePlayerInput{FirstName: "Sue", LastName: "Bird"}},
		{name: "valid full", input: CreatePlayerInput{FirstName: "Sue", LastName: "Bird", JerseyNumber: jersey(10), Position: strPtr("PG")}},
		{name: "missing last name", input: CreatePlayerInput{FirstName: "Sue"}, wantErr: true},
		{name: "jersey too high", input: CreatePlayerInput{FirstName: "Sue", LastName: "Bird", JerseyNumber: jersey(100)}, wantErr: true},
		{name: "negative jersey", input: CreatePlayerInput{FirstName: "Sue", LastName: "Bird", JerseyNumber: jersey(-1)}, wantErr: true},
		{name: "bad position", input: CreatePlayerInput{FirstName: "Sue", LastName: "Bird", Position: strPtr("GK")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateInput(tt.input)
			if tt.wantErr {
				require.NotNil(t, err)
			} else {
				assert.Nil(t, err)
			}
		})
	}
}

func TestValidationErrorsUseJSONNames(t *testing.T) {
	err := validateInput(CreatePlayerInput{FirstName: "Sue"})
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "last_name")
}

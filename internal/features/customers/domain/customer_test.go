package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := map[string]string{
		"099 123-456":      "099123456",
		"+598 99 123 456":  "+59899123456",
		"  (099) 123.456 ": "099123456",
		"abc":              "",
		"1+2":              "12",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizePhone(in), in)
	}
}

func TestNewCustomer(t *testing.T) {
	c, err := NewCustomer(Contact{
		Name:   " Ana Pérez ",
		Phone:  "099 123 456",
		Email:  "ana@example.com",
		Device: &Device{Brand: "Lenovo", Model: "ThinkPad T480"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Ana Pérez", c.Name)
	assert.Equal(t, "099123456", c.Phone)
	assert.Equal(t, "ana@example.com", c.Email)
	assert.Equal(t, []Device{{Brand: "Lenovo", Model: "ThinkPad T480"}}, c.Devices)
}

func TestNewCustomer_Validation(t *testing.T) {
	_, err := NewCustomer(Contact{Name: "Ana"})
	assert.ErrorIs(t, err, ErrPhoneRequired)

	_, err = NewCustomer(Contact{Phone: "099123456"})
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestCustomer_Merge(t *testing.T) {
	c, err := NewCustomer(Contact{Name: "Ana", Phone: "099123456", Device: &Device{Brand: "HP", Model: "Pavilion 15"}})
	require.NoError(t, err)

	assert.False(t, c.Merge(Contact{Phone: "099123456"}), "empty fields never overwrite")
	assert.False(t, c.Merge(Contact{Device: &Device{Brand: "hp", Model: "PAVILION 15", Serial: "X1"}}), "same brand and model is deduplicated")

	assert.True(t, c.Merge(Contact{Address: "Av. Italia 1234", Device: &Device{Brand: "Apple", Model: "iPhone 12"}}))
	assert.Equal(t, "Av. Italia 1234", c.Address)
	assert.Equal(t, "Ana", c.Name)
	require.Len(t, c.Devices, 2)
	assert.Equal(t, "iPhone 12", c.Devices[1].Model)
}

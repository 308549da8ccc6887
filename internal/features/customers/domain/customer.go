package domain

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

var (
	// ErrCustomerNotFound is returned when the customer does not exist.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrPhoneRequired is returned when a contact has no usable phone number.
	ErrPhoneRequired = errors.New("phone is required")
	// ErrNameRequired is returned when creating a customer without a name.
	ErrNameRequired = errors.New("name is required")
)

// Device is a piece of equipment a customer brought in.
type Device struct {
	Brand  string `json:"brand"`
	Model  string `json:"model"`
	Serial string `json:"serial,omitempty"`
}

// Customer is a person the shop has dealt with. Customers are created on
// their first repair request or purchase and never deleted automatically.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	WhatsApp  string    `json:"whatsapp,omitempty"`
	Address   string    `json:"address,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Devices   []Device  `json:"devices"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Contact is the contact data captured at a counter or storefront interaction.
type Contact struct {
	Name     string  `json:"name"`
	Phone    string  `json:"phone"`
	Email    string  `json:"email,omitempty"`
	WhatsApp string  `json:"whatsapp,omitempty"`
	Address  string  `json:"address,omitempty"`
	Notes    string  `json:"notes,omitempty"`
	Device   *Device `json:"device,omitempty"`
}

// NormalizePhone keeps digits and a leading plus sign, so that "099 123-456"
// and "099123456" identify the same customer.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(phone) {
		if unicode.IsDigit(r) || (i == 0 && r == '+') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NewCustomer creates a customer from a first contact.
func NewCustomer(contact Contact) (*Customer, error) {
	phone := NormalizePhone(contact.Phone)
	if phone == "" {
		return nil, ErrPhoneRequired
	}
	name := strings.TrimSpace(contact.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	now := time.Now().UTC()
	c := &Customer{
		ID:        uuid.NewString(),
		Name:      name,
		Phone:     phone,
		Devices:   []Device{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.Merge(contact)
	return c, nil
}

// Merge copies the non-empty fields of contact into the customer and records
// its device unless one with the same brand and model is already known.
// It reports whether anything changed.
func (c *Customer) Merge(contact Contact) bool {
	changed := false
	set := func(dst *string, v string) {
		v = strings.TrimSpace(v)
		if v != "" && v != *dst {
			*dst = v
			changed = true
		}
	}
	set(&c.Name, contact.Name)
	set(&c.Email, contact.Email)
	set(&c.WhatsApp, contact.WhatsApp)
	set(&c.Address, contact.Address)
	set(&c.Notes, contact.Notes)

	if d := contact.Device; d != nil && (strings.TrimSpace(d.Brand) != "" || strings.TrimSpace(d.Model) != "") {
		if c.AddDevice(*d) {
			changed = true
		}
	}
	if changed {
		c.UpdatedAt = time.Now().UTC()
	}
	return changed
}

// AddDevice appends d unless the same brand and model is already recorded.
func (c *Customer) AddDevice(d Device) bool {
	d.Brand = strings.TrimSpace(d.Brand)
	d.Model = strings.TrimSpace(d.Model)
	d.Serial = strings.TrimSpace(d.Serial)
	for _, known := range c.Devices {
		if strings.EqualFold(known.Brand, d.Brand) && strings.EqualFold(known.Model, d.Model) {
			return false
		}
	}
	c.Devices = append(c.Devices, d)
	return true
}

// CustomerFilter narrows a customer listing.
type CustomerFilter struct {
	// Query matches name or phone, case-insensitively.
	Query string
	// Limit caps the number of results.
	Limit int
}

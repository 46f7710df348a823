package domain

import (
	"strings"
	"time"
)

// Address is a snapshot captured at order time. Rows are never updated
// after creation; later edits to a customer's address book do not touch
// historical orders.
type Address struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName,omitempty"`
	Address    string    `json:"address"`
	Apartment  string    `json:"apartment,omitempty"`
	City       string    `json:"city"`
	State      string    `json:"state,omitempty"`
	PostalCode string    `json:"postalCode,omitempty"`
	Country    string    `json:"country"`
	Phone      string    `json:"phone,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AddressInput carries the fields a shopper submits at checkout. Email is
// not persisted on the address row; it only feeds contact resolution.
type AddressInput struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Address    string `json:"address"`
	Apartment  string `json:"apartment"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
}

// Validate checks the fields a shipping address must carry.
func (a AddressInput) Validate() error {
	if strings.TrimSpace(a.FirstName) == "" ||
		strings.TrimSpace(a.Address) == "" ||
		strings.TrimSpace(a.City) == "" ||
		strings.TrimSpace(a.Country) == "" {
		return ErrIncompleteAddress
	}
	return nil
}

// MergedWith fills any blank billing field from the shipping input,
// mirroring how the storefront defaults billing details.
func (a AddressInput) MergedWith(shipping AddressInput) AddressInput {
	merged := a
	if merged.FirstName == "" {
		merged.FirstName = shipping.FirstName
	}
	if merged.LastName == "" {
		merged.LastName = shipping.LastName
	}
	if merged.Address == "" {
		merged.Address = shipping.Address
	}
	if merged.Apartment == "" {
		merged.Apartment = shipping.Apartment
	}
	if merged.City == "" {
		merged.City = shipping.City
	}
	if merged.State == "" {
		merged.State = shipping.State
	}
	if merged.PostalCode == "" {
		merged.PostalCode = shipping.PostalCode
	}
	if merged.Country == "" {
		merged.Country = shipping.Country
	}
	if merged.Phone == "" {
		merged.Phone = shipping.Phone
	}
	return merged
}

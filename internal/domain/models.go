package domain

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no customer or date entry matches a key.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when inserting a customer whose code already exists.
	ErrConflict = errors.New("already exists")
	// ErrValidation marks input rejected before reaching the store.
	ErrValidation = errors.New("validation failed")
)

// StatusAll is the filter value that matches every status.
const StatusAll = "todos"

// Statuses lists the customer types offered by the forms. Status is free text,
// so stored values outside this list are still accepted.
var Statuses = []string{"rojo", "moderado", "inactivo", "activo", "especial"}

// DefaultStatus is assigned to new customers created without a status.
const DefaultStatus = "especial"

// Customer is a row of the customers collection as stored by the backend.
type Customer struct {
	Code          int    `json:"code" bson:"code" csv:"code"`
	Description   string `json:"description" bson:"description" csv:"description"`
	Status        string `json:"status" bson:"status" csv:"status"`
	ReferenceDate string `json:"referenceDate" bson:"reference_date" csv:"reference_date"`
	Phone         string `json:"phone" bson:"phone" csv:"phone"`
}

// CustomerUpdate carries the fields to change on an existing customer.
// Nil fields are left untouched.
type CustomerUpdate struct {
	Description   *string `json:"description,omitempty"`
	Status        *string `json:"status,omitempty"`
	ReferenceDate *string `json:"referenceDate,omitempty"`
	Phone         *string `json:"phone,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u CustomerUpdate) Empty() bool {
	return u.Description == nil && u.Status == nil && u.ReferenceDate == nil && u.Phone == nil
}

// Apply returns c with the non-nil fields of u written over it.
func (u CustomerUpdate) Apply(c Customer) Customer {
	if u.Description != nil {
		c.Description = *u.Description
	}
	if u.Status != nil {
		c.Status = *u.Status
	}
	if u.ReferenceDate != nil {
		c.ReferenceDate = *u.ReferenceDate
	}
	if u.Phone != nil {
		c.Phone = *u.Phone
	}
	return c
}

// DateEntry is one date recorded against a customer.
type DateEntry struct {
	ID           string    `json:"id" bson:"_id"`
	CustomerCode int       `json:"customerCode" bson:"customer_code"`
	Date         string    `json:"date" bson:"date"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
}

// Enriched is a customer plus the due-date fields derived from its reference date.
// It is never persisted.
type Enriched struct {
	Customer
	DueDate time.Time `json:"dueDate"`
	// RemainingDays is -1 once the due date has passed, whatever the delay.
	RemainingDays int `json:"remainingDays"`
	// DaysLeft is the signed day count to the due date; negative when overdue.
	DaysLeft int `json:"daysLeft"`
	// DateKnown is false when the reference date could not be parsed and the
	// due date was computed from the current time instead.
	DateKnown bool `json:"dateKnown"`
}

// Overdue reports whether the due date is already behind us.
func (e Enriched) Overdue() bool {
	return e.RemainingDays < 0
}

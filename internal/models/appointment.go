package models

import "time"

// Appointment statuses as stored. Upcoming queries only consider
// Scheduled and Confirmed.
const (
	AppointmentScheduled = "Scheduled"
	AppointmentConfirmed = "Confirmed"
	AppointmentCompleted = "Completed"
	AppointmentCancelled = "Cancelled"
)

// Appointment represents a scheduled patient appointment
type Appointment struct {
	ID              int64     `json:"appointment_id"`
	PatientID       int64     `json:"patient_id"`
	AppointmentDate string    `json:"appointment_date"`
	AppointmentTime string    `json:"appointment_time"`
	Purpose         string    `json:"purpose"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes,omitempty"`
	FirstName       string    `json:"first_name,omitempty"`
	LastName        string    `json:"last_name,omitempty"`
	ContactNumber   string    `json:"contact_number,omitempty"`
	CreatedBy       int64     `json:"created_by,omitempty"`
	CreatedByName   string    `json:"created_by_name,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreateAppointmentRequest represents the request body for scheduling
type CreateAppointmentRequest struct {
	PatientID       int64  `json:"patient_id"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
	Purpose         string `json:"purpose"`
	Status          string `json:"status,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// UpdateAppointmentRequest represents a partial appointment update.
// Nil fields are left unchanged.
type UpdateAppointmentRequest struct {
	AppointmentID   int64   `json:"appointment_id"`
	Status          *string `json:"status,omitempty"`
	AppointmentDate *string `json:"appointment_date,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// AppointmentFilter narrows appointment list queries
type AppointmentFilter struct {
	Status   string
	DateFrom string
	DateTo   string
}

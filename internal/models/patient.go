package models

import "time"

// Patient represents a patient record. PatientNumber is a display-only
// identifier in the form CLIN-YYYYMMDD-NNNN; storage identity is the row id.
type Patient struct {
	ID                    int64     `json:"patient_id"`
	PatientNumber         string    `json:"patient_number"`
	FirstName             string    `json:"first_name"`
	LastName              string    `json:"last_name"`
	DateOfBirth           string    `json:"date_of_birth"`
	Gender                string    `json:"gender"`
	Phone                 string    `json:"phone,omitempty"`
	Email                 string    `json:"email,omitempty"`
	Address               string    `json:"address,omitempty"`
	EmergencyContactName  string    `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string    `json:"emergency_contact_phone,omitempty"`
	BloodType             string    `json:"blood_type,omitempty"`
	Allergies             string    `json:"allergies,omitempty"`
	MedicalHistory        string    `json:"medical_history,omitempty"`
	IsActive              bool      `json:"is_active"`
	CreatedBy             int64     `json:"created_by,omitempty"`
	CreatedByName         string    `json:"created_by_name,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	TotalVisits           int64     `json:"total_visits"`
	LastVisitDate         *string   `json:"last_visit_date"`
}

// PatientSummary is the row shape returned by list and search
type PatientSummary struct {
	ID            int64     `json:"patient_id"`
	PatientNumber string    `json:"patient_number"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	DateOfBirth   string    `json:"date_of_birth"`
	Age           int64     `json:"age"`
	Gender        string    `json:"gender"`
	Phone         string    `json:"phone,omitempty"`
	Email         string    `json:"email,omitempty"`
	Address       string    `json:"address,omitempty"`
	BloodType     string    `json:"blood_type,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	TotalVisits   int64     `json:"total_visits"`
	LastVisitDate *string   `json:"last_visit_date"`
}

// CreatePatientRequest represents the request body for patient registration.
// Diagnosis and prescription, when present, produce an initial visit in the
// same transaction as the patient row.
type CreatePatientRequest struct {
	FirstName             string `json:"first_name"`
	LastName              string `json:"last_name"`
	DateOfBirth           string `json:"date_of_birth"`
	Gender                string `json:"gender"`
	Phone                 string `json:"phone,omitempty"`
	ContactNumber         string `json:"contact_number,omitempty"` // legacy alias for phone
	Email                 string `json:"email,omitempty"`
	Address               string `json:"address,omitempty"`
	EmergencyContact      string `json:"emergency_contact,omitempty"` // legacy alias
	EmergencyContactName  string `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string `json:"emergency_contact_phone,omitempty"`
	BloodType             string `json:"blood_type,omitempty"`
	Allergies             string `json:"allergies,omitempty"`
	MedicalHistory        string `json:"medical_history,omitempty"`
	Diagnosis             string `json:"diagnosis,omitempty"`
	Prescription          string `json:"prescription,omitempty"`
	Notes                 string `json:"notes,omitempty"`
}

// UpdatePatientRequest represents the request body for a patient update
type UpdatePatientRequest struct {
	PatientID             int64  `json:"patient_id"`
	FirstName             string `json:"first_name"`
	LastName              string `json:"last_name"`
	DateOfBirth           string `json:"date_of_birth"`
	Gender                string `json:"gender"`
	Phone                 string `json:"phone,omitempty"`
	ContactNumber         string `json:"contact_number,omitempty"`
	Email                 string `json:"email,omitempty"`
	Address               string `json:"address,omitempty"`
	EmergencyContact      string `json:"emergency_contact,omitempty"`
	EmergencyContactName  string `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string `json:"emergency_contact_phone,omitempty"`
	BloodType             string `json:"blood_type,omitempty"`
	Allergies             string `json:"allergies,omitempty"`
	MedicalHistory        string `json:"medical_history,omitempty"`
}

// Pagination describes the page window of a list response
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

package models

import "time"

// Visit represents a clinical encounter for a patient
type Visit struct {
	ID            int64     `json:"visit_id"`
	PatientID     int64     `json:"patient_id"`
	VisitDate     string    `json:"visit_date"`
	VisitTime     string    `json:"visit_time"`
	Height        *float64  `json:"height"`
	Weight        *float64  `json:"weight"`
	BloodPressure string    `json:"blood_pressure,omitempty"`
	Temperature   *float64  `json:"temperature"`
	Pulse         *int64    `json:"pulse"`
	Symptoms      string    `json:"symptoms,omitempty"`
	Diagnosis     string    `json:"diagnosis,omitempty"`
	Prescription  string    `json:"prescription,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedBy     int64     `json:"created_by,omitempty"`
	CreatedByName string    `json:"created_by_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateVisitRequest represents the request body for recording a visit
type CreateVisitRequest struct {
	PatientID     int64    `json:"patient_id"`
	Diagnosis     string   `json:"diagnosis"`
	Prescription  string   `json:"prescription,omitempty"`
	Notes         string   `json:"notes,omitempty"`
	Symptoms      string   `json:"symptoms,omitempty"`
	VisitDate     string   `json:"visit_date,omitempty"`
	VisitTime     string   `json:"visit_time,omitempty"`
	Height        *float64 `json:"height,omitempty"`
	Weight        *float64 `json:"weight,omitempty"`
	BloodPressure string   `json:"blood_pressure,omitempty"`
	Temperature   *float64 `json:"temperature,omitempty"`
	Pulse         *int64   `json:"pulse,omitempty"`
}

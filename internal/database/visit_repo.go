package database

import (
	"database/sql"
	"errors"
	"time"

	"clinik-backend/internal/models"
)

var ErrVisitNotFound = errors.New("visit not found")

// VisitRepo handles visit database operations
type VisitRepo struct{}

// NewVisitRepo creates a new visit repository
func NewVisitRepo() *VisitRepo {
	return &VisitRepo{}
}

// Create records a visit for an existing patient
// stampVisit fills in the visit date and time when the caller did not
// supply them. Clock values are UTC to match CURRENT_TIMESTAMP columns.
func stampVisit(visit *models.Visit) {
	now := time.Now().UTC()
	if visit.VisitDate == "" {
		visit.VisitDate = now.Format("2006-01-02")
	}
	if visit.VisitTime == "" {
		visit.VisitTime = now.Format("15:04:05")
	}
}

func (r *VisitRepo) Create(visit *models.Visit) error {
	stampVisit(visit)
	result, err := DB.Exec(`
		INSERT INTO visits (
			patient_id, visit_date, visit_time, height, weight, blood_pressure,
			temperature, pulse, symptoms, diagnosis, prescription, notes, created_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, visit.PatientID, visit.VisitDate, visit.VisitTime, visit.Height, visit.Weight,
		visit.BloodPressure, visit.Temperature, visit.Pulse, visit.Symptoms,
		visit.Diagnosis, visit.Prescription, visit.Notes, visit.CreatedBy)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	visit.ID = id

	return nil
}

// HistoryForPatient retrieves all visits for a patient, newest first
func (r *VisitRepo) HistoryForPatient(patientID int64) ([]*models.Visit, error) {
	rows, err := DB.Query(`
		SELECT v.visit_id, v.patient_id, v.visit_date, v.visit_time,
		       v.height, v.weight, v.blood_pressure, v.temperature, v.pulse,
		       v.symptoms, v.diagnosis, v.prescription, v.notes,
		       v.created_by, u.full_name, v.created_at
		FROM visits v
		LEFT JOIN users u ON v.created_by = u.user_id
		WHERE v.patient_id = ?
		ORDER BY v.visit_date DESC, v.visit_time DESC
	`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visits []*models.Visit
	for rows.Next() {
		v := &models.Visit{}
		var createdByName sql.NullString

		err := rows.Scan(
			&v.ID, &v.PatientID, &v.VisitDate, &v.VisitTime,
			&v.Height, &v.Weight, &v.BloodPressure, &v.Temperature, &v.Pulse,
			&v.Symptoms, &v.Diagnosis, &v.Prescription, &v.Notes,
			&v.CreatedBy, &createdByName, &v.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if createdByName.Valid {
			v.CreatedByName = createdByName.String
		}

		visits = append(visits, v)
	}

	return visits, rows.Err()
}

// CountForPatient returns the number of visits recorded for a patient
func (r *VisitRepo) CountForPatient(patientID int64) (int64, error) {
	var count int64
	err := DB.QueryRow("SELECT COUNT(*) FROM visits WHERE patient_id = ?", patientID).Scan(&count)
	return count, err
}

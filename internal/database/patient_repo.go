package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"clinik-backend/internal/models"
)

var ErrPatientNotFound = errors.New("patient not found")

// patientNumberPrefix is the display identifier prefix for new patients
const patientNumberPrefix = "CLIN"

// PatientRepo handles patient database operations
type PatientRepo struct{}

// NewPatientRepo creates a new patient repository
func NewPatientRepo() *PatientRepo {
	return &PatientRepo{}
}

// formatPatientNumber builds the display identifier for the n-th patient
// created on the given day (1-based), zero-padded to four digits.
func formatPatientNumber(day time.Time, n int64) string {
	return fmt.Sprintf("%s-%s-%04d", patientNumberPrefix, day.Format("20060102"), n)
}

// Create registers a patient inside a single transaction: it counts the
// patients already created today, derives the next display identifier from
// that count, inserts the patient row, and, when initialVisit is non-nil,
// inserts the first visit referencing the new row id. Any failure rolls the
// whole transaction back, so a patient row never persists without its
// initial visit or vice versa.
//
// The count-then-insert sequence is not serialized against concurrent
// creations: two transactions counting before either commits can derive the
// same patient number. The number is a display string only; row identity is
// the autoincrement id.
func (r *PatientRepo) Create(patient *models.Patient, initialVisit *models.Visit) error {
	tx, err := DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// CURRENT_TIMESTAMP defaults are UTC, so the day window and the
	// formatted date must both use UTC.
	today := time.Now().UTC()

	var countToday int64
	err = tx.QueryRow(
		"SELECT COUNT(*) FROM patients WHERE date(created_at) = date('now')",
	).Scan(&countToday)
	if err != nil {
		return err
	}

	patient.PatientNumber = formatPatientNumber(today, countToday+1)
	patient.IsActive = true

	result, err := tx.Exec(`
		INSERT INTO patients (
			patient_number, first_name, last_name, date_of_birth, gender,
			phone, email, address, emergency_contact_name, emergency_contact_phone,
			blood_type, allergies, medical_history, created_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, patient.PatientNumber, patient.FirstName, patient.LastName, patient.DateOfBirth,
		patient.Gender, patient.Phone, patient.Email, patient.Address,
		patient.EmergencyContactName, patient.EmergencyContactPhone,
		patient.BloodType, patient.Allergies, patient.MedicalHistory, patient.CreatedBy)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	patient.ID = id

	if initialVisit != nil {
		initialVisit.PatientID = id
		stampVisit(initialVisit)
		result, err = tx.Exec(`
			INSERT INTO visits (patient_id, visit_date, visit_time, diagnosis, prescription, notes, created_by)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, initialVisit.PatientID, initialVisit.VisitDate, initialVisit.VisitTime,
			initialVisit.Diagnosis, initialVisit.Prescription, initialVisit.Notes, initialVisit.CreatedBy)
		if err != nil {
			return err
		}
		visitID, err := result.LastInsertId()
		if err != nil {
			return err
		}
		initialVisit.ID = visitID
	}

	return tx.Commit()
}

// CountCreatedToday returns the number of patient rows created on the
// current (UTC) calendar day, active or not.
func (r *PatientRepo) CountCreatedToday() (int64, error) {
	var count int64
	err := DB.QueryRow("SELECT COUNT(*) FROM patients WHERE date(created_at) = date('now')").Scan(&count)
	return count, err
}

// GetByID retrieves an active patient with creator name and visit aggregates
func (r *PatientRepo) GetByID(id int64) (*models.Patient, error) {
	patient := &models.Patient{}
	var createdByName sql.NullString
	var lastVisit sql.NullString

	err := DB.QueryRow(`
		SELECT p.patient_id, p.patient_number, p.first_name, p.last_name,
		       p.date_of_birth, p.gender, p.phone, p.email, p.address,
		       p.emergency_contact_name, p.emergency_contact_phone,
		       p.blood_type, p.allergies, p.medical_history,
		       p.is_active, p.created_by, p.created_at,
		       u.full_name,
		       (SELECT COUNT(*) FROM visits WHERE patient_id = p.patient_id),
		       (SELECT MAX(visit_date) FROM visits WHERE patient_id = p.patient_id)
		FROM patients p
		LEFT JOIN users u ON p.created_by = u.user_id
		WHERE p.patient_id = ? AND p.is_active = 1
	`, id).Scan(
		&patient.ID, &patient.PatientNumber, &patient.FirstName, &patient.LastName,
		&patient.DateOfBirth, &patient.Gender, &patient.Phone, &patient.Email, &patient.Address,
		&patient.EmergencyContactName, &patient.EmergencyContactPhone,
		&patient.BloodType, &patient.Allergies, &patient.MedicalHistory,
		&patient.IsActive, &patient.CreatedBy, &patient.CreatedAt,
		&createdByName, &patient.TotalVisits, &lastVisit,
	)
	if err == sql.ErrNoRows {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}

	if createdByName.Valid {
		patient.CreatedByName = createdByName.String
	}
	if lastVisit.Valid {
		patient.LastVisitDate = &lastVisit.String
	}

	return patient, nil
}

// List retrieves active patients newest first with visit aggregates
func (r *PatientRepo) List(limit, offset int) ([]*models.PatientSummary, int64, error) {
	var total int64
	if err := DB.QueryRow("SELECT COUNT(*) FROM patients WHERE is_active = 1").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := DB.Query(`
		SELECT p.patient_id, p.patient_number, p.first_name, p.last_name,
		       p.date_of_birth,
		       CAST((julianday('now') - julianday(p.date_of_birth)) / 365.25 AS INTEGER),
		       p.gender, p.phone, p.email, p.address, p.blood_type, p.created_at,
		       (SELECT COUNT(*) FROM visits WHERE patient_id = p.patient_id),
		       (SELECT MAX(visit_date) FROM visits WHERE patient_id = p.patient_id)
		FROM patients p
		WHERE p.is_active = 1
		ORDER BY p.created_at DESC, p.patient_id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	patients, err := scanPatientSummaries(rows)
	if err != nil {
		return nil, 0, err
	}

	return patients, total, nil
}

// Search finds active patients by name, patient number, phone or email
func (r *PatientRepo) Search(query string) ([]*models.PatientSummary, error) {
	term := "%" + query + "%"

	rows, err := DB.Query(`
		SELECT p.patient_id, p.patient_number, p.first_name, p.last_name,
		       p.date_of_birth,
		       CAST((julianday('now') - julianday(p.date_of_birth)) / 365.25 AS INTEGER),
		       p.gender, p.phone, p.email, p.address, p.blood_type, p.created_at,
		       (SELECT COUNT(*) FROM visits WHERE patient_id = p.patient_id),
		       (SELECT MAX(visit_date) FROM visits WHERE patient_id = p.patient_id)
		FROM patients p
		WHERE p.is_active = 1
		AND (
			p.first_name LIKE ?
			OR p.last_name LIKE ?
			OR p.patient_number LIKE ?
			OR p.phone LIKE ?
			OR p.email LIKE ?
			OR (p.first_name || ' ' || p.last_name) LIKE ?
		)
		ORDER BY p.created_at DESC, p.patient_id DESC
		LIMIT 50
	`, term, term, term, term, term, term)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPatientSummaries(rows)
}

// Update rewrites a patient's demographic fields
func (r *PatientRepo) Update(patient *models.Patient) error {
	exists, err := r.ExistsActive(patient.ID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrPatientNotFound
	}

	_, err = DB.Exec(`
		UPDATE patients SET
			first_name = ?,
			last_name = ?,
			date_of_birth = ?,
			gender = ?,
			phone = ?,
			email = ?,
			address = ?,
			emergency_contact_name = ?,
			emergency_contact_phone = ?,
			blood_type = ?,
			allergies = ?,
			medical_history = ?
		WHERE patient_id = ?
	`, patient.FirstName, patient.LastName, patient.DateOfBirth, patient.Gender,
		patient.Phone, patient.Email, patient.Address,
		patient.EmergencyContactName, patient.EmergencyContactPhone,
		patient.BloodType, patient.Allergies, patient.MedicalHistory, patient.ID)
	return err
}

// SoftDelete marks a patient inactive. The row and its visits remain.
func (r *PatientRepo) SoftDelete(id int64) error {
	result, err := DB.Exec("UPDATE patients SET is_active = 0 WHERE patient_id = ? AND is_active = 1", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrPatientNotFound
	}

	return nil
}

// ExistsActive checks whether an active patient row exists
func (r *PatientRepo) ExistsActive(id int64) (bool, error) {
	var count int
	err := DB.QueryRow("SELECT COUNT(*) FROM patients WHERE patient_id = ? AND is_active = 1", id).Scan(&count)
	return count > 0, err
}

func scanPatientSummaries(rows *sql.Rows) ([]*models.PatientSummary, error) {
	var patients []*models.PatientSummary
	for rows.Next() {
		p := &models.PatientSummary{}
		var lastVisit sql.NullString

		err := rows.Scan(
			&p.ID, &p.PatientNumber, &p.FirstName, &p.LastName,
			&p.DateOfBirth, &p.Age, &p.Gender, &p.Phone, &p.Email,
			&p.Address, &p.BloodType, &p.CreatedAt,
			&p.TotalVisits, &lastVisit,
		)
		if err != nil {
			return nil, err
		}

		if lastVisit.Valid {
			p.LastVisitDate = &lastVisit.String
		}

		patients = append(patients, p)
	}

	return patients, rows.Err()
}

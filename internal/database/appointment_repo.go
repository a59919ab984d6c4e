package database

import (
	"database/sql"
	"errors"
	"time"

	"clinik-backend/internal/models"
)

var ErrAppointmentNotFound = errors.New("appointment not found")

// AppointmentRepo handles appointment database operations
type AppointmentRepo struct{}

// NewAppointmentRepo creates a new appointment repository
func NewAppointmentRepo() *AppointmentRepo {
	return &AppointmentRepo{}
}

// Create schedules an appointment for an existing patient
func (r *AppointmentRepo) Create(appt *models.Appointment) error {
	if appt.Status == "" {
		appt.Status = models.AppointmentScheduled
	}

	result, err := DB.Exec(`
		INSERT INTO appointments (patient_id, appointment_date, appointment_time, purpose, status, notes, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, appt.PatientID, appt.AppointmentDate, appt.AppointmentTime, appt.Purpose, appt.Status, appt.Notes, appt.CreatedBy)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	appt.ID = id

	return nil
}

// List retrieves appointments joined with patient and creator names,
// optionally filtered by status and date range, soonest first
func (r *AppointmentRepo) List(filter models.AppointmentFilter) ([]*models.Appointment, error) {
	query := `
		SELECT a.appointment_id, a.patient_id, a.appointment_date, a.appointment_time,
		       a.purpose, a.status, a.notes,
		       p.first_name, p.last_name, p.phone,
		       a.created_by, u.full_name, a.created_at, a.updated_at
		FROM appointments a
		INNER JOIN patients p ON a.patient_id = p.patient_id
		LEFT JOIN users u ON a.created_by = u.user_id
		WHERE 1=1`
	args := []interface{}{}

	if filter.Status != "" {
		query += " AND a.status = ?"
		args = append(args, filter.Status)
	}
	if filter.DateFrom != "" {
		query += " AND a.appointment_date >= ?"
		args = append(args, filter.DateFrom)
	}
	if filter.DateTo != "" {
		query += " AND a.appointment_date <= ?"
		args = append(args, filter.DateTo)
	}

	query += " ORDER BY a.appointment_date ASC, a.appointment_time ASC"

	rows, err := DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// Upcoming retrieves appointments from today onward that are still
// Scheduled or Confirmed, soonest first
func (r *AppointmentRepo) Upcoming(limit int) ([]*models.Appointment, error) {
	rows, err := DB.Query(`
		SELECT a.appointment_id, a.patient_id, a.appointment_date, a.appointment_time,
		       a.purpose, a.status, a.notes,
		       p.first_name, p.last_name, p.phone,
		       a.created_by, u.full_name, a.created_at, a.updated_at
		FROM appointments a
		INNER JOIN patients p ON a.patient_id = p.patient_id
		LEFT JOIN users u ON a.created_by = u.user_id
		WHERE a.appointment_date >= date('now')
		AND a.status IN (?, ?)
		ORDER BY a.appointment_date ASC, a.appointment_time ASC
		LIMIT ?
	`, models.AppointmentScheduled, models.AppointmentConfirmed, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// ListForPatient retrieves a patient's appointments, newest first
func (r *AppointmentRepo) ListForPatient(patientID int64) ([]*models.Appointment, error) {
	rows, err := DB.Query(`
		SELECT a.appointment_id, a.patient_id, a.appointment_date, a.appointment_time,
		       a.purpose, a.status, a.notes,
		       p.first_name, p.last_name, p.phone,
		       a.created_by, u.full_name, a.created_at, a.updated_at
		FROM appointments a
		INNER JOIN patients p ON a.patient_id = p.patient_id
		LEFT JOIN users u ON a.created_by = u.user_id
		WHERE a.patient_id = ?
		ORDER BY a.appointment_date DESC, a.appointment_time DESC
	`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// Update applies a partial update. Nil request fields are left unchanged;
// a request with no fields set is rejected by the handler before it gets
// here.
func (r *AppointmentRepo) Update(req *models.UpdateAppointmentRequest) error {
	exists, err := r.Exists(req.AppointmentID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrAppointmentNotFound
	}

	query := "UPDATE appointments SET updated_at = ?"
	args := []interface{}{time.Now()}

	if req.Status != nil {
		query += ", status = ?"
		args = append(args, *req.Status)
	}
	if req.AppointmentDate != nil {
		query += ", appointment_date = ?"
		args = append(args, *req.AppointmentDate)
	}
	if req.Notes != nil {
		query += ", notes = ?"
		args = append(args, *req.Notes)
	}

	query += " WHERE appointment_id = ?"
	args = append(args, req.AppointmentID)

	_, err = DB.Exec(query, args...)
	return err
}

// Delete removes an appointment
func (r *AppointmentRepo) Delete(id int64) error {
	result, err := DB.Exec("DELETE FROM appointments WHERE appointment_id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// Exists checks whether an appointment row exists
func (r *AppointmentRepo) Exists(id int64) (bool, error) {
	var count int
	err := DB.QueryRow("SELECT COUNT(*) FROM appointments WHERE appointment_id = ?", id).Scan(&count)
	return count > 0, err
}

func scanAppointments(rows *sql.Rows) ([]*models.Appointment, error) {
	var appointments []*models.Appointment
	for rows.Next() {
		a := &models.Appointment{}
		var createdByName sql.NullString

		err := rows.Scan(
			&a.ID, &a.PatientID, &a.AppointmentDate, &a.AppointmentTime,
			&a.Purpose, &a.Status, &a.Notes,
			&a.FirstName, &a.LastName, &a.ContactNumber,
			&a.CreatedBy, &createdByName, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		if createdByName.Valid {
			a.CreatedByName = createdByName.String
		}

		appointments = append(appointments, a)
	}

	return appointments, rows.Err()
}

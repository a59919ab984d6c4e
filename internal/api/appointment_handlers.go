package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"clinik-backend/internal/auth"
	"clinik-backend/internal/database"
	"clinik-backend/internal/models"
)

// createAppointmentHandler handles POST /api/appointments
func createAppointmentHandler(c echo.Context) error {
	session := auth.SessionFromContext(c)

	var req models.CreateAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "Invalid JSON input")
	}

	if req.PatientID == 0 {
		return respondErr(c, http.StatusBadRequest, "Missing required fields: patient_id")
	}
	if missing := missingFields(
		requiredField{"appointment_date", req.AppointmentDate},
		requiredField{"appointment_time", req.AppointmentTime},
		requiredField{"purpose", req.Purpose},
	); len(missing) > 0 {
		return respondMissing(c, missing)
	}

	exists, err := patientRepo.ExistsActive(req.PatientID)
	if err != nil {
		logger.Error().Err(err).Int64("patient_id", req.PatientID).Msg("patient check failed")
		return respondErr(c, http.StatusInternalServerError, "Failed to schedule appointment")
	}
	if !exists {
		return respondErr(c, http.StatusNotFound, "Patient not found")
	}

	appt := &models.Appointment{
		PatientID:       req.PatientID,
		AppointmentDate: req.AppointmentDate,
		AppointmentTime: req.AppointmentTime,
		Purpose:         req.Purpose,
		Status:          req.Status,
		Notes:           req.Notes,
		CreatedBy:       session.UserID,
	}

	if err := appointmentRepo.Create(appt); err != nil {
		logger.Error().Err(err).Int64("patient_id", req.PatientID).Msg("appointment creation failed")
		return respondErr(c, http.StatusInternalServerError, "Failed to schedule appointment")
	}

	logger.Info().
		Int64("appointment_id", appt.ID).
		Int64("patient_id", req.PatientID).
		Str("date", appt.AppointmentDate).
		Msg("appointment scheduled")

	return respondOK(c, http.StatusCreated, "Appointment scheduled successfully", map[string]interface{}{
		"appointment_id": appt.ID,
	})
}

// listAppointmentsHandler handles GET /api/appointments with optional
// status, date_from and date_to filters.
func listAppointmentsHandler(c echo.Context) error {
	filter := models.AppointmentFilter{
		Status:   c.QueryParam("status"),
		DateFrom: c.QueryParam("date_from"),
		DateTo:   c.QueryParam("date_to"),
	}

	appointments, err := appointmentRepo.List(filter)
	if err != nil {
		logger.Error().Err(err).Msg("appointment list failed")
		return respondErr(c, http.StatusInternalServerError, "Failed to load appointments")
	}

	return respondOK(c, http.StatusOK, "", map[string]interface{}{
		"appointments": appointments,
		"count":        len(appointments),
	})
}

// upcomingAppointmentsHandler handles GET /api/appointments/upcoming
func upcomingAppointmentsHandler(c echo.Context) error {
	limit := parsePositiveInt(c.QueryParam("limit"), 20)
	if limit > 100 {
		limit = 100
	}

	appointments, err := appointmentRepo.Upcoming(limit)
	if err != nil {
		logger.Error().Err(err).Msg("upcoming appointments failed")
		return respondErr(c, http.StatusInternalServerError, "Failed to load appointments")
	}

	return respondOK(c, http.StatusOK, "", map[string]interface{}{
		"appointments": appointments,
		"count":        len(appointments),
	})
}

// patientAppointmentsHandler handles GET /api/patients/:id/appointments
func patientAppointmentsHandler(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "Invalid patient ID")
	}

	exists, err := patientRepo.ExistsActive(id)
	if err != nil {
		logger.Error().Err(err).Int64("patient_id", id).Msg("patient check failed")
		return respondErr(c, http.StatusInternalServerError, "Failed to load appointments")
	}
	if !exists {
		return respondErr(c, http.StatusNotFound, "Patient not found")
	}

	appointments, err := appointmentRepo.ListForPatient(id)
	if err != nil {
		logger.Error().Err(err).Int64("patient_id", id).Msg("patient appointments failed")
		return respondErr(c, http.StatusInternalServerError, "Failed to load appointments")
	}

	return respondOK(c, http.StatusOK, "", map[string]interface{}{
		"appointments": appointments,
		"count":        len(appointments),
	})
}

// updateAppointmentHandler handles PUT /api/appointments/:id. Only the
// fields present in the request body are changed.
func updateAppointmentHandler(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "Invalid appointment ID")
	}

	var req models.UpdateAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "Invalid JSON input")
	}
	req.AppointmentID = id

	if req.Status == nil && req.AppointmentDate == nil && req.Notes == nil {
		return respondErr(c, http.StatusBadRequest, "No fields to update")
	}

	if req.Status != nil {
		switch *req.Status {
		case models.AppointmentScheduled, models.AppointmentConfirmed,
			models.AppointmentCompleted, models.AppointmentCancelled:
		default:
			return respondErr(c, http.StatusBadRequest, "Invalid appointment status")
		}
	}

	if err := appointmentRepo.Update(&req); err != nil {
		if errors.Is(err, database.ErrAppointmentNotFound) {
			return respondErr(c, http.StatusNotFound, "Appointment not found")
		}
		logger.Error().Err(err).Int64("appointment_id", id).Msg("appointment update failed")
		return respondErr(c, http.StatusInternalServerError, "Failed to update appointment")
	}

	return respondOK(c, http.StatusOK, "Appointment updated successfully", nil)
}

// deleteAppointmentHandler handles DELETE /api/appointments/:id
func deleteAppointmentHandler(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "Invalid appointment ID")
	}

	if err := appointmentRepo.Delete(id); err != nil {
		if errors.Is(err, database.ErrAppointmentNotFound) {
			return respondErr(c, http.StatusNotFound, "Appointment not found")
		}
		logger.Error().Err(err).Int64("appointment_id", id).Msg("appointment delete failed")
		return respondErr(c, http.StatusInternalServerError, "Failed to delete appointment")
	}

	return respondOK(c, http.StatusOK, "Appointment deleted successfully", nil)
}

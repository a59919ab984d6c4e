package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"clinik-backend/internal/auth"
	"clinik-backend/internal/models"
)

// createVisitHandler handles POST /api/visits
func createVisitHandler(c echo.Context) error {
	session := auth.SessionFromContext(c)

	var req models.CreateVisitRequest
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "Invalid JSON input")
	}

	if req.PatientID == 0 {
		return respondErr(c, http.StatusBadRequest, "Missing required fields: patient_id")
	}
	if missing := missingFields(requiredField{"diagnosis", req.Diagnosis}); len(missing) > 0 {
		return respondMissing(c, missing)
	}

	exists, err := patientRepo.ExistsActive(req.PatientID)
	if err != nil {
		logger.Error().Err(err).Int64("patient_id", req.PatientID).Msg("patient check failed")
		return respondErr(c, http.StatusInternalServerError, "Failed to record visit")
	}
	if !exists {
		return respondErr(c, http.StatusNotFound, "Patient not found")
	}

	visit := &models.Visit{
		PatientID:     req.PatientID,
		VisitDate:     req.VisitDate,
		VisitTime:     req.VisitTime,
		Symptoms:      req.Symptoms,
		Diagnosis:     req.Diagnosis,
		Prescription:  req.Prescription,
		Notes:         req.Notes,
		BloodPressure: req.BloodPressure,
		Height:        req.Height,
		Weight:        req.Weight,
		Temperature:   req.Temperature,
		Pulse:         req.Pulse,
		CreatedBy:     session.UserID,
	}

	if err := visitRepo.Create(visit); err != nil {
		logger.Error().Err(err).Int64("patient_id", req.PatientID).Msg("visit creation failed")
		return respondErr(c, http.StatusInternalServerError, "Failed to record visit")
	}

	logger.Info().
		Int64("visit_id", visit.ID).
		Int64("patient_id", req.PatientID).
		Int64("created_by", session.UserID).
		Msg("visit recorded")

	return respondOK(c, http.StatusCreated, "Visit recorded successfully", map[string]interface{}{
		"visit_id": visit.ID,
	})
}

// patientVisitsHandler handles GET /api/patients/:id/visits
func patientVisitsHandler(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "Invalid patient ID")
	}

	exists, err := patientRepo.ExistsActive(id)
	if err != nil {
		logger.Error().Err(err).Int64("patient_id", id).Msg("patient check failed")
		return respondErr(c, http.StatusInternalServerError, "Failed to load visit history")
	}
	if !exists {
		return respondErr(c, http.StatusNotFound, "Patient not found")
	}

	visits, err := visitRepo.HistoryForPatient(id)
	if err != nil {
		logger.Error().Err(err).Int64("patient_id", id).Msg("visit history failed")
		return respondErr(c, http.StatusInternalServerError, "Failed to load visit history")
	}

	return respondOK(c, http.StatusOK, "", map[string]interface{}{
		"visits": visits,
		"count":  len(visits),
	})
}

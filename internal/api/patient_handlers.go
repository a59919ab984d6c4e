package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"clinik-backend/internal/auth"
	"clinik-backend/internal/database"
	"clinik-backend/internal/models"
)

// createPatientHandler handles POST /api/patients. When the request carries
// diagnosis or prescription text an initial visit record is created in the
// same transaction as the patient row.
func createPatientHandler(c echo.Context) error {
	session := auth.SessionFromContext(c)

	var req models.CreatePatientRequest
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "Invalid JSON input")
	}

	// Legacy clients send contact_number / emergency_contact
	if req.Phone == "" {
		req.Phone = req.ContactNumber
	}
	if req.EmergencyContactName == "" {
		req.EmergencyContactName = req.EmergencyContact
	}

	if missing := missingFields(
		requiredField{"first_name", req.FirstName},
		requiredField{"last_name", req.LastName},
		requiredField{"date_of_birth", req.DateOfBirth},
		requiredField{"gender", req.Gender},
	); len(missing) > 0 {
		return respondMissing(c, missing)
	}

	patient := &models.Patient{
		FirstName:             strings.TrimSpace(req.FirstName),
		LastName:              strings.TrimSpace(req.LastName),
		DateOfBirth:           req.DateOfBirth,
		Gender:                req.Gender,
		Phone:                 req.Phone,
		Email:                 req.Email,
		Address:               req.Address,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
		BloodType:             req.BloodType,
		Allergies:             req.Allergies,
		MedicalHistory:        req.MedicalHistory,
		CreatedBy:             session.UserID,
	}

	var initialVisit *models.Visit
	if strings.TrimSpace(req.Diagnosis) != "" || strings.TrimSpace(req.Prescription) != "" {
		initialVisit = &models.Visit{
			Diagnosis:    req.Diagnosis,
			Prescription: req.Prescription,
			Notes:        req.Notes,
			CreatedBy:    session.UserID,
		}
	}

	if err := patientRepo.Create(patient, initialVisit); err != nil {
		logger.Error().Err(err).Msg("patient creation failed")
		return respondErr(c, http.StatusInternalServerError, "Failed to register patient")
	}

	logger.Info().
		Str("patient_number", patient.PatientNumber).
		Int64("created_by", session.UserID).
		Msg("patient registered")

	data := map[string]interface{}{
		"patient_id":     patient.ID,
		"patient_number": patient.PatientNumber,
	}
	if initialVisit != nil {
		data["visit_id"] = initialVisit.ID
	}

	return respondOK(c, http.StatusCreated, "Patient registered successfully", data)
}

// listPatientsHandler handles GET /api/patients
func listPatientsHandler(c echo.Context) error {
	page := parsePositiveInt(c.QueryParam("page"), 1)
	limit := parsePositiveInt(c.QueryParam("limit"), 50)
	if limit > 100 {
		limit = 100
	}

	patients, total, err := patientRepo.List(limit, (page-1)*limit)
	if err != nil {
		logger.Error().Err(err).Msg("patient list failed")
		return respondErr(c, http.StatusInternalServerError, "Failed to load patients")
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)

	return respondOK(c, http.StatusOK, "", map[string]interface{}{
		"patients": patients,
		"pagination": models.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

// searchPatientsHandler handles GET /api/patients/search?q=
func searchPatientsHandler(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return respondErr(c, http.StatusBadRequest, "Search query is required")
	}

	patients, err := patientRepo.Search(query)
	if err != nil {
		logger.Error().Err(err).Str("query", query).Msg("patient search failed")
		return respondErr(c, http.StatusInternalServerError, "Search failed")
	}

	return respondOK(c, http.StatusOK, "", map[string]interface{}{
		"patients": patients,
		"count":    len(patients),
	})
}

// getPatientHandler handles GET /api/patients/:id
func getPatientHandler(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "Invalid patient ID")
	}

	patient, err := patientRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, database.ErrPatientNotFound) {
			return respondErr(c, http.StatusNotFound, "Patient not found")
		}
		logger.Error().Err(err).Int64("patient_id", id).Msg("patient lookup failed")
		return respondErr(c, http.StatusInternalServerError, "Failed to load patient")
	}

	return respondOK(c, http.StatusOK, "", map[string]interface{}{
		"patient": patient,
	})
}

// updatePatientHandler handles PUT /api/patients/:id
func updatePatientHandler(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "Invalid patient ID")
	}

	var req models.UpdatePatientRequest
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "Invalid JSON input")
	}

	if req.Phone == "" {
		req.Phone = req.ContactNumber
	}
	if req.EmergencyContactName == "" {
		req.EmergencyContactName = req.EmergencyContact
	}

	if missing := missingFields(
		requiredField{"first_name", req.FirstName},
		requiredField{"last_name", req.LastName},
		requiredField{"date_of_birth", req.DateOfBirth},
		requiredField{"gender", req.Gender},
	); len(missing) > 0 {
		return respondMissing(c, missing)
	}

	patient := &models.Patient{
		ID:                    id,
		FirstName:             strings.TrimSpace(req.FirstName),
		LastName:              strings.TrimSpace(req.LastName),
		DateOfBirth:           req.DateOfBirth,
		Gender:                req.Gender,
		Phone:                 req.Phone,
		Email:                 req.Email,
		Address:               req.Address,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
		BloodType:             req.BloodType,
		Allergies:             req.Allergies,
		MedicalHistory:        req.MedicalHistory,
	}

	if err := patientRepo.Update(patient); err != nil {
		if errors.Is(err, database.ErrPatientNotFound) {
			return respondErr(c, http.StatusNotFound, "Patient not found")
		}
		logger.Error().Err(err).Int64("patient_id", id).Msg("patient update failed")
		return respondErr(c, http.StatusInternalServerError, "Failed to update patient")
	}

	return respondOK(c, http.StatusOK, "Patient updated successfully", nil)
}

// deletePatientHandler handles DELETE /api/patients/:id (admin only).
// Records are deactivated, never removed.
func deletePatientHandler(c echo.Context) error {
	session := auth.SessionFromContext(c)

	id, err := parseID(c.Param("id"))
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "Invalid patient ID")
	}

	if err := patientRepo.SoftDelete(id); err != nil {
		if errors.Is(err, database.ErrPatientNotFound) {
			return respondErr(c, http.StatusNotFound, "Patient not found")
		}
		logger.Error().Err(err).Int64("patient_id", id).Msg("patient deactivation failed")
		return respondErr(c, http.StatusInternalServerError, "Failed to delete patient")
	}

	logger.Info().
		Int64("patient_id", id).
		Str("admin", session.Username).
		Msg("patient deactivated")

	return respondOK(c, http.StatusOK, "Patient deleted successfully", nil)
}

package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateVisitForUnknownPatient(t *testing.T) {
	e := setupTestServer(t)
	cookie := loginAs(t, e, "staff")

	rec := perform(e, http.MethodPost, "/api/visits",
		`{"patient_id":9999,"diagnosis":"Cold"}`, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Patient not found", decode(t, rec).Message)
}

func TestCreateVisitAndHistory(t *testing.T) {
	e := setupTestServer(t)
	cookie := loginAs(t, e, "staff")
	id := createPatientViaAPI(t, e, cookie)

	rec := perform(e, http.MethodPost, "/api/visits",
		fmt.Sprintf(`{"patient_id":%d,"symptoms":"Headache","diagnosis":"Migraine","prescription":"Ibuprofen"}`, id), cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, decode(t, rec).Data, "visit_id")

	history := perform(e, http.MethodGet, fmt.Sprintf("/api/patients/%d/visits", id), "", cookie)
	require.Equal(t, http.StatusOK, history.Code)
	assert.EqualValues(t, 1, decode(t, history).Data["count"])
}

func TestCreateAppointmentValidation(t *testing.T) {
	e := setupTestServer(t)
	cookie := loginAs(t, e, "staff")
	id := createPatientViaAPI(t, e, cookie)

	missing := perform(e, http.MethodPost, "/api/appointments",
		fmt.Sprintf(`{"patient_id":%d,"appointment_date":"2030-06-01"}`, id), cookie)
	assert.Equal(t, http.StatusBadRequest, missing.Code)

	unknown := perform(e, http.MethodPost, "/api/appointments",
		`{"patient_id":9999,"appointment_date":"2030-06-01","appointment_time":"10:00","purpose":"Checkup"}`, cookie)
	assert.Equal(t, http.StatusNotFound, unknown.Code)
}

func TestAppointmentLifecycle(t *testing.T) {
	e := setupTestServer(t)
	cookie := loginAs(t, e, "staff")
	id := createPatientViaAPI(t, e, cookie)

	created := perform(e, http.MethodPost, "/api/appointments",
		fmt.Sprintf(`{"patient_id":%d,"appointment_date":"2030-06-01","appointment_time":"10:00","purpose":"Checkup"}`, id), cookie)
	require.Equal(t, http.StatusCreated, created.Code)
	apptID := int64(decode(t, created).Data["appointment_id"].(float64))

	// Shows up in list, upcoming and per-patient views
	list := perform(e, http.MethodGet, "/api/appointments", "", cookie)
	require.Equal(t, http.StatusOK, list.Code)
	assert.EqualValues(t, 1, decode(t, list).Data["count"])

	upcoming := perform(e, http.MethodGet, "/api/appointments/upcoming", "", cookie)
	require.Equal(t, http.StatusOK, upcoming.Code)
	assert.EqualValues(t, 1, decode(t, upcoming).Data["count"])

	forPatient := perform(e, http.MethodGet, fmt.Sprintf("/api/patients/%d/appointments", id), "", cookie)
	require.Equal(t, http.StatusOK, forPatient.Code)
	assert.EqualValues(t, 1, decode(t, forPatient).Data["count"])

	// Partial update
	empty := perform(e, http.MethodPut, fmt.Sprintf("/api/appointments/%d", apptID), `{}`, cookie)
	assert.Equal(t, http.StatusBadRequest, empty.Code)
	assert.Equal(t, "No fields to update", decode(t, empty).Message)

	badStatus := perform(e, http.MethodPut, fmt.Sprintf("/api/appointments/%d", apptID),
		`{"status":"Rescheduled"}`, cookie)
	assert.Equal(t, http.StatusBadRequest, badStatus.Code)

	confirmed := perform(e, http.MethodPut, fmt.Sprintf("/api/appointments/%d", apptID),
		`{"status":"Confirmed"}`, cookie)
	assert.Equal(t, http.StatusOK, confirmed.Code)

	// Cancelled appointments drop out of upcoming
	cancelled := perform(e, http.MethodPut, fmt.Sprintf("/api/appointments/%d", apptID),
		`{"status":"Cancelled"}`, cookie)
	require.Equal(t, http.StatusOK, cancelled.Code)

	upcoming = perform(e, http.MethodGet, "/api/appointments/upcoming", "", cookie)
	assert.EqualValues(t, 0, decode(t, upcoming).Data["count"])

	// Delete, then the same delete reports not found
	deleted := perform(e, http.MethodDelete, fmt.Sprintf("/api/appointments/%d", apptID), "", cookie)
	assert.Equal(t, http.StatusOK, deleted.Code)
	again := perform(e, http.MethodDelete, fmt.Sprintf("/api/appointments/%d", apptID), "", cookie)
	assert.Equal(t, http.StatusNotFound, again.Code)
}

func TestAppointmentStatusFilter(t *testing.T) {
	e := setupTestServer(t)
	cookie := loginAs(t, e, "staff")
	id := createPatientViaAPI(t, e, cookie)

	for _, status := range []string{"Scheduled", "Completed"} {
		rec := perform(e, http.MethodPost, "/api/appointments",
			fmt.Sprintf(`{"patient_id":%d,"appointment_date":"2030-06-01","appointment_time":"10:00","purpose":"Checkup","status":%q}`, id, status), cookie)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := perform(e, http.MethodGet, "/api/appointments?status=Completed", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec).Data["count"])
}

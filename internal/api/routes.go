package api

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"clinik-backend/internal/auth"
	"clinik-backend/internal/database"
)

// Handler dependencies, set once by RegisterRoutes
var (
	authService     *auth.Service
	logger          zerolog.Logger
	patientRepo     *database.PatientRepo
	visitRepo       *database.VisitRepo
	appointmentRepo *database.AppointmentRepo
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(api *echo.Group, authSvc *auth.Service, log zerolog.Logger) {
	authService = authSvc
	logger = log
	patientRepo = database.NewPatientRepo()
	visitRepo = database.NewVisitRepo()
	appointmentRepo = database.NewAppointmentRepo()

	// Health check (public)
	api.GET("/health", healthCheckHandler)

	// Auth routes (login, logout and register are public)
	authGroup := api.Group("/auth")
	authGroup.POST("/login", loginHandler)
	authGroup.POST("/logout", logoutHandler)
	authGroup.POST("/register", registerHandler)

	authProtected := authGroup.Group("")
	authProtected.Use(auth.RequireAuth(authSvc))
	authProtected.GET("/session", checkSessionHandler)

	// Patient routes
	patients := api.Group("/patients")
	patients.Use(auth.RequireAuth(authSvc))
	patients.GET("", listPatientsHandler)
	patients.GET("/search", searchPatientsHandler)
	patients.POST("", createPatientHandler)
	patients.GET("/:id", getPatientHandler)
	patients.PUT("/:id", updatePatientHandler)
	patients.DELETE("/:id", deletePatientHandler, auth.RequireAdmin())
	patients.GET("/:id/visits", patientVisitsHandler)
	patients.GET("/:id/appointments", patientAppointmentsHandler)

	// Visit routes
	visits := api.Group("/visits")
	visits.Use(auth.RequireAuth(authSvc))
	visits.POST("", createVisitHandler)

	// Appointment routes
	appointments := api.Group("/appointments")
	appointments.Use(auth.RequireAuth(authSvc))
	appointments.GET("", listAppointmentsHandler)
	appointments.GET("/upcoming", upcomingAppointmentsHandler)
	appointments.POST("", createAppointmentHandler)
	appointments.PUT("/:id", updateAppointmentHandler)
	appointments.DELETE("/:id", deleteAppointmentHandler)
}

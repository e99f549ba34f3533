package api

import (
	"github.com/aiktc/portal/internal/blob"
	"github.com/aiktc/portal/internal/campus"
	"github.com/aiktc/portal/internal/config"
	"github.com/aiktc/portal/internal/db"
	"github.com/aiktc/portal/internal/repository/sqlite"
	"github.com/aiktc/portal/internal/session"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, database *db.DB, blobs blob.Store) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)
	r.Use(MetricsMiddleware)

	// Repository
	repo := sqlite.New(database, logger)
	repos := campus.Repos{
		Profiles:      repo,
		Courses:       repo,
		Enrollments:   repo,
		Assignments:   repo,
		Materials:     repo,
		Announcements: repo,
		Attendance:    repo,
		Feedback:      repo,
	}

	// Core components
	identityStore := session.NewLocalStore(repo, logger)
	svc := campus.NewService(repos, blobs, logger)
	builder := campus.NewViewBuilder(repos)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(identityStore, repo, cfg.JWTSecret, cfg.TokenDuration)
	campusHandler := NewCampusHandler(svc)
	viewsHandler := NewViewsHandler(builder)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/v1/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/v1/auth/signin", authHandler.Signin).Methods("POST")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	// Auth endpoints
	authV1 := apiV1.PathPrefix("/auth").Subrouter()
	authV1.HandleFunc("/signout", authHandler.Signout).Methods("POST")

	// Course endpoints
	apiV1.HandleFunc("/courses", campusHandler.CreateCourse).Methods("POST")
	apiV1.HandleFunc("/courses/{course_id}/enroll", campusHandler.Enroll).Methods("POST")
	apiV1.HandleFunc("/courses/{course_id}/assignments", campusHandler.CreateAssignment).Methods("POST")
	apiV1.HandleFunc("/courses/{course_id}/announcements", campusHandler.CreateAnnouncement).Methods("POST")
	apiV1.HandleFunc("/courses/{course_id}/materials", campusHandler.UploadMaterial).Methods("POST")
	apiV1.HandleFunc("/courses/{course_id}/attendance", campusHandler.MarkAttendance).Methods("POST")
	apiV1.HandleFunc("/courses/{course_id}/attendance", campusHandler.UpdateAttendance).Methods("PUT")
	apiV1.HandleFunc("/courses/{course_id}/feedback", campusHandler.SubmitFeedback).Methods("POST")
	apiV1.HandleFunc("/materials/{course_id}/{file}", campusHandler.DownloadMaterial).Methods("GET")

	// Role-scoped views
	apiV1.HandleFunc("/views/student", viewsHandler.StudentView).Methods("GET")
	apiV1.HandleFunc("/views/faculty", viewsHandler.FacultyView).Methods("GET")

	return r
}

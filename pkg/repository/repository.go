package repository

import (
	"context"
	"errors"

	"github.com/aiktc/portal/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

// ErrConflict is returned by create operations that violate a uniqueness
// constraint (duplicate email, enrollment pair, attendance composite key).
var ErrConflict = errors.New("repository: conflict")

type IdentityRepo interface {
	CreateIdentity(ctx context.Context, ident *models.Identity) error
	GetIdentity(ctx context.Context, id string) (*models.Identity, error)
	GetIdentityByEmail(ctx context.Context, email string) (*models.Identity, error)
}

type ProfileRepo interface {
	CreateProfile(ctx context.Context, p *models.Profile) error
	// UpsertProfile inserts the profile or refreshes its mutable fields if a
	// row with the same id already exists. Keyed by identity id.
	UpsertProfile(ctx context.Context, p *models.Profile) error
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
}

type CourseRepo interface {
	CreateCourse(ctx context.Context, c *models.Course) error
	GetCourse(ctx context.Context, id string) (*models.Course, error)
	ListCoursesByFaculty(ctx context.Context, facultyID string) ([]models.Course, error)
	ListCoursesByStudent(ctx context.Context, studentID string) ([]models.Course, error)
}

type EnrollmentRepo interface {
	CreateEnrollment(ctx context.Context, e *models.Enrollment) error
	EnrollmentExists(ctx context.Context, courseID, studentID string) (bool, error)
	// ListStudentsByCourses returns the deduplicated union of student profiles
	// enrolled across the given courses.
	ListStudentsByCourses(ctx context.Context, courseIDs []string) ([]models.Profile, error)
}

type AssignmentRepo interface {
	CreateAssignment(ctx context.Context, a *models.Assignment) error
	ListAssignmentsByCourses(ctx context.Context, courseIDs []string) ([]models.Assignment, error)
}

type MaterialRepo interface {
	CreateMaterial(ctx context.Context, m *models.Material) error
	ListMaterialsByCourses(ctx context.Context, courseIDs []string) ([]models.Material, error)
}

type AnnouncementRepo interface {
	CreateAnnouncement(ctx context.Context, a *models.Announcement) error
	ListAnnouncementsByCourses(ctx context.Context, courseIDs []string, limit int) ([]models.Announcement, error)
}

type AttendanceRepo interface {
	CreateAttendance(ctx context.Context, a *models.Attendance) error
	UpdateAttendanceStatus(ctx context.Context, courseID, studentID, date string, status models.AttendanceStatus) error
	AttendanceExists(ctx context.Context, courseID, studentID, date string) (bool, error)
	ListAttendanceByCourse(ctx context.Context, courseID string) ([]models.Attendance, error)
	SummarizeAttendanceByCourses(ctx context.Context, courseIDs []string) ([]AttendanceSummary, error)
}

type FeedbackRepo interface {
	CreateFeedback(ctx context.Context, f *models.Feedback) error
	ListFeedbackByCourse(ctx context.Context, courseID string) ([]models.Feedback, error)
}

// AttendanceSummary aggregates attendance status counts for one course.
type AttendanceSummary struct {
	CourseID string `json:"course_id"`
	Present  int    `json:"present"`
	Absent   int    `json:"absent"`
	Late     int    `json:"late"`
}

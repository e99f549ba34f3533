package campus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/aiktc/portal/internal/blob"
	"github.com/aiktc/portal/pkg/models"
	"github.com/aiktc/portal/pkg/repository"
	"github.com/google/uuid"
)

// Repos bundles the repository interfaces the service depends on. The sqlite
// implementation satisfies all of them with one value.
type Repos struct {
	Profiles      repository.ProfileRepo
	Courses       repository.CourseRepo
	Enrollments   repository.EnrollmentRepo
	Assignments   repository.AssignmentRepo
	Materials     repository.MaterialRepo
	Announcements repository.AnnouncementRepo
	Attendance    repository.AttendanceRepo
	Feedback      repository.FeedbackRepo
}

// Service enforces the domain's referential and role invariants on every
// write. All visibility decisions live in ViewBuilder, not here.
type Service struct {
	repos  Repos
	blobs  blob.Store
	logger *slog.Logger
}

func NewService(repos Repos, blobs blob.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repos: repos, blobs: blobs, logger: logger}
}

type CourseInput struct {
	Name        string
	Description string
	Department  models.Department
}

type AssignmentInput struct {
	Title       string
	Description string
	DueDate     int64
}

type AnnouncementInput struct {
	Title   string
	Content string
}

// CreateCourse creates a course owned by facultyID. Only faculty may own
// courses; ownership never transfers.
func (s *Service) CreateCourse(ctx context.Context, facultyID string, in CourseInput) (*models.Course, error) {
	if _, err := s.requireRole(ctx, facultyID, models.RoleFaculty); err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, fmt.Errorf("course name is required")
	}
	if !in.Department.Valid() {
		return nil, fmt.Errorf("unknown department %q", in.Department)
	}

	c := &models.Course{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Department:  in.Department,
		FacultyID:   facultyID,
	}
	if err := s.repos.Courses.CreateCourse(ctx, c); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}

	s.logger.Info("course created", "course_id", c.ID, "faculty_id", facultyID)
	return c, nil
}

// Enroll adds studentID to courseID. A student enrolls in a course at most
// once.
func (s *Service) Enroll(ctx context.Context, studentID, courseID string) error {
	if _, err := s.requireRole(ctx, studentID, models.RoleStudent); err != nil {
		return err
	}
	if _, err := s.Course(ctx, courseID); err != nil {
		return err
	}

	exists, err := s.repos.Enrollments.EnrollmentExists(ctx, courseID, studentID)
	if err != nil {
		return fmt.Errorf("check enrollment: %w", err)
	}
	if exists {
		return ErrDuplicateEnrollment
	}

	e := &models.Enrollment{CourseID: courseID, StudentID: studentID}
	if err := s.repos.Enrollments.CreateEnrollment(ctx, e); err != nil {
		// unique constraint backstops the pre-check under concurrent enrolls
		if errors.Is(err, repository.ErrConflict) {
			return ErrDuplicateEnrollment
		}
		return fmt.Errorf("create enrollment: %w", err)
	}

	return nil
}

// CreateAssignment adds an assignment to a course; only the owning faculty may
// do so.
func (s *Service) CreateAssignment(ctx context.Context, actorID, courseID string, in AssignmentInput) (*models.Assignment, error) {
	if _, err := s.requireCourseOwner(ctx, actorID, courseID); err != nil {
		return nil, err
	}
	if in.Title == "" {
		return nil, fmt.Errorf("assignment title is required")
	}

	a := &models.Assignment{
		ID:          uuid.NewString(),
		CourseID:    courseID,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
	}
	if err := s.repos.Assignments.CreateAssignment(ctx, a); err != nil {
		return nil, fmt.Errorf("create assignment: %w", err)
	}

	return a, nil
}

// CreateAnnouncement posts an announcement to a course; owner only.
func (s *Service) CreateAnnouncement(ctx context.Context, actorID, courseID string, in AnnouncementInput) (*models.Announcement, error) {
	if _, err := s.requireCourseOwner(ctx, actorID, courseID); err != nil {
		return nil, err
	}
	if in.Title == "" {
		return nil, fmt.Errorf("announcement title is required")
	}

	a := &models.Announcement{
		ID:       uuid.NewString(),
		CourseID: courseID,
		Title:    in.Title,
		Content:  in.Content,
		PostedBy: actorID,
	}
	if err := s.repos.Announcements.CreateAnnouncement(ctx, a); err != nil {
		return nil, fmt.Errorf("create announcement: %w", err)
	}

	return a, nil
}

// UploadMaterial stores the file bytes in the blob store under a
// course-scoped key and records the material row pointing at it. Owner only.
func (s *Service) UploadMaterial(ctx context.Context, actorID, courseID, title, filename string, data []byte) (*models.Material, error) {
	if _, err := s.requireCourseOwner(ctx, actorID, courseID); err != nil {
		return nil, err
	}
	if title == "" {
		title = filename
	}
	if title == "" {
		return nil, fmt.Errorf("material title is required")
	}

	key := blob.Key(courseID, filename)
	if err := s.blobs.Put(ctx, key, data); err != nil {
		return nil, fmt.Errorf("store material blob: %w", err)
	}

	m := &models.Material{
		ID:         uuid.NewString(),
		CourseID:   courseID,
		Title:      title,
		FilePath:   key,
		UploadedBy: actorID,
	}
	if err := s.repos.Materials.CreateMaterial(ctx, m); err != nil {
		return nil, fmt.Errorf("create material: %w", err)
	}

	return m, nil
}

// MaterialContent fetches the stored bytes for a material key.
func (s *Service) MaterialContent(ctx context.Context, key string) ([]byte, error) {
	return s.blobs.Get(ctx, key)
}

// MarkAttendance records one attendance entry per student per course per day.
// Corrections go through UpdateAttendance, never a second create.
func (s *Service) MarkAttendance(ctx context.Context, actorID, courseID, studentID, date string, status models.AttendanceStatus) (*models.Attendance, error) {
	if _, err := s.requireCourseOwner(ctx, actorID, courseID); err != nil {
		return nil, err
	}
	if _, err := s.requireRole(ctx, studentID, models.RoleStudent); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, fmt.Errorf("unknown attendance status %q", status)
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("invalid attendance date %q: %w", date, err)
	}

	exists, err := s.repos.Attendance.AttendanceExists(ctx, courseID, studentID, date)
	if err != nil {
		return nil, fmt.Errorf("check attendance: %w", err)
	}
	if exists {
		return nil, ErrDuplicateAttendance
	}

	a := &models.Attendance{
		ID:        uuid.NewString(),
		CourseID:  courseID,
		StudentID: studentID,
		Date:      date,
		Status:    status,
		MarkedBy:  actorID,
	}
	if err := s.repos.Attendance.CreateAttendance(ctx, a); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateAttendance
		}
		return nil, fmt.Errorf("create attendance: %w", err)
	}

	return a, nil
}

// UpdateAttendance is the explicit correction path for an existing record.
func (s *Service) UpdateAttendance(ctx context.Context, actorID, courseID, studentID, date string, status models.AttendanceStatus) error {
	if _, err := s.requireCourseOwner(ctx, actorID, courseID); err != nil {
		return err
	}
	if !status.Valid() {
		return fmt.Errorf("unknown attendance status %q", status)
	}

	if err := s.repos.Attendance.UpdateAttendanceStatus(ctx, courseID, studentID, date, status); err != nil {
		return fmt.Errorf("update attendance: %w", err)
	}

	return nil
}

// SubmitFeedback requires an existing enrollment for the pair and a rating in
// [1,5].
func (s *Service) SubmitFeedback(ctx context.Context, studentID, courseID string, rating int, comment string) (*models.Feedback, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	enrolled, err := s.repos.Enrollments.EnrollmentExists(ctx, courseID, studentID)
	if err != nil {
		return nil, fmt.Errorf("check enrollment: %w", err)
	}
	if !enrolled {
		return nil, ErrNotEnrolled
	}

	f := &models.Feedback{
		ID:        uuid.NewString(),
		CourseID:  courseID,
		StudentID: studentID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.repos.Feedback.CreateFeedback(ctx, f); err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}

	return f, nil
}

// Course returns the course or ErrNotFound.
func (s *Service) Course(ctx context.Context, id string) (*models.Course, error) {
	c, err := s.repos.Courses.GetCourse(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

// Profile returns the profile or ErrNotFound.
func (s *Service) Profile(ctx context.Context, id string) (*models.Profile, error) {
	p, err := s.repos.Profiles.GetProfile(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *Service) ListCoursesForFaculty(ctx context.Context, facultyID string) ([]models.Course, error) {
	return s.repos.Courses.ListCoursesByFaculty(ctx, facultyID)
}

func (s *Service) ListCoursesForStudent(ctx context.Context, studentID string) ([]models.Course, error) {
	return s.repos.Courses.ListCoursesByStudent(ctx, studentID)
}

func (s *Service) ListAssignmentsForCourses(ctx context.Context, courseIDs []string) ([]models.Assignment, error) {
	return s.repos.Assignments.ListAssignmentsByCourses(ctx, courseIDs)
}

func (s *Service) ListAttendanceForCourse(ctx context.Context, courseID string) ([]models.Attendance, error) {
	return s.repos.Attendance.ListAttendanceByCourse(ctx, courseID)
}

func (s *Service) ListFeedbackForCourse(ctx context.Context, courseID string) ([]models.Feedback, error) {
	return s.repos.Feedback.ListFeedbackByCourse(ctx, courseID)
}

// requireRole loads the profile and checks its role. A missing profile fails
// the role check: every actor/subject reference must resolve.
func (s *Service) requireRole(ctx context.Context, id string, role models.Role) (*models.Profile, error) {
	p, err := s.repos.Profiles.GetProfile(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if p == nil || p.Role != role {
		return nil, ErrRoleViolation
	}
	return p, nil
}

// requireCourseOwner checks the course exists and actorID owns it.
func (s *Service) requireCourseOwner(ctx context.Context, actorID, courseID string) (*models.Course, error) {
	c, err := s.Course(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if c.FacultyID != actorID {
		return nil, ErrNotCourseOwner
	}
	return c, nil
}

package campus

import (
	"context"
	"fmt"
	"time"

	"github.com/aiktc/portal/pkg/models"
	"github.com/aiktc/portal/pkg/repository"
)

// announcementFeedLimit caps the announcement feed in both views to the most
// recent entries, matching the dashboards' expectations.
const announcementFeedLimit = 10

// FacultyView is the read projection for one faculty member: their courses
// and everything reachable from them.
type FacultyView struct {
	Profile       models.Profile                 `json:"profile"`
	Courses       []models.Course                `json:"courses"`
	Assignments   []models.Assignment            `json:"assignments"`
	Announcements []models.Announcement          `json:"announcements"`
	Students      []models.Profile               `json:"students"`
	Attendance    []repository.AttendanceSummary `json:"attendance"`
}

// StudentCourse is a course entry in the student view, joined with the owning
// faculty member's display name and the department's display name.
type StudentCourse struct {
	models.Course
	FacultyName    string `json:"faculty_name"`
	DepartmentName string `json:"department_name"`
}

// StudentView is the read projection for one student: enrolled courses and
// everything visible through those enrollments. Pending and Overdue partition
// the assignments by due date against the build instant; the classification is
// recomputed on every build and never stored.
type StudentView struct {
	Profile       models.Profile        `json:"profile"`
	Courses       []StudentCourse       `json:"courses"`
	Pending       []models.Assignment   `json:"pending_assignments"`
	Overdue       []models.Assignment   `json:"overdue_assignments"`
	Materials     []models.Material     `json:"materials"`
	Announcements []models.Announcement `json:"announcements"`
}

// ViewBuilder composes repository queries into the two role-scoped
// projections. It is the sole authority for what a role may see, and it never
// mutates; callers rebuild after successful mutations.
type ViewBuilder struct {
	repos Repos
	now   func() time.Time
}

func NewViewBuilder(repos Repos) *ViewBuilder {
	return &ViewBuilder{repos: repos, now: time.Now}
}

// WithClock replaces the time source; used by tests to pin the partition
// boundary.
func (b *ViewBuilder) WithClock(now func() time.Time) *ViewBuilder {
	b.now = now
	return b
}

func (b *ViewBuilder) BuildFacultyView(ctx context.Context, facultyID string) (*FacultyView, error) {
	p, err := b.repos.Profiles.GetProfile(ctx, facultyID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if p == nil || p.Role != models.RoleFaculty {
		return nil, ErrRoleViolation
	}

	courses, err := b.repos.Courses.ListCoursesByFaculty(ctx, facultyID)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	courseIDs := courseIDsOf(courses)

	assignments, err := b.repos.Assignments.ListAssignmentsByCourses(ctx, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	announcements, err := b.repos.Announcements.ListAnnouncementsByCourses(ctx, courseIDs, announcementFeedLimit)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	students, err := b.repos.Enrollments.ListStudentsByCourses(ctx, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	summary, err := b.repos.Attendance.SummarizeAttendanceByCourses(ctx, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("summarize attendance: %w", err)
	}

	return &FacultyView{
		Profile:       *p,
		Courses:       courses,
		Assignments:   assignments,
		Announcements: announcements,
		Students:      students,
		Attendance:    summary,
	}, nil
}

func (b *ViewBuilder) BuildStudentView(ctx context.Context, studentID string) (*StudentView, error) {
	p, err := b.repos.Profiles.GetProfile(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if p == nil || p.Role != models.RoleStudent {
		return nil, ErrRoleViolation
	}

	courses, err := b.repos.Courses.ListCoursesByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	courseIDs := courseIDsOf(courses)

	withFaculty, err := b.joinFacultyNames(ctx, courses)
	if err != nil {
		return nil, err
	}

	assignments, err := b.repos.Assignments.ListAssignmentsByCourses(ctx, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	pending, overdue := partitionByDue(assignments, b.now())

	materials, err := b.repos.Materials.ListMaterialsByCourses(ctx, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	announcements, err := b.repos.Announcements.ListAnnouncementsByCourses(ctx, courseIDs, announcementFeedLimit)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}

	return &StudentView{
		Profile:       *p,
		Courses:       withFaculty,
		Pending:       pending,
		Overdue:       overdue,
		Materials:     materials,
		Announcements: announcements,
	}, nil
}

func (b *ViewBuilder) joinFacultyNames(ctx context.Context, courses []models.Course) ([]StudentCourse, error) {
	names := map[string]string{}
	out := make([]StudentCourse, 0, len(courses))
	for _, c := range courses {
		name, ok := names[c.FacultyID]
		if !ok {
			fp, err := b.repos.Profiles.GetProfile(ctx, c.FacultyID)
			if err != nil {
				return nil, fmt.Errorf("get faculty profile: %w", err)
			}
			if fp != nil {
				name = fp.FullName
			}
			names[c.FacultyID] = name
		}
		out = append(out, StudentCourse{
			Course:         c,
			FacultyName:    name,
			DepartmentName: c.Department.DisplayName(),
		})
	}
	return out, nil
}

// partitionByDue splits assignments into pending (due strictly after now) and
// overdue (due at or before now).
func partitionByDue(assignments []models.Assignment, now time.Time) (pending, overdue []models.Assignment) {
	cutoff := now.UnixMilli()
	pending = []models.Assignment{}
	overdue = []models.Assignment{}
	for _, a := range assignments {
		if a.DueDate > cutoff {
			pending = append(pending, a)
		} else {
			overdue = append(overdue, a)
		}
	}
	return pending, overdue
}

func courseIDsOf(courses []models.Course) []string {
	ids := make([]string, len(courses))
	for i, c := range courses {
		ids[i] = c.ID
	}
	return ids
}

package sqlite_test

import (
	"context"
	"errors"
	"testing"

	dbfs "github.com/aiktc/portal/db"
	dbpkg "github.com/aiktc/portal/internal/db"
	sqlite "github.com/aiktc/portal/internal/repository/sqlite"
	"github.com/aiktc/portal/pkg/models"
	"github.com/aiktc/portal/pkg/repository"
	"github.com/google/uuid"
)

func setupRepo(t *testing.T) (*sqlite.SQLiteRepo, func()) {
	t.Helper()
	ctx := context.Background()
	d, err := dbpkg.New(ctx, "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}

	if err := dbpkg.Migrate(ctx, d, dbfs.Migrations); err != nil {
		d.Close()
		t.Fatalf("failed to migrate: %v", err)
	}

	repo := sqlite.New(d, nil)
	return repo, func() { d.Close() }
}

func mkIdentity(t *testing.T, repo *sqlite.SQLiteRepo, email string) *models.Identity {
	t.Helper()
	ident := &models.Identity{ID: uuid.NewString(), Email: email, PasswordHash: "hash"}
	if err := repo.CreateIdentity(context.Background(), ident); err != nil {
		t.Fatalf("CreateIdentity error: %v", err)
	}
	return ident
}

func mkProfile(t *testing.T, repo *sqlite.SQLiteRepo, email, name string, role models.Role) *models.Profile {
	t.Helper()
	ident := mkIdentity(t, repo, email)
	p := &models.Profile{ID: ident.ID, FullName: name, Role: role, Department: models.DeptComputerEngineering}
	if err := repo.CreateProfile(context.Background(), p); err != nil {
		t.Fatalf("CreateProfile error: %v", err)
	}
	return p
}

func mkCourse(t *testing.T, repo *sqlite.SQLiteRepo, facultyID, name string, created int64) *models.Course {
	t.Helper()
	c := &models.Course{
		ID:         uuid.NewString(),
		Name:       name,
		Department: models.DeptComputerEngineering,
		FacultyID:  facultyID,
		Created:    created,
	}
	if err := repo.CreateCourse(context.Background(), c); err != nil {
		t.Fatalf("CreateCourse error: %v", err)
	}
	return c
}

func TestIdentityCreateAndGet(t *testing.T) {
	repo, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	if err := repo.CreateIdentity(ctx, nil); err == nil {
		t.Fatalf("expected error when creating nil identity")
	}

	got, err := repo.GetIdentityByEmail(ctx, "nobody@example.com")
	if err != nil {
		t.Fatalf("GetIdentityByEmail error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for unknown email got: %#v", got)
	}

	ident := mkIdentity(t, repo, "alice@example.com")

	byID, err := repo.GetIdentity(ctx, ident.ID)
	if err != nil {
		t.Fatalf("GetIdentity error: %v", err)
	}
	if byID == nil || byID.Email != "alice@example.com" {
		t.Fatalf("GetIdentity wrong result: %#v", byID)
	}

	// duplicate email maps to ErrConflict
	dup := &models.Identity{ID: uuid.NewString(), Email: "alice@example.com", PasswordHash: "h"}
	if err := repo.CreateIdentity(ctx, dup); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate email got: %v", err)
	}
}

func TestProfileCreateUpsertGet(t *testing.T) {
	repo, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	if err := repo.CreateProfile(ctx, nil); err == nil {
		t.Fatalf("expected error when creating nil profile")
	}

	p := mkProfile(t, repo, "bob@example.com", "Bob", models.RoleStudent)

	got, err := repo.GetProfile(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProfile error: %v", err)
	}
	if got == nil || got.FullName != "Bob" || got.Role != models.RoleStudent {
		t.Fatalf("GetProfile wrong result: %#v", got)
	}

	// second create for the same id conflicts
	again := &models.Profile{ID: p.ID, FullName: "Bob 2", Role: models.RoleStudent, Department: models.DeptAIML}
	if err := repo.CreateProfile(ctx, again); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate profile got: %v", err)
	}

	// upsert refreshes display fields without erroring
	up := &models.Profile{ID: p.ID, FullName: "Robert", Role: models.RoleStudent, Department: models.DeptComputerEngineering, StudentID: "S-100"}
	if err := repo.UpsertProfile(ctx, up); err != nil {
		t.Fatalf("UpsertProfile error: %v", err)
	}
	got, err = repo.GetProfile(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProfile after upsert error: %v", err)
	}
	if got.FullName != "Robert" || got.StudentID != "S-100" {
		t.Fatalf("upsert not applied: %#v", got)
	}
}

func TestCourseListOrdering(t *testing.T) {
	repo, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	f := mkProfile(t, repo, "fac@example.com", "Prof", models.RoleFaculty)
	older := mkCourse(t, repo, f.ID, "Older", 1000)
	newer := mkCourse(t, repo, f.ID, "Newer", 2000)

	courses, err := repo.ListCoursesByFaculty(ctx, f.ID)
	if err != nil {
		t.Fatalf("ListCoursesByFaculty error: %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("expected 2 courses got %d", len(courses))
	}
	if courses[0].ID != newer.ID || courses[1].ID != older.ID {
		t.Fatalf("expected creation-time descending order, got %v then %v", courses[0].Name, courses[1].Name)
	}

	// a student sees only enrolled courses
	s := mkProfile(t, repo, "stu@example.com", "Student", models.RoleStudent)
	if err := repo.CreateEnrollment(ctx, &models.Enrollment{CourseID: older.ID, StudentID: s.ID}); err != nil {
		t.Fatalf("CreateEnrollment error: %v", err)
	}
	mine, err := repo.ListCoursesByStudent(ctx, s.ID)
	if err != nil {
		t.Fatalf("ListCoursesByStudent error: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != older.ID {
		t.Fatalf("expected only the enrolled course, got %#v", mine)
	}
}

func TestEnrollmentUniqueAndStudentUnion(t *testing.T) {
	repo, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	f := mkProfile(t, repo, "fac@example.com", "Prof", models.RoleFaculty)
	s := mkProfile(t, repo, "stu@example.com", "Student", models.RoleStudent)
	c1 := mkCourse(t, repo, f.ID, "C1", 0)
	c2 := mkCourse(t, repo, f.ID, "C2", 0)

	if err := repo.CreateEnrollment(ctx, &models.Enrollment{CourseID: c1.ID, StudentID: s.ID}); err != nil {
		t.Fatalf("CreateEnrollment error: %v", err)
	}
	if err := repo.CreateEnrollment(ctx, &models.Enrollment{CourseID: c1.ID, StudentID: s.ID}); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate enrollment got: %v", err)
	}

	exists, err := repo.EnrollmentExists(ctx, c1.ID, s.ID)
	if err != nil || !exists {
		t.Fatalf("EnrollmentExists = %v, %v; want true, nil", exists, err)
	}

	// same student in a second course appears once in the union
	if err := repo.CreateEnrollment(ctx, &models.Enrollment{CourseID: c2.ID, StudentID: s.ID}); err != nil {
		t.Fatalf("CreateEnrollment error: %v", err)
	}
	students, err := repo.ListStudentsByCourses(ctx, []string{c1.ID, c2.ID})
	if err != nil {
		t.Fatalf("ListStudentsByCourses error: %v", err)
	}
	if len(students) != 1 || students[0].ID != s.ID {
		t.Fatalf("expected deduplicated single student, got %#v", students)
	}

	none, err := repo.ListStudentsByCourses(ctx, nil)
	if err != nil {
		t.Fatalf("ListStudentsByCourses empty error: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no students for empty course set got %d", len(none))
	}
}

func TestAssignmentOrdering(t *testing.T) {
	repo, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	f := mkProfile(t, repo, "fac@example.com", "Prof", models.RoleFaculty)
	c := mkCourse(t, repo, f.ID, "C", 0)

	late := &models.Assignment{ID: uuid.NewString(), CourseID: c.ID, Title: "Late", DueDate: 5000}
	soon := &models.Assignment{ID: uuid.NewString(), CourseID: c.ID, Title: "Soon", DueDate: 1000}
	for _, a := range []*models.Assignment{late, soon} {
		if err := repo.CreateAssignment(ctx, a); err != nil {
			t.Fatalf("CreateAssignment error: %v", err)
		}
	}

	got, err := repo.ListAssignmentsByCourses(ctx, []string{c.ID})
	if err != nil {
		t.Fatalf("ListAssignmentsByCourses error: %v", err)
	}
	if len(got) != 2 || got[0].ID != soon.ID || got[1].ID != late.ID {
		t.Fatalf("expected due-date ascending order got %#v", got)
	}
}

func TestAnnouncementFeedLimit(t *testing.T) {
	repo, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	f := mkProfile(t, repo, "fac@example.com", "Prof", models.RoleFaculty)
	c := mkCourse(t, repo, f.ID, "C", 0)

	for i := 0; i < 4; i++ {
		a := &models.Announcement{
			ID:       uuid.NewString(),
			CourseID: c.ID,
			Title:    "A",
			PostedBy: f.ID,
			Created:  int64(1000 + i),
		}
		if err := repo.CreateAnnouncement(ctx, a); err != nil {
			t.Fatalf("CreateAnnouncement error: %v", err)
		}
	}

	got, err := repo.ListAnnouncementsByCourses(ctx, []string{c.ID}, 2)
	if err != nil {
		t.Fatalf("ListAnnouncementsByCourses error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected limit of 2 got %d", len(got))
	}
	if got[0].Created < got[1].Created {
		t.Fatalf("expected newest first got %#v", got)
	}

	all, err := repo.ListAnnouncementsByCourses(ctx, []string{c.ID}, 0)
	if err != nil {
		t.Fatalf("ListAnnouncementsByCourses unbounded error: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected all 4 announcements got %d", len(all))
	}
}

func TestAttendanceUniqueUpdateSummary(t *testing.T) {
	repo, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	f := mkProfile(t, repo, "fac@example.com", "Prof", models.RoleFaculty)
	s := mkProfile(t, repo, "stu@example.com", "Student", models.RoleStudent)
	c := mkCourse(t, repo, f.ID, "C", 0)

	a := &models.Attendance{
		ID:        uuid.NewString(),
		CourseID:  c.ID,
		StudentID: s.ID,
		Date:      "2026-03-02",
		Status:    models.AttendancePresent,
		MarkedBy:  f.ID,
	}
	if err := repo.CreateAttendance(ctx, a); err != nil {
		t.Fatalf("CreateAttendance error: %v", err)
	}

	dup := *a
	dup.ID = uuid.NewString()
	if err := repo.CreateAttendance(ctx, &dup); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate composite key got: %v", err)
	}

	exists, err := repo.AttendanceExists(ctx, c.ID, s.ID, "2026-03-02")
	if err != nil || !exists {
		t.Fatalf("AttendanceExists = %v, %v; want true, nil", exists, err)
	}

	// explicit correction path
	if err := repo.UpdateAttendanceStatus(ctx, c.ID, s.ID, "2026-03-02", models.AttendanceLate); err != nil {
		t.Fatalf("UpdateAttendanceStatus error: %v", err)
	}
	if err := repo.UpdateAttendanceStatus(ctx, c.ID, s.ID, "2026-03-09", models.AttendanceLate); err == nil {
		t.Fatalf("expected error updating a missing attendance record")
	}

	list, err := repo.ListAttendanceByCourse(ctx, c.ID)
	if err != nil {
		t.Fatalf("ListAttendanceByCourse error: %v", err)
	}
	if len(list) != 1 || list[0].Status != models.AttendanceLate {
		t.Fatalf("expected one late record got %#v", list)
	}

	summary, err := repo.SummarizeAttendanceByCourses(ctx, []string{c.ID})
	if err != nil {
		t.Fatalf("SummarizeAttendanceByCourses error: %v", err)
	}
	if len(summary) != 1 || summary[0].Late != 1 || summary[0].Present != 0 {
		t.Fatalf("unexpected summary: %#v", summary)
	}
}

func TestMaterialAndFeedbackLists(t *testing.T) {
	repo, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	f := mkProfile(t, repo, "fac@example.com", "Prof", models.RoleFaculty)
	s := mkProfile(t, repo, "stu@example.com", "Student", models.RoleStudent)
	c := mkCourse(t, repo, f.ID, "C", 0)

	m := &models.Material{ID: uuid.NewString(), CourseID: c.ID, Title: "Notes", FilePath: c.ID + "/x.pdf", UploadedBy: f.ID}
	if err := repo.CreateMaterial(ctx, m); err != nil {
		t.Fatalf("CreateMaterial error: %v", err)
	}
	mats, err := repo.ListMaterialsByCourses(ctx, []string{c.ID})
	if err != nil {
		t.Fatalf("ListMaterialsByCourses error: %v", err)
	}
	if len(mats) != 1 || mats[0].FilePath != m.FilePath {
		t.Fatalf("unexpected materials: %#v", mats)
	}

	fb := &models.Feedback{ID: uuid.NewString(), CourseID: c.ID, StudentID: s.ID, Rating: 4, Comment: "good"}
	if err := repo.CreateFeedback(ctx, fb); err != nil {
		t.Fatalf("CreateFeedback error: %v", err)
	}
	fbs, err := repo.ListFeedbackByCourse(ctx, c.ID)
	if err != nil {
		t.Fatalf("ListFeedbackByCourse error: %v", err)
	}
	if len(fbs) != 1 || fbs[0].Rating != 4 {
		t.Fatalf("unexpected feedback: %#v", fbs)
	}
}

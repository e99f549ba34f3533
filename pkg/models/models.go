package models

// Domain models matching the database schema in db/migrations/0001_init.sql

// Role classifies a profile as either a student or a member of faculty.
type Role string

const (
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
)

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleFaculty
}

// Department is one of the institution's academic departments.
type Department string

const (
	DeptComputerEngineering Department = "computer_engineering"
	DeptAIML                Department = "ai_ml"
	DeptDataScience         Department = "data_science"
)

func (d Department) Valid() bool {
	switch d {
	case DeptComputerEngineering, DeptAIML, DeptDataScience:
		return true
	}
	return false
}

// DisplayName returns the human-readable department name used by the dashboards.
func (d Department) DisplayName() string {
	switch d {
	case DeptComputerEngineering:
		return "Computer Engineering"
	case DeptAIML:
		return "AI & Machine Learning"
	case DeptDataScience:
		return "Data Science"
	}
	return string(d)
}

// AttendanceStatus records how a student was marked for a class day.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate:
		return true
	}
	return false
}

// Identity is the credential-bearing record owned by the identity store.
// PasswordHash never leaves the store boundary in API responses.
type Identity struct {
	ID           string `json:"id" db:"id"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	Created      int64  `json:"created" db:"created"`
}

// Profile is the role- and department-tagged record linked one-to-one to an
// identity. Its ID equals the identity's ID. Role and department are set at
// creation and never changed by this module.
type Profile struct {
	ID         string     `json:"id" db:"id"`
	FullName   string     `json:"full_name" db:"full_name"`
	Role       Role       `json:"role" db:"role"`
	Department Department `json:"department" db:"department"`
	StudentID  string     `json:"student_id,omitempty" db:"student_id"`
	Created    int64      `json:"created" db:"created"`
	Updated    int64      `json:"updated" db:"updated"`
}

type Course struct {
	ID          string     `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description,omitempty" db:"description"`
	Department  Department `json:"department" db:"department"`
	FacultyID   string     `json:"faculty_id" db:"faculty_id"`
	Created     int64      `json:"created" db:"created"`
}

// Enrollment is the join record granting a student visibility into a course.
// The (CourseID, StudentID) pair is unique.
type Enrollment struct {
	CourseID  string `json:"course_id" db:"course_id"`
	StudentID string `json:"student_id" db:"student_id"`
	Created   int64  `json:"created" db:"created"`
}

type Assignment struct {
	ID          string `json:"id" db:"id"`
	CourseID    string `json:"course_id" db:"course_id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description,omitempty" db:"description"`
	DueDate     int64  `json:"due_date" db:"due_date"`
	Created     int64  `json:"created" db:"created"`
}

// Material references an uploaded file; FilePath is an opaque key into the
// blob store, never a local filesystem path.
type Material struct {
	ID         string `json:"id" db:"id"`
	CourseID   string `json:"course_id" db:"course_id"`
	Title      string `json:"title" db:"title"`
	FilePath   string `json:"file_path" db:"file_path"`
	UploadedBy string `json:"uploaded_by" db:"uploaded_by"`
	Created    int64  `json:"created" db:"created"`
}

type Announcement struct {
	ID       string `json:"id" db:"id"`
	CourseID string `json:"course_id" db:"course_id"`
	Title    string `json:"title" db:"title"`
	Content  string `json:"content" db:"content"`
	PostedBy string `json:"posted_by" db:"posted_by"`
	Created  int64  `json:"created" db:"created"`
}

// Attendance is unique per (CourseID, StudentID, Date); Date is a calendar day
// in "2006-01-02" form.
type Attendance struct {
	ID        string           `json:"id" db:"id"`
	CourseID  string           `json:"course_id" db:"course_id"`
	StudentID string           `json:"student_id" db:"student_id"`
	Date      string           `json:"date" db:"date"`
	Status    AttendanceStatus `json:"status" db:"status"`
	MarkedBy  string           `json:"marked_by" db:"marked_by"`
	Created   int64            `json:"created" db:"created"`
}

type Feedback struct {
	ID        string `json:"id" db:"id"`
	CourseID  string `json:"course_id" db:"course_id"`
	StudentID string `json:"student_id" db:"student_id"`
	Rating    int    `json:"rating" db:"rating"`
	Comment   string `json:"comment,omitempty" db:"comment"`
	Created   int64  `json:"created" db:"created"`
}

package campus

import "errors"

// Invariant violations are returned as typed failures so callers can decide
// user messaging; they are never swallowed inside this package.
var (
	ErrNotFound            = errors.New("campus: not found")
	ErrRoleViolation       = errors.New("campus: role violation")
	ErrNotCourseOwner      = errors.New("campus: not course owner")
	ErrNotEnrolled         = errors.New("campus: not enrolled")
	ErrDuplicateEnrollment = errors.New("campus: duplicate enrollment")
	ErrDuplicateAttendance = errors.New("campus: duplicate attendance")
	ErrInvalidRating       = errors.New("campus: rating out of range")
)

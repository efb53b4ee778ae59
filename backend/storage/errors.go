package storage

import "errors"

// ErrNotFound is returned when the referenced entity does not exist.
// Handlers translate it into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrAlreadyEnrolled is returned when the (user, course) pair already has
// an enrollment row. The unique index on enrollments is the only check;
// there is no separate read-before-insert, so two concurrent enroll
// requests cannot both succeed. Handlers translate it into a 400.
var ErrAlreadyEnrolled = errors.New("already enrolled in this course")

package models

// Joined views assembled by the storage layer for detail endpoints.

type SectionWithLessons struct {
	CourseSection
	Lessons []Lesson `json:"lessons"`
}

type ReviewWithUser struct {
	Review
	User User `json:"user"`
}

type CourseWithRelations struct {
	Course
	Category *Category            `json:"category,omitempty"`
	Teacher  User                 `json:"teacher"`
	Sections []SectionWithLessons `json:"sections"`
	Reviews  []ReviewWithUser     `json:"reviews"`
}

type EnrollmentWithCourse struct {
	Enrollment
	Course Course `json:"course"`
}

type EnrollmentWithUser struct {
	Enrollment
	User User `json:"user"`
}

// Role-dependent dashboard aggregates.

type InstructorStats struct {
	TotalCourses  int     `json:"totalCourses"`
	TotalStudents int     `json:"totalStudents"`
	TotalRevenue  float64 `json:"totalRevenue"`
	AvgRating     float64 `json:"avgRating"`
}

type StudentStats struct {
	EnrolledCourses  int `json:"enrolledCourses"`
	CompletedCourses int `json:"completedCourses"`
	InProgress       int `json:"inProgress"`
	TotalHours       int `json:"totalHours"`
}

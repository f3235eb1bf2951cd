package models

// PlatformStats is the admin dashboard headline block.
type PlatformStats struct {
	TotalUsers        int64   `json:"totalUsers"`
	TotalCourses      int64   `json:"totalCourses"`
	TotalEnrollments  int64   `json:"totalEnrollments"`
	AverageCompletion float64 `json:"averageCompletion"`
}

// StudentOverview is one roster row with per-student aggregates.
type StudentOverview struct {
	User            User    `json:"user"`
	EnrollmentCount int     `json:"enrollmentCount"`
	AverageProgress float64 `json:"averageProgress"`
}

// StudentDetail is the single-student admin view.
type StudentDetail struct {
	User         User                 `json:"user"`
	Enrollments  []CourseProgressView `json:"enrollments"`
	StudyUpdates []StudyUpdate        `json:"studyUpdates"`
}

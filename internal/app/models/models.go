package models

// Role defines the user role
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleCounselor Role = "counselor"
	RoleStudent   Role = "student"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCounselor, RoleStudent:
		return true
	}
	return false
}

// Table names of the entity store
const (
	TableUsers                   = "users"
	TableClasses                 = "classes"
	TableStudents                = "students"
	TableCounselingSessions      = "counseling_sessions"
	TableMentalHealthAssessments = "mental_health_assessments"
	TableBehaviorRecords         = "behavior_records"
	TableCareerAssessments       = "career_assessments"
)

// StudentDependentTables lists the tables whose rows belong to a student, in the
// order a hard delete reports them.
var StudentDependentTables = []string{
	TableCounselingSessions,
	TableMentalHealthAssessments,
	TableBehaviorRecords,
	TableCareerAssessments,
}

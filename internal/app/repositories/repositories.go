package repositories

import (
	"github.com/Masterminds/squirrel"

	"github.com/counselorhub/counselorhub/internal/db"
)

// ActivityFilter selects the active view, the deleted view, or both
type ActivityFilter int

const (
	// ActiveOnly matches rows with is_active = TRUE
	ActiveOnly ActivityFilter = iota
	// DeletedOnly matches soft-deleted rows
	DeletedOnly
	// AnyState matches every row
	AnyState
)

// apply adds the is_active predicate for column to the query
func (f ActivityFilter) apply(q squirrel.SelectBuilder, column string) squirrel.SelectBuilder {
	switch f {
	case ActiveOnly:
		return q.Where(squirrel.Eq{column: true})
	case DeletedOnly:
		return q.Where(squirrel.Eq{column: false})
	default:
		return q
	}
}

// ListOptions holds paging for list queries. A zero Limit means no limit.
type ListOptions struct {
	Offset uint64
	Limit  uint64
}

func (o ListOptions) apply(q squirrel.SelectBuilder) squirrel.SelectBuilder {
	if o.Limit > 0 {
		q = q.Limit(o.Limit).Offset(o.Offset)
	}
	return q
}

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	ClassRepository      *ClassRepository
	StudentRepository    *StudentRepository
	RecordRepository     *RecordRepository
	DependentsRepository *DependentsRepository
}

// NewRepositories initializes all repositories over the shared pool
func NewRepositories(database *db.Database) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(database),
		ClassRepository:      NewClassRepository(database),
		StudentRepository:    NewStudentRepository(database),
		RecordRepository:     NewRecordRepository(database),
		DependentsRepository: NewDependentsRepository(database),
	}
}

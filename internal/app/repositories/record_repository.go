package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/counselorhub/counselorhub/internal/app/models"
	"github.com/counselorhub/counselorhub/internal/db"
	"github.com/counselorhub/counselorhub/internal/pkg/apperrors"
	"github.com/counselorhub/counselorhub/internal/pkg/dberrors"
	"github.com/counselorhub/counselorhub/internal/pkg/logger"
)

var recordBaseColumns = []string{"id", "student_id", "recorded_by", "is_active", "created_at", "updated_at", "deleted_at"}

// RecordRepository handles the four student-owned record tables
type RecordRepository struct {
	q  db.Querier
	sb squirrel.StatementBuilderType
}

// NewRecordRepository creates a new RecordRepository
func NewRecordRepository(database *db.Database) *RecordRepository {
	return &RecordRepository{
		q:  database.DB,
		sb: database.Dialect.Builder(),
	}
}

// WithTx returns a copy of the repository that runs its statements in tx
func (r *RecordRepository) WithTx(tx *sql.Tx) *RecordRepository {
	return &RecordRepository{q: tx, sb: r.sb}
}

func (r *RecordRepository) insert(ctx context.Context, table string, base models.RecordBase, columns []string, values ...interface{}) error {
	cols := append(append([]string{}, recordBaseColumns...), columns...)
	vals := append([]interface{}{
		base.ID, base.StudentID, base.RecordedBy, base.IsActive, base.CreatedAt, base.UpdatedAt, base.DeletedAt,
	}, values...)

	query, args, err := r.sb.Insert(table).Columns(cols...).Values(vals...).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query for %s: %w", table, err)
	}

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.NotFound("Student %s not found", base.StudentID)
		}
		logger.Error().Err(err).Str("table", table).Str("studentID", base.StudentID).Msg("Error inserting record")
		return fmt.Errorf("error inserting into %s: %w", table, err)
	}
	return nil
}

// query runs a select of table rows owned by studentID, newest record date first
func (r *RecordRepository) query(ctx context.Context, table, dateColumn, studentID string, columns []string,
	scan func(rows *sql.Rows) error) error {
	cols := append(append([]string{}, recordBaseColumns...), columns...)
	query, args, err := r.sb.Select(cols...).
		From(table).
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy(dateColumn+" DESC", "id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build list query for %s: %w", table, err)
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Str("table", table).Str("studentID", studentID).Msg("Error listing records")
		return fmt.Errorf("error querying %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("error scanning %s row: %w", table, err)
		}
	}
	return rows.Err()
}

func baseDest(b *models.RecordBase) []interface{} {
	return []interface{}{&b.ID, &b.StudentID, &b.RecordedBy, &b.IsActive, &b.CreatedAt, &b.UpdatedAt, &b.DeletedAt}
}

// CreateCounselingSession inserts a counseling session
func (r *RecordRepository) CreateCounselingSession(ctx context.Context, s *models.CounselingSession) error {
	return r.insert(ctx, models.TableCounselingSessions, s.RecordBase,
		[]string{"session_date", "session_type", "status", "notes"},
		s.SessionDate, s.SessionType, s.Status, s.Notes)
}

// ListCounselingSessions returns every counseling session of a student
func (r *RecordRepository) ListCounselingSessions(ctx context.Context, studentID string) ([]*models.CounselingSession, error) {
	out := []*models.CounselingSession{}
	err := r.query(ctx, models.TableCounselingSessions, "session_date", studentID,
		[]string{"session_date", "session_type", "status", "notes"},
		func(rows *sql.Rows) error {
			s := &models.CounselingSession{}
			dest := append(baseDest(&s.RecordBase), &s.SessionDate, &s.SessionType, &s.Status, &s.Notes)
			if err := rows.Scan(dest...); err != nil {
				return err
			}
			out = append(out, s)
			return nil
		})
	return out, err
}

// CreateMentalHealthAssessment inserts a mental health assessment
func (r *RecordRepository) CreateMentalHealthAssessment(ctx context.Context, a *models.MentalHealthAssessment) error {
	return r.insert(ctx, models.TableMentalHealthAssessments, a.RecordBase,
		[]string{"assessment_date", "assessment_type", "score", "risk_level", "notes"},
		a.AssessmentDate, a.AssessmentType, a.Score, a.RiskLevel, a.Notes)
}

// ListMentalHealthAssessments returns every mental health assessment of a student
func (r *RecordRepository) ListMentalHealthAssessments(ctx context.Context, studentID string) ([]*models.MentalHealthAssessment, error) {
	out := []*models.MentalHealthAssessment{}
	err := r.query(ctx, models.TableMentalHealthAssessments, "assessment_date", studentID,
		[]string{"assessment_date", "assessment_type", "score", "risk_level", "notes"},
		func(rows *sql.Rows) error {
			a := &models.MentalHealthAssessment{}
			dest := append(baseDest(&a.RecordBase), &a.AssessmentDate, &a.AssessmentType, &a.Score, &a.RiskLevel, &a.Notes)
			if err := rows.Scan(dest...); err != nil {
				return err
			}
			out = append(out, a)
			return nil
		})
	return out, err
}

// CreateBehaviorRecord inserts a behavior record
func (r *RecordRepository) CreateBehaviorRecord(ctx context.Context, b *models.BehaviorRecord) error {
	return r.insert(ctx, models.TableBehaviorRecords, b.RecordBase,
		[]string{"incident_date", "behavior_type", "severity", "description", "action_taken"},
		b.IncidentDate, b.BehaviorType, b.Severity, b.Description, b.ActionTaken)
}

// ListBehaviorRecords returns every behavior record of a student
func (r *RecordRepository) ListBehaviorRecords(ctx context.Context, studentID string) ([]*models.BehaviorRecord, error) {
	out := []*models.BehaviorRecord{}
	err := r.query(ctx, models.TableBehaviorRecords, "incident_date", studentID,
		[]string{"incident_date", "behavior_type", "severity", "description", "action_taken"},
		func(rows *sql.Rows) error {
			b := &models.BehaviorRecord{}
			dest := append(baseDest(&b.RecordBase), &b.IncidentDate, &b.BehaviorType, &b.Severity, &b.Description, &b.ActionTaken)
			if err := rows.Scan(dest...); err != nil {
				return err
			}
			out = append(out, b)
			return nil
		})
	return out, err
}

// CreateCareerAssessment inserts a career assessment
func (r *RecordRepository) CreateCareerAssessment(ctx context.Context, c *models.CareerAssessment) error {
	return r.insert(ctx, models.TableCareerAssessments, c.RecordBase,
		[]string{"assessment_date", "interests", "strengths", "recommended_careers", "notes"},
		c.AssessmentDate, c.Interests, c.Strengths, c.RecommendedCareers, c.Notes)
}

// ListCareerAssessments returns every career assessment of a student
func (r *RecordRepository) ListCareerAssessments(ctx context.Context, studentID string) ([]*models.CareerAssessment, error) {
	out := []*models.CareerAssessment{}
	err := r.query(ctx, models.TableCareerAssessments, "assessment_date", studentID,
		[]string{"assessment_date", "interests", "strengths", "recommended_careers", "notes"},
		func(rows *sql.Rows) error {
			c := &models.CareerAssessment{}
			dest := append(baseDest(&c.RecordBase), &c.AssessmentDate, &c.Interests, &c.Strengths, &c.RecommendedCareers, &c.Notes)
			if err := rows.Scan(dest...); err != nil {
				return err
			}
			out = append(out, c)
			return nil
		})
	return out, err
}

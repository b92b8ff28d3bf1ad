package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/counselorhub/counselorhub/internal/app/models"
	"github.com/counselorhub/counselorhub/internal/db"
	"github.com/counselorhub/counselorhub/internal/pkg/apperrors"
	"github.com/counselorhub/counselorhub/internal/pkg/dberrors"
	"github.com/counselorhub/counselorhub/internal/pkg/logger"
)

var userColumns = []string{
	"user_id", "name", "email", "username", "role", "password_hash",
	"is_active", "created_at", "updated_at", "deleted_at",
}

// UserFilter narrows user list queries
type UserFilter struct {
	State ActivityFilter
	Role  models.Role
}

// UserRepository handles user database operations
type UserRepository struct {
	q  db.Querier
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(database *db.Database) *UserRepository {
	return &UserRepository{
		q:  database.DB,
		sb: database.Dialect.Builder(),
	}
}

// WithTx returns a copy of the repository that runs its statements in tx
func (r *UserRepository) WithTx(tx *sql.Tx) *UserRepository {
	return &UserRepository{q: tx, sb: r.sb}
}

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.UserID, &u.Name, &u.Email, &u.Username, &u.Role, &u.PasswordHash,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt, &u.DeletedAt)
	return u, err
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query, args, err := r.sb.Insert(models.TableUsers).
		Columns(userColumns...).
		Values(user.UserID, user.Name, user.Email, user.Username, user.Role, user.PasswordHash,
			user.IsActive, user.CreatedAt, user.UpdatedAt, user.DeletedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create user query: %w", err)
	}

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			logger.Warn().Str("userID", user.UserID).Str("username", user.Username).Msg("Duplicate user")
			return apperrors.Conflict("A user with this id, username or email already exists")
		}
		logger.Error().Err(err).Str("userID", user.UserID).Msg("Error executing create user query")
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID within the given view
func (r *UserRepository) GetByID(ctx context.Context, userID string, state ActivityFilter) (*models.User, error) {
	sel := r.sb.Select(userColumns...).
		From(models.TableUsers).
		Where(squirrel.Eq{"user_id": userID}).
		Limit(1)
	query, args, err := state.apply(sel, "is_active").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user, err := scanUser(r.q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("User %s not found", userID)
		}
		logger.Error().Err(err).Str("userID", userID).Msg("Error scanning user row")
		return nil, fmt.Errorf("error getting user by ID: %w", err)
	}
	return user, nil
}

// GetByLogin retrieves a user by username or email, in any state
func (r *UserRepository) GetByLogin(ctx context.Context, username, email string) (*models.User, error) {
	var where squirrel.Sqlizer
	switch {
	case username != "":
		where = squirrel.Eq{"username": username}
	case email != "":
		where = squirrel.Eq{"email": email}
	default:
		return nil, apperrors.NotFound("User not found")
	}

	query, args, err := r.sb.Select(userColumns...).From(models.TableUsers).Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user by login query: %w", err)
	}

	user, err := scanUser(r.q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, fmt.Errorf("error getting user by login: %w", err)
	}
	return user, nil
}

// List returns one page of users plus the total matching count
func (r *UserRepository) List(ctx context.Context, filter UserFilter, opts ListOptions) ([]*models.User, int64, error) {
	where := squirrel.And{}
	if filter.Role != "" {
		where = append(where, squirrel.Eq{"role": filter.Role})
	}

	countQ := filter.State.apply(r.sb.Select("COUNT(*)").From(models.TableUsers).Where(where), "is_active")
	query, args, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count users query: %w", err)
	}
	var total int64
	if err := r.q.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting users")
		return nil, 0, fmt.Errorf("error counting users: %w", err)
	}

	sel := filter.State.apply(r.sb.Select(userColumns...).From(models.TableUsers).Where(where), "is_active")
	if filter.State == DeletedOnly {
		sel = sel.OrderBy("deleted_at DESC", "user_id ASC")
	} else {
		sel = sel.OrderBy("name ASC", "user_id ASC")
	}
	query, args, err = opts.apply(sel).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list users query: %w", err)
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list users query")
		return nil, 0, fmt.Errorf("error querying users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, total, nil
}

// Update writes the mutable profile fields of an active user
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	query, args, err := r.sb.Update(models.TableUsers).
		SetMap(map[string]interface{}{
			"name":       user.Name,
			"email":      user.Email,
			"role":       user.Role,
			"updated_at": user.UpdatedAt,
		}).
		Where(squirrel.Eq{"user_id": user.UserID, "is_active": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update user query: %w", err)
	}

	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.Conflict("A user with this email already exists")
		}
		logger.Error().Err(err).Str("userID", user.UserID).Msg("Error executing update user query")
		return fmt.Errorf("error updating user: %w", err)
	}
	return requireAffected(res, apperrors.NotFound("User %s not found", user.UserID))
}

// SoftDelete flips an active user to inactive
func (r *UserRepository) SoftDelete(ctx context.Context, userID string, at time.Time) error {
	return setInactive(ctx, r.q, r.sb, models.TableUsers, "user_id", userID, at,
		apperrors.NotFound("User %s not found", userID))
}

// Restore flips an inactive user back to active
func (r *UserRepository) Restore(ctx context.Context, userID string, at time.Time) error {
	return setActive(ctx, r.q, r.sb, models.TableUsers, "user_id", userID, at,
		apperrors.NotFound("User %s not found", userID))
}

// setInactive performs the soft delete UPDATE guarded on is_active = TRUE.
// Zero affected rows means the row is missing or already deleted.
func setInactive(ctx context.Context, q db.Querier, sb squirrel.StatementBuilderType,
	table, idColumn, id string, at time.Time, notFound error) error {
	query, args, err := sb.Update(table).
		SetMap(map[string]interface{}{
			"is_active":  false,
			"deleted_at": at,
			"updated_at": at,
		}).
		Where(squirrel.Eq{idColumn: id, "is_active": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build soft delete query for %s: %w", table, err)
	}

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Str("table", table).Str("id", id).Msg("Error executing soft delete")
		return fmt.Errorf("error soft deleting from %s: %w", table, err)
	}
	return requireAffected(res, notFound)
}

// setActive clears the soft delete markers of a row
func setActive(ctx context.Context, q db.Querier, sb squirrel.StatementBuilderType,
	table, idColumn, id string, at time.Time, notFound error) error {
	query, args, err := sb.Update(table).
		SetMap(map[string]interface{}{
			"is_active":  true,
			"deleted_at": nil,
			"updated_at": at,
		}).
		Where(squirrel.Eq{idColumn: id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build restore query for %s: %w", table, err)
	}

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Str("table", table).Str("id", id).Msg("Error executing restore")
		return fmt.Errorf("error restoring %s: %w", table, err)
	}
	return requireAffected(res, notFound)
}

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

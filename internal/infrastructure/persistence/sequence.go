package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/labstock/backend/internal/domain/plan"
	"github.com/labstock/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// nextID returns max(id)+1 for table, or 1 when it is empty.
// Callers serialize writers, so two transactions never race for the same id.
func nextID(ctx context.Context, db *gorm.DB, table, op string) (int64, error) {
	var next int64
	err := db.WithContext(ctx).
		Table(table).
		Select("COALESCE(MAX(id), 0) + 1").
		Scan(&next).Error
	if err != nil {
		return 0, translateError(op, err)
	}
	return next, nil
}

// translateError maps gorm errors to domain errors
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
		return shared.NewDomainError(shared.CodeAlreadyExists, "Record already exists")
	}
	if isTransient(err) {
		return shared.NewTransientPersistenceError(op, err)
	}
	return shared.NewPersistenceError(op, err)
}

// translateTxError maps a failure of the transaction itself, such as a
// rejected commit, and passes errors already translated by a repository
func translateTxError(err error) error {
	if err == nil {
		return nil
	}
	var de *shared.DomainError
	var pe *shared.PersistenceError
	if errors.As(err, &de) || errors.As(err, &pe) {
		return err
	}
	return translateError("transaction", err)
}

// transientMarkers identify lock contention on SQLite and serialization
// failures or deadlocks on PostgreSQL
var transientMarkers = []string{
	"database is locked",
	"database table is locked",
	"SQLITE_BUSY",
	"SQLSTATE 40001",
	"SQLSTATE 40P01",
	"could not serialize access",
	"deadlock detected",
}

// isTransient reports whether running the write again may succeed
func isTransient(err error) bool {
	msg := err.Error()
	for _, m := range transientMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// isUniqueViolation recognizes unique constraint failures from both drivers
// when the dialector does not translate them
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

// applyStatusFilter restricts q by plan.FilterStatus. The value
// plan.StatusFilterRedirected matches every redirected status.
func applyStatusFilter(q *gorm.DB, filter shared.Filter) *gorm.DB {
	status := filter.String(plan.FilterStatus)
	switch status {
	case "":
		return q
	case plan.StatusFilterRedirected:
		return q.Where("status IN ?", redirectedStatuses)
	default:
		return q.Where("status = ?", status)
	}
}

var redirectedStatuses = []string{
	string(plan.StoreRequestRedirectedOverflow),
	string(plan.StoreRequestRedirectedInsufficientStock),
	string(plan.StoreRequestRedirectedPlanNotFound),
	string(plan.StoreRequestRedirectedItemNotFound),
}

// applyNeedFilter restricts q by plan.FilterNeedID
func applyNeedFilter(q *gorm.DB, filter shared.Filter) *gorm.DB {
	if id, ok := filter.Filters[plan.FilterNeedID].(int64); ok {
		return q.Where("need_id = ?", id)
	}
	return q
}

// applyDepartmentFilter restricts q by plan.FilterDepartment
func applyDepartmentFilter(q *gorm.DB, filter shared.Filter) *gorm.DB {
	if d := filter.String(plan.FilterDepartment); d != "" {
		return q.Where("department = ?", d)
	}
	return q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsFold reports whether s contains substr ignoring Unicode case
func containsFold(s, substr string) bool {
	return substr == "" || strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// escapeLike escapes LIKE wildcards in user input. PostgreSQL treats
// backslash as the default LIKE escape character.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

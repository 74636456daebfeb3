package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/labstock/backend/internal/domain/plan"
	"github.com/labstock/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPlanRepository implements PlanRepository using GORM
type GormPlanRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormPlanRepository creates a new GormPlanRepository
func NewGormPlanRepository(db *gorm.DB) *GormPlanRepository {
	return &GormPlanRepository{db: db, now: time.Now}
}

// Get returns the plan row, inserting an unlocked plan on first access
func (r *GormPlanRepository) Get(ctx context.Context) (*plan.Plan, error) {
	model, err := r.load(ctx)
	if err == nil {
		return model.ToDomain(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, translateError("load plan", err)
	}

	fresh := models.PlanModelFromDomain(plan.NewPlan(r.now()))
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(fresh).Error
	if err != nil {
		return nil, translateError("create plan", err)
	}

	// Another process may have inserted first; read back whichever row won
	model, err = r.load(ctx)
	if err != nil {
		return nil, translateError("load plan", err)
	}
	return model.ToDomain(), nil
}

func (r *GormPlanRepository) load(ctx context.Context) (*models.PlanModel, error) {
	var model models.PlanModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", plan.SingletonID).Error; err != nil {
		return nil, err
	}
	return &model, nil
}

// Save updates the plan
func (r *GormPlanRepository) Save(ctx context.Context, p *plan.Plan) error {
	if err := r.db.WithContext(ctx).Save(models.PlanModelFromDomain(p)).Error; err != nil {
		return translateError("save plan", err)
	}
	return nil
}

// Ensure GormPlanRepository implements PlanRepository
var _ plan.PlanRepository = (*GormPlanRepository)(nil)

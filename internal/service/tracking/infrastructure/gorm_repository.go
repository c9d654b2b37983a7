// internal/service/tracking/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"trackdesk/internal/service/tracking/domain"
)

// GormCustomerRepository 是 CustomerRepository 的 GORM 实现
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository 创建一个新的 GORM 仓储实例
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// Search 按姓名/邮箱子串或电话数字子串查找客户
func (r *GormCustomerRepository) Search(ctx context.Context, query string, limit int) ([]domain.Customer, error) {
	pattern := "%" + query + "%"
	tx := r.db.WithContext(ctx).
		Where("full_name LIKE ?", pattern).
		Or("email LIKE ?", pattern)

	// 查询里含数字时额外按电话匹配
	if digits := domain.OnlyDigits(query); digits != "" {
		tx = tx.Or("phone LIKE ?", "%"+digits+"%")
	}

	var models []CustomerModel
	if err := tx.Order("id DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "search customers")
	}

	out := make([]domain.Customer, len(models))
	for i := range models {
		out[i] = *ToDomainCustomer(&models[i])
	}
	return out, nil
}

// FindByID 根据 ID 查找客户
func (r *GormCustomerRepository) FindByID(ctx context.Context, id int64) (*domain.Customer, error) {
	var model CustomerModel
	err := r.db.WithContext(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, errors.Wrap(err, "find customer")
	}
	return ToDomainCustomer(&model), nil
}

// GormJobRepository 是 JobRepository 的 GORM 实现
type GormJobRepository struct {
	db      *gorm.DB
	aliases *domain.AliasTable
}

// NewGormJobRepository 创建一个新的 GORM 仓储实例
func NewGormJobRepository(db *gorm.DB, aliases *domain.AliasTable) *GormJobRepository {
	return &GormJobRepository{db: db, aliases: aliases}
}

func (r *GormJobRepository) withPreloads(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Brand").
		Preload("DevModel").
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("changed_at ASC")
		})
}

// FindByID 加载工单及其完整历史
func (r *GormJobRepository) FindByID(ctx context.Context, id int64) (*domain.Job, error) {
	var model JobModel
	err := r.withPreloads(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrJobNotFound
		}
		return nil, errors.Wrap(err, "find job")
	}
	return ToDomainJob(&model, r.aliases), nil
}

// FindByCustomer 加载某客户的全部工单，最近更新的在前
func (r *GormJobRepository) FindByCustomer(ctx context.Context, customerID int64) ([]*domain.Job, error) {
	var models []JobModel
	err := r.withPreloads(ctx).
		Where("customer_id = ?", customerID).
		Order("updated_at DESC, id DESC").
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "find jobs by customer")
	}
	return r.toDomainJobs(models), nil
}

// FindAll 加载全部工单
func (r *GormJobRepository) FindAll(ctx context.Context) ([]*domain.Job, error) {
	var models []JobModel
	err := r.withPreloads(ctx).Order("updated_at DESC, id DESC").Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "find all jobs")
	}
	return r.toDomainJobs(models), nil
}

func (r *GormJobRepository) toDomainJobs(models []JobModel) []*domain.Job {
	out := make([]*domain.Job, len(models))
	for i := range models {
		out[i] = ToDomainJob(&models[i], r.aliases)
	}
	return out
}

// UpdateStatus 在一个事务里完成乐观并发的状态写入和历史追加
// 前提条件是行里的当前状态仍归一到 expectedPrior ——
// 历史遗留行存的可能是别名拼写，所以条件用 IN 展开到全部等价拼写。
// 没有行被更新说明状态在校验之后被并发修改过，返回 ErrConcurrentModification。
func (r *GormJobRepository) UpdateStatus(ctx context.Context, jobID int64, expectedPrior, next domain.Status, entry domain.HistoryEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&JobModel{}).
			Where("id = ? AND current_status IN ?", jobID, r.aliases.Spellings(expectedPrior)).
			Updates(map[string]interface{}{
				"current_status": string(next),
				"updated_at":     entry.ChangedAt,
			})
		if res.Error != nil {
			return errors.Wrap(res.Error, "update job status")
		}
		if res.RowsAffected == 0 {
			// 区分“工单不存在”和“状态被抢先修改”
			var count int64
			if err := tx.Model(&JobModel{}).Where("id = ?", jobID).Count(&count).Error; err != nil {
				return errors.Wrap(err, "check job existence")
			}
			if count == 0 {
				return domain.ErrJobNotFound
			}
			return domain.ErrConcurrentModification
		}

		history := StatusHistoryModel{
			JobID:     uint(jobID),
			Status:    string(entry.Status),
			Note:      entry.Note,
			Actor:     entry.Actor,
			ChangedAt: entry.ChangedAt,
		}
		if err := tx.Create(&history).Error; err != nil {
			return errors.Wrap(err, "append status history")
		}
		return nil
	})
}

// internal/service/catalog/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"trackdesk/internal/service/catalog/domain"
)

// GormBrandRepository 是 BrandRepository 的 GORM 实现
type GormBrandRepository struct {
	db *gorm.DB
}

func NewGormBrandRepository(db *gorm.DB) *GormBrandRepository {
	return &GormBrandRepository{db: db}
}

func (r *GormBrandRepository) Create(ctx context.Context, brand *domain.Brand) error {
	model := BrandModel{Name: brand.Name}
	err := r.db.WithContext(ctx).Create(&model).Error
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			return domain.ErrDuplicateBrand
		}
		return errors.Wrap(err, "create brand")
	}
	brand.ID = int64(model.ID)
	return nil
}

func (r *GormBrandRepository) FindByID(ctx context.Context, id int64) (*domain.Brand, error) {
	var model BrandModel
	err := r.db.WithContext(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBrandNotFound
		}
		return nil, errors.Wrap(err, "find brand")
	}
	return &domain.Brand{ID: int64(model.ID), Name: model.Name}, nil
}

func (r *GormBrandRepository) FindAll(ctx context.Context) ([]domain.Brand, error) {
	var models []BrandModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "list brands")
	}
	out := make([]domain.Brand, len(models))
	for i, m := range models {
		out[i] = domain.Brand{ID: int64(m.ID), Name: m.Name}
	}
	return out, nil
}

func (r *GormBrandRepository) Update(ctx context.Context, brand *domain.Brand) error {
	res := r.db.WithContext(ctx).Model(&BrandModel{}).
		Where("id = ?", brand.ID).
		Update("name", brand.Name)
	if res.Error != nil {
		return errors.Wrap(res.Error, "update brand")
	}
	if res.RowsAffected == 0 {
		return domain.ErrBrandNotFound
	}
	return nil
}

func (r *GormBrandRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&BrandModel{}, id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete brand")
	}
	if res.RowsAffected == 0 {
		return domain.ErrBrandNotFound
	}
	return nil
}

// GormBrandModelRepository 是 BrandModelRepository 的 GORM 实现
type GormBrandModelRepository struct {
	db *gorm.DB
}

func NewGormBrandModelRepository(db *gorm.DB) *GormBrandModelRepository {
	return &GormBrandModelRepository{db: db}
}

func (r *GormBrandModelRepository) Create(ctx context.Context, model *domain.BrandModel) error {
	m := BrandModelModel{BrandID: uint(model.BrandID), Name: model.Name}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return errors.Wrap(err, "create brand model")
	}
	model.ID = int64(m.ID)
	return nil
}

func (r *GormBrandModelRepository) FindByBrand(ctx context.Context, brandID int64) ([]domain.BrandModel, error) {
	var models []BrandModelModel
	err := r.db.WithContext(ctx).Where("brand_id = ?", brandID).Order("name ASC").Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "list brand models")
	}
	out := make([]domain.BrandModel, len(models))
	for i, m := range models {
		out[i] = domain.BrandModel{ID: int64(m.ID), BrandID: int64(m.BrandID), Name: m.Name}
	}
	return out, nil
}

func (r *GormBrandModelRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&BrandModelModel{}, id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete brand model")
	}
	if res.RowsAffected == 0 {
		return domain.ErrModelNotFound
	}
	return nil
}

// GormCustomerRepository 是 catalog 侧 CustomerRepository 的 GORM 实现
type GormCustomerRepository struct {
	db *gorm.DB
}

func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	model := CustomerModel{FullName: customer.FullName, Phone: customer.Phone, Email: customer.Email}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return errors.Wrap(err, "create customer")
	}
	customer.ID = int64(model.ID)
	return nil
}

func (r *GormCustomerRepository) FindByID(ctx context.Context, id int64) (*domain.Customer, error) {
	var model CustomerModel
	err := r.db.WithContext(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, errors.Wrap(err, "find customer")
	}
	return &domain.Customer{ID: int64(model.ID), FullName: model.FullName, Phone: model.Phone, Email: model.Email}, nil
}

func (r *GormCustomerRepository) FindAll(ctx context.Context, limit int) ([]domain.Customer, error) {
	var models []CustomerModel
	if err := r.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "list customers")
	}
	out := make([]domain.Customer, len(models))
	for i, m := range models {
		out[i] = domain.Customer{ID: int64(m.ID), FullName: m.FullName, Phone: m.Phone, Email: m.Email}
	}
	return out, nil
}

func (r *GormCustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	res := r.db.WithContext(ctx).Model(&CustomerModel{}).
		Where("id = ?", customer.ID).
		Updates(map[string]interface{}{
			"full_name": customer.FullName,
			"phone":     customer.Phone,
			"email":     customer.Email,
		})
	if res.Error != nil {
		return errors.Wrap(res.Error, "update customer")
	}
	if res.RowsAffected == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

// GormRegistrationRepository 在一个事务里创建工单和初始历史
type GormRegistrationRepository struct {
	db *gorm.DB
}

func NewGormRegistrationRepository(db *gorm.DB) *GormRegistrationRepository {
	return &GormRegistrationRepository{db: db}
}

func (r *GormRegistrationRepository) CreateJob(ctx context.Context, reg *domain.Registration, initialStatus string) (int64, error) {
	var jobID int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		job := JobModel{
			CustomerID:    uint(reg.CustomerID),
			CurrentStatus: initialStatus,
			DeviceLabel:   reg.DeviceLabel,
			DeviceType:    reg.DeviceType,
			SerialNumber:  reg.SerialNumber,
			Problem:       reg.Problem,
		}
		if reg.BrandID > 0 {
			id := uint(reg.BrandID)
			job.BrandID = &id
		}
		if reg.ModelID > 0 {
			id := uint(reg.ModelID)
			job.ModelID = &id
		}
		if err := tx.Create(&job).Error; err != nil {
			return errors.Wrap(err, "create job")
		}

		history := StatusHistoryModel{
			JobID:     job.ID,
			Status:    initialStatus,
			Note:      "device registered",
			ChangedAt: reg.ReceivedAt,
		}
		if err := tx.Create(&history).Error; err != nil {
			return errors.Wrap(err, "create initial history")
		}
		jobID = int64(job.ID)
		return nil
	})
	return jobID, err
}

// GormStatsRepository 提供后台汇总的计数查询
type GormStatsRepository struct {
	db *gorm.DB
}

func NewGormStatsRepository(db *gorm.DB) *GormStatsRepository {
	return &GormStatsRepository{db: db}
}

func (r *GormStatsRepository) CountBrands(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&BrandModel{}).Count(&n).Error
	return n, errors.Wrap(err, "count brands")
}

func (r *GormStatsRepository) CountCustomers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&CustomerModel{}).Count(&n).Error
	return n, errors.Wrap(err, "count customers")
}

func (r *GormStatsRepository) CountJobs(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&JobModel{}).Count(&n).Error
	return n, errors.Wrap(err, "count jobs")
}

func (r *GormStatsRepository) CountJobsByRawStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		CurrentStatus string
		N             int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&JobModel{}).
		Select("current_status, COUNT(*) AS n").
		Group("current_status").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "count jobs by status")
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.CurrentStatus] = r.N
	}
	return out, nil
}

// internal/service/catalog/domain/repository.go
package domain

import "context"

// BrandRepository 定义了品牌数据的持久化接口
type BrandRepository interface {
	Create(ctx context.Context, brand *Brand) error
	FindByID(ctx context.Context, id int64) (*Brand, error)
	FindAll(ctx context.Context) ([]Brand, error)
	Update(ctx context.Context, brand *Brand) error
	Delete(ctx context.Context, id int64) error
}

// BrandModelRepository 定义了型号数据的持久化接口
type BrandModelRepository interface {
	Create(ctx context.Context, model *BrandModel) error
	FindByBrand(ctx context.Context, brandID int64) ([]BrandModel, error)
	Delete(ctx context.Context, id int64) error
}

// CustomerRepository 定义了客户档案的持久化接口
type CustomerRepository interface {
	Create(ctx context.Context, customer *Customer) error
	FindByID(ctx context.Context, id int64) (*Customer, error)
	FindAll(ctx context.Context, limit int) ([]Customer, error)
	Update(ctx context.Context, customer *Customer) error
}

// RegistrationRepository 把设备登记落成工单 + 首条历史记录
type RegistrationRepository interface {
	// CreateJob 在一个事务里创建工单和初始历史，返回工单 ID
	CreateJob(ctx context.Context, reg *Registration, initialStatus string) (int64, error)
}

// StatsRepository 提供后台汇总所需的各种计数
type StatsRepository interface {
	CountBrands(ctx context.Context) (int64, error)
	CountCustomers(ctx context.Context) (int64, error)
	CountJobs(ctx context.Context) (int64, error)
	// CountJobsByRawStatus 返回按原始状态字符串分组的计数
	// 归一化聚合由应用层完成
	CountJobsByRawStatus(ctx context.Context) (map[string]int64, error)
}

// internal/service/tracking/domain/repository.go
package domain

import "context"

// Customer 是客户记录在领域层的投影
// Phone 只在核验和脱敏时使用，绝不能原样出现在客户侧响应里
type Customer struct {
	ID       int64
	FullName string
	Email    string
	Phone    string
}

// CustomerRepository 定义了客户数据的查询接口
// 位于领域层，由基础设施层实现
type CustomerRepository interface {
	// Search 按姓名/邮箱子串或电话号码数字子串查找客户，最多返回 limit 条
	Search(ctx context.Context, query string, limit int) ([]Customer, error)

	// FindByID 根据 ID 查找客户，不存在时返回 ErrCustomerNotFound
	FindByID(ctx context.Context, id int64) (*Customer, error)
}

// JobRepository 定义了工单聚合的持久化接口
type JobRepository interface {
	// FindByID 加载工单及其完整历史，不存在时返回 ErrJobNotFound
	FindByID(ctx context.Context, id int64) (*Job, error)

	// FindByCustomer 加载某客户的全部工单，按最近更新排序
	FindByCustomer(ctx context.Context, customerID int64) ([]*Job, error)

	// FindAll 加载全部工单（员工侧按状态筛选用）
	FindAll(ctx context.Context) ([]*Job, error)

	// UpdateStatus 以乐观并发的方式写入一次状态流转：
	// 只有数据库中的当前状态仍等于 expectedPrior 时写入才生效，
	// 状态更新和历史追加在同一个事务里完成。
	// 观察到的状态已经变化时返回 ErrConcurrentModification。
	UpdateStatus(ctx context.Context, jobID int64, expectedPrior, next Status, entry HistoryEntry) error
}

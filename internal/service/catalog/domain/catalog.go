// internal/service/catalog/domain/catalog.go
package domain

import (
	"errors"
	"time"
)

var (
	ErrBrandNotFound    = errors.New("brand not found")
	ErrModelNotFound    = errors.New("brand model not found")
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrDuplicateBrand 品牌名唯一
	ErrDuplicateBrand = errors.New("brand already exists")
)

// Brand 是设备品牌（Seagate、WD、Dell ...）
type Brand struct {
	ID   int64
	Name string
}

// BrandModel 是某品牌下的具体型号
type BrandModel struct {
	ID      int64
	BrandID int64
	Name    string
}

// Customer 是客户档案
type Customer struct {
	ID       int64
	FullName string
	Phone    string
	Email    string
}

// Registration 是一次设备登记请求，登记成功即生成一张工单
type Registration struct {
	CustomerID   int64
	DeviceType   string
	BrandID      int64
	ModelID      int64
	SerialNumber string
	Problem      string
	DeviceLabel  string
	ReceivedAt   time.Time
}

// Stats 是后台首页的汇总数据
type Stats struct {
	Brands    int64            `json:"brands"`
	Customers int64            `json:"customers"`
	Jobs      int64            `json:"jobs"`
	ByStatus  map[string]int64 `json:"by_status"`
}

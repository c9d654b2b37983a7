// internal/service/tracking/infrastructure/gorm_model.go
package infrastructure

import (
	"time"

	"gorm.io/gorm"
)

// CustomerModel 对应数据库中的 customers 表
type CustomerModel struct {
	gorm.Model
	FullName string `gorm:"index"`
	Phone    string `gorm:"index"`
	Email    string `gorm:"index"`
}

// TableName 指定 GORM 应该使用的表名
func (CustomerModel) TableName() string {
	return "customers"
}

// BrandRefModel 对应 brands 表，这里只读取名称
type BrandRefModel struct {
	gorm.Model
	Name string
}

func (BrandRefModel) TableName() string {
	return "brands"
}

// DeviceModelRefModel 对应 brand_models 表，这里只读取名称
type DeviceModelRefModel struct {
	gorm.Model
	Name    string
	BrandID uint
}

func (DeviceModelRefModel) TableName() string {
	return "brand_models"
}

// JobModel 对应 jobs 表，一行是一台设备的恢复工单
// CurrentStatus 存的是原始字符串，读出时在 mapper 里归一成规范状态
type JobModel struct {
	gorm.Model
	CustomerID    uint   `gorm:"index"`
	CurrentStatus string `gorm:"index;size:64"`
	DeviceLabel   string
	DeviceType    string
	SerialNumber  string
	Problem       string `gorm:"type:text"`
	BrandID       *uint
	ModelID       *uint

	Customer CustomerModel       `gorm:"foreignKey:CustomerID"`
	Brand    BrandRefModel       `gorm:"foreignKey:BrandID"`
	DevModel DeviceModelRefModel `gorm:"foreignKey:ModelID"`
	History  []StatusHistoryModel `gorm:"foreignKey:JobID"`
}

func (JobModel) TableName() string {
	return "jobs"
}

// StatusHistoryModel 对应 status_histories 表，只追加不更新
type StatusHistoryModel struct {
	gorm.Model
	JobID     uint   `gorm:"index"`
	Status    string `gorm:"size:64"`
	Note      string `gorm:"type:text"`
	Actor     string
	ChangedAt time.Time `gorm:"index"`
}

func (StatusHistoryModel) TableName() string {
	return "status_histories"
}

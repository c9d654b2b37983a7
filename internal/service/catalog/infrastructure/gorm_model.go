// internal/service/catalog/infrastructure/gorm_model.go
package infrastructure

import (
	"time"

	"gorm.io/gorm"
)

// BrandModel 对应数据库中的 brands 表
type BrandModel struct {
	gorm.Model
	Name string `gorm:"uniqueIndex;size:128"`
}

func (BrandModel) TableName() string {
	return "brands"
}

// BrandModelModel 对应数据库中的 brand_models 表
type BrandModelModel struct {
	gorm.Model
	BrandID uint   `gorm:"index"`
	Name    string `gorm:"size:128"`
}

func (BrandModelModel) TableName() string {
	return "brand_models"
}

// CustomerModel 对应数据库中的 customers 表
type CustomerModel struct {
	gorm.Model
	FullName string `gorm:"index"`
	Phone    string `gorm:"index"`
	Email    string `gorm:"index"`
}

func (CustomerModel) TableName() string {
	return "customers"
}

// JobModel 对应 jobs 表，这个服务只负责创建和计数
// 读取和状态流转在 tracking 服务里
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
}

func (JobModel) TableName() string {
	return "jobs"
}

// StatusHistoryModel 对应 status_histories 表
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

// internal/service/tracking/domain/job.go
package domain

import (
	"fmt"
	"strings"
	"time"
)

// HistoryEntry 是工单状态历史中的一条记录，只追加不修改
type HistoryEntry struct {
	Status    Status
	Note      string
	Actor     string
	ChangedAt time.Time
}

// Job 是一台设备的恢复工单聚合根
// 不变式：History 按时间单调递增，且最后一条的状态等于 CurrentStatus
type Job struct {
	ID              int64
	OwnerCustomerID int64
	CurrentStatus   Status

	DeviceLabel  string
	DeviceType   string
	DeviceBrand  string
	DeviceModel  string
	DeviceSerial string
	Problem      string

	UpdatedAt time.Time
	History   []HistoryEntry
}

// ApplyStatus 在聚合上执行一次状态流转并追加历史
// 只负责状态机校验，持久化的并发控制由仓储层的 CAS 写入保证
func (j *Job) ApplyStatus(requested Status, note, actor string, at time.Time) error {
	if !CanTransition(j.CurrentStatus, requested) {
		return &TransitionError{From: j.CurrentStatus, To: requested}
	}
	j.CurrentStatus = requested
	j.UpdatedAt = at
	j.History = append(j.History, HistoryEntry{
		Status:    requested,
		Note:      note,
		Actor:     actor,
		ChangedAt: at,
	})
	return nil
}

// Label 返回面向人的工单描述，供多工单消歧时展示
// 优先用登记时填写的 DeviceLabel，其次用设备字段拼装，最后兜底到工单号
func (j *Job) Label() string {
	if j.DeviceLabel != "" {
		return j.DeviceLabel
	}
	var parts []string
	if j.DeviceType != "" {
		parts = append(parts, j.DeviceType)
	}
	if j.DeviceBrand != "" || j.DeviceModel != "" {
		parts = append(parts, strings.TrimSpace(j.DeviceBrand+" "+j.DeviceModel))
	}
	if j.DeviceSerial != "" {
		parts = append(parts, "SN "+j.DeviceSerial)
	}
	if len(parts) > 0 {
		return strings.Join(parts, " • ")
	}
	return fmt.Sprintf("job #%d", j.ID)
}

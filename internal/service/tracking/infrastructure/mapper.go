// internal/service/tracking/infrastructure/mapper.go
package infrastructure

import (
	"trackdesk/internal/metrics"
	"trackdesk/internal/service/tracking/domain"
)

// ToDomainCustomer 将数据库模型转换为领域模型
func ToDomainCustomer(model *CustomerModel) *domain.Customer {
	if model == nil {
		return nil
	}
	return &domain.Customer{
		ID:       int64(model.ID),
		FullName: model.FullName,
		Email:    model.Email,
		Phone:    model.Phone,
	}
}

// ToDomainJob 将数据库模型转换为领域聚合
// 状态归一只发生在这一处：进入领域层之后只有规范状态在流动
func ToDomainJob(model *JobModel, aliases *domain.AliasTable) *domain.Job {
	if model == nil {
		return nil
	}
	job := &domain.Job{
		ID:              int64(model.ID),
		OwnerCustomerID: int64(model.CustomerID),
		CurrentStatus:   normalizeCounted(model.CurrentStatus, aliases),
		DeviceLabel:     model.DeviceLabel,
		DeviceType:      model.DeviceType,
		DeviceBrand:     model.Brand.Name,
		DeviceModel:     model.DevModel.Name,
		DeviceSerial:    model.SerialNumber,
		Problem:         model.Problem,
		UpdatedAt:       model.UpdatedAt,
	}
	for _, h := range model.History {
		job.History = append(job.History, domain.HistoryEntry{
			Status:    normalizeCounted(h.Status, aliases),
			Note:      h.Note,
			Actor:     h.Actor,
			ChangedAt: h.ChangedAt,
		})
	}
	return job
}

// normalizeCounted 归一原始状态，兜底命中时记一笔指标
// 指标持续增长说明上游出现了别名表没收录的新拼写
func normalizeCounted(raw string, aliases *domain.AliasTable) domain.Status {
	if s, ok := aliases.Lookup(raw); ok {
		return s
	}
	metrics.AliasFallbacks.Inc()
	return domain.DefaultStatus
}

// internal/service/tracking/domain/event.go
package domain

import "time"

// StatusChangedEvent 是状态流转成功后发布的领域事件
// 通知服务消费它来驱动后台大屏和客户提醒
type StatusChangedEvent struct {
	EventID    string    `json:"event_id"`
	JobID      int64     `json:"job_id"`
	CustomerID int64     `json:"customer_id"`
	From       Status    `json:"from"`
	To         Status    `json:"to"`
	Note       string    `json:"note,omitempty"`
	Actor      string    `json:"actor,omitempty"`
	ChangedAt  time.Time `json:"changed_at"`
}

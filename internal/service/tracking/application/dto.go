// internal/service/tracking/application/dto.go
package application

import (
	"strings"
	"time"

	"trackdesk/internal/service/tracking/domain"
)

// CustomerCandidate 是搜索阶段返回的客户候选项
// 联系方式只保留脱敏形式，电话和邮箱都不允许以完整值出现
type CustomerCandidate struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
	MaskedEmail string `json:"masked_email,omitempty"`
	MaskedPhone string `json:"masked_phone"`
}

// HistoryEntryDTO 是历史记录的响应形态
type HistoryEntryDTO struct {
	Status    string    `json:"status"`
	Label     string    `json:"label"`
	Note      string    `json:"note,omitempty"`
	Actor     string    `json:"actor,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
}

// JobDTO 是工单的响应形态，状态一律是规范值
type JobDTO struct {
	ID            int64             `json:"id"`
	DeviceLabel   string            `json:"device_label"`
	Problem       string            `json:"problem,omitempty"`
	CurrentStatus string            `json:"current_status"`
	StatusLabel   string            `json:"status_label"`
	StepIndex     int               `json:"step_index"`
	StepFraction  float64           `json:"step_fraction"`
	Cancelled     bool              `json:"cancelled"`
	AllowedNext   []string          `json:"allowed_next"`
	UpdatedAt     time.Time         `json:"updated_at"`
	History       []HistoryEntryDTO `json:"history"`
}

// UpdateStatusRequest 是员工侧状态更新的请求体
type UpdateStatusRequest struct {
	JobID  int64  `json:"job_id"`
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
	Actor  string `json:"actor,omitempty"`
}

// VerifyRequest 是客户自助核验的请求体
// Last4 必须是恰好 4 个 ASCII 数字，边界层先校验再进核心
type VerifyRequest struct {
	CustomerID int64  `json:"customer_id"`
	Last4      string `json:"last4"`
}

// toJobDTO 把领域聚合转换为响应形态
func toJobDTO(job *domain.Job) JobDTO {
	step := domain.Project(job.CurrentStatus)

	next := domain.AllowedNext(job.CurrentStatus)
	allowed := make([]string, len(next))
	for i, s := range next {
		allowed[i] = s.String()
	}

	history := make([]HistoryEntryDTO, len(job.History))
	for i, h := range job.History {
		history[i] = HistoryEntryDTO{
			Status:    h.Status.String(),
			Label:     h.Status.Label(),
			Note:      h.Note,
			Actor:     h.Actor,
			ChangedAt: h.ChangedAt,
		}
	}

	return JobDTO{
		ID:            job.ID,
		DeviceLabel:   job.Label(),
		Problem:       job.Problem,
		CurrentStatus: job.CurrentStatus.String(),
		StatusLabel:   job.CurrentStatus.Label(),
		StepIndex:     step.Index,
		StepFraction:  step.Fraction,
		Cancelled:     step.Cancelled,
		AllowedNext:   allowed,
		UpdatedAt:     job.UpdatedAt,
		History:       history,
	}
}

// MaskPhone 把电话脱敏为 XXX-XXX-<后四位>
// 数字不足 4 位时视为没有可展示的联系方式
func MaskPhone(phone string) string {
	digits := domain.OnlyDigits(phone)
	if len(digits) < 4 {
		return "unavailable"
	}
	return "XXX-XXX-" + digits[len(digits)-4:]
}

// MaskEmail 把邮箱脱敏为 首字符***尾字符@域名 的形式
// 搜索阶段和电话一样只保留辨认用的轮廓，绝不返回完整邮箱
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return ""
	}
	local, host := email[:at], email[at+1:]
	if len(local) <= 2 {
		return local[:1] + "***@" + host
	}
	return local[:1] + "***" + local[len(local)-1:] + "@" + host
}

// internal/service/tracking/application/service.go
package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"trackdesk/internal/metrics"
	"trackdesk/internal/pkg/logger"
	"trackdesk/internal/service/tracking/domain"
)

// MaxSearchResults 限制一次搜索最多返回的候选客户数
const MaxSearchResults = 20

// StatusEventPublisher 把状态流转事件发布给下游（kafka）
type StatusEventPublisher interface {
	Publish(ctx context.Context, event *domain.StatusChangedEvent) error
}

// AttemptLimiter 限制针对单个客户的核验尝试频率
type AttemptLimiter interface {
	Allow(ctx context.Context, customerID int64) (bool, error)
}

// TrackingService 实现了状态跟踪核心的全部用例：
// 客户侧的搜索/核验/查单，员工侧的按状态列表和状态更新
type TrackingService struct {
	customers domain.CustomerRepository
	jobs      domain.JobRepository
	aliases   *domain.AliasTable
	publisher StatusEventPublisher
	limiter   AttemptLimiter
	tracer    trace.Tracer
	now       func() time.Time
}

// NewTrackingService 创建跟踪服务实例
// publisher 和 limiter 允许为 nil（测试或降级部署时）
func NewTrackingService(
	customers domain.CustomerRepository,
	jobs domain.JobRepository,
	aliases *domain.AliasTable,
	publisher StatusEventPublisher,
	limiter AttemptLimiter,
	tracer trace.Tracer,
) *TrackingService {
	return &TrackingService{
		customers: customers,
		jobs:      jobs,
		aliases:   aliases,
		publisher: publisher,
		limiter:   limiter,
		tracer:    tracer,
		now:       time.Now,
	}
}

// SearchCustomers 按自由文本查找客户候选，联系方式一律脱敏返回
func (s *TrackingService) SearchCustomers(ctx context.Context, query string) ([]CustomerCandidate, error) {
	ctx, span := s.tracer.Start(ctx, "tracking.SearchCustomers")
	defer span.End()

	metrics.SearchRequests.Inc()

	found, err := s.customers.Search(ctx, strings.TrimSpace(query), MaxSearchResults)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	candidates := make([]CustomerCandidate, len(found))
	for i, c := range found {
		candidates[i] = CustomerCandidate{
			ID:          c.ID,
			DisplayName: c.FullName,
			MaskedEmail: MaskEmail(c.Email),
			MaskedPhone: MaskPhone(c.Phone),
		}
	}
	span.SetAttributes(attribute.Int("search.results", len(candidates)))
	return candidates, nil
}

// VerifyAndListJobs 用电话尾号核验客户身份，成功后返回其全部工单
// 客户不存在和尾号不符都返回 ErrVerificationFailed，
// 真实原因只进内部日志，避免响应变成探测客户是否存在的信道
func (s *TrackingService) VerifyAndListJobs(ctx context.Context, customerID int64, last4 string) ([]JobDTO, error) {
	ctx, span := s.tracer.Start(ctx, "tracking.VerifyAndListJobs")
	defer span.End()
	span.SetAttributes(attribute.Int64("customer.id", customerID))

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, customerID)
		if err != nil {
			// 限流器故障时放行：可用性优先于这层防护
			logger.Ctx(ctx).Warn().Err(err).Msg("verification limiter unavailable, allowing attempt")
		} else if !allowed {
			metrics.VerificationAttempts.WithLabelValues("throttled").Inc()
			return nil, domain.ErrTooManyAttempts
		}
	}

	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		metrics.VerificationAttempts.WithLabelValues("failed").Inc()
		logger.Ctx(ctx).Info().Int64("customer_id", customerID).Msg("verification failed: no such customer")
		return nil, domain.ErrVerificationFailed
	}

	digits := domain.OnlyDigits(customer.Phone)
	if len(digits) < 4 || digits[len(digits)-4:] != last4 {
		metrics.VerificationAttempts.WithLabelValues("failed").Inc()
		logger.Ctx(ctx).Info().Int64("customer_id", customerID).Msg("verification failed: last-4 mismatch")
		return nil, domain.ErrVerificationFailed
	}

	jobs, err := s.jobs.FindByCustomer(ctx, customerID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	metrics.VerificationAttempts.WithLabelValues("ok").Inc()
	out := make([]JobDTO, len(jobs))
	for i, job := range jobs {
		out[i] = toJobDTO(job)
	}
	return out, nil
}

// GetJob 返回单个工单（员工侧）
func (s *TrackingService) GetJob(ctx context.Context, jobID int64) (*JobDTO, error) {
	ctx, span := s.tracer.Start(ctx, "tracking.GetJob")
	defer span.End()

	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	dto := toJobDTO(job)
	return &dto, nil
}

// ListByStatus 返回归一化后等于目标状态的全部工单（员工侧）
// 入参接受规范名或任何历史别名
func (s *TrackingService) ListByStatus(ctx context.Context, rawStatus string) ([]JobDTO, error) {
	ctx, span := s.tracer.Start(ctx, "tracking.ListByStatus")
	defer span.End()

	target := s.aliases.Normalize(rawStatus)
	span.SetAttributes(attribute.String("status", target.String()))

	jobs, err := s.jobs.FindAll(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	out := make([]JobDTO, 0, len(jobs))
	for _, job := range jobs {
		// 工单状态在数据映射层已经归一，这里直接比较规范值
		if job.CurrentStatus == target {
			out = append(out, toJobDTO(job))
		}
	}
	return out, nil
}

// UpdateStatus 是员工侧状态更新的编排：
// 读取当前工单 → 流转表校验 → 以读取时观察到的状态为前提条件做 CAS 写入
// 写入失败说明有并发更新插队，原样返回 ErrConcurrentModification 让调用方重试
func (s *TrackingService) UpdateStatus(ctx context.Context, req UpdateStatusRequest) (*JobDTO, error) {
	ctx, span := s.tracer.Start(ctx, "tracking.UpdateStatus")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("job.id", req.JobID),
		attribute.String("status.requested", req.Status),
	)

	// 员工端只允许提交规范值或已知别名，其余一律按非法输入拒绝，
	// 绝不能兜底到默认状态去做一次员工没有请求过的流转
	requested, ok := s.aliases.Lookup(req.Status)
	if !ok {
		metrics.StatusUpdates.WithLabelValues("invalid").Inc()
		return nil, domain.ErrUnknownStatus
	}

	job, err := s.jobs.FindByID(ctx, req.JobID)
	if err != nil {
		metrics.StatusUpdates.WithLabelValues("not_found").Inc()
		return nil, err
	}

	prior := job.CurrentStatus
	if err := job.ApplyStatus(requested, req.Note, req.Actor, s.now()); err != nil {
		metrics.StatusUpdates.WithLabelValues("not_permitted").Inc()
		span.RecordError(err)
		return nil, err
	}

	entry := job.History[len(job.History)-1]
	if err := s.jobs.UpdateStatus(ctx, job.ID, prior, requested, entry); err != nil {
		if errors.Is(err, domain.ErrConcurrentModification) {
			metrics.StatusUpdates.WithLabelValues("conflict").Inc()
		} else {
			metrics.StatusUpdates.WithLabelValues("error").Inc()
		}
		span.RecordError(err)
		return nil, err
	}

	metrics.StatusUpdates.WithLabelValues("ok").Inc()
	logger.Ctx(ctx).Info().
		Int64("job_id", job.ID).
		Str("from", prior.String()).
		Str("to", requested.String()).
		Msg("job status updated")

	// 事件发布是尽力而为：通知丢了可以补偿，状态本身已经落库
	if s.publisher != nil {
		event := &domain.StatusChangedEvent{
			EventID:    uuid.New().String(),
			JobID:      job.ID,
			CustomerID: job.OwnerCustomerID,
			From:       prior,
			To:         requested,
			Note:       req.Note,
			Actor:      req.Actor,
			ChangedAt:  entry.ChangedAt,
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			logger.Ctx(ctx).Error().Err(err).Int64("job_id", job.ID).Msg("failed to publish status event")
		}
	}

	dto := toJobDTO(job)
	return &dto, nil
}

package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"trackdesk/internal/service/tracking/domain"
)

// ---- 内存假实现 ----

type fakeCustomerRepo struct {
	customers map[int64]domain.Customer
}

func (f *fakeCustomerRepo) Search(ctx context.Context, query string, limit int) ([]domain.Customer, error) {
	var out []domain.Customer
	for _, c := range f.customers {
		out = append(out, c)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeCustomerRepo) FindByID(ctx context.Context, id int64) (*domain.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	return &c, nil
}

type fakeJobRepo struct {
	jobs        map[int64]*domain.Job
	updateCalls int
	conflictOn  int64 // 这个工单的 CAS 写入总是失败，模拟并发冲突
}

func (f *fakeJobRepo) FindByID(ctx context.Context, id int64) (*domain.Job, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	clone := *job
	return &clone, nil
}

func (f *fakeJobRepo) FindByCustomer(ctx context.Context, customerID int64) ([]*domain.Job, error) {
	var out []*domain.Job
	for _, job := range f.jobs {
		if job.OwnerCustomerID == customerID {
			out = append(out, job)
		}
	}
	return out, nil
}

func (f *fakeJobRepo) FindAll(ctx context.Context) ([]*domain.Job, error) {
	var out []*domain.Job
	for _, job := range f.jobs {
		out = append(out, job)
	}
	return out, nil
}

func (f *fakeJobRepo) UpdateStatus(ctx context.Context, jobID int64, expectedPrior, next domain.Status, entry domain.HistoryEntry) error {
	f.updateCalls++
	if jobID == f.conflictOn {
		return domain.ErrConcurrentModification
	}
	job, ok := f.jobs[jobID]
	if !ok {
		return domain.ErrJobNotFound
	}
	if job.CurrentStatus != expectedPrior {
		return domain.ErrConcurrentModification
	}
	job.CurrentStatus = next
	job.History = append(job.History, entry)
	return nil
}

type capturedEvents struct {
	events []*domain.StatusChangedEvent
}

func (c *capturedEvents) Publish(ctx context.Context, event *domain.StatusChangedEvent) error {
	c.events = append(c.events, event)
	return nil
}

type denyLimiter struct{}

func (denyLimiter) Allow(ctx context.Context, customerID int64) (bool, error) { return false, nil }

func newService(customers *fakeCustomerRepo, jobs *fakeJobRepo, publisher StatusEventPublisher, limiter AttemptLimiter) *TrackingService {
	return NewTrackingService(customers, jobs, domain.DefaultAliasTable(), publisher, limiter, otel.Tracer("test"))
}

func somchai() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: map[int64]domain.Customer{
		1: {ID: 1, FullName: "Somchai J.", Email: "somchai@example.com", Phone: "081-234-5678"},
	}}
}

// ---- 搜索 ----

func TestSearchMasksContact(t *testing.T) {
	svc := newService(somchai(), &fakeJobRepo{}, nil, nil)

	got, err := svc.SearchCustomers(context.Background(), "somchai")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "XXX-XXX-5678", got[0].MaskedPhone)
	assert.Equal(t, "s***i@example.com", got[0].MaskedEmail)
	// 响应里不允许出现完整的电话或邮箱
	assert.NotContains(t, got[0].MaskedPhone, "081")
	assert.NotEqual(t, "somchai@example.com", got[0].MaskedEmail)
}

// ---- 核验 ----

func TestVerifySuccessReturnsJobs(t *testing.T) {
	jobs := &fakeJobRepo{jobs: map[int64]*domain.Job{
		10: {ID: 10, OwnerCustomerID: 1, CurrentStatus: domain.StatusRecovering},
		11: {ID: 11, OwnerCustomerID: 2, CurrentStatus: domain.StatusReceived},
	}}
	svc := newService(somchai(), jobs, nil, nil)

	got, err := svc.VerifyAndListJobs(context.Background(), 1, "5678")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(10), got[0].ID)
	assert.Equal(t, "RECOVERING", got[0].CurrentStatus)
}

// 错误的尾号和不存在的客户必须返回完全相同的错误
func TestVerifyFailureIsIndistinguishable(t *testing.T) {
	svc := newService(somchai(), &fakeJobRepo{}, nil, nil)

	_, errWrongDigits := svc.VerifyAndListJobs(context.Background(), 1, "1234")
	_, errNoCustomer := svc.VerifyAndListJobs(context.Background(), 999, "5678")

	require.Error(t, errWrongDigits)
	require.Error(t, errNoCustomer)
	assert.Equal(t, domain.ErrVerificationFailed, errWrongDigits)
	assert.Equal(t, errWrongDigits, errNoCustomer)
}

func TestVerifyThrottled(t *testing.T) {
	svc := newService(somchai(), &fakeJobRepo{}, nil, denyLimiter{})

	_, err := svc.VerifyAndListJobs(context.Background(), 1, "5678")
	assert.ErrorIs(t, err, domain.ErrTooManyAttempts)
}

// ---- 按状态列表 ----

func TestListByStatusAcceptsAliases(t *testing.T) {
	jobs := &fakeJobRepo{jobs: map[int64]*domain.Job{
		10: {ID: 10, OwnerCustomerID: 1, CurrentStatus: domain.StatusRecovering},
		11: {ID: 11, OwnerCustomerID: 2, CurrentStatus: domain.StatusCompleted},
	}}
	svc := newService(somchai(), jobs, nil, nil)

	// RECOVERY_IN_PROGRESS 是 RECOVERING 的历史别名
	got, err := svc.ListByStatus(context.Background(), "recovery in progress")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(10), got[0].ID)
}

// ---- 状态更新编排 ----

func TestUpdateStatusHappyPath(t *testing.T) {
	jobs := &fakeJobRepo{jobs: map[int64]*domain.Job{
		10: {ID: 10, OwnerCustomerID: 1, CurrentStatus: domain.StatusDiagnosing},
	}}
	events := &capturedEvents{}
	svc := newService(somchai(), jobs, events, nil)

	got, err := svc.UpdateStatus(context.Background(), UpdateStatusRequest{
		JobID: 10, Status: "QUOTED", Note: "quote: 4500 THB", Actor: "staff-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "QUOTED", got.CurrentStatus)
	require.Len(t, got.History, 1)
	assert.Equal(t, "quote: 4500 THB", got.History[0].Note)

	// 持久化的工单也已推进
	assert.Equal(t, domain.StatusQuoted, jobs.jobs[10].CurrentStatus)

	// 事件已发布
	require.Len(t, events.events, 1)
	assert.Equal(t, domain.StatusDiagnosing, events.events[0].From)
	assert.Equal(t, domain.StatusQuoted, events.events[0].To)
	assert.NotEmpty(t, events.events[0].EventID)
}

func TestUpdateStatusRejectsIllegalTransition(t *testing.T) {
	jobs := &fakeJobRepo{jobs: map[int64]*domain.Job{
		10: {ID: 10, OwnerCustomerID: 1, CurrentStatus: domain.StatusDiagnosing},
	}}
	svc := newService(somchai(), jobs, nil, nil)

	_, err := svc.UpdateStatus(context.Background(), UpdateStatusRequest{JobID: 10, Status: "COMPLETED"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransitionNotPermitted)
	// 校验失败时不应触发写入
	assert.Zero(t, jobs.updateCalls)
	assert.Equal(t, domain.StatusDiagnosing, jobs.jobs[10].CurrentStatus)
}

// 未知状态必须按非法输入拒绝，而不是归一化成默认状态去流转
func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	jobs := &fakeJobRepo{jobs: map[int64]*domain.Job{
		10: {ID: 10, OwnerCustomerID: 1, CurrentStatus: domain.StatusDiagnosing},
	}}
	svc := newService(somchai(), jobs, nil, nil)

	_, err := svc.UpdateStatus(context.Background(), UpdateStatusRequest{JobID: 10, Status: "FOO"})
	assert.ErrorIs(t, err, domain.ErrUnknownStatus)
	assert.Zero(t, jobs.updateCalls)
	assert.Equal(t, domain.StatusDiagnosing, jobs.jobs[10].CurrentStatus)
}

func TestUpdateStatusNotFound(t *testing.T) {
	svc := newService(somchai(), &fakeJobRepo{jobs: map[int64]*domain.Job{}}, nil, nil)

	_, err := svc.UpdateStatus(context.Background(), UpdateStatusRequest{JobID: 404, Status: "QUOTED"})
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestUpdateStatusConcurrentConflict(t *testing.T) {
	jobs := &fakeJobRepo{
		jobs: map[int64]*domain.Job{
			10: {ID: 10, OwnerCustomerID: 1, CurrentStatus: domain.StatusDiagnosing},
		},
		conflictOn: 10,
	}
	events := &capturedEvents{}
	svc := newService(somchai(), jobs, events, nil)

	_, err := svc.UpdateStatus(context.Background(), UpdateStatusRequest{JobID: 10, Status: "QUOTED"})
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)
	// 冲突时不能发布事件
	assert.Empty(t, events.events)
}

func TestUpdateStatusStampsTime(t *testing.T) {
	jobs := &fakeJobRepo{jobs: map[int64]*domain.Job{
		10: {ID: 10, OwnerCustomerID: 1, CurrentStatus: domain.StatusReadyForPickup},
	}}
	svc := newService(somchai(), jobs, nil, nil)
	fixed := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	got, err := svc.UpdateStatus(context.Background(), UpdateStatusRequest{JobID: 10, Status: "COMPLETED"})
	require.NoError(t, err)
	assert.Equal(t, fixed, got.History[0].ChangedAt)
	assert.True(t, got.Cancelled == false && got.StepFraction == 1.0)
}

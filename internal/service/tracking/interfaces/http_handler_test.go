package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"trackdesk/internal/service/tracking/application"
	"trackdesk/internal/service/tracking/domain"
)

type stubCustomerRepo struct {
	customer *domain.Customer
}

func (s *stubCustomerRepo) Search(ctx context.Context, query string, limit int) ([]domain.Customer, error) {
	if s.customer == nil {
		return nil, nil
	}
	return []domain.Customer{*s.customer}, nil
}

func (s *stubCustomerRepo) FindByID(ctx context.Context, id int64) (*domain.Customer, error) {
	if s.customer == nil || s.customer.ID != id {
		return nil, domain.ErrCustomerNotFound
	}
	return s.customer, nil
}

type stubJobRepo struct {
	job *domain.Job
}

func (s *stubJobRepo) FindByID(ctx context.Context, id int64) (*domain.Job, error) {
	if s.job == nil || s.job.ID != id {
		return nil, domain.ErrJobNotFound
	}
	clone := *s.job
	return &clone, nil
}

func (s *stubJobRepo) FindByCustomer(ctx context.Context, customerID int64) ([]*domain.Job, error) {
	if s.job == nil || s.job.OwnerCustomerID != customerID {
		return nil, nil
	}
	return []*domain.Job{s.job}, nil
}

func (s *stubJobRepo) FindAll(ctx context.Context) ([]*domain.Job, error) {
	if s.job == nil {
		return nil, nil
	}
	return []*domain.Job{s.job}, nil
}

func (s *stubJobRepo) UpdateStatus(ctx context.Context, jobID int64, expectedPrior, next domain.Status, entry domain.HistoryEntry) error {
	if s.job == nil || s.job.ID != jobID {
		return domain.ErrJobNotFound
	}
	s.job.CurrentStatus = next
	s.job.History = append(s.job.History, entry)
	return nil
}

func newTestMux(customer *domain.Customer, job *domain.Job) *http.ServeMux {
	svc := application.NewTrackingService(
		&stubCustomerRepo{customer: customer},
		&stubJobRepo{job: job},
		domain.DefaultAliasTable(),
		nil, nil,
		otel.Tracer("test"),
	)
	mux := http.NewServeMux()
	NewTrackingHandler(svc).RegisterRoutes(mux)
	return mux
}

func somchai() *domain.Customer {
	return &domain.Customer{ID: 1, FullName: "Somchai J.", Phone: "081-234-5678", Email: "somchai@example.com"}
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	mux := newTestMux(somchai(), nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/track/search?q=%20%20", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchReturnsMaskedCandidates(t *testing.T) {
	mux := newTestMux(somchai(), nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/track/search?q=somchai", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []application.CustomerCandidate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "XXX-XXX-5678", got[0].MaskedPhone)
	assert.Equal(t, "s***i@example.com", got[0].MaskedEmail)
	// 完整的联系方式不允许出现在响应体的任何位置
	assert.NotContains(t, rec.Body.String(), "081-234-5678")
	assert.NotContains(t, rec.Body.String(), "somchai@example.com")
}

func TestVerifyRejectsMalformedLast4(t *testing.T) {
	mux := newTestMux(somchai(), nil)

	for _, last4 := range []string{"56789", "567", "56a8", ""} {
		body, _ := json.Marshal(application.VerifyRequest{CustomerID: 1, Last4: last4})
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/track/verify", strings.NewReader(string(body))))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "last4=%q", last4)
	}
}

func TestVerifySuccess(t *testing.T) {
	job := &domain.Job{ID: 10, OwnerCustomerID: 1, CurrentStatus: domain.StatusRecovering}
	mux := newTestMux(somchai(), job)

	body, _ := json.Marshal(application.VerifyRequest{CustomerID: 1, Last4: "5678"})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/track/verify", strings.NewReader(string(body))))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []application.JobDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "RECOVERING", got[0].CurrentStatus)
}

// 错误尾号和不存在的客户必须得到完全一样的响应体和状态码
func TestVerifyFailureResponsesAreIdentical(t *testing.T) {
	mux := newTestMux(somchai(), nil)

	do := func(customerID int64, last4 string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(application.VerifyRequest{CustomerID: customerID, Last4: last4})
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/track/verify", strings.NewReader(string(body))))
		return rec
	}

	wrongDigits := do(1, "1234")
	noSuchCustomer := do(999, "5678")

	assert.Equal(t, http.StatusForbidden, wrongDigits.Code)
	assert.Equal(t, wrongDigits.Code, noSuchCustomer.Code)
	assert.Equal(t, wrongDigits.Body.String(), noSuchCustomer.Body.String())
}

func TestUpdateStatusTransitionNotPermitted(t *testing.T) {
	job := &domain.Job{ID: 10, OwnerCustomerID: 1, CurrentStatus: domain.StatusDiagnosing}
	mux := newTestMux(somchai(), job)

	body, _ := json.Marshal(application.UpdateStatusRequest{JobID: 10, Status: "COMPLETED"})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/job/update", strings.NewReader(string(body))))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	// 员工侧错误必须点名当前状态和请求状态
	assert.Contains(t, rec.Body.String(), "DIAGNOSING")
	assert.Contains(t, rec.Body.String(), "COMPLETED")
}

func TestUpdateStatusAccepted(t *testing.T) {
	job := &domain.Job{ID: 10, OwnerCustomerID: 1, CurrentStatus: domain.StatusDiagnosing}
	mux := newTestMux(somchai(), job)

	body, _ := json.Marshal(application.UpdateStatusRequest{JobID: 10, Status: "QUOTED", Actor: "staff-1"})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/job/update", strings.NewReader(string(body))))
	require.Equal(t, http.StatusOK, rec.Code)

	var got application.JobDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "QUOTED", got.CurrentStatus)
}

func TestUpdateStatusUnknownStatusIsBadRequest(t *testing.T) {
	job := &domain.Job{ID: 10, OwnerCustomerID: 1, CurrentStatus: domain.StatusDiagnosing}
	mux := newTestMux(somchai(), job)

	body, _ := json.Marshal(application.UpdateStatusRequest{JobID: 10, Status: "FOO"})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/job/update", strings.NewReader(string(body))))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	// 工单不能被默认状态兜底推着走
	assert.Equal(t, domain.StatusDiagnosing, job.CurrentStatus)
}

func TestUpdateStatusNotFoundIsExplicitForStaff(t *testing.T) {
	mux := newTestMux(somchai(), nil)

	body, _ := json.Marshal(application.UpdateStatusRequest{JobID: 404, Status: "QUOTED"})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/job/update", strings.NewReader(string(body))))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListByStatusAcceptsAlias(t *testing.T) {
	job := &domain.Job{ID: 10, OwnerCustomerID: 1, CurrentStatus: domain.StatusRecovering}
	mux := newTestMux(somchai(), job)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/jobs?status=IN_PROGRESS", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []application.JobDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, int64(10), got[0].ID)
}

// internal/service/tracking/interfaces/http_handler.go
package interfaces

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"trackdesk/internal/service/tracking/application"
	"trackdesk/internal/service/tracking/domain"
)

// TrackingHandler 封装了 tracking 服务的 HTTP 处理器
// 格式校验都在这一层完成，进入应用层的输入保证是结构上合法的
type TrackingHandler struct {
	service *application.TrackingService
}

// NewTrackingHandler 创建一个新的 HTTP 处理器实例
func NewTrackingHandler(service *application.TrackingService) *TrackingHandler {
	return &TrackingHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *TrackingHandler) RegisterRoutes(mux *http.ServeMux) {
	// 客户自助
	mux.HandleFunc("/track/search", h.handleSearch)
	mux.HandleFunc("/track/verify", h.handleVerify)
	// 员工侧
	mux.HandleFunc("/admin/jobs", h.handleListByStatus)
	mux.HandleFunc("/admin/job", h.handleGetJob)
	mux.HandleFunc("/admin/job/update", h.handleUpdateStatus)
}

func extractCtx(r *http.Request) *http.Request {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	return r.WithContext(ctx)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (h *TrackingHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		http.Error(w, "query must not be empty", http.StatusBadRequest)
		return
	}

	candidates, err := h.service.SearchCustomers(r.Context(), q)
	if err != nil {
		http.Error(w, "search failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, candidates)
}

// isLast4 校验恰好 4 个 ASCII 数字
func isLast4(s string) bool {
	if len(s) != 4 {
		return false
	}
	for i := 0; i < 4; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (h *TrackingHandler) handleVerify(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)

	var req application.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.CustomerID <= 0 || !isLast4(req.Last4) {
		http.Error(w, "last4 must be exactly 4 digits", http.StatusBadRequest)
		return
	}

	jobs, err := h.service.VerifyAndListJobs(r.Context(), req.CustomerID, req.Last4)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTooManyAttempts):
			http.Error(w, "too many attempts, try again later", http.StatusTooManyRequests)
		case errors.Is(err, domain.ErrVerificationFailed):
			// 客户不存在和尾号不符必须是同一条响应
			http.Error(w, "verification failed", http.StatusForbidden)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, jobs)
}

func (h *TrackingHandler) handleListByStatus(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)

	status := strings.TrimSpace(r.URL.Query().Get("status"))
	if status == "" {
		http.Error(w, "status is required", http.StatusBadRequest)
		return
	}

	jobs, err := h.service.ListByStatus(r.Context(), status)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, jobs)
}

func (h *TrackingHandler) handleGetJob(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)

	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid job id", http.StatusBadRequest)
		return
	}

	job, err := h.service.GetJob(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, job)
}

func (h *TrackingHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req application.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.JobID <= 0 || strings.TrimSpace(req.Status) == "" {
		http.Error(w, "job_id and status are required", http.StatusBadRequest)
		return
	}

	job, err := h.service.UpdateStatus(r.Context(), req)
	if err != nil {
		// 员工是可信用户，错误信息保留具体状态对，便于排查
		var statusCode int
		switch {
		case errors.Is(err, domain.ErrUnknownStatus):
			statusCode = http.StatusBadRequest
		case errors.Is(err, domain.ErrJobNotFound):
			statusCode = http.StatusNotFound
		case errors.Is(err, domain.ErrTransitionNotPermitted):
			statusCode = http.StatusForbidden
		case errors.Is(err, domain.ErrConcurrentModification):
			// 可重试：调用方应重新加载当前状态后再试
			statusCode = http.StatusConflict
		default:
			statusCode = http.StatusInternalServerError
		}
		http.Error(w, err.Error(), statusCode)
		return
	}
	writeJSON(w, job)
}

// internal/service/catalog/interfaces/http_handler.go
package interfaces

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"trackdesk/internal/service/catalog/application"
	"trackdesk/internal/service/catalog/domain"
)

// CatalogHandler 封装了后台管理服务的 HTTP 处理器
type CatalogHandler struct {
	service *application.CatalogService
}

// NewCatalogHandler 创建一个新的 HTTP 处理器实例
func NewCatalogHandler(service *application.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *CatalogHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/admin/brands", h.handleBrands)
	mux.HandleFunc("/admin/brand/delete", h.handleDeleteBrand)
	mux.HandleFunc("/admin/models", h.handleModels)
	mux.HandleFunc("/admin/model/delete", h.handleDeleteModel)
	mux.HandleFunc("/admin/customers", h.handleCustomers)
	mux.HandleFunc("/admin/register-device", h.handleRegisterDevice)
	mux.HandleFunc("/admin/stats", h.handleStats)
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

func writeError(w http.ResponseWriter, err error) {
	var statusCode int
	switch {
	case errors.Is(err, domain.ErrBrandNotFound),
		errors.Is(err, domain.ErrModelNotFound),
		errors.Is(err, domain.ErrCustomerNotFound):
		statusCode = http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateBrand):
		statusCode = http.StatusConflict
	default:
		statusCode = http.StatusInternalServerError
	}
	http.Error(w, err.Error(), statusCode)
}

func queryID(r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(r.URL.Query().Get(key), 10, 64)
	return id, err == nil && id > 0
}

// handleBrands: GET 列表 / POST 新建 / PUT 改名
func (h *CatalogHandler) handleBrands(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)

	switch r.Method {
	case http.MethodGet:
		brands, err := h.service.ListBrands(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, brands)

	case http.MethodPost:
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}
		brand, err := h.service.CreateBrand(r.Context(), req.Name)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, brand)

	case http.MethodPut:
		var req struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID <= 0 || strings.TrimSpace(req.Name) == "" {
			http.Error(w, "id and name are required", http.StatusBadRequest)
			return
		}
		brand, err := h.service.RenameBrand(r.Context(), req.ID, req.Name)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, brand)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *CatalogHandler) handleDeleteBrand(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)

	id, ok := queryID(r, "id")
	if !ok {
		http.Error(w, "invalid brand id", http.StatusBadRequest)
		return
	}
	if err := h.service.DeleteBrand(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]bool{"ok": true})
}

// handleModels: GET ?brand_id= 列表 / POST 新建
func (h *CatalogHandler) handleModels(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)

	switch r.Method {
	case http.MethodGet:
		brandID, ok := queryID(r, "brand_id")
		if !ok {
			http.Error(w, "invalid brand id", http.StatusBadRequest)
			return
		}
		models, err := h.service.ListModels(r.Context(), brandID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, models)

	case http.MethodPost:
		var req struct {
			BrandID int64  `json:"brand_id"`
			Name    string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BrandID <= 0 || strings.TrimSpace(req.Name) == "" {
			http.Error(w, "brand_id and name are required", http.StatusBadRequest)
			return
		}
		model, err := h.service.CreateModel(r.Context(), req.BrandID, req.Name)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, model)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *CatalogHandler) handleDeleteModel(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)

	id, ok := queryID(r, "id")
	if !ok {
		http.Error(w, "invalid model id", http.StatusBadRequest)
		return
	}
	if err := h.service.DeleteModel(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]bool{"ok": true})
}

// handleCustomers: GET 列表 / POST 新建 / PUT 更新
func (h *CatalogHandler) handleCustomers(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)

	switch r.Method {
	case http.MethodGet:
		customers, err := h.service.ListCustomers(r.Context(), 100)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, customers)

	case http.MethodPost, http.MethodPut:
		var customer domain.Customer
		if err := json.NewDecoder(r.Body).Decode(&customer); err != nil || strings.TrimSpace(customer.FullName) == "" {
			http.Error(w, "full name is required", http.StatusBadRequest)
			return
		}
		var err error
		if r.Method == http.MethodPost {
			err = h.service.CreateCustomer(r.Context(), &customer)
		} else {
			if customer.ID <= 0 {
				http.Error(w, "id is required", http.StatusBadRequest)
				return
			}
			err = h.service.UpdateCustomer(r.Context(), &customer)
		}
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, customer)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *CatalogHandler) handleRegisterDevice(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		CustomerID   int64     `json:"customer_id"`
		DeviceType   string    `json:"device_type"`
		BrandID      int64     `json:"brand_id"`
		ModelID      int64     `json:"model_id"`
		SerialNumber string    `json:"serial_number"`
		Problem      string    `json:"problem"`
		DeviceLabel  string    `json:"device_label"`
		ReceivedAt   time.Time `json:"received_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CustomerID <= 0 {
		http.Error(w, "customer_id is required", http.StatusBadRequest)
		return
	}

	jobID, err := h.service.RegisterDevice(r.Context(), &domain.Registration{
		CustomerID:   req.CustomerID,
		DeviceType:   req.DeviceType,
		BrandID:      req.BrandID,
		ModelID:      req.ModelID,
		SerialNumber: req.SerialNumber,
		Problem:      req.Problem,
		DeviceLabel:  req.DeviceLabel,
		ReceivedAt:   req.ReceivedAt,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]int64{"job_id": jobID})
}

func (h *CatalogHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)

	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, stats)
}

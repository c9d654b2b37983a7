// internal/service/catalog/application/service.go
package application

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"trackdesk/internal/pkg/logger"
	"trackdesk/internal/service/catalog/domain"
	tracking "trackdesk/internal/service/tracking/domain"
)

// StatsCache 缓存后台汇总数据，避免每次刷新首页都全表计数
type StatsCache interface {
	Get(ctx context.Context) (*domain.Stats, bool)
	Set(ctx context.Context, stats *domain.Stats)
}

// CatalogService 实现后台管理的全部用例：
// 品牌/型号/客户维护、设备登记、首页汇总
type CatalogService struct {
	brands        domain.BrandRepository
	models        domain.BrandModelRepository
	customers     domain.CustomerRepository
	registrations domain.RegistrationRepository
	stats         domain.StatsRepository
	aliases       *tracking.AliasTable
	cache         StatsCache
	tracer        trace.Tracer
}

// NewCatalogService 创建后台管理服务实例，cache 允许为 nil
func NewCatalogService(
	brands domain.BrandRepository,
	models domain.BrandModelRepository,
	customers domain.CustomerRepository,
	registrations domain.RegistrationRepository,
	stats domain.StatsRepository,
	aliases *tracking.AliasTable,
	cache StatsCache,
	tracer trace.Tracer,
) *CatalogService {
	return &CatalogService{
		brands:        brands,
		models:        models,
		customers:     customers,
		registrations: registrations,
		stats:         stats,
		aliases:       aliases,
		cache:         cache,
		tracer:        tracer,
	}
}

// ---- 品牌 ----

func (s *CatalogService) CreateBrand(ctx context.Context, name string) (*domain.Brand, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.CreateBrand")
	defer span.End()

	brand := &domain.Brand{Name: strings.TrimSpace(name)}
	if err := s.brands.Create(ctx, brand); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return brand, nil
}

func (s *CatalogService) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.ListBrands")
	defer span.End()
	return s.brands.FindAll(ctx)
}

func (s *CatalogService) RenameBrand(ctx context.Context, id int64, name string) (*domain.Brand, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.RenameBrand")
	defer span.End()

	brand, err := s.brands.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	brand.Name = strings.TrimSpace(name)
	if err := s.brands.Update(ctx, brand); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return brand, nil
}

func (s *CatalogService) DeleteBrand(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "catalog.DeleteBrand")
	defer span.End()
	return s.brands.Delete(ctx, id)
}

// ---- 型号 ----

func (s *CatalogService) CreateModel(ctx context.Context, brandID int64, name string) (*domain.BrandModel, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.CreateModel")
	defer span.End()

	// 先确认品牌存在，避免悬挂的外键
	if _, err := s.brands.FindByID(ctx, brandID); err != nil {
		return nil, err
	}
	model := &domain.BrandModel{BrandID: brandID, Name: strings.TrimSpace(name)}
	if err := s.models.Create(ctx, model); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return model, nil
}

func (s *CatalogService) ListModels(ctx context.Context, brandID int64) ([]domain.BrandModel, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.ListModels")
	defer span.End()
	return s.models.FindByBrand(ctx, brandID)
}

func (s *CatalogService) DeleteModel(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "catalog.DeleteModel")
	defer span.End()
	return s.models.Delete(ctx, id)
}

// ---- 客户 ----

func (s *CatalogService) CreateCustomer(ctx context.Context, customer *domain.Customer) error {
	ctx, span := s.tracer.Start(ctx, "catalog.CreateCustomer")
	defer span.End()
	return s.customers.Create(ctx, customer)
}

func (s *CatalogService) ListCustomers(ctx context.Context, limit int) ([]domain.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.ListCustomers")
	defer span.End()
	return s.customers.FindAll(ctx, limit)
}

func (s *CatalogService) UpdateCustomer(ctx context.Context, customer *domain.Customer) error {
	ctx, span := s.tracer.Start(ctx, "catalog.UpdateCustomer")
	defer span.End()
	return s.customers.Update(ctx, customer)
}

// ---- 设备登记 ----

// RegisterDevice 为客户登记一台设备，生成工单和初始历史
// 初始状态是 AWAITING_DEVICE：登记完成后等客户把设备送到门店
func (s *CatalogService) RegisterDevice(ctx context.Context, reg *domain.Registration) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.RegisterDevice")
	defer span.End()

	if _, err := s.customers.FindByID(ctx, reg.CustomerID); err != nil {
		return 0, err
	}
	if reg.ReceivedAt.IsZero() {
		reg.ReceivedAt = time.Now()
	}

	jobID, err := s.registrations.CreateJob(ctx, reg, tracking.StatusAwaitingDevice.String())
	if err != nil {
		span.RecordError(err)
		return 0, err
	}
	span.SetAttributes(attribute.Int64("job.id", jobID))
	logger.Ctx(ctx).Info().Int64("job_id", jobID).Int64("customer_id", reg.CustomerID).Msg("device registered")
	return jobID, nil
}

// ---- 汇总 ----

// GetStats 返回后台首页的汇总数据
// 四路计数用 errgroup 并发执行，结果缓存一小段时间
func (s *CatalogService) GetStats(ctx context.Context) (*domain.Stats, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.GetStats")
	defer span.End()

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx); ok {
			span.SetAttributes(attribute.Bool("stats.cached", true))
			return cached, nil
		}
	}

	stats := &domain.Stats{}
	var rawCounts map[string]int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.Brands, err = s.stats.CountBrands(gctx)
		return
	})
	g.Go(func() (err error) {
		stats.Customers, err = s.stats.CountCustomers(gctx)
		return
	})
	g.Go(func() (err error) {
		stats.Jobs, err = s.stats.CountJobs(gctx)
		return
	})
	g.Go(func() (err error) {
		rawCounts, err = s.stats.CountJobsByRawStatus(gctx)
		return
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	// 原始状态可能是任意历史拼写，归一后再聚合
	stats.ByStatus = make(map[string]int64, len(rawCounts))
	for raw, n := range rawCounts {
		stats.ByStatus[s.aliases.Normalize(raw).String()] += n
	}

	if s.cache != nil {
		s.cache.Set(ctx, stats)
	}
	return stats, nil
}

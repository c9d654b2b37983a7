// cmd/admin-service/main.go
package main

import (
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"trackdesk/internal/pkg/bootstrap"
	"trackdesk/internal/service/catalog/application"
	"trackdesk/internal/service/catalog/infrastructure"
	"trackdesk/internal/service/catalog/interfaces"
	tracking "trackdesk/internal/service/tracking/domain"
)

const serviceName = "admin-service"

func main() {
	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8082,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			cfg := appCtx.Config

			db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN), &gorm.Config{})
			if err != nil {
				log.Fatal().Err(err).Msg("failed to connect to mysql")
			}

			redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})

			service := application.NewCatalogService(
				infrastructure.NewGormBrandRepository(db),
				infrastructure.NewGormBrandModelRepository(db),
				infrastructure.NewGormCustomerRepository(db),
				infrastructure.NewGormRegistrationRepository(db),
				infrastructure.NewGormStatsRepository(db),
				tracking.DefaultAliasTable(),
				infrastructure.NewRedisStatsCache(redisClient, 30*time.Second),
				otel.Tracer(serviceName),
			)
			interfaces.NewCatalogHandler(service).RegisterRoutes(appCtx.Mux)
		},
	})
}

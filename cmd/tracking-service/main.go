// cmd/tracking-service/main.go
package main

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"trackdesk/internal/pkg/bootstrap"
	"trackdesk/internal/pkg/mq"
	"trackdesk/internal/service/tracking/application"
	"trackdesk/internal/service/tracking/domain"
	"trackdesk/internal/service/tracking/infrastructure"
	"trackdesk/internal/service/tracking/interfaces"
)

const serviceName = "tracking-service"

func main() {
	var kafkaWriter *kafka.Writer

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8081,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			cfg := appCtx.Config

			db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN), &gorm.Config{})
			if err != nil {
				log.Fatal().Err(err).Msg("failed to connect to mysql")
			}

			redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
			kafkaWriter = mq.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic)

			aliases := domain.DefaultAliasTable()
			tracer := otel.Tracer(serviceName)

			service := application.NewTrackingService(
				infrastructure.NewGormCustomerRepository(db),
				infrastructure.NewGormJobRepository(db, aliases),
				aliases,
				infrastructure.NewStatusEventProducer(kafkaWriter),
				// 单个客户 10 次 / 15 分钟，窗口内猜不完 4 位尾号
				infrastructure.NewRedisAttemptLimiter(redisClient, 10, 15*time.Minute),
				tracer,
			)
			interfaces.NewTrackingHandler(service).RegisterRoutes(appCtx.Mux)
		},
		OnShutdown: func(ctx context.Context) {
			if kafkaWriter != nil {
				if err := kafkaWriter.Close(); err != nil {
					log.Error().Err(err).Msg("error closing kafka writer")
				}
			}
		},
	})
}

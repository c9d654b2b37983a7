// cmd/notification-service/main.go
package main

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"

	"trackdesk/internal/pkg/bootstrap"
	"trackdesk/internal/pkg/mq"
	"trackdesk/internal/service/notification"
)

const serviceName = "notification-service"

func main() {
	var reader *kafka.Reader

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8083,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			cfg := appCtx.Config

			hub := notification.NewHub()
			go hub.Run()

			reader = mq.NewReader(cfg.Kafka.Brokers, cfg.Kafka.Topic, "notification-service")
			consumer := notification.NewConsumer(reader, hub, otel.Tracer(serviceName))
			go func() {
				if err := consumer.Run(context.Background()); err != nil {
					log.Error().Err(err).Msg("kafka consumer stopped")
				}
			}()

			appCtx.Mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
				notification.ServeWS(hub, w, r)
			})
		},
		OnShutdown: func(ctx context.Context) {
			if reader != nil {
				if err := reader.Close(); err != nil {
					log.Error().Err(err).Msg("error closing kafka reader")
				}
			}
		},
	})
}

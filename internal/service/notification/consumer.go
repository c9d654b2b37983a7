// internal/service/notification/consumer.go
package notification

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"trackdesk/internal/pkg/logger"
	"trackdesk/internal/pkg/mq"
	"trackdesk/internal/service/tracking/domain"
)

// Consumer 消费状态流转事件并推给在线的后台连接
type Consumer struct {
	reader *kafka.Reader
	hub    *Hub
	tracer trace.Tracer
}

// NewConsumer 创建事件消费者
func NewConsumer(reader *kafka.Reader, hub *Hub, tracer trace.Tracer) *Consumer {
	return &Consumer{reader: reader, hub: hub, tracer: tracer}
}

// Run 阻塞消费直到 ctx 取消
// 单条消息解析失败只记录日志，不中断消费
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		c.handle(ctx, &msg)
	}
}

func (c *Consumer) handle(ctx context.Context, msg *kafka.Message) {
	// 还原生产方注入的 trace 上下文，让推送和状态更新串在同一条链路上
	ctx = mq.ExtractTraceContext(ctx, msg)
	ctx, span := c.tracer.Start(ctx, "notification.HandleStatusChanged")
	defer span.End()

	var event domain.StatusChangedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		span.RecordError(err)
		logger.Ctx(ctx).Error().Err(err).Msg("malformed status event, skipping")
		return
	}
	span.SetAttributes(
		attribute.Int64("job.id", event.JobID),
		attribute.String("status.to", event.To.String()),
	)

	payload, err := json.Marshal(map[string]interface{}{
		"type":     "status_changed",
		"job_id":   event.JobID,
		"from":     event.From,
		"to":       event.To,
		"to_label": event.To.Label(),
		"actor":    event.Actor,
		"at":       event.ChangedAt,
	})
	if err != nil {
		return
	}
	c.hub.Broadcast(payload)

	logger.Ctx(ctx).Info().
		Int64("job_id", event.JobID).
		Str("to", event.To.String()).
		Msg("status change pushed to dashboards")
}

// Close 关闭底层 reader
func (c *Consumer) Close() error {
	return c.reader.Close()
}

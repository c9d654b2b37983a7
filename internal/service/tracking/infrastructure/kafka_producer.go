// internal/service/tracking/infrastructure/kafka_producer.go
package infrastructure

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/segmentio/kafka-go"

	"trackdesk/internal/pkg/logger"
	"trackdesk/internal/pkg/mq"
	"trackdesk/internal/service/tracking/domain"
)

// StatusEventProducer 把状态流转事件写入 kafka
// 以工单 ID 作为分区键，保证同一工单的事件有序
type StatusEventProducer struct {
	writer *kafka.Writer
}

// NewStatusEventProducer 创建事件生产者
func NewStatusEventProducer(writer *kafka.Writer) *StatusEventProducer {
	return &StatusEventProducer{writer: writer}
}

// Publish 序列化事件并发送，trace 上下文随消息头传递
func (p *StatusEventProducer) Publish(ctx context.Context, event *domain.StatusChangedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	key := []byte(strconv.FormatInt(event.JobID, 10))
	if err := mq.ProduceMessage(ctx, p.writer, key, payload); err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("event_id", event.EventID).Msg("failed to produce status event")
		return err
	}
	return nil
}

package kafka

import (
	"encoding/json"

	"github.com/Shopify/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Keyed messages are partitioned by their key.
type Keyed interface {
	Key() string
}

type SendMessageSyncFunc func(logger *zap.Logger, message interface{}) error

func NewSyncSendMessage(producer sarama.SyncProducer, topic string) SendMessageSyncFunc {
	return func(logger *zap.Logger, message interface{}) error {
		value, err := json.Marshal(message)
		if err != nil {
			return errors.Wrap(err, "marshal kafka message")
		}
		msg := &sarama.ProducerMessage{
			Topic: topic,
			Value: sarama.ByteEncoder(value),
		}
		if keyed, ok := message.(Keyed); ok && keyed.Key() != "" {
			msg.Key = sarama.StringEncoder(keyed.Key())
		}
		partition, offset, err := producer.SendMessage(msg)
		if err != nil {
			logger.Error("kafka send message failed", zap.String("topic", topic), zap.Error(err))
			return errors.Wrap(err, "send kafka message")
		}
		logger.Debug("kafka message sent",
			zap.String("topic", topic),
			zap.Int32("partition", partition),
			zap.Int64("offset", offset),
		)
		return nil
	}
}

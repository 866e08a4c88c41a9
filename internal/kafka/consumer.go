package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/IBM/sarama"

	"restaurant-manager/internal/models"
)

// KitchenConsumer tails order lifecycle topics so the kitchen display can
// react without polling the API. It is an optional process: the service
// stays correct without it.
type KitchenConsumer struct {
	consumer sarama.ConsumerGroup
	topics   []string
}

func NewKitchenConsumer(brokers []string, groupID string) (*KitchenConsumer, error) {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRoundRobin
	config.Consumer.Offsets.Initial = sarama.OffsetNewest

	consumer, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	topics := []string{topicOrderCreated, topicOrderCompleted, topicOrderCancelled, topicOrderEvents}

	return &KitchenConsumer{
		consumer: consumer,
		topics:   topics,
	}, nil
}

func (c *KitchenConsumer) ConsumeOrders(ctx context.Context, handler func(*models.OrderEvent) error) error {
	consumerHandler := &orderConsumerHandler{handler: handler}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if err := c.consumer.Consume(ctx, c.topics, consumerHandler); err != nil {
				log.Printf("Error consuming messages: %v", err)
				return err
			}
		}
	}
}

func (c *KitchenConsumer) Close() error {
	return c.consumer.Close()
}

type orderConsumerHandler struct {
	handler func(*models.OrderEvent) error
}

func (h *orderConsumerHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *orderConsumerHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *orderConsumerHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		var event models.OrderEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			log.Printf("Failed to unmarshal message: %v", err)
			continue
		}

		if err := h.handler(&event); err != nil {
			log.Printf("Failed to handle order event: %v", err)
			continue
		}

		session.MarkMessage(message, "")
	}

	return nil
}

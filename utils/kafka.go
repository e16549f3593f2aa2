package utils

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

const defaultFarmEventsTopic = "farm-events"

var (
	kafkaWriter  *kafka.Writer
	kafkaBrokers []string
	kafkaTopic   string
)

// Event types published on the farm-events topic.
const (
	EventFarmSubmitted  = "farm_submitted"
	EventFarmApproved   = "farm_approved"
	EventFarmRejected   = "farm_rejected"
	EventWateringMarked = "watering_marked"
)

// FarmEvent is the message published for farm lifecycle and watering activity.
// Recipients lists the user IDs that should receive an in-app notification.
type FarmEvent struct {
	Type         string    `json:"type"`
	FarmID       uint      `json:"farm_id"`
	SurveyNumber string    `json:"survey_number"`
	Message      string    `json:"message"`
	Recipients   []uint    `json:"recipients"`
	CreatedAt    time.Time `json:"created_at"`
}

// InitializeKafka sets up the shared event writer. Kafka is optional: when
// KAFKA_BROKERS is unset, publishing silently no-ops.
func InitializeKafka() {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		log.Println("ℹ️ KAFKA_BROKERS not set, event publishing disabled")
		return
	}

	kafkaBrokers = strings.Split(brokers, ",")
	kafkaTopic = os.Getenv("KAFKA_TOPIC")
	if kafkaTopic == "" {
		kafkaTopic = defaultFarmEventsTopic
	}

	kafkaWriter = &kafka.Writer{
		Addr:         kafka.TCP(kafkaBrokers...),
		Topic:        kafkaTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
	}

	log.Printf("✅ Kafka initialized (brokers: %s, topic: %s)", brokers, kafkaTopic)
}

func IsKafkaEnabled() bool {
	return kafkaWriter != nil
}

// PublishFarmEvent sends an event fire-and-forget. Failures are logged, never
// surfaced to the request that triggered them.
func PublishFarmEvent(evt FarmEvent) {
	if kafkaWriter == nil {
		return
	}
	if evt.CreatedAt.IsZero() {
		evt.CreatedAt = time.Now()
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		log.Printf("⚠️ Failed to marshal farm event: %v", err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := kafkaWriter.WriteMessages(ctx, kafka.Message{
			Key:   []byte(evt.Type),
			Value: payload,
		})
		if err != nil {
			log.Printf("⚠️ Failed to publish %s event for farm %d: %v", evt.Type, evt.FarmID, err)
		}
	}()
}

// NewFarmEventReader builds a consumer for the farm-events topic.
// Returns nil when Kafka is disabled.
func NewFarmEventReader(groupID string) *kafka.Reader {
	if len(kafkaBrokers) == 0 {
		return nil
	}
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  kafkaBrokers,
		Topic:    kafkaTopic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}

package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/sharath018/farm-irrigation-backend/utils"
)

// StartKafkaConsumer reads farm events and turns them into in-app
// notifications. Runs until ctx is cancelled. No-op when Kafka is
// disabled.
func StartKafkaConsumer(ctx context.Context, svc *Service) {
	reader := utils.NewFarmEventReader("notification-writer")
	if reader == nil {
		log.Println("ℹ️ Kafka disabled, notification consumer not started")
		return
	}

	go func() {
		defer reader.Close()
		log.Println("✅ Notification consumer started")

		for {
			msg, err := reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("⚠️ Notification consumer read error: %v", err)
				continue
			}

			var evt utils.FarmEvent
			if err := json.Unmarshal(msg.Value, &evt); err != nil {
				log.Printf("⚠️ Skipping malformed farm event: %v", err)
				continue
			}

			if err := svc.Deliver(evt); err != nil {
				log.Printf("⚠️ Failed to store notifications for %s event on farm %d: %v", evt.Type, evt.FarmID, err)
			}
		}
	}()
}

package queue

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"gorm.io/gorm"

	"github.com/example/aviaclub/internal/models"
)

// StartNotificationConsumer connects to the broker, declares the
// miles.topup queue and turns each event into an inbox Notification
// row. It runs a reconnect loop with backoff and never returns under
// normal operation; malformed messages are rejected without requeue so
// the consumer keeps making progress.
func StartNotificationConsumer(url string, db *gorm.DB) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("[Queue] consumer dial failed: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn, db); err != nil {
			log.Printf("[Queue] consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, db *gorm.DB) error {
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(milesTopUpQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	deliveries, err := ch.Consume(milesTopUpQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for delivery := range deliveries {
		if err := handleTopUpEvent(db, delivery.Body); err != nil {
			log.Printf("[Queue] event handling failed: %v", err)
			_ = delivery.Reject(false)
			continue
		}
		_ = delivery.Ack(false)
	}

	return fmt.Errorf("delivery channel closed")
}

func handleTopUpEvent(db *gorm.DB, body []byte) error {
	var event MilesTopUpEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("unmarshal event: %w", err)
	}

	userID, err := uuid.Parse(event.UserID)
	if err != nil {
		return fmt.Errorf("parse user id: %w", err)
	}

	notification := models.Notification{
		UserID:  userID,
		Title:   "Miles credited",
		Message: fmt.Sprintf("Your account was credited with %d miles. New balance: %d.", event.Amount, event.Balance),
		Payload: string(body),
	}

	return db.Create(&notification).Error
}

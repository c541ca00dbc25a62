// Package queue defines message payloads exchanged over the message
// broker and the background consumer that turns them into inbox
// notifications.
package queue

// milesTopUpQueue is the queue name for top-up events.
const milesTopUpQueue = "miles.topup"

// MilesTopUpEvent is published after a successful miles top-up. It
// carries enough information for downstream consumers to write the
// inbox notification without querying the primary database.
type MilesTopUpEvent struct {
	UserID      string `json:"user_id"`
	CardNumber  string `json:"card_number"`
	Amount      int64  `json:"amount"`
	Balance     int64  `json:"balance"`
	Description string `json:"description"`
	OccurredAt  string `json:"occurred_at"`
}

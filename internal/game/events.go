package game

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Publisher carries game telemetry onto the message bus. Publishing is
// fire-and-forget; a failure never affects game state.
type Publisher interface {
	Publish(subject string, data []byte) error
}

const (
	SubjectRoomCreated    = "portal.room.created"
	SubjectRoomEntered    = "portal.room.entered"
	SubjectCoinsCollected = "portal.coins.collected"
	SubjectSessionEnded   = "portal.session.ended"
)

type Event struct {
	Id     string    `json:"id"`
	Time   time.Time `json:"time"`
	RoomId int       `json:"room_id"`
	Title  string    `json:"title,omitempty"`
	Coins  int       `json:"coins,omitempty"`
	Result string    `json:"result,omitempty"`
}

func publishEvent(ctx context.Context, pub Publisher, subject string, ev Event) {
	if pub == nil {
		return
	}

	ev.Id = uuid.New().String()
	ev.Time = time.Now().UTC()

	data, err := json.Marshal(ev)
	if err != nil {
		return
	}

	if err := pub.Publish(subject, data); err != nil {
		slog.WarnContext(ctx, "publishing event", "subject", subject, "error", err)
	}
}

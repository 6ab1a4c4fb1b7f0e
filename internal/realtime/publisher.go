// internal/realtime/publisher.go
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nightpulse/backend/internal/config"
)

// Channel names. Dashboards subscribe to these to refresh without polling.
const (
	ChannelEvents  = "events"
	ChannelTickets = "tickets"
	ChannelPoints  = "user_points"
)

// Message is the envelope published on every row change.
type Message struct {
	Kind       string      `json:"kind"`
	ResourceID string      `json:"resource_id"`
	Payload    interface{} `json:"payload,omitempty"`
	At         time.Time   `json:"at"`
}

// Publisher fans row-change notifications out over Redis pub/sub. All
// publishes are best-effort; a dropped message only delays a dashboard
// refresh.
type Publisher struct {
	client *redis.Client
}

func NewPublisher(cfg config.RedisConfig) *Publisher {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Publisher{client: client}
}

func (p *Publisher) Close() error {
	return p.client.Close()
}

// Ping verifies the connection at startup.
func (p *Publisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func (p *Publisher) publish(ctx context.Context, channel string, msg Message) {
	msg.At = time.Now().UTC()
	data, err := json.Marshal(msg)
	if err != nil {
		logrus.WithError(err).Error("Failed to marshal realtime message")
		return
	}
	if err := p.client.Publish(ctx, channel, data).Err(); err != nil {
		logrus.WithError(err).WithField("channel", channel).Warn("Failed to publish realtime message")
	}
}

// EventChanged notifies dashboards that an event row changed (capacity,
// status, details).
func (p *Publisher) EventChanged(ctx context.Context, eventID uuid.UUID, kind string) {
	p.publish(ctx, ChannelEvents, Message{Kind: kind, ResourceID: eventID.String()})
}

// TicketChanged notifies both the event channel audience and the ticket
// owner's dashboard.
func (p *Publisher) TicketChanged(ctx context.Context, ticketID, eventID uuid.UUID, kind string) {
	p.publish(ctx, ChannelTickets, Message{
		Kind:       kind,
		ResourceID: ticketID.String(),
		Payload:    map[string]string{"event_id": eventID.String()},
	})
}

// PointsChanged notifies the user's open dashboards of a new points balance.
func (p *Publisher) PointsChanged(ctx context.Context, userID uuid.UUID, balance int64) {
	p.publish(ctx, fmt.Sprintf("%s:%s", ChannelPoints, userID), Message{
		Kind:       "points_updated",
		ResourceID: userID.String(),
		Payload:    map[string]int64{"points": balance},
	})
}

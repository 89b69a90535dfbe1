package caching

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// SignalPublisher is the best-effort change-signal sink. Dashboards
// subscribe per tenant; a failed publish is logged and swallowed so it
// can never fail the booking transaction it follows.
type SignalPublisher interface {
	BookingChanged(ctx context.Context, tenantID uuid.UUID, bookingID uuid.UUID, status string)
	MembershipChanged(ctx context.Context, tenantID uuid.UUID, membershipID uuid.UUID)
}

type redisSignalPublisher struct {
	client *redis.Client
}

// NewRedisClient builds the redis client shared by the signal publisher
// and the directory cache. Accepts redis:// style addresses as well as
// host:port.
func NewRedisClient(addr, password string, db int) *redis.Client {
	if strings.Contains(addr, "://") {
		if opts, err := redis.ParseURL(addr); err == nil {
			return redis.NewClient(opts)
		}
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// NewRedisSignalPublisher creates a publisher over an existing client.
func NewRedisSignalPublisher(client *redis.Client) SignalPublisher {
	return &redisSignalPublisher{client: client}
}

type changeEvent struct {
	Kind      string    `json:"kind"`
	TenantID  uuid.UUID `json:"tenant_id"`
	EntityID  uuid.UUID `json:"entity_id"`
	Status    string    `json:"status,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (p *redisSignalPublisher) publish(ctx context.Context, event changeEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Warn().Err(err).Msg("encode change event")
		return
	}
	channel := "tenant:" + event.TenantID.String() + ":changes"
	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		log.Warn().Err(err).Str("channel", channel).Msg("publish change event")
	}
}

func (p *redisSignalPublisher) BookingChanged(ctx context.Context, tenantID, bookingID uuid.UUID, status string) {
	p.publish(ctx, changeEvent{
		Kind:      "booking",
		TenantID:  tenantID,
		EntityID:  bookingID,
		Status:    status,
		Timestamp: time.Now().UTC(),
	})
}

func (p *redisSignalPublisher) MembershipChanged(ctx context.Context, tenantID, membershipID uuid.UUID) {
	p.publish(ctx, changeEvent{
		Kind:      "membership",
		TenantID:  tenantID,
		EntityID:  membershipID,
		Timestamp: time.Now().UTC(),
	})
}

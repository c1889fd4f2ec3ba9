package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vietddude/nodewatch/internal/monitoring/health"
)

// VerdictPublisher stores the latest check result for a node under a key
// that expires, so readers never see a verdict older than the TTL.
type VerdictPublisher struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewVerdictPublisher creates a publisher. ttl should exceed the poll interval.
func NewVerdictPublisher(client *Client, ttl time.Duration) *VerdictPublisher {
	return &VerdictPublisher{
		rdb: client.rdb,
		ttl: ttl,
	}
}

// VerdictKey returns the key holding the latest result for node.
func VerdictKey(node string) string {
	return fmt.Sprintf("nodewatch:verdict:%s", node)
}

// Publish implements health.Sink.
func (p *VerdictPublisher) Publish(ctx context.Context, r health.Result) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := p.rdb.Set(ctx, VerdictKey(r.Node), data, p.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set verdict: %w", err)
	}
	return nil
}

// Latest returns the raw JSON of the latest published result for node.
// found is false when nothing was published within the TTL.
func (p *VerdictPublisher) Latest(ctx context.Context, node string) (data []byte, found bool, err error) {
	data, err = p.rdb.Get(ctx, VerdictKey(node)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get failed: %w", err)
	}
	return data, true, nil
}

package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/maheshrc27/smartflow/internal/models"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const externalIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

type SimulatedConfig struct {
	MinDelay    time.Duration
	MaxDelay    time.Duration
	SuccessRate float64
	Seed        int64
}

// SimulatedPublisher stands in for real platform integrations: it waits a random
// delay and then succeeds with the configured probability.
type SimulatedPublisher struct {
	cfg SimulatedConfig

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSimulatedPublisher(cfg SimulatedConfig) *SimulatedPublisher {
	if cfg.MaxDelay < cfg.MinDelay {
		cfg.MaxDelay = cfg.MinDelay
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &SimulatedPublisher{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

func (p *SimulatedPublisher) Publish(ctx context.Context, post *models.Post) (*Result, error) {
	if !models.IsValidPlatform(post.Platform) {
		return nil, fmt.Errorf("unsupported platform %q", post.Platform)
	}

	delay, roll := p.draw()
	slog.Debug("publishing post", "post_id", post.ID, "platform", post.Platform, "delay", delay)

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	if roll >= p.cfg.SuccessRate {
		return nil, fmt.Errorf("failed to connect to %s API", post.Platform)
	}

	suffix, err := gonanoid.Generate(externalIDAlphabet, 9)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Result{
		ExternalID:  fmt.Sprintf("%s_%d_%s", post.Platform, now.UnixMilli(), suffix),
		Platform:    post.Platform,
		PublishedAt: now,
	}, nil
}

func (p *SimulatedPublisher) draw() (time.Duration, float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delay := p.cfg.MinDelay
	if spread := p.cfg.MaxDelay - p.cfg.MinDelay; spread > 0 {
		delay += time.Duration(p.rng.Int63n(int64(spread)))
	}
	return delay, p.rng.Float64()
}

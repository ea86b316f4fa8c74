package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"taxsarthi/internal/port"
)

// circuitState tracks rate-limit backoff for a single chat model.
type circuitState struct {
	mu      sync.RWMutex
	resetAt time.Time // zero value = closed (healthy)
}

func (c *circuitState) isOpenWithReset(now time.Time) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resetAt, !c.resetAt.IsZero() && now.Before(c.resetAt)
}

func (c *circuitState) open(resetAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAt = resetAt
}

// FallbackChatModel tries chat models in order, skipping those with open
// circuits. It implements port.ChatModel.
type FallbackChatModel struct {
	models   []port.ChatModel
	circuits []*circuitState
	names    []string
}

// NewFallbackChatModel creates a FallbackChatModel from an ordered list of models and their names.
func NewFallbackChatModel(models []port.ChatModel, names []string) *FallbackChatModel {
	circuits := make([]*circuitState, len(models))
	for i := range circuits {
		circuits[i] = &circuitState{}
	}
	return &FallbackChatModel{
		models:   models,
		circuits: circuits,
		names:    names,
	}
}

func (f *FallbackChatModel) Complete(ctx context.Context, req port.ChatRequest) (*port.ChatResponse, error) {
	now := time.Now()
	var lastErr error
	allRateLimited := true
	var earliestReset time.Time

	for i, m := range f.models {
		if resetAt, open := f.circuits[i].isOpenWithReset(now); open {
			log.Printf("llm.FallbackChatModel: skipping %s (circuit open until %s)", f.names[i], resetAt.Format(time.RFC3339))
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
			continue
		}

		out, err := m.Complete(ctx, req)
		if err == nil {
			return out, nil
		}

		log.Printf("llm.FallbackChatModel: %s failed: %v", f.names[i], err)
		lastErr = err

		var rlErr *RateLimitError
		if errors.As(err, &rlErr) {
			resetAt := now.Add(rlErr.RetryAfter)
			f.circuits[i].open(resetAt)
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
		} else {
			allRateLimited = false
		}
	}

	if lastErr == nil {
		// All models were skipped due to open circuits
		retryAfter := time.Until(earliestReset)
		if retryAfter < 0 {
			retryAfter = time.Second
		}
		return nil, NewRateLimitError("all", fmt.Errorf("all chat models rate limited"), int(retryAfter.Seconds()))
	}

	if allRateLimited {
		retryAfter := time.Until(earliestReset)
		if retryAfter < 0 {
			retryAfter = time.Second
		}
		return nil, NewRateLimitError("all", fmt.Errorf("all chat models rate limited"), int(retryAfter.Seconds()))
	}

	return nil, fmt.Errorf("all chat models failed: %w", lastErr)
}

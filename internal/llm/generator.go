package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// SystemPrompt is sent with every plan-generation call.
const SystemPrompt = "You are an expert learning plan creator. Always follow the exact format requested. Be specific, practical, and actionable in your responses."

const (
	defaultTopP = 0.9
)

// GenerationRequest is the unit of work submitted to a Generator.
type GenerationRequest struct {
	Stage       string // label for logs and call events only
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// TextGenerator produces text for a prompt. Generator is the production
// implementation; tests substitute scripted fakes.
type TextGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// Generator is the single entry point for text generation. It layers caching,
// de-duplication of concurrent identical misses, retry with a fixed delay,
// per-attempt timeouts and timing instrumentation over a Completer.
type Generator struct {
	backend  Completer
	cache    *Cache
	cfg      Config
	retry    RetryPolicy
	observer Observer
	logger   *zap.Logger
	flight   singleflight.Group
}

// GeneratorOption customizes a Generator.
type GeneratorOption func(*Generator)

// WithObserver sets the call-event observer.
func WithObserver(o Observer) GeneratorOption {
	return func(g *Generator) {
		if o != nil {
			g.observer = o
		}
	}
}

// WithLogger sets the logger used for retry and failure messages.
func WithLogger(l *zap.Logger) GeneratorOption {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithCache replaces the cache built from Config.
func WithCache(c *Cache) GeneratorOption {
	return func(g *Generator) {
		if c != nil {
			g.cache = c
		}
	}
}

// NewGenerator wraps backend with the behavior described by cfg.
func NewGenerator(backend Completer, cfg Config, opts ...GeneratorOption) *Generator {
	g := &Generator{
		backend:  backend,
		cfg:      cfg,
		cache:    NewCache(cfg.CacheSize, cfg.CacheTTL()),
		observer: NoopObserver{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.retry = RetryPolicy{
		MaxRetries: cfg.MaxRetries,
		Delay:      cfg.RetryDelay(),
		OnRetry: func(attempt, attempts int, err error) {
			g.logger.Warn("generation attempt failed, retrying",
				zap.Int("attempt", attempt),
				zap.Int("attempts", attempts),
				zap.Duration("delay", cfg.RetryDelay()),
				zap.Error(err),
			)
		},
	}
	return g
}

// Cache exposes the generator's cache for stats and maintenance.
func (g *Generator) Cache() *Cache {
	return g.cache
}

// Generate returns the cleaned model output for req, serving repeated
// (prompt, max tokens, temperature) triples from the cache.
func (g *Generator) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	key := CacheKey(req.Prompt, req.MaxTokens, req.Temperature)

	if text, ok := g.cache.Get(key); ok {
		g.logger.Debug("cache hit", zap.String("stage", req.Stage))
		g.observer.OnCallComplete(CallEvent{
			Stage:    req.Stage,
			Model:    g.cfg.Model,
			Success:  true,
			CacheHit: true,
		})
		return text, nil
	}

	// The shared call must outlive any single caller: a waiter whose own
	// context is live may still be joined to it.
	shared := context.WithoutCancel(ctx)
	ch := g.flight.DoChan(key, func() (any, error) {
		if text, ok := g.cache.Get(key); ok {
			return text, nil
		}
		text, err := Retry(shared, g.retry, func(ctx context.Context, attempt int) (string, error) {
			return g.attempt(ctx, req, attempt)
		})
		if err != nil {
			return "", err
		}
		g.cache.Put(key, text)
		return text, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// attempt performs one timed backend call under the per-call timeout.
func (g *Generator) attempt(ctx context.Context, req GenerationRequest, attempt int) (string, error) {
	callCtx := ctx
	if timeout := g.cfg.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	return Timed(func() (string, error) {
		raw, err := g.backend.Complete(callCtx, Completion{
			SystemPrompt:     SystemPrompt,
			UserPrompt:       req.Prompt,
			MaxTokens:        req.MaxTokens,
			Temperature:      req.Temperature,
			TopP:             defaultTopP,
			FrequencyPenalty: 0,
			PresencePenalty:  0,
		})
		if err != nil {
			if ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
				return "", fmt.Errorf("%w after %s: %v", ErrTimeout, g.cfg.Timeout(), err)
			}
			return "", err
		}
		return StripCodeFences(raw), nil
	}, func(elapsed time.Duration, err error) {
		g.observer.OnCallComplete(CallEvent{
			Stage:     req.Stage,
			Model:     g.cfg.Model,
			Attempt:   attempt,
			LatencyMs: elapsed.Milliseconds(),
			Success:   err == nil,
			ErrorCode: errorCode(err),
		})
		if err != nil {
			g.logger.Error("generation call failed",
				zap.String("stage", req.Stage),
				zap.Int("attempt", attempt),
				zap.Duration("elapsed", elapsed),
				zap.Error(err),
			)
			return
		}
		g.logger.Debug("generation call completed",
			zap.String("stage", req.Stage),
			zap.Int("attempt", attempt),
			zap.Duration("elapsed", elapsed),
		)
	})
}

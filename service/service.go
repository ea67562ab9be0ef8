// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/danielhkuo/ldr-counter/identity"
	"github.com/danielhkuo/ldr-counter/metrics"
	"github.com/danielhkuo/ldr-counter/models"
	"github.com/danielhkuo/ldr-counter/store"
	"github.com/danielhkuo/ldr-counter/verify"
)

// DefaultCooldown is how long an identity waits between qualifying actions
const DefaultCooldown = 24 * time.Hour

// Ledger action labels
const (
	actionParticipate = "participate"
	actionSubmit      = "submit"
)

type Gate interface {
	Verify(ctx context.Context, proofToken, requesterOrigin string) (verify.Verdict, error)
}

type Ledger interface {
	CheckAndReserve(ctx context.Context, identity string, cooldown time.Duration) (store.Reservation, error)
}

type Counter interface {
	Increment(ctx context.Context, counterID string) (int64, error)
	Read(ctx context.Context, counterID string) (int64, error)
}

type Stories interface {
	Append(ctx context.Context, story models.Story) (string, error)
	ListApproved(ctx context.Context, limit int) ([]models.Story, error)
}

type Publisher interface {
	Publish(ctx context.Context, channel, eventName string, payload interface{})
}

type Options struct {
	IdentitySalt string
	Cooldown     time.Duration
	StoreTimeout time.Duration
}

// Service runs the two public actions: registering participation and
// submitting a survey. Every step is backed by storage, so any number of
// instances can serve requests side by side.
type Service struct {
	gate      Gate
	ledger    Ledger
	counter   Counter
	stories   Stories
	publisher Publisher
	opts      Options
	now       func() time.Time
}

func New(gate Gate, ledger Ledger, counter Counter, stories Stories, publisher Publisher, opts Options) *Service {
	if opts.Cooldown <= 0 {
		opts.Cooldown = DefaultCooldown
	}
	return &Service{
		gate:      gate,
		ledger:    ledger,
		counter:   counter,
		stories:   stories,
		publisher: publisher,
		opts:      opts,
		now:       time.Now,
	}
}

type ParticipationRequest struct {
	ProofToken      string
	RequesterOrigin string
}

type StoryRequest struct {
	ProofToken      string
	RequesterOrigin string
	Answers         map[string]string
	ShareStory      bool
	SelectedPrompt  string
}

// RegisterParticipation verifies the requester, reserves their identity for
// the cooldown window and increments the counter. Always verified: there is
// no caller-controlled way to skip the gate.
func (s *Service) RegisterParticipation(ctx context.Context, req ParticipationRequest) (int64, error) {
	if _, err := s.gate.Verify(ctx, req.ProofToken, req.RequesterOrigin); err != nil {
		return 0, err
	}

	if err := s.reserve(ctx, req.RequesterOrigin, actionParticipate, ErrAlreadyParticipated); err != nil {
		return 0, err
	}

	return s.countParticipation(ctx)
}

// SubmitStory verifies the requester, reserves their identity, optionally
// publishes one answer as a story and counts the survey as one participation.
func (s *Service) SubmitStory(ctx context.Context, req StoryRequest) error {
	var answer string
	if req.ShareStory {
		var err error
		if answer, err = validateStory(req); err != nil {
			return err
		}
	}

	if _, err := s.gate.Verify(ctx, req.ProofToken, req.RequesterOrigin); err != nil {
		return err
	}

	if err := s.reserve(ctx, req.RequesterOrigin, actionSubmit, ErrAlreadySubmitted); err != nil {
		return err
	}

	if req.ShareStory {
		if err := s.publishStory(ctx, req.SelectedPrompt, answer); err != nil {
			return err
		}
	}

	// Already verified and reserved above: count once, without a second gate pass
	if _, err := s.countParticipation(ctx); err != nil {
		return err
	}

	return nil
}

// Count returns the current counter value
func (s *Service) Count(ctx context.Context) (int64, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	count, err := s.counter.Read(ctx, models.CounterID)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return count, nil
}

// Stories returns the latest approved stories, newest first
func (s *Service) Stories(ctx context.Context) ([]models.Story, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	stories, err := s.stories.ListApproved(ctx, models.StoryFeedLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return stories, nil
}

// countParticipation is the gate-exempt increment. It is only reachable from
// RegisterParticipation and SubmitStory after both checks have passed.
func (s *Service) countParticipation(ctx context.Context) (int64, error) {
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	count, err := s.counter.Increment(storeCtx, models.CounterID)
	if err != nil {
		slog.Error("failed to increment counter", "error", err)
		return 0, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	metrics.CounterIncrementsTotal.Inc()
	slog.Info("participation counted", "count", count)

	// The increment is committed; other subscribers get it even if this caller is gone
	s.publisher.Publish(context.WithoutCancel(ctx), models.CounterChannel, models.CounterEvent, models.CounterResponse{Count: count})

	return count, nil
}

// reserve consumes the identity's ledger slot or returns a CooldownError wrapping denied
func (s *Service) reserve(ctx context.Context, requesterOrigin, action string, denied error) error {
	key := identity.Hash(requesterOrigin, s.opts.IdentitySalt)

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	res, err := s.ledger.CheckAndReserve(storeCtx, key, s.opts.Cooldown)
	if err != nil {
		slog.Error("failed to reserve identity", "action", action, "error", err)
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	if !res.Allowed {
		metrics.LedgerDenialsTotal.WithLabelValues(action).Inc()
		slog.Info("action denied by cooldown", "action", action, "identity", key[:12], "retry_at", res.RetryNotBefore)
		return &CooldownError{Err: denied, RetryAt: res.RetryNotBefore}
	}

	return nil
}

// publishStory appends the story and broadcasts the refreshed feed.
// A failed feed read only skips the broadcast.
func (s *Service) publishStory(ctx context.Context, prompt, answer string) error {
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	id, err := s.stories.Append(storeCtx, models.Story{
		Prompt:      prompt,
		Answer:      answer,
		SubmittedAt: s.now(),
	})
	if err != nil {
		slog.Error("failed to append story", "error", err)
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	metrics.StoriesAppendedTotal.Inc()
	slog.Info("story published", "story_id", id, "prompt", prompt)

	// The story is committed: the feed read and fan-out outlive the caller
	fanout := context.WithoutCancel(ctx)
	listCtx, cancelList := s.storeContext(fanout)
	defer cancelList()

	latest, err := s.stories.ListApproved(listCtx, models.StoryFeedLimit)
	if err != nil {
		slog.Error("failed to load stories for broadcast", "error", err)
		metrics.BroadcastFailuresTotal.WithLabelValues(models.StoryChannel).Inc()
		return nil
	}

	s.publisher.Publish(fanout, models.StoryChannel, models.StoryEvent, models.StoriesResponse{
		Stories: models.StoryViews(latest),
	})

	return nil
}

func (s *Service) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.StoreTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.opts.StoreTimeout)
}

func validateStory(req StoryRequest) (string, error) {
	if !models.IsValidPrompt(req.SelectedPrompt) {
		return "", &ValidationError{Field: "selectedQuestion", Message: "selectedQuestion must be one of: " + strings.Join(models.PromptIDs, ", ")}
	}

	answer := strings.TrimSpace(req.Answers[req.SelectedPrompt])
	if answer == "" {
		return "", &ValidationError{Field: "answers", Message: "answer for " + req.SelectedPrompt + " is required to share a story"}
	}
	if utf8.RuneCountInString(answer) > models.MaxAnswerLength {
		return "", &ValidationError{Field: "answers", Message: fmt.Sprintf("answer must be at most %d characters", models.MaxAnswerLength)}
	}

	return answer, nil
}

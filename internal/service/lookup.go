// Package service runs a phone breach lookup: the key-authenticated
// LeakCheck API first, the public API when the key has no active plan.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/margoul1Malin/HakBoard/internal/leakcheck"
	"github.com/margoul1Malin/HakBoard/internal/models"
	"go.uber.org/zap"
)

const (
	phoneQueryType = "phone"
	// PrivateLimit caps the records requested from the private API.
	PrivateLimit = 100

	// FallbackInfo is reported when the public API answers instead.
	FallbackInfo = "paid plan required for the private API, using the public API instead"
)

// PrivateSearcher is the key-authenticated lookup API.
type PrivateSearcher interface {
	Lookup(ctx context.Context, query, queryType string, limit int) ([]models.Record, error)
}

// PublicSearcher is the unauthenticated lookup API.
type PublicSearcher interface {
	Lookup(ctx context.Context, query string) (*leakcheck.PublicResult, error)
}

// PrivateFactory builds a PrivateSearcher for an API key.
type PrivateFactory func(apiKey string) (PrivateSearcher, error)

// PublicFactory builds a PublicSearcher.
type PublicFactory func() (PublicSearcher, error)

// Outcome is the final result of Lookup plus an optional note about how it
// was obtained.
type Outcome struct {
	Info   string
	Result models.Result
}

// Service holds the searcher factories.
type Service struct {
	newPrivate PrivateFactory
	newPublic  PublicFactory
	loc        *time.Location
	log        *zap.Logger
}

// NewLookupService constructs a Service. loc is used for public breach dates;
// nil means time.Local. A nil logger disables logging.
func NewLookupService(newPrivate PrivateFactory, newPublic PublicFactory, loc *time.Location, log *zap.Logger) *Service {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{newPrivate: newPrivate, newPublic: newPublic, loc: loc, log: log}
}

type state int

const (
	stateAttemptPrivileged state = iota
	stateAttemptPublic
	stateDone
)

func (s state) String() string {
	switch s {
	case stateAttemptPrivileged:
		return "attempt_privileged"
	case stateAttemptPublic:
		return "attempt_public"
	case stateDone:
		return "done"
	}
	return "unknown"
}

// Lookup searches phone with the private API and falls back to the public
// API only when the private one reports a missing plan.
func (s *Service) Lookup(ctx context.Context, phone, apiKey string) Outcome {
	var out Outcome
	st := stateAttemptPrivileged
	for st != stateDone {
		s.log.Debug("lookup state", zap.Stringer("state", st))
		switch st {
		case stateAttemptPrivileged:
			out.Result = s.SearchPrivate(ctx, phone, apiKey)
			st = stateDone
			if out.Result.Err != nil && out.Result.Err.TryPublic {
				s.log.Info("private API requires a plan, falling back to public API")
				out.Info = FallbackInfo
				st = stateAttemptPublic
			}
		case stateAttemptPublic:
			out.Result = s.SearchPublic(ctx, phone)
			st = stateDone
		}
	}

	if out.Result.IsError() {
		s.log.Warn("lookup failed", zap.String("error", out.Result.Err.Error))
	} else {
		s.log.Info("lookup finished", zap.Int("records", len(out.Result.Records)))
	}
	return out
}

// SearchPrivate queries the private API. Every failure becomes an error
// value; a missing plan is flagged with TryPublic.
func (s *Service) SearchPrivate(ctx context.Context, phone, apiKey string) (res models.Result) {
	defer recoverAsResult(&res, "unexpected error")

	api, err := s.newPrivate(apiKey)
	if err != nil {
		return models.Failure(fmt.Sprintf("failed to initialize LeakCheck API: %v", err))
	}

	records, err := api.Lookup(ctx, phone, phoneQueryType, PrivateLimit)
	if err != nil {
		if errors.Is(err, leakcheck.ErrPlanRequired) {
			return models.Result{Err: &models.ErrorResult{Error: leakcheck.ErrPlanRequired.Error(), TryPublic: true}}
		}
		return models.Failure(fmt.Sprintf("lookup failed: %v", err))
	}
	return models.Success(records)
}

// SearchPublic queries the public API and reshapes its answer with FormatPublic.
func (s *Service) SearchPublic(ctx context.Context, phone string) (res models.Result) {
	defer recoverAsResult(&res, "unexpected error with the public API")

	api, err := s.newPublic()
	if err != nil {
		return models.Failure(fmt.Sprintf("failed to initialize public LeakCheck API: %v", err))
	}

	raw, err := api.Lookup(ctx, phone)
	if err != nil {
		return models.Failure(fmt.Sprintf("%s: %v", publicSearchError, err))
	}
	return FormatPublic(raw, s.loc)
}

func recoverAsResult(res *models.Result, prefix string) {
	if r := recover(); r != nil {
		*res = models.Failure(fmt.Sprintf("%s: %v\n%s", prefix, r, debug.Stack()))
	}
}

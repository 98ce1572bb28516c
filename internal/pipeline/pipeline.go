package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/profile-optimizer/internal/ai"
	"github.com/spigell/profile-optimizer/internal/dating"
	"github.com/spigell/profile-optimizer/internal/logger"
	"github.com/spigell/profile-optimizer/internal/sanitize"
	"github.com/spigell/profile-optimizer/internal/tinder"
)

// ErrNoData is returned when a source yields an empty profile or no dates.
var ErrNoData = errors.New("no data returned")

// Options replaces the process-wide mode toggles.
type Options struct {
	// UseLocalFixtures reads the profile and dates fixtures instead of the upstream API.
	UseLocalFixtures bool
	// ObfuscateForCollection truncates candidate names during deduplication.
	ObfuscateForCollection bool
	// PersistIntermediateOutputs stores the sanitized profile and dates on disk.
	PersistIntermediateOutputs bool
}

// Upstream is the live profile and recommendations source.
type Upstream interface {
	GetProfile(ctx context.Context) (dating.Profile, error)
	GetDates(ctx context.Context) (*tinder.DatesResult, error)
}

// Fixtures is the local data source.
type Fixtures interface {
	LoadProfile() (dating.Profile, error)
	LoadDatesFile() ([]dating.Candidate, error)
	LoadDates(code string) ([]dating.Candidate, error)
}

// Recorder persists intermediate outputs. Implementations never fail.
type Recorder interface {
	RecordProfile(profile dating.Profile)
	RecordDates(dates []dating.Candidate)
}

// Deps aggregates the collaborators of a pipeline.
type Deps struct {
	Upstream  Upstream
	Fixtures  Fixtures
	Sanitizer *sanitize.Sanitizer
	Suggester ai.Suggester
	Recorder  Recorder
	Logger    *zap.Logger
}

// Payload is the sanitized input handed to a suggester.
type Payload struct {
	Profile dating.Profile
	Dates   []dating.Candidate
}

// Bio returns the profile bio.
func (p *Payload) Bio() string {
	if p == nil {
		return ""
	}
	return p.Profile.Bio()
}

type Pipeline struct {
	deps   Deps
	opts   Options
	logger *zap.Logger
}

func New(deps Deps, opts Options) *Pipeline {
	if deps.Sanitizer == nil {
		deps.Sanitizer = sanitize.Default()
	}

	return &Pipeline{
		deps:   deps,
		opts:   opts,
		logger: logger.OrNop(deps.Logger),
	}
}

func (p *Pipeline) Options() Options {
	return p.opts
}

// Steps returns the dates steps in execution order for a source.
func (p *Pipeline) Steps(fromFixture bool) []DatesStep {
	steps := []DatesStep{
		NewDedupe(p.opts.ObfuscateForCollection),
		NewSanitize(p.deps.Sanitizer),
	}

	// Fixtures are stored after deduplication and carry no identities.
	if fromFixture {
		DisableByName(steps, DedupeStepName, "fixture dates are stored deduplicated")
	}

	return steps
}

// Live acquires the authenticated user's profile and recommendations, or
// their local fixtures when UseLocalFixtures is set.
func (p *Pipeline) Live(ctx context.Context) (*Payload, error) {
	profile, err := p.liveProfile(ctx)
	if err != nil {
		return nil, err
	}

	dates, err := p.liveDates(ctx)
	if err != nil {
		return nil, err
	}

	return p.finish(ctx, profile, dates, p.opts.UseLocalFixtures)
}

// Custom normalizes a caller-supplied profile and pairs it with the dates
// fixture of country.
func (p *Pipeline) Custom(ctx context.Context, simple dating.SimpleProfile, country string) (*Payload, error) {
	if p.deps.Fixtures == nil {
		return nil, fmt.Errorf("fixtures loader is required")
	}

	country = strings.ToUpper(strings.TrimSpace(country))
	log := p.logger.With(logger.RequestFields("", country)...)

	dates, err := p.deps.Fixtures.LoadDates(country)
	if err != nil {
		return nil, fmt.Errorf("loading dates for country %q: %w", country, err)
	}
	log.Debug("country dates loaded", zap.Int("dates", len(dates)))

	return p.finish(ctx, dating.Normalize(simple), dates, true)
}

// Suggest hands the payload to the configured suggester.
func (p *Pipeline) Suggest(ctx context.Context, payload *Payload, style ai.MatchStyle) (*dating.SuggestionSet, error) {
	if p.deps.Suggester == nil {
		return nil, fmt.Errorf("suggester is required")
	}
	if payload == nil || len(payload.Profile) == 0 || len(payload.Dates) == 0 {
		return nil, ErrNoData
	}

	style = ai.ParseStyle(string(style))
	p.logger.Info("requesting suggestions",
		zap.String(logger.FieldStyle, string(style)),
		zap.Int("dates", len(payload.Dates)),
	)

	set, err := p.deps.Suggester.Suggest(ctx, &ai.Request{
		Profile: payload.Profile,
		Dates:   payload.Dates,
		Style:   style,
	})
	if err != nil {
		return nil, fmt.Errorf("getting suggestions: %w", err)
	}

	return set, nil
}

func (p *Pipeline) liveProfile(ctx context.Context) (dating.Profile, error) {
	if p.opts.UseLocalFixtures {
		if p.deps.Fixtures == nil {
			return nil, fmt.Errorf("fixtures loader is required in local data mode")
		}
		profile, err := p.deps.Fixtures.LoadProfile()
		if err != nil {
			return nil, fmt.Errorf("loading local profile: %w", err)
		}
		return profile, nil
	}

	if p.deps.Upstream == nil {
		return nil, fmt.Errorf("upstream client is required")
	}

	profile, err := p.deps.Upstream.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (p *Pipeline) liveDates(ctx context.Context) ([]dating.Candidate, error) {
	if p.opts.UseLocalFixtures {
		dates, err := p.deps.Fixtures.LoadDatesFile()
		if err != nil {
			return nil, fmt.Errorf("loading local dates: %w", err)
		}
		return dates, nil
	}

	result, err := p.deps.Upstream.GetDates(ctx)
	if err != nil {
		return nil, err
	}

	if result.TimedOut {
		p.logger.Warn("recommendations stopped early by upstream timeout",
			zap.Int("requests", result.Requests),
			zap.Int("dates", len(result.Candidates)),
		)
	}

	return result.Candidates, nil
}

func (p *Pipeline) finish(ctx context.Context, profile dating.Profile, dates []dating.Candidate, fromFixture bool) (*Payload, error) {
	if len(profile) == 0 || len(dates) == 0 {
		p.logger.Warn("source returned no data",
			zap.Int("profile_sections", len(profile)),
			zap.Int("dates", len(dates)),
		)
		return nil, ErrNoData
	}

	cleaned, err := RunSteps(ctx, p.logger, p.Steps(fromFixture), dates)
	if err != nil {
		return nil, fmt.Errorf("processing dates: %w", err)
	}

	payload := &Payload{
		Profile: dating.Profile(p.deps.Sanitizer.Mapping(profile)),
		Dates:   cleaned,
	}

	if p.opts.PersistIntermediateOutputs && p.deps.Recorder != nil && !fromFixture {
		p.deps.Recorder.RecordProfile(payload.Profile)
		p.deps.Recorder.RecordDates(payload.Dates)
	}

	p.logger.Info("payload prepared",
		zap.Int("dates", len(payload.Dates)),
		zap.Bool("has_bio", payload.Bio() != ""),
	)

	return payload, nil
}

package pipeline

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/profile-optimizer/internal/dating"
	"github.com/spigell/profile-optimizer/internal/sanitize"
)

const (
	DedupeStepName   = "dedupe"
	SanitizeStepName = "sanitize"
)

// DatesStep is a single processing step applied to candidate dates.
type DatesStep interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Apply(ctx context.Context, log *zap.Logger, dates []dating.Candidate) ([]dating.Candidate, Stats, error)
}

// Stats describes the result of executing a step.
type Stats struct {
	Initial int
	Dropped int
	Left    int
}

// Status represents runtime information about a step.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

type statusProvider interface {
	Status() Status
}

// DisableByName marks a step with the provided name as disabled while keeping it in the list.
func DisableByName(steps []DatesStep, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// RunSteps executes the supplied steps sequentially.
func RunSteps(ctx context.Context, log *zap.Logger, steps []DatesStep, dates []dating.Candidate) ([]dating.Candidate, error) {
	for _, step := range steps {
		if !step.IsEnabled() {
			log.Info("dates step disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(ctx, log, dates)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		log.Info("dates step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		dates = next
	}

	return dates, nil
}

// Describe returns status entries for the provided steps.
func Describe(steps []DatesStep) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

type dedupeStep struct {
	truncateNames bool
	disabled      bool
	reason        string
}

// NewDedupe creates a step that drops candidates sharing an identity.
func NewDedupe(truncateNames bool) DatesStep {
	return &dedupeStep{truncateNames: truncateNames}
}

func (s *dedupeStep) Name() string { return DedupeStepName }

func (s *dedupeStep) Disable(reason string) {
	s.disabled = true
	s.reason = reason
}

func (s *dedupeStep) IsEnabled() bool { return !s.disabled }

func (s *dedupeStep) Apply(_ context.Context, log *zap.Logger, dates []dating.Candidate) ([]dating.Candidate, Stats, error) {
	initial := len(dates)

	unique, err := dating.Dedupe(dates, dating.DedupeOptions{TruncateNames: s.truncateNames})
	if err != nil {
		return nil, Stats{}, err
	}

	if dropped := initial - len(unique); dropped > 0 {
		log.Debug("dropping duplicated dates", zap.Int("duplicates", dropped))
	}

	return unique, Stats{Initial: initial, Dropped: initial - len(unique), Left: len(unique)}, nil
}

func (s *dedupeStep) Status() Status {
	return Status{
		Name:    s.Name(),
		Enabled: s.IsEnabled(),
		Reason:  s.reason,
		Details: map[string]string{"truncate_names": strconv.FormatBool(s.truncateNames)},
	}
}

type sanitizeStep struct {
	sanitizer *sanitize.Sanitizer
}

// NewSanitize creates a step that strips deny-listed keys from every candidate.
func NewSanitize(sanitizer *sanitize.Sanitizer) DatesStep {
	return &sanitizeStep{sanitizer: sanitizer}
}

func (s *sanitizeStep) Name() string { return SanitizeStepName }

// Sanitization applies to every source and cannot be turned off.
func (s *sanitizeStep) Disable(string) {}

func (s *sanitizeStep) IsEnabled() bool { return true }

func (s *sanitizeStep) Apply(_ context.Context, _ *zap.Logger, dates []dating.Candidate) ([]dating.Candidate, Stats, error) {
	if s.sanitizer == nil {
		return nil, Stats{}, fmt.Errorf("sanitizer is required")
	}

	cleaned := dating.CandidatesFromMaps(s.sanitizer.Mappings(dating.CandidatesToMaps(dates)))

	return cleaned, Stats{Initial: len(dates), Dropped: len(dates) - len(cleaned), Left: len(cleaned)}, nil
}

func (s *sanitizeStep) Status() Status {
	details := map[string]string{}
	if s.sanitizer != nil {
		details["deny_keys"] = strconv.Itoa(len(s.sanitizer.DenyList()))
	}
	return Status{Name: s.Name(), Enabled: true, Details: details}
}

package fixtures

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/profile-optimizer/internal/dating"
	"github.com/spigell/profile-optimizer/internal/logger"
)

const timestampLayout = "20060102150405"

// Recorder persists intermediate pipeline outputs as JSON files.
// Write failures are logged and never returned.
type Recorder struct {
	enabled     bool
	dir         string
	profileFile string
	logger      *zap.Logger
	now         func() time.Time
}

// NewRecorder creates a recorder writing under the loader's locations. A
// disabled recorder does nothing.
func NewRecorder(enabled bool, cfg Config, log *zap.Logger) *Recorder {
	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		dir = DefaultDir
	}

	profileFile := strings.TrimSpace(cfg.ProfileFile)
	if profileFile == "" {
		profileFile = DefaultProfileFile
	}

	return &Recorder{
		enabled:     enabled,
		dir:         dir,
		profileFile: profileFile,
		logger:      logger.OrNop(log),
		now:         time.Now,
	}
}

func (r *Recorder) Enabled() bool {
	return r != nil && r.enabled
}

// RecordProfile stores the profile in the profile fixture location.
func (r *Recorder) RecordProfile(profile dating.Profile) {
	if !r.Enabled() {
		return
	}
	r.write(r.profileFile, profile)
}

// RecordDates stores candidates in a timestamped dates file.
func (r *Recorder) RecordDates(dates []dating.Candidate) {
	if !r.Enabled() {
		return
	}
	name := datesPrefix + r.now().Format(timestampLayout) + ".json"
	r.write(filepath.Join(r.dir, name), dates)
}

func (r *Recorder) write(path string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		r.logger.Warn("encoding intermediate output", zap.String("path", path), zap.Error(err))
		return
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		r.logger.Warn("creating output directory", zap.String("path", path), zap.Error(err))
		return
	}

	if err := os.WriteFile(path, payload, 0o644); err != nil {
		r.logger.Warn("writing intermediate output", zap.String("path", path), zap.Error(err))
		return
	}

	r.logger.Debug("intermediate output written", zap.String("path", path), zap.Int("bytes", len(payload)))
}

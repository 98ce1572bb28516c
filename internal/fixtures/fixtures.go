package fixtures

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/profile-optimizer/internal/dating"
	"github.com/spigell/profile-optimizer/internal/logger"
)

const (
	DefaultDir         = "./local_data"
	DefaultProfileFile = "./local_private_data/profile.json"

	datesPrefix      = "potential_dates_"
	sampleDatesFile  = "potential_dates_sample.json"
	defaultDatesCode = "NL"
)

// DefaultCountries are the country codes with a dedicated dates fixture.
var DefaultCountries = []string{"DE", "JP", "NL", "MY"}

// ErrNotFound is returned when a fixture is missing or does not hold valid JSON.
var ErrNotFound = errors.New("fixture not found")

type Config struct {
	// Dir holds the dates fixtures.
	Dir string `mapstructure:"dir"`
	// ProfileFile is the profile fixture used in local-data mode.
	ProfileFile string `mapstructure:"profile-file"`
	// DatesFile is the dates fixture used in local-data mode. Defaults to the NL fixture in Dir.
	DatesFile string `mapstructure:"dates-file"`
	// Countries lists the codes that have their own dates fixture.
	Countries []string `mapstructure:"countries"`
}

// Loader reads pre-fetched JSON fixtures from disk.
type Loader struct {
	dir         string
	profileFile string
	datesFile   string
	countries   map[string]struct{}
	logger      *zap.Logger
}

func NewLoader(cfg Config, log *zap.Logger) *Loader {
	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		dir = DefaultDir
	}

	profileFile := strings.TrimSpace(cfg.ProfileFile)
	if profileFile == "" {
		profileFile = DefaultProfileFile
	}

	datesFile := strings.TrimSpace(cfg.DatesFile)
	if datesFile == "" {
		datesFile = filepath.Join(dir, datesPrefix+defaultDatesCode+".json")
	}

	codes := cfg.Countries
	if len(codes) == 0 {
		codes = DefaultCountries
	}

	countries := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code != "" {
			countries[code] = struct{}{}
		}
	}

	return &Loader{
		dir:         dir,
		profileFile: profileFile,
		datesFile:   datesFile,
		countries:   countries,
		logger:      logger.OrNop(log),
	}
}

// DatesPath resolves the fixture file for a country code. Unknown codes
// resolve to the generic sample.
func (l *Loader) DatesPath(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if _, ok := l.countries[code]; ok {
		return filepath.Join(l.dir, datesPrefix+code+".json")
	}
	return filepath.Join(l.dir, sampleDatesFile)
}

// LoadDates reads the dates fixture for a country code.
func (l *Loader) LoadDates(code string) ([]dating.Candidate, error) {
	path := l.DatesPath(code)
	l.logger.Debug("loading dates fixture", zap.String("country", code), zap.String("path", path))
	return l.readDates(path)
}

// LoadDatesFile reads the dates fixture used in local-data mode.
func (l *Loader) LoadDatesFile() ([]dating.Candidate, error) {
	l.logger.Debug("loading dates fixture", zap.String("path", l.datesFile))
	return l.readDates(l.datesFile)
}

// LoadProfile reads the profile fixture used in local-data mode.
func (l *Loader) LoadProfile() (dating.Profile, error) {
	l.logger.Debug("loading profile fixture", zap.String("path", l.profileFile))

	var profile dating.Profile
	if err := readJSON(l.profileFile, &profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (l *Loader) readDates(path string) ([]dating.Candidate, error) {
	var dates []dating.Candidate
	if err := readJSON(path, &dates); err != nil {
		return nil, err
	}
	return dates, nil
}

func readJSON(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: %s: parsing json: %w", ErrNotFound, path, err)
	}

	return nil
}

package fixtures

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/profile-optimizer/internal/dating"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestLoader(t *testing.T) (*Loader, string) {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "potential_dates_JP.json"), `[{"user": {"name": "Yui"}}]`)
	writeFile(t, filepath.Join(dir, "potential_dates_NL.json"), `[{"user": {"name": "Sanne"}}, {"user": {"name": "Fleur"}}]`)
	writeFile(t, filepath.Join(dir, "potential_dates_sample.json"), `[{"user": {"name": "Sample"}}]`)

	return NewLoader(Config{Dir: dir, ProfileFile: filepath.Join(dir, "private", "profile.json")}, zap.NewNop()), dir
}

func TestLoadDatesIsCaseInsensitive(t *testing.T) {
	loader, dir := newTestLoader(t)

	upper, err := loader.LoadDates("JP")
	require.NoError(t, err)

	lower, err := loader.LoadDates("jp")
	require.NoError(t, err)

	assert.Equal(t, upper, lower)
	assert.Equal(t, filepath.Join(dir, "potential_dates_JP.json"), loader.DatesPath(" jp "))
	require.Len(t, lower, 1)
	assert.Equal(t, "Yui", lower[0].Name())
}

func TestLoadDatesFallsBackToSample(t *testing.T) {
	loader, dir := newTestLoader(t)

	assert.Equal(t, filepath.Join(dir, "potential_dates_sample.json"), loader.DatesPath("FR"))

	dates, err := loader.LoadDates("FR")
	require.NoError(t, err)
	require.Len(t, dates, 1)
	assert.Equal(t, "Sample", dates[0].Name())
}

func TestLoadDatesMissingConfiguredCountry(t *testing.T) {
	loader, _ := newTestLoader(t)

	_, err := loader.LoadDates("de")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadDatesInvalidJSON(t *testing.T) {
	loader, dir := newTestLoader(t)
	writeFile(t, filepath.Join(dir, "potential_dates_MY.json"), `{"not": "a list"`)

	_, err := loader.LoadDates("MY")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "parsing json")
}

func TestCustomCountries(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(Config{Dir: dir, Countries: []string{"fr", " "}}, nil)

	assert.Equal(t, filepath.Join(dir, "potential_dates_FR.json"), loader.DatesPath("Fr"))
	assert.Equal(t, filepath.Join(dir, "potential_dates_sample.json"), loader.DatesPath("JP"))
}

func TestLoadDatesFileDefaultsToNL(t *testing.T) {
	loader, _ := newTestLoader(t)

	dates, err := loader.LoadDatesFile()
	require.NoError(t, err)
	assert.Len(t, dates, 2)
}

func TestLoadProfile(t *testing.T) {
	loader, dir := newTestLoader(t)

	_, err := loader.LoadProfile()
	require.ErrorIs(t, err, ErrNotFound)

	writeFile(t, filepath.Join(dir, "private", "profile.json"), `{"user": {"bio": "hello"}}`)

	profile, err := loader.LoadProfile()
	require.NoError(t, err)
	assert.Equal(t, "hello", profile.Bio())
}

func TestRecorderWritesWhenEnabled(t *testing.T) {
	dir := t.TempDir()
	profileFile := filepath.Join(dir, "private", "profile.json")
	recorder := NewRecorder(true, Config{Dir: filepath.Join(dir, "data"), ProfileFile: profileFile}, nil)
	recorder.now = func() time.Time { return time.Date(2024, 5, 1, 13, 4, 5, 0, time.UTC) }

	recorder.RecordProfile(dating.Profile{"user": map[string]any{"bio": "hi"}})
	recorder.RecordDates([]dating.Candidate{{"user": map[string]any{"name": "Kyra"}}})

	profile, err := os.ReadFile(profileFile)
	require.NoError(t, err)
	assert.JSONEq(t, `{"user": {"bio": "hi"}}`, string(profile))

	dates, err := os.ReadFile(filepath.Join(dir, "data", "potential_dates_20240501130405.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"user": {"name": "Kyra"}}]`, string(dates))

	loader := NewLoader(Config{Dir: filepath.Join(dir, "data"), ProfileFile: profileFile}, nil)
	loaded, err := loader.LoadProfile()
	require.NoError(t, err)
	assert.Equal(t, "hi", loaded.Bio())
}

func TestRecorderDisabled(t *testing.T) {
	dir := t.TempDir()
	recorder := NewRecorder(false, Config{Dir: dir, ProfileFile: filepath.Join(dir, "profile.json")}, nil)

	recorder.RecordProfile(dating.Profile{"user": map[string]any{}})
	recorder.RecordDates(nil)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	var nilRecorder *Recorder
	assert.False(t, nilRecorder.Enabled())
}

func TestRecorderLogsWriteFailures(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	writeFile(t, blocker, "file, not a directory")

	core, observed := observer.New(zapcore.WarnLevel)
	recorder := NewRecorder(true, Config{Dir: dir, ProfileFile: filepath.Join(blocker, "profile.json")}, zap.New(core))

	recorder.RecordProfile(dating.Profile{})

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "creating output directory", entries[0].Message)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "schedule_hub", cfg.Postgres.Database)
	assert.Equal(t, "https://my.e-klase.lv", cfg.Portal.BaseURL)
	assert.Equal(t, 4, cfg.Worker.Concurrency)
	assert.Equal(t, 30*time.Minute, cfg.Worker.Interval)
	assert.Nil(t, cfg.Changes.ElectiveMarkers)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("POSTGRES_PORT", "5433")
	t.Setenv("WORKER_INTERVAL", "5m")
	t.Setenv("CHANGES_ELECTIVE_MARKERS", "tautas dejas, (f) ,koris")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 5433, cfg.Postgres.Port)
	assert.Equal(t, 5*time.Minute, cfg.Worker.Interval)
	assert.Equal(t, []string{"tautas dejas", "(f)", "koris"}, cfg.Changes.ElectiveMarkers)
}

func TestLoadConfig_InvalidValuesRejected(t *testing.T) {
	t.Setenv("WORKER_CONCURRENCY", "0")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadTranslations_BuiltinsOnly(t *testing.T) {
	translations, err := LoadTranslations("")
	require.NoError(t, err)
	assert.Equal(t, "Matemātika", translations["Matemātika F"])
}

func TestLoadTranslations_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "translations.txt")
	content := "# subject overrides\n" +
		"Matemātika F=Augstākā matemātika\n" +
		"Ķīmija F = Ķīmija\n" +
		"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	translations, err := LoadTranslations(path)
	require.NoError(t, err)

	assert.Equal(t, "Augstākā matemātika", translations["Matemātika F"])
	assert.Equal(t, "Ķīmija", translations["Ķīmija F"])
	// Untouched builtin entries survive.
	assert.Equal(t, "Sports", translations["Sports un veselība"])
}

func TestLoadTranslations_MalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "translations.txt")
	require.NoError(t, os.WriteFile(path, []byte("no separator here\n"), 0o644))

	_, err := LoadTranslations(path)
	assert.Error(t, err)

	_, err = LoadTranslations(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestParseStudents(t *testing.T) {
	students, err := parseStudents("alice:alice01:s3cret:🦊, bob:bob77:hunter2")
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, Student{Nickname: "alice", Username: "alice01", Password: "s3cret", Emoji: "🦊"}, students[0])
	assert.Equal(t, Student{Nickname: "bob", Username: "bob77", Password: "hunter2"}, students[1])

	empty, err := parseStudents("")
	require.NoError(t, err)
	assert.Nil(t, empty)

	_, err = parseStudents("alice:only-username")
	assert.Error(t, err)

	_, err = parseStudents(":user:pass")
	assert.Error(t, err)
}

func TestStudentByNickname(t *testing.T) {
	cfg := &Config{Students: []Student{{Nickname: "alice", Username: "alice01"}}}

	s, ok := cfg.StudentByNickname("alice")
	assert.True(t, ok)
	assert.Equal(t, "alice01", s.Username)

	_, ok = cfg.StudentByNickname("mallory")
	assert.False(t, ok)
}

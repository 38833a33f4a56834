package ciutil

import (
	"testing"

	"github.com/phrazzld/scry-tutor/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearCIEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{EnvCI, EnvGitHubActions, EnvGitLabCI, EnvJenkinsURL, EnvCircleCI,
		EnvDatabaseURL, EnvTestDBURL, EnvAppDBURL} {
		t.Setenv(name, "")
	}
}

func TestIsCI(t *testing.T) {
	clearCIEnv(t)
	assert.False(t, IsCI())

	t.Setenv(EnvGitHubActions, "true")
	assert.True(t, IsCI())
}

func TestGetEnvWithFallbacks(t *testing.T) {
	clearCIEnv(t)
	log, buf := logger.GetTestLogger(t)

	assert.Equal(t, "default", GetEnvWithFallbacks([]string{EnvTestDBURL, EnvDatabaseURL}, "default", log))

	t.Setenv(EnvDatabaseURL, "postgres://app:hunter22@db:5432/tutor")
	got := GetEnvWithFallbacks([]string{EnvTestDBURL, EnvDatabaseURL}, "default", log)
	assert.Equal(t, "postgres://app:hunter22@db:5432/tutor", got)

	entries, err := buf.EntriesWithMessage("Using fallback environment variable")
	require.NoError(t, err)
	if assert.Len(t, entries, 1) {
		assert.Equal(t, EnvDatabaseURL, entries[0]["used_var"])
		assert.NotContains(t, entries[0]["value"], "hunter22")
	}

	t.Setenv(EnvTestDBURL, "postgres://test@localhost/tutor_test")
	assert.Equal(t, "postgres://test@localhost/tutor_test",
		GetEnvWithFallbacks([]string{EnvTestDBURL, EnvDatabaseURL}, "default", log))
}

func TestMaskSensitiveValue(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"database url", "postgres://app:hunter22@db:5432/tutor?sslmode=disable", "postgres://app:****@db:5432/tutor?sslmode=disable"},
		{"url without password", "postgres://app@db/tutor", "postgres://app@db/tutor"},
		{"gemini key", "AIzaSyD-1234567890abcdef", "AIza****cdef"},
		{"groq key", "gsk_abcdefghijklmnop", "gsk_****mnop"},
		{"plain value", "info", "info"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskSensitiveValue(tt.in))
		})
	}
}

func TestGetTestDatabaseURL(t *testing.T) {
	clearCIEnv(t)
	assert.Empty(t, GetTestDatabaseURL(nil))

	t.Setenv(EnvCI, "true")
	assert.Equal(t, StandardCIDatabaseURL, GetTestDatabaseURL(nil))

	t.Setenv(EnvTestDBURL, "postgres://postgres:postgres@pg:5432/other")
	assert.Equal(t, "postgres://postgres:postgres@pg:5432/other", GetTestDatabaseURL(nil))
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		configContent := `
output:
  dir: /tmp/news
  rss: latest.xml
  retention: 30
limits:
  max_items: 50
  per_source: 15
fetch:
  timeout: 5s
keywords: ["반도체", "실적"]
sources:
  - id: HK
    name: 한국경제
    url: https://www.hankyung.com/feed/finance
  - id: MK
    url: https://www.mk.co.kr/rss/50200011/
`
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "test-config.yml")
		err := os.WriteFile(configPath, []byte(configContent), 0o644)
		require.NoError(t, err)

		cfg, err := Load(configPath)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, "/tmp/news", cfg.Output.Dir)
		assert.Equal(t, "latest.xml", cfg.Output.RSS)
		assert.Equal(t, 30, cfg.Output.Retention)
		assert.Equal(t, 50, cfg.Limits.MaxItems)
		assert.Equal(t, 15, cfg.Limits.PerSource)
		assert.Equal(t, 10, cfg.Limits.KeywordHits)
		assert.Equal(t, 5*time.Second, cfg.Fetch.Timeout)
		assert.Equal(t, []string{"반도체", "실적"}, cfg.Keywords)

		require.Len(t, cfg.Sources, 2)
		assert.Equal(t, "한국경제", cfg.Sources[0].Name)
		assert.Equal(t, "MK", cfg.Sources[1].Name, "name defaults to id")
	})

	t.Run("defaults", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "test-config.yml")
		err := os.WriteFile(configPath, []byte("timezone: Asia/Seoul\n"), 0o644)
		require.NoError(t, err)

		cfg, err := Load(configPath)
		require.NoError(t, err)

		assert.Equal(t, "news", cfg.Output.Dir)
		assert.Equal(t, "latest.json", cfg.Output.Latest)
		assert.Equal(t, "index.json", cfg.Output.Index)
		assert.Equal(t, "archive", cfg.Output.ArchiveDir)
		assert.Empty(t, cfg.Output.RSS)
		assert.Equal(t, 180, cfg.Output.Retention)
		assert.Equal(t, "Financial News", cfg.Output.Title)
		assert.Empty(t, cfg.Output.BaseURL)
		assert.Equal(t, 250, cfg.Limits.MaxItems)
		assert.Equal(t, 20, cfg.Limits.PerSource)
		assert.Equal(t, 15*time.Second, cfg.Fetch.Timeout)
		assert.NotEmpty(t, cfg.Fetch.UserAgent)
		assert.Equal(t, DefaultKeywords(), cfg.Keywords)
		assert.Equal(t, DefaultSources(), cfg.Sources)
	})

	t.Run("env expansion", func(t *testing.T) {
		t.Setenv("NEWSWIRE_TEST_DIR", "/data/out")
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "test-config.yml")
		err := os.WriteFile(configPath, []byte("output:\n  dir: ${NEWSWIRE_TEST_DIR}\n"), 0o644)
		require.NoError(t, err)

		cfg, err := Load(configPath)
		require.NoError(t, err)
		assert.Equal(t, "/data/out", cfg.Output.Dir)
	})

	t.Run("empty path uses defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Len(t, cfg.Sources, 12)
		assert.Equal(t, "HK", cfg.Sources[0].ID)
	})

	t.Run("file not found", func(t *testing.T) {
		cfg, err := Load("/non/existent/file.yml")
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		configContent := `
invalid yaml content
  with bad indentation
    and no structure
`
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "invalid.yml")
		err := os.WriteFile(configPath, []byte(configContent), 0o644)
		require.NoError(t, err)

		cfg, err := Load(configPath)
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "parse config")
	})
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{name: "negative max items", content: "limits:\n  max_items: -1\n", errMsg: "limits.max_items"},
		{name: "short timeout", content: "fetch:\n  timeout: 10ms\n", errMsg: "fetch timeout"},
		{name: "bad timezone", content: "timezone: Mars/Olympus\n", errMsg: "invalid timezone"},
		{name: "bad url", content: "sources:\n  - id: X\n    url: ftp://example.com/feed\n", errMsg: "http(s) url"},
		{name: "duplicate id", content: "sources:\n  - id: X\n    url: http://a.com/1\n  - id: X\n    url: http://a.com/2\n",
			errMsg: "duplicate source id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "cfg.yml")
			require.NoError(t, os.WriteFile(configPath, []byte(tt.content), 0o644))

			_, err := Load(configPath)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfig_FeedSources(t *testing.T) {
	cfg := &Config{Sources: []Source{
		{ID: "A", Name: "Feed A", URL: "https://a.example.com/rss"},
		{ID: "B", Name: "Feed B", URL: "https://b.example.com/rss"},
	}}

	sources := cfg.FeedSources()
	require.Len(t, sources, 2)
	assert.Equal(t, "A", sources[0].ID)
	assert.Equal(t, "Feed A", sources[0].Name)
	assert.Equal(t, "https://a.example.com/rss", sources[0].URL)
	assert.Equal(t, "B", sources[1].ID)
}

func TestConfig_Location(t *testing.T) {
	cfg := Default()
	loc := cfg.Location()
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).In(loc)
	assert.Equal(t, "2024-01-01 09:00 KST", ts.Format("2006-01-02 15:04 MST"))

	cfg.Timezone = "Not/AZone"
	loc = cfg.Location()
	assert.Equal(t, "KST", loc.String())
}

func TestDefaultKeywords(t *testing.T) {
	kw := DefaultKeywords()
	seen := map[string]bool{}
	for _, k := range kw {
		assert.False(t, seen[k], "duplicate keyword %s", k)
		seen[k] = true
	}
	assert.Contains(t, kw, "반도체")
	assert.Contains(t, kw, "실적")
	assert.Contains(t, kw, "호재")
}

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/joolab/newswire/pkg/domain"
)

//go:generate go run ../../cmd/schema --config schema.json

// Config holds the application configuration
type Config struct {
	Output struct {
		Dir        string `yaml:"dir" json:"dir" jsonschema:"required,default=news,description=Output directory for json files"`
		Latest     string `yaml:"latest" json:"latest" jsonschema:"required,default=latest.json,description=Latest snapshot file name"`
		Index      string `yaml:"index" json:"index" jsonschema:"required,default=index.json,description=Date index file name"`
		ArchiveDir string `yaml:"archive_dir" json:"archive_dir" jsonschema:"required,default=archive,description=Archive subdirectory"`
		RSS        string `yaml:"rss" json:"rss" jsonschema:"description=Optional RSS file name for merged items (disabled if empty)"`
		Retention  int    `yaml:"retention" json:"retention" jsonschema:"default=180,minimum=1,description=Number of dates kept in the index"`
		BaseURL    string `yaml:"base_url" json:"base_url" jsonschema:"description=Public URL of the output directory, used in RSS links"`
		Title      string `yaml:"title" json:"title" jsonschema:"default=Financial News,description=RSS and OPML title"`
	} `yaml:"output" json:"output" jsonschema:"description=Output configuration"`

	Limits struct {
		MaxItems    int `yaml:"max_items" json:"max_items" jsonschema:"default=250,minimum=1,description=Maximum items in the merged output"`
		PerSource   int `yaml:"per_source" json:"per_source" jsonschema:"default=20,minimum=1,description=Maximum entries taken from one feed"`
		KeywordHits int `yaml:"keyword_hits" json:"keyword_hits" jsonschema:"default=10,minimum=1,description=Maximum keyword hits per item"`
	} `yaml:"limits" json:"limits" jsonschema:"description=Volume limits"`

	Fetch struct {
		Timeout   time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=15s,description=Single feed fetch timeout"`
		UserAgent string        `yaml:"user_agent" json:"user_agent" jsonschema:"description=User agent for feed requests"`
	} `yaml:"fetch" json:"fetch" jsonschema:"description=Feed fetch configuration"`

	History struct {
		DSN string `yaml:"dsn" json:"dsn" jsonschema:"description=SQLite DSN for run history (disabled if empty)"`
	} `yaml:"history" json:"history" jsonschema:"description=Run history configuration"`

	Timezone string   `yaml:"timezone" json:"timezone" jsonschema:"default=Asia/Seoul,description=Zone for published_at and updated_at"`
	Keywords []string `yaml:"keywords" json:"keywords" jsonschema:"description=Keyword vocabulary in tagging order"`
	Sources  []Source `yaml:"sources" json:"sources" jsonschema:"required,description=Feed sources in output order"`
}

// Source is a feed source entry
type Source struct {
	ID   string `yaml:"id" json:"id" jsonschema:"required,description=Short stable source code"`
	Name string `yaml:"name" json:"name" jsonschema:"description=Display name (defaults to id)"`
	URL  string `yaml:"url" json:"url" jsonschema:"required,description=Feed URL"`
}

// Load reads configuration from a YAML file. Empty path means embedded defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if err := Verify(&cfg); err != nil {
		return nil, fmt.Errorf("verify config: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration with the embedded registry and vocabulary
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

func (c *Config) setDefaults() {
	// output defaults
	if c.Output.Dir == "" {
		c.Output.Dir = "news"
	}
	if c.Output.Latest == "" {
		c.Output.Latest = "latest.json"
	}
	if c.Output.Index == "" {
		c.Output.Index = "index.json"
	}
	if c.Output.ArchiveDir == "" {
		c.Output.ArchiveDir = "archive"
	}
	if c.Output.Retention == 0 {
		c.Output.Retention = 180
	}
	if c.Output.Title == "" {
		c.Output.Title = "Financial News"
	}

	// limits
	if c.Limits.MaxItems == 0 {
		c.Limits.MaxItems = 250
	}
	if c.Limits.PerSource == 0 {
		c.Limits.PerSource = 20
	}
	if c.Limits.KeywordHits == 0 {
		c.Limits.KeywordHits = 10
	}

	// fetch
	if c.Fetch.Timeout == 0 {
		c.Fetch.Timeout = 15 * time.Second
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = defaultUserAgent
	}

	if c.Timezone == "" {
		c.Timezone = "Asia/Seoul"
	}
	if len(c.Keywords) == 0 {
		c.Keywords = DefaultKeywords()
	}
	if len(c.Sources) == 0 {
		c.Sources = DefaultSources()
	}
	for i := range c.Sources {
		c.Sources[i].ID = strings.TrimSpace(c.Sources[i].ID)
		c.Sources[i].URL = strings.TrimSpace(c.Sources[i].URL)
		if c.Sources[i].Name == "" {
			c.Sources[i].Name = c.Sources[i].ID
		}
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Limits.MaxItems < 1 {
		return fmt.Errorf("limits.max_items must be at least 1")
	}
	if cfg.Limits.PerSource < 1 {
		return fmt.Errorf("limits.per_source must be at least 1")
	}
	if cfg.Limits.KeywordHits < 1 {
		return fmt.Errorf("limits.keyword_hits must be at least 1")
	}
	if cfg.Output.Retention < 1 {
		return fmt.Errorf("output.retention must be at least 1")
	}
	if cfg.Fetch.Timeout < time.Second {
		return fmt.Errorf("fetch timeout must be at least 1 second")
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	seen := make(map[string]struct{}, len(cfg.Sources))
	for i, s := range cfg.Sources {
		if !strings.HasPrefix(s.URL, "http://") && !strings.HasPrefix(s.URL, "https://") {
			return fmt.Errorf("sources[%d].url must be an http(s) url", i)
		}
		if _, ok := seen[s.ID]; ok {
			return fmt.Errorf("duplicate source id %q", s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}

// FeedSources returns the registry in configured order
func (c *Config) FeedSources() []domain.FeedSource {
	res := make([]domain.FeedSource, 0, len(c.Sources))
	for _, s := range c.Sources {
		res = append(res, domain.FeedSource{ID: s.ID, Name: s.Name, URL: s.URL})
	}
	return res
}

// Location returns the configured zone, falls back to fixed KST (+09:00)
func (c *Config) Location() *time.Location {
	if loc, err := time.LoadLocation(c.Timezone); err == nil {
		return loc
	}
	return time.FixedZone("KST", 9*60*60)
}

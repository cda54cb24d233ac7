package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
		errMsg  string
	}{
		{name: "valid default config", modify: func(c *Config) {}},
		{name: "missing output dir", modify: func(c *Config) { c.Output.Dir = "" }, wantErr: true, errMsg: "output.dir is required"},
		{name: "missing latest", modify: func(c *Config) { c.Output.Latest = " " }, wantErr: true, errMsg: "output.latest is required"},
		{name: "no sources", modify: func(c *Config) { c.Sources = nil }, wantErr: true, errMsg: "sources is required"},
		{name: "source without url", modify: func(c *Config) { c.Sources[1].URL = "" }, wantErr: true,
			errMsg: "sources[1].url is required"},
		{name: "source without id", modify: func(c *Config) { c.Sources[0].ID = "" }, wantErr: true,
			errMsg: "sources[0].id is required"},
		{name: "optional rss and dsn", modify: func(c *Config) { c.Output.RSS = ""; c.History.DSN = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := Verify(cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestGenerateSchema(t *testing.T) {
	schema := GenerateSchema()
	require.NotNil(t, schema)
	assert.Contains(t, schema.Required, "sources")

	output, ok := schema.Properties.Get("output")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"dir", "latest", "index", "archive_dir"}, output.Required)

	sources, ok := schema.Properties.Get("sources")
	require.True(t, ok)
	require.NotNil(t, sources.Items)
	assert.ElementsMatch(t, []string{"id", "url"}, sources.Items.Required)
}

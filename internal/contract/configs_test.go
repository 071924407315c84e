package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ponnammaah123/test-agent/schema"
)

func validRawInput() *ConfigRawInput {
	return &ConfigRawInput{
		RepoURL:         "https://github.com/acme/app",
		Token:           "tok",
		CacheMaxEntries: DefaultCacheMaxEntries,
		CacheMaxSizeMB:  "500",
		Workers:         DefaultWorkers,
		Output:          "text",
		Precision:       DefaultPrecision,
		SnapshotBackend: "none",
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validRawInput()))

	assert.Equal(t, schema.GitHubProvider, cfg.Provider)
	assert.Equal(t, "acme", cfg.Owner)
	assert.Equal(t, "app", cfg.Repo)
	assert.Equal(t, "acme/app", cfg.ProjectPath)
	assert.Equal(t, DefaultBaseBranch, cfg.BaseBranch)
	assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL)
	assert.InDelta(t, DefaultCacheMaxSizeMB, cfg.CacheMaxSizeMB, 1e-9)
	assert.True(t, cfg.UseColors)
	assert.Nil(t, cfg.Environment)
}

func TestProcessAndValidateRepository(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ConfigRawInput)
		wantErr string
	}{
		{
			name:    "missing repo URL",
			mutate:  func(in *ConfigRawInput) { in.RepoURL = "" },
			wantErr: "repository URL is required",
		},
		{
			name:    "missing token",
			mutate:  func(in *ConfigRawInput) { in.Token = "" },
			wantErr: "access token is required",
		},
		{
			name:    "no owner segment",
			mutate:  func(in *ConfigRawInput) { in.RepoURL = "https://github.com/app" },
			wantErr: "must contain an owner and repository name",
		},
		{
			name:    "github with nested path",
			mutate:  func(in *ConfigRawInput) { in.RepoURL = "https://github.com/acme/group/app" },
			wantErr: "must be of the form owner/repo",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validRawInput()
			tt.mutate(in)
			err := ProcessAndValidate(&Config{}, in)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestProcessAndValidateGitLabNestedPath(t *testing.T) {
	in := validRawInput()
	in.RepoURL = "https://gitlab.example.com/group/sub/app.git"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, in))
	assert.Equal(t, schema.GitLabProvider, cfg.Provider)
	assert.Equal(t, "group", cfg.Owner)
	assert.Equal(t, "app", cfg.Repo)
	assert.Equal(t, "group/sub/app", cfg.ProjectPath)
}

func TestProcessAndValidateCacheBounds(t *testing.T) {
	in := validRawInput()
	in.CacheMaxEntries = 0
	assert.ErrorContains(t, ProcessAndValidate(&Config{}, in), "cache-max-entries")

	in = validRawInput()
	in.CacheMaxSizeMB = "-1"
	assert.ErrorContains(t, ProcessAndValidate(&Config{}, in), "cache-max-size-mb")

	in = validRawInput()
	in.CacheTTL = "banana"
	assert.ErrorContains(t, ProcessAndValidate(&Config{}, in), "cache-ttl")

	in = validRawInput()
	in.CacheTTL = "30m"
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, in))
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
}

func TestProcessAndValidateOutput(t *testing.T) {
	in := validRawInput()
	in.Output = "yaml"
	assert.ErrorContains(t, ProcessAndValidate(&Config{}, in), "invalid output")

	in = validRawInput()
	in.Output = "JSON"
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, in))
	assert.Equal(t, schema.JSONOut, cfg.Output)
}

func TestProcessAndValidateSnapshotBackend(t *testing.T) {
	in := validRawInput()
	in.SnapshotBackend = "oracle"
	assert.ErrorContains(t, ProcessAndValidate(&Config{}, in), "invalid snapshot backend")

	in = validRawInput()
	in.SnapshotBackend = "mysql"
	assert.ErrorContains(t, ProcessAndValidate(&Config{}, in), "snapshot-db-connect is required")

	in = validRawInput()
	in.SnapshotBackend = "mysql"
	in.SnapshotDBConnect = "user:pass@tcp(localhost:3306)/testagent"
	require.NoError(t, ProcessAndValidate(&Config{}, in))

	in = validRawInput()
	in.SnapshotBackend = "postgresql"
	in.SnapshotDBConnect = "host=localhost dbname=testagent"
	require.NoError(t, ProcessAndValidate(&Config{}, in))
}

func TestDetectProvider(t *testing.T) {
	assert.Equal(t, schema.GitHubProvider, DetectProvider("https://github.com/acme/app"))
	assert.Equal(t, schema.GitLabProvider, DetectProvider("https://gitlab.internal/acme/app"))
	assert.Equal(t, schema.GitLabProvider, DetectProvider("https://gitea.internal/acme/app"))
}

func TestRequireCollaborators(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.RequireJira())
	assert.Error(t, cfg.RequireLLM())

	cfg.Jira = JiraConfig{BaseURL: "https://jira.example.com", APIToken: "t"}
	cfg.LLM = LLMConfig{APIKey: "k", Model: "gpt-4o-mini"}
	assert.NoError(t, cfg.RequireJira())
	assert.NoError(t, cfg.RequireLLM())
}

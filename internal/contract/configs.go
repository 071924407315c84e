package contract

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Ponnammaah123/test-agent/schema"
)

// Default values for configuration.
const (
	DefaultCacheMaxEntries = 100
	DefaultCacheMaxSizeMB  = 500.0
	DefaultCacheTTL        = time.Hour
	DefaultWorkers         = 10
	MaxWorkers             = 64
	DefaultPrecision       = 1
	DefaultBaseBranch      = "main"
)

// MaxContentBytes is the raw size above which file content is skipped
// during enrichment.
const MaxContentBytes = 1_000_000

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ValidSnapshotBackends enumerates the accepted snapshot backend names.
var ValidSnapshotBackends = map[schema.SnapshotBackend]bool{
	schema.SQLiteBackend:     true,
	schema.MySQLBackend:      true,
	schema.PostgreSQLBackend: true,
	schema.NoneBackend:       true,
}

// JiraConfig holds the issue-tracker connection settings.
type JiraConfig struct {
	BaseURL  string
	Username string
	APIToken string
}

// LLMConfig holds the test-plan drafting endpoint settings.
type LLMConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
}

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	RepoURL     string
	Provider    schema.Provider
	Owner       string // first path segment of the repository URL
	Repo        string // last path segment, without a .git suffix
	ProjectPath string // full "group/subgroup/repo" path, used by GitLab
	Token       string
	BaseBranch  string

	CacheMaxEntries int
	CacheMaxSizeMB  float64
	CacheTTL        time.Duration

	Workers    int
	Output     schema.OutputMode
	OutputFile string
	Precision  int
	UseColors  bool
	Width      int // Terminal width override (0 = auto-detect)

	SnapshotBackend   schema.SnapshotBackend
	SnapshotDBConnect string // Please use env var as this is plaintext

	Jira JiraConfig
	LLM  LLMConfig

	Environment *schema.EnvironmentConfig
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	RepoURL           string `mapstructure:"repo-url"`
	Token             string `mapstructure:"token"`
	BaseBranch        string `mapstructure:"base-branch"`
	CacheMaxEntries   int    `mapstructure:"cache-max-entries"`
	CacheMaxSizeMB    string `mapstructure:"cache-max-size-mb"`
	CacheTTL          string `mapstructure:"cache-ttl"`
	Workers           int    `mapstructure:"workers"`
	Output            string `mapstructure:"output"`
	OutputFile        string `mapstructure:"output-file"`
	Precision         int    `mapstructure:"precision"`
	Color             string `mapstructure:"color"`
	Width             int    `mapstructure:"width"`
	SnapshotBackend   string `mapstructure:"snapshot-backend"`
	SnapshotDBConnect string `mapstructure:"snapshot-db-connect"`

	// --- Jira settings (config file / env only) ---
	JiraURL   string `mapstructure:"jira-url"`
	JiraUser  string `mapstructure:"jira-user"`
	JiraToken string `mapstructure:"jira-token"`

	// --- LLM settings (config file / env only) ---
	LLMBaseURL     string  `mapstructure:"llm-base-url"`
	LLMAPIKey      string  `mapstructure:"llm-api-key"`
	LLMModel       string  `mapstructure:"llm-model"`
	LLMTemperature float64 `mapstructure:"llm-temperature"`

	// --- Environment context (config file / env only) ---
	EnvName   string `mapstructure:"env-name"`
	EnvAppURL string `mapstructure:"env-app-url"`
	EnvAPIURL string `mapstructure:"env-api-url"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct. Repository URL and token problems are
// fatal here, before any cache or analysis work begins.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := processRepository(cfg, input); err != nil {
		return err
	}
	if err := processCacheBounds(cfg, input); err != nil {
		return err
	}
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processSnapshotBackend(cfg, input); err != nil {
		return err
	}
	processCollaborators(cfg, input)
	return nil
}

// DetectProvider classifies a repository URL by host. Anything that is not
// github.com is treated as a GitLab-compatible host.
func DetectProvider(rawURL string) schema.Provider {
	if strings.Contains(rawURL, "github.com") {
		return schema.GitHubProvider
	}
	return schema.GitLabProvider
}

// processRepository validates the repository URL and token and derives the
// owner/repo identity from the URL path.
func processRepository(cfg *Config, input *ConfigRawInput) error {
	if input.RepoURL == "" {
		return fmt.Errorf("repository URL is required (set repo-url or %s)", "TESTAGENT_REPO_URL")
	}
	if input.Token == "" {
		return fmt.Errorf("access token is required (set token or %s)", "TESTAGENT_TOKEN")
	}
	cfg.RepoURL = input.RepoURL
	cfg.Token = input.Token
	cfg.Provider = DetectProvider(input.RepoURL)

	parsed, err := url.Parse(input.RepoURL)
	if err != nil {
		return fmt.Errorf("invalid repository URL %q: %w", input.RepoURL, err)
	}
	path := strings.Trim(parsed.Path, "/")
	path = strings.TrimSuffix(path, ".git")
	segments := strings.Split(path, "/")
	if len(segments) < 2 || segments[0] == "" || segments[len(segments)-1] == "" {
		return fmt.Errorf("repository URL %q must contain an owner and repository name", input.RepoURL)
	}
	if cfg.Provider == schema.GitHubProvider && len(segments) != 2 {
		return fmt.Errorf("GitHub repository URL %q must be of the form owner/repo", input.RepoURL)
	}
	cfg.Owner = segments[0]
	cfg.Repo = segments[len(segments)-1]
	cfg.ProjectPath = path

	cfg.BaseBranch = input.BaseBranch
	if cfg.BaseBranch == "" {
		cfg.BaseBranch = DefaultBaseBranch
	}
	return nil
}

// processCacheBounds validates the cache capacity settings.
func processCacheBounds(cfg *Config, input *ConfigRawInput) error {
	if input.CacheMaxEntries <= 0 {
		return fmt.Errorf("cache-max-entries must be greater than 0 (received %d)", input.CacheMaxEntries)
	}
	cfg.CacheMaxEntries = input.CacheMaxEntries

	sizeMB, err := ParseFloatString(input.CacheMaxSizeMB, DefaultCacheMaxSizeMB)
	if err != nil {
		return fmt.Errorf("invalid cache-max-size-mb value: %w", err)
	}
	if sizeMB <= 0 {
		return fmt.Errorf("cache-max-size-mb must be greater than 0 (received %v)", sizeMB)
	}
	cfg.CacheMaxSizeMB = sizeMB

	cfg.CacheTTL = DefaultCacheTTL
	if input.CacheTTL != "" {
		ttl, err := time.ParseDuration(input.CacheTTL)
		if err != nil {
			return fmt.Errorf("invalid cache-ttl value %q: %w", input.CacheTTL, err)
		}
		if ttl <= 0 {
			return fmt.Errorf("cache-ttl must be positive (received %s)", ttl)
		}
		cfg.CacheTTL = ttl
	}
	return nil
}

// validateSimpleInputs processes all remaining scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	if input.Workers <= 0 || input.Workers > MaxWorkers {
		return fmt.Errorf("workers must be between 1 and %d (received %d)", MaxWorkers, input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Precision < 0 || input.Precision > 6 {
		return fmt.Errorf("precision must be between 0 and 6 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	switch cfg.Output {
	case schema.TextOut, schema.CSVOut, schema.JSONOut:
	default:
		return fmt.Errorf("invalid output '%s'. must be text, csv, json", input.Output)
	}
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors
	return nil
}

// processSnapshotBackend validates the snapshot store settings.
func processSnapshotBackend(cfg *Config, input *ConfigRawInput) error {
	cfg.SnapshotBackend = schema.SnapshotBackend(strings.ToLower(input.SnapshotBackend))
	if !ValidSnapshotBackends[cfg.SnapshotBackend] {
		return fmt.Errorf("invalid snapshot backend '%s'. must be sqlite, mysql, postgresql, none", input.SnapshotBackend)
	}
	cfg.SnapshotDBConnect = input.SnapshotDBConnect
	return ValidateSnapshotConnectionString(cfg.SnapshotBackend, cfg.SnapshotDBConnect)
}

// processCollaborators transfers the optional Jira, LLM, and environment
// settings. These are validated lazily by the commands that need them.
func processCollaborators(cfg *Config, input *ConfigRawInput) {
	cfg.Jira = JiraConfig{
		BaseURL:  input.JiraURL,
		Username: input.JiraUser,
		APIToken: input.JiraToken,
	}
	cfg.LLM = LLMConfig{
		BaseURL:     input.LLMBaseURL,
		APIKey:      input.LLMAPIKey,
		Model:       input.LLMModel,
		Temperature: float32(input.LLMTemperature),
	}
	if input.EnvName != "" || input.EnvAppURL != "" || input.EnvAPIURL != "" {
		cfg.Environment = &schema.EnvironmentConfig{
			Name:   input.EnvName,
			AppURL: input.EnvAppURL,
			APIURL: input.EnvAPIURL,
		}
	}
}

// ValidateSnapshotConnectionString validates the format of database
// connection strings for MySQL and PostgreSQL backends.
func ValidateSnapshotConnectionString(backend schema.SnapshotBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("snapshot-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("snapshot-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// RequireJira returns an error when the Jira collaborator is unconfigured.
func (c *Config) RequireJira() error {
	if c.Jira.BaseURL == "" || c.Jira.APIToken == "" {
		return fmt.Errorf("jira-url and jira-token are required for this command")
	}
	return nil
}

// RequireLLM returns an error when the planner endpoint is unconfigured.
func (c *Config) RequireLLM() error {
	if c.LLM.APIKey == "" || c.LLM.Model == "" {
		return fmt.Errorf("llm-api-key and llm-model are required for this command")
	}
	return nil
}

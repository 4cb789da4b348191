// Package config provides configuration loading and management for the content server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/campusweb/content-server/internal/telemetry"
)

const (
	// EnvPrefix is the prefix for environment variables overriding configuration
	EnvPrefix = "CONTENT_SERVER"

	// SourceTypeAPI is the type for collections fetched from the upstream REST backend
	SourceTypeAPI = "api"

	// SourceTypeFile is the type for collections read from local JSON files
	SourceTypeFile = "file"

	// StatusTypeFile persists sync status as JSON files
	StatusTypeFile = "file"

	// StatusTypeRedis persists sync status in Redis
	StatusTypeRedis = "redis"

	// DefaultAddress is the listen address used when none is configured
	DefaultAddress = ":8080"

	// DefaultSyncInterval is used when neither the resource nor the root config sets one
	DefaultSyncInterval = 5 * time.Minute

	// DefaultUpstreamTimeout bounds a single upstream request
	DefaultUpstreamTimeout = 10 * time.Second

	// DefaultStatusDir is where file status persistence writes
	DefaultStatusDir = "./data/status"

	// DefaultCacheDir is where the last good collection of each resource is kept
	DefaultCacheDir = "./data/collections"

	// DefaultRedisKeyPrefix namespaces status keys in Redis
	DefaultRedisKeyPrefix = "content-server:"
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
	env  *viper.Viper
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// WithEnvOverrides applies CONTENT_SERVER_* environment overrides read through v
func WithEnvOverrides(v *viper.Viper) Option {
	return func(cfg *loaderConfig) error {
		if v == nil {
			return fmt.Errorf("viper instance is required")
		}
		cfg.env = v
		return nil
	}
}

// NewEnv returns a viper instance bound to the CONTENT_SERVER_ environment prefix
func NewEnv() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Config represents the root configuration structure
type Config struct {
	// Address is the HTTP listen address
	Address string `yaml:"address,omitempty"`

	// Upstream is the external REST backend holding the content collections
	Upstream *UpstreamConfig `yaml:"upstream,omitempty"`

	// SyncPolicy is the default refetch policy for every resource
	SyncPolicy *SyncPolicyConfig `yaml:"syncPolicy,omitempty"`

	// Status selects where per-resource sync status is persisted
	Status *StatusConfig `yaml:"status,omitempty"`

	// CacheDir keeps the last good collection of each resource for warm restarts.
	// Set to "-" to disable.
	CacheDir string `yaml:"cacheDir,omitempty"`

	// Telemetry configures metrics and tracing
	Telemetry *telemetry.Config `yaml:"telemetry,omitempty"`

	// Resources lists the collections served
	Resources []ResourceConfig `yaml:"resources"`
}

// UpstreamConfig defines the REST backend connection
type UpstreamConfig struct {
	// Endpoint is the base URL; collections live under {endpoint}/api/{path}
	Endpoint string `yaml:"endpoint"`

	// Timeout bounds a single request (e.g. "10s")
	Timeout string `yaml:"timeout,omitempty"`

	// MaxRetries is the number of attempts for a failed read, including the first
	MaxRetries uint `yaml:"maxRetries,omitempty"`

	// Headers are sent with every upstream request
	Headers map[string]string `yaml:"headers,omitempty"`
}

// SyncPolicyConfig defines synchronization settings
type SyncPolicyConfig struct {
	Interval string `yaml:"interval"`
}

// StatusConfig defines sync status persistence
type StatusConfig struct {
	Type  string       `yaml:"type"`
	Dir   string       `yaml:"dir,omitempty"`
	Redis *RedisConfig `yaml:"redis,omitempty"`
}

// RedisConfig defines the Redis connection used for status persistence
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password,omitempty"`
	DB        int    `yaml:"db,omitempty"`
	KeyPrefix string `yaml:"keyPrefix,omitempty"`
}

// ResourceConfig defines a single served collection
type ResourceConfig struct {
	// Name is the resource identifier used in URLs
	Name string `yaml:"name"`

	// Entity names the built-in entity definition to use; defaults to Name
	Entity string `yaml:"entity,omitempty"`

	// Path is the upstream collection path under /api/; defaults to Name
	Path string `yaml:"path,omitempty"`

	// Query is a static query string sent with every collection fetch
	Query map[string]string `yaml:"query,omitempty"`

	// ResultPath extracts the record array from an enveloped response (gjson syntax)
	ResultPath string `yaml:"resultPath,omitempty"`

	// File reads the collection from a local JSON file instead of the upstream
	File *FileConfig `yaml:"file,omitempty"`

	// SyncPolicy overrides the root sync policy
	SyncPolicy *SyncPolicyConfig `yaml:"syncPolicy,omitempty"`

	// Schema overrides parts of the entity definition
	Schema *EntityConfig `yaml:"schema,omitempty"`
}

// FileConfig defines local file source configuration
type FileConfig struct {
	Path string `yaml:"path"`
}

// EntityConfig overrides entity definition fields. Empty values keep the built-in value.
type EntityConfig struct {
	IDField          string              `yaml:"idField,omitempty"`
	ActiveField      string              `yaml:"activeField,omitempty"`
	Fields           []string            `yaml:"fields,omitempty"`
	SearchFields     []string            `yaml:"searchFields,omitempty"`
	FilterFields     []string            `yaml:"filterFields,omitempty"`
	OptionFields     []OptionFieldConfig `yaml:"optionFields,omitempty"`
	Required         []string            `yaml:"required,omitempty"`
	Kinds            map[string]string   `yaml:"kinds,omitempty"`
	PublicExclude    []string            `yaml:"publicExclude,omitempty"`
	PublicRead       *bool               `yaml:"publicRead,omitempty"`
	PublicSubmit     *bool               `yaml:"publicSubmit,omitempty"`
	DefaultSort      string              `yaml:"defaultSort,omitempty"`
	DefaultDirection string              `yaml:"defaultDirection,omitempty"`
	StartDateField   string              `yaml:"startDateField,omitempty"`
	EndDateField     string              `yaml:"endDateField,omitempty"`
}

// OptionFieldConfig names a field whose distinct values feed a filter control
type OptionFieldConfig struct {
	Field string `yaml:"field"`
	Order string `yaml:"order,omitempty"`
}

// LoadConfig loads and parses configuration from a YAML file
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	if loaderCfg.path == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if loaderCfg.env != nil {
		config.applyEnv(loaderCfg.env)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyEnv overlays environment values on top of the file values
func (c *Config) applyEnv(v *viper.Viper) {
	if addr := v.GetString("ADDRESS"); addr != "" {
		c.Address = addr
	}
	if endpoint := v.GetString("UPSTREAM_ENDPOINT"); endpoint != "" {
		if c.Upstream == nil {
			c.Upstream = &UpstreamConfig{}
		}
		c.Upstream.Endpoint = endpoint
	}
	if redisAddr := v.GetString("REDIS_ADDR"); redisAddr != "" {
		if c.Status == nil {
			c.Status = &StatusConfig{Type: StatusTypeRedis}
		}
		if c.Status.Redis == nil {
			c.Status.Redis = &RedisConfig{}
		}
		c.Status.Redis.Addr = redisAddr
	}
	if redisPassword := v.GetString("REDIS_PASSWORD"); redisPassword != "" && c.Status != nil && c.Status.Redis != nil {
		c.Status.Redis.Password = redisPassword
	}
}

// GetAddress returns the listen address, using DefaultAddress if not specified
func (c *Config) GetAddress() string {
	if c.Address == "" {
		return DefaultAddress
	}
	return c.Address
}

// GetUpstreamTimeout returns the upstream request timeout
func (c *Config) GetUpstreamTimeout() time.Duration {
	if c.Upstream == nil || c.Upstream.Timeout == "" {
		return DefaultUpstreamTimeout
	}
	d, err := time.ParseDuration(c.Upstream.Timeout)
	if err != nil {
		return DefaultUpstreamTimeout
	}
	return d
}

// GetStatusType returns the status persistence type, defaulting to file
func (c *Config) GetStatusType() string {
	if c.Status == nil || c.Status.Type == "" {
		return StatusTypeFile
	}
	return c.Status.Type
}

// GetStatusDir returns the directory for file status persistence
func (c *Config) GetStatusDir() string {
	if c.Status == nil || c.Status.Dir == "" {
		return DefaultStatusDir
	}
	return c.Status.Dir
}

// GetCacheDir returns the collection cache directory, or "" when caching is disabled
func (c *Config) GetCacheDir() string {
	switch c.CacheDir {
	case "":
		return DefaultCacheDir
	case "-":
		return ""
	default:
		return c.CacheDir
	}
}

// GetSyncInterval returns the effective refetch interval for a resource.
// Resource policy wins over the root policy; invalid values fall back to the default.
func (c *Config) GetSyncInterval(res *ResourceConfig) time.Duration {
	for _, policy := range []*SyncPolicyConfig{res.SyncPolicy, c.SyncPolicy} {
		if policy == nil || policy.Interval == "" {
			continue
		}
		if d, err := time.ParseDuration(policy.Interval); err == nil {
			return d
		}
	}
	return DefaultSyncInterval
}

// GetResource returns the resource configuration with the given name
func (c *Config) GetResource(name string) (*ResourceConfig, bool) {
	for i := range c.Resources {
		if c.Resources[i].Name == name {
			return &c.Resources[i], true
		}
	}
	return nil, false
}

// ResourceNames returns the configured resource names in configuration order
func (c *Config) ResourceNames() []string {
	out := make([]string, 0, len(c.Resources))
	for _, r := range c.Resources {
		out = append(out, r.Name)
	}
	return out
}

// GetType returns the inferred source type of the resource
func (r *ResourceConfig) GetType() string {
	if r.File != nil {
		return SourceTypeFile
	}
	return SourceTypeAPI
}

// GetPath returns the upstream collection path, defaulting to the resource name
func (r *ResourceConfig) GetPath() string {
	if r.Path == "" {
		return r.Name
	}
	return strings.Trim(r.Path, "/")
}

// GetEntity returns the entity definition name, defaulting to the resource name
func (r *ResourceConfig) GetEntity() string {
	if r.Entity == "" {
		return r.Name
	}
	return r.Entity
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if len(c.Resources) == 0 {
		return fmt.Errorf("at least one resource must be configured")
	}

	if err := validateSyncPolicy(c.SyncPolicy, "syncPolicy"); err != nil {
		return err
	}

	if err := c.validateUpstream(); err != nil {
		return err
	}

	if err := c.validateStatus(); err != nil {
		return err
	}

	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}

	names := make(map[string]bool)
	for i := range c.Resources {
		res := &c.Resources[i]
		if res.Name == "" {
			return fmt.Errorf("resource[%d]: name is required", i)
		}
		if !isURLSegment(res.Name) {
			return fmt.Errorf("resource[%d]: name '%s' must contain only letters, digits, '-' or '_'", i, res.Name)
		}
		if names[res.Name] {
			return fmt.Errorf("resource[%d]: duplicate resource name '%s'", i, res.Name)
		}
		names[res.Name] = true

		if err := c.validateResourceConfig(res, i); err != nil {
			return err
		}
	}

	return nil
}

// validateUpstream requires an endpoint when any resource reads from the API
func (c *Config) validateUpstream() error {
	needsUpstream := false
	for i := range c.Resources {
		if c.Resources[i].GetType() == SourceTypeAPI {
			needsUpstream = true
			break
		}
	}

	if c.Upstream == nil || c.Upstream.Endpoint == "" {
		if needsUpstream {
			return fmt.Errorf("upstream.endpoint is required when a resource has no file source")
		}
		return nil
	}

	if !strings.HasPrefix(c.Upstream.Endpoint, "http://") && !strings.HasPrefix(c.Upstream.Endpoint, "https://") {
		return fmt.Errorf("upstream.endpoint must be an http or https URL, got '%s'", c.Upstream.Endpoint)
	}
	if c.Upstream.Timeout != "" {
		if _, err := time.ParseDuration(c.Upstream.Timeout); err != nil {
			return fmt.Errorf("upstream.timeout must be a valid duration (e.g., '10s'): %w", err)
		}
	}
	return nil
}

// validateStatus validates the status persistence configuration
func (c *Config) validateStatus() error {
	switch c.GetStatusType() {
	case StatusTypeFile:
		return nil
	case StatusTypeRedis:
		if c.Status.Redis == nil || c.Status.Redis.Addr == "" {
			return fmt.Errorf("status.redis.addr is required when status.type is %s", StatusTypeRedis)
		}
		return nil
	default:
		return fmt.Errorf("status.type must be %s or %s, got '%s'", StatusTypeFile, StatusTypeRedis, c.Status.Type)
	}
}

// validateResourceConfig validates a single resource configuration
func (*Config) validateResourceConfig(res *ResourceConfig, index int) error {
	prefix := fmt.Sprintf("resource[%d] (%s)", index, res.Name)

	if err := validateSyncPolicy(res.SyncPolicy, prefix+": syncPolicy"); err != nil {
		return err
	}

	if res.File != nil && res.File.Path == "" {
		return fmt.Errorf("%s: file.path is required", prefix)
	}

	if res.File != nil && (res.Path != "" || len(res.Query) > 0) {
		return fmt.Errorf("%s: path and query apply only to api sources", prefix)
	}

	if res.Schema != nil {
		for i, opt := range res.Schema.OptionFields {
			if opt.Field == "" {
				return fmt.Errorf("%s: schema.optionFields[%d].field is required", prefix, i)
			}
		}
	}

	return nil
}

// validateSyncPolicy validates an optional sync policy
func validateSyncPolicy(policy *SyncPolicyConfig, prefix string) error {
	if policy == nil || policy.Interval == "" {
		return nil
	}

	d, err := time.ParseDuration(policy.Interval)
	if err != nil {
		return fmt.Errorf("%s.interval must be a valid duration (e.g., '30m', '1h'): %w", prefix, err)
	}
	if d <= 0 {
		return fmt.Errorf("%s.interval must be positive, got '%s'", prefix, policy.Interval)
	}

	return nil
}

func isURLSegment(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

package models

import "time"

type Configuration struct {
	App       AppConfiguration       `mapstructure:"app"       validate:"required"`
	Backend   BackendConfiguration   `mapstructure:"backend"   validate:"required"`
	Cache     CacheConfiguration     `mapstructure:"cache"     validate:"required"`
	Tracing   TracingConfiguration   `mapstructure:"tracing"`
	Profiling ProfilingConfiguration `mapstructure:"profiling"`
}

type AppConfiguration struct {
	LogLevel          string   `mapstructure:"log_level"           validate:"oneof=debug info warn error fatal panic"`
	Port              int      `mapstructure:"port"                validate:"gte=80,lte=65535"`
	AllowedOrigins    []string `mapstructure:"allowed_origins"     validate:"required"`
	TrustedProxies    []string `mapstructure:"trusted_proxies"`
	RevalidateSeconds int      `mapstructure:"revalidate_seconds"  validate:"gte=1"`
	FormRateLimit     int      `mapstructure:"form_rate_limit"     validate:"gte=1"`
	CountersRateLimit int      `mapstructure:"counters_rate_limit" validate:"gte=1"`
}

// Revalidate is how long a generated counter snapshot is served before the
// next page request regenerates it.
func (c *AppConfiguration) Revalidate() time.Duration {
	return time.Duration(c.RevalidateSeconds) * time.Second
}

// BackendConfiguration points at the external pool service.
type BackendConfiguration struct {
	BaseURL        string `mapstructure:"base_url"        validate:"required,http_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gte=1,lte=300"`
}

func (c *BackendConfiguration) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type CacheConfiguration struct {
	Type   string                    `mapstructure:"type"   validate:"required,oneof=memory redis valkey"`
	Redis  *RedisCacheConfiguration  `mapstructure:"redis"  validate:"required_if=Type redis"`
	Valkey *ValkeyCacheConfiguration `mapstructure:"valkey" validate:"required_if=Type valkey"`
}

type RedisCacheConfiguration struct {
	Hosts         []string `mapstructure:"hosts"`
	Password      string   `mapstructure:"password"`
	TLSEnabled    bool     `mapstructure:"tls_enabled"`
	TLSServerName string   `mapstructure:"tls_server_name"`
}

type ValkeyCacheConfiguration struct {
	Hosts         []string `mapstructure:"hosts"`
	Password      string   `mapstructure:"password"`
	TLSEnabled    bool     `mapstructure:"tls_enabled"`
	TLSServerName string   `mapstructure:"tls_server_name"`
}

// TracingConfiguration enables the OTLP/HTTP trace exporter.
type TracingConfiguration struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"     validate:"required_if=Enabled true"`
	Insecure    bool   `mapstructure:"insecure"`
	ServiceName string `mapstructure:"service_name"`
}

type ProfilingConfiguration struct {
	Enabled         bool   `mapstructure:"enabled"`
	ServerAddress   string `mapstructure:"server_address"   validate:"required_if=Enabled true"`
	ApplicationName string `mapstructure:"application_name"`
}

package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Log       LogConfig       `mapstructure:"log"`
	Component ComponentConfig `mapstructure:"component"`
	JSON      JSONConfig      `mapstructure:"json"`
}

type ServerConfig struct {
	Port               int           `mapstructure:"port"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout"`
	MaxHeaderBytes     int           `mapstructure:"max_header_bytes"`
	MaxMultipartMemory int64         `mapstructure:"max_multipart_memory"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ComponentConfig locates the raw component content files.
type ComponentConfig struct {
	ContentDir string `mapstructure:"content_dir"`
	Extension  string `mapstructure:"extension"`
	CacheSize  int    `mapstructure:"cache_size"`
}

// JSONConfig is the serialization and merge policy of the update engine.
type JSONConfig struct {
	EscapeHTML            bool `mapstructure:"escape_html"`
	DisallowUnknownFields bool `mapstructure:"disallow_unknown_fields"`
	IgnoreNullOnMerge     bool `mapstructure:"ignore_null_on_merge"`
}

var cfg *Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.max_header_bytes", 1<<20)
	v.SetDefault("server.max_multipart_memory", 32<<20)

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Origin", "Content-Type", "X-Request-ID"})
	v.SetDefault("cors.exposed_headers", []string{"X-Request-ID"})
	v.SetDefault("cors.max_age", 600)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("component.content_dir", "./components")
	v.SetDefault("component.extension", ".vue")
	v.SetDefault("component.cache_size", 128)
}

// Load reads the YAML file at configPath. Environment variables prefixed
// with VUEBRIDGE_ override file values, e.g. VUEBRIDGE_SERVER_PORT.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("VUEBRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	loaded := &Config{}
	if err := v.Unmarshal(loaded); err != nil {
		return nil, err
	}

	cfg = loaded
	return cfg, nil
}

func Get() *Config {
	return cfg
}

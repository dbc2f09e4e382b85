package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"

	goserde "github.com/reoring/goserde"
	"github.com/reoring/goserde/json"
	"github.com/reoring/goserde/serializers"
	"github.com/reoring/goserde/yaml"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Features *serializers.OrderedMap[string, bool]
}

type AppConfig struct {
	Name     string
	Version  string
	Port     int
	Host     string
	Cors     []string
	Metadata map[string]string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	SSLMode  sslMode
}

type LoggingConfig struct {
	Level  level
	Format string
}

type sslMode int

const (
	sslDisable sslMode = iota
	sslPrefer
	sslRequire
)

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

var (
	str = serializers.String()
	num = serializers.Int()
)

func appSerializer() goserde.Serializer[AppConfig] {
	b := serializers.Object[AppConfig]("App")
	serializers.Field(b, "name", str, func(a *AppConfig) string { return a.Name }, func(a *AppConfig, v string) { a.Name = v })
	serializers.Field(b, "version", str, func(a *AppConfig) string { return a.Version }, func(a *AppConfig, v string) { a.Version = v })
	serializers.OptionalField(b, "port", num, func(a *AppConfig) int { return a.Port }, func(a *AppConfig, v int) { a.Port = v }, 8080)
	serializers.OptionalField(b, "host", str, func(a *AppConfig) string { return a.Host }, func(a *AppConfig, v string) { a.Host = v }, "0.0.0.0")
	serializers.OptionalField(b, "cors", serializers.List(str), func(a *AppConfig) []string { return a.Cors }, func(a *AppConfig, v []string) { a.Cors = v }, nil)
	serializers.OptionalField(b, "metadata", serializers.GoMap(str, str),
		func(a *AppConfig) map[string]string { return a.Metadata }, func(a *AppConfig, v map[string]string) { a.Metadata = v }, nil)
	return b.MustBuild()
}

func databaseSerializer() goserde.Serializer[DatabaseConfig] {
	b := serializers.Object[DatabaseConfig]("Database")
	serializers.Field(b, "host", str, func(d *DatabaseConfig) string { return d.Host }, func(d *DatabaseConfig, v string) { d.Host = v })
	serializers.OptionalField(b, "port", num, func(d *DatabaseConfig) int { return d.Port }, func(d *DatabaseConfig, v int) { d.Port = v }, 5432)
	serializers.Field(b, "database", str, func(d *DatabaseConfig) string { return d.Database }, func(d *DatabaseConfig, v string) { d.Database = v })
	serializers.Field(b, "username", str, func(d *DatabaseConfig) string { return d.Username }, func(d *DatabaseConfig, v string) { d.Username = v })
	serializers.OptionalField(b, "sslMode", serializers.Enum[sslMode]("SSLMode", "disable", "prefer", "require"),
		func(d *DatabaseConfig) sslMode { return d.SSLMode }, func(d *DatabaseConfig, v sslMode) { d.SSLMode = v }, sslPrefer)
	return b.MustBuild()
}

func loggingSerializer() goserde.Serializer[LoggingConfig] {
	b := serializers.Object[LoggingConfig]("Logging")
	serializers.OptionalField(b, "level", serializers.Enum[level]("Level", "debug", "info", "warn", "error"),
		func(l *LoggingConfig) level { return l.Level }, func(l *LoggingConfig, v level) { l.Level = v }, levelInfo)
	serializers.OptionalField(b, "format", str, func(l *LoggingConfig) string { return l.Format }, func(l *LoggingConfig, v string) { l.Format = v }, "json")
	return b.MustBuild()
}

func configSerializer() goserde.Serializer[Config] {
	b := serializers.Object[Config]("Config")
	serializers.Field(b, "app", appSerializer(), func(c *Config) AppConfig { return c.App }, func(c *Config, v AppConfig) { c.App = v })
	serializers.Field(b, "database", databaseSerializer(), func(c *Config) DatabaseConfig { return c.Database }, func(c *Config, v DatabaseConfig) { c.Database = v })
	serializers.OptionalField(b, "logging", loggingSerializer(),
		func(c *Config) LoggingConfig { return c.Logging }, func(c *Config, v LoggingConfig) { c.Logging = v }, LoggingConfig{Level: levelInfo, Format: "json"})
	serializers.OptionalField(b, "features", serializers.Map(str, serializers.Bool()),
		func(c *Config) *serializers.OrderedMap[string, bool] { return c.Features },
		func(c *Config, v *serializers.OrderedMap[string, bool]) { c.Features = v }, nil)
	return b.MustBuild()
}

// ConfigManager loads base.yaml and overlays <env>.yaml on top of it. The
// overlay is a patch: lists append, maps and nested objects merge.
type ConfigManager struct {
	dir    string
	format *json.Format
	s      goserde.Serializer[Config]
}

func NewConfigManager(dir string) *ConfigManager {
	return &ConfigManager{dir: dir, format: json.Default, s: configSerializer()}
}

var envVar = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars replaces ${NAME} with the environment value.
func expandEnvVars(data []byte) []byte {
	return envVar.ReplaceAllFunc(data, func(m []byte) []byte {
		return []byte(os.Getenv(string(envVar.FindSubmatch(m)[1])))
	})
}

func (cm *ConfigManager) read(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(cm.dir, name))
	if err != nil {
		return nil, err
	}
	return expandEnvVars(data), nil
}

func (cm *ConfigManager) Load(env string) (Config, error) {
	base, err := cm.read("base.yaml")
	if err != nil {
		return Config{}, fmt.Errorf("failed to load base config: %w", err)
	}
	cfg, err := yaml.Decode(cm.format, cm.s, base)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse base config: %w", err)
	}
	overlay, err := cm.read(env + ".yaml")
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to load %s config: %w", env, err)
	}
	cfg, err = yaml.Update(cm.format, cm.s, cfg, overlay)
	if err != nil {
		return Config{}, fmt.Errorf("failed to apply %s config: %w", env, err)
	}
	return cfg, nil
}

func (cm *ConfigManager) Validate(cfg Config) error {
	if cfg.App.Port < 1 || cfg.App.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", cfg.App.Port)
	}
	return nil
}

func main() {
	dir, env := ".", "development"
	if len(os.Args) > 1 {
		env = os.Args[1]
	}
	if len(os.Args) > 2 {
		dir = os.Args[2]
	}
	cm := NewConfigManager(dir)
	cfg, err := cm.Load(env)
	if err != nil {
		if iss, ok := goserde.AsIssues(err); ok {
			for _, it := range iss {
				log.Printf("%s at %s: %s (%s)", it.Code, it.Path, it.Message, it.Hint)
			}
		}
		log.Fatal(err)
	}
	if err := cm.Validate(cfg); err != nil {
		log.Fatal(err)
	}
	out, err := yaml.Encode(json.New(json.Config{OmitDefaults: true}), cm.s, cfg)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("# effective %s configuration\n%s", env, out)
}

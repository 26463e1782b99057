package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data     DataConfig     `yaml:"data" mapstructure:"data"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Export   ExportConfig   `yaml:"export" mapstructure:"export"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// DataConfig selects the input tables. SQLite takes precedence over
// Workbook, which takes precedence over the CSV directory.
type DataConfig struct {
	Dir       string `yaml:"dir" mapstructure:"dir"`
	Languages string `yaml:"languages" mapstructure:"languages"`
	Features  string `yaml:"features" mapstructure:"features"`
	Codes     string `yaml:"codes" mapstructure:"codes"`
	Values    string `yaml:"values" mapstructure:"values"`
	Workbook  string `yaml:"workbook" mapstructure:"workbook"`
	SQLite    string `yaml:"sqlite" mapstructure:"sqlite"`
	Encoding  string `yaml:"encoding" mapstructure:"encoding"`
	Delimiter string `yaml:"delimiter" mapstructure:"delimiter"`
}

// AnalysisConfig tunes loading and the analysis commands.
type AnalysisConfig struct {
	DefaultEarliest int    `yaml:"default_earliest" mapstructure:"default_earliest"`
	DefaultLatest   int    `yaml:"default_latest" mapstructure:"default_latest"`
	MaxLineageDepth int    `yaml:"max_lineage_depth" mapstructure:"max_lineage_depth"`
	Concurrency     int    `yaml:"concurrency" mapstructure:"concurrency"`
	InheritedMarker string `yaml:"inherited_marker" mapstructure:"inherited_marker"`
}

// ExportConfig configures export output.
type ExportConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LITTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.dir", ".")
	v.SetDefault("data.languages", "languages.csv")
	v.SetDefault("data.features", "features.csv")
	v.SetDefault("data.codes", "codes.csv")
	v.SetDefault("data.values", "values.csv")
	v.SetDefault("data.workbook", "")
	v.SetDefault("data.sqlite", "")
	v.SetDefault("data.encoding", "utf-8")
	v.SetDefault("data.delimiter", ",")
	v.SetDefault("analysis.default_earliest", -1000)
	v.SetDefault("analysis.default_latest", 1000)
	v.SetDefault("analysis.max_lineage_depth", 256)
	v.SetDefault("analysis.concurrency", 4)
	v.SetDefault("analysis.inherited_marker", "*")
	v.SetDefault("export.dir", "out")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the configuration for values the analysis cannot work with.
func (c *Config) Validate() error {
	var errs []string

	if c.Data.SQLite == "" && c.Data.Workbook == "" && c.Data.Dir == "" {
		errs = append(errs, "one of data.sqlite, data.workbook or data.dir is required")
	}
	if len([]rune(c.Data.Delimiter)) != 1 {
		errs = append(errs, "data.delimiter must be a single character")
	}
	if c.Analysis.DefaultEarliest > c.Analysis.DefaultLatest {
		errs = append(errs, "analysis.default_earliest must not exceed analysis.default_latest")
	}
	if c.Analysis.MaxLineageDepth < 1 {
		errs = append(errs, "analysis.max_lineage_depth must be > 0")
	}
	if c.Analysis.Concurrency < 1 || c.Analysis.Concurrency > 64 {
		errs = append(errs, "analysis.concurrency must be between 1 and 64")
	}

	if len(errs) > 0 {
		return eris.New("config: " + strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

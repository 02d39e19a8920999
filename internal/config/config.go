package config

// Config is the complete codebuddy configuration, loaded from
// .codebuddy/config.yml with environment variable overrides.
type Config struct {
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
	Extract ExtractConfig `yaml:"extract" mapstructure:"extract"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
}

// PathsConfig defines which files to extract and which to skip.
type PathsConfig struct {
	Code   []string `yaml:"code" mapstructure:"code"`     // glob patterns for source files
	Ignore []string `yaml:"ignore" mapstructure:"ignore"` // glob patterns to ignore
}

// ExtractConfig tunes the batch runner.
type ExtractConfig struct {
	Workers      int `yaml:"workers" mapstructure:"workers"`             // 0 means GOMAXPROCS
	CacheEntries int `yaml:"cache_entries" mapstructure:"cache_entries"` // extraction cache capacity
}

// OutputConfig defines how results are rendered.
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // "json" or "text"
	Pretty bool   `yaml:"pretty" mapstructure:"pretty"` // indent JSON output
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Code: []string{
				"**/*.py",
			},
			Ignore: []string{
				"__pycache__/**",
				".git/**",
				"venv/**",
				".venv/**",
				"node_modules/**",
				"*.pyc",
			},
		},
		Extract: ExtractConfig{
			Workers:      0,
			CacheEntries: 4096,
		},
		Output: OutputConfig{
			Format: "json",
			Pretty: true,
		},
	}
}

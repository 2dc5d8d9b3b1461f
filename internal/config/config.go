package config

// Config represents the main configuration structure
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Resolver ResolverConfig `yaml:"resolver"`
	Locator  LocatorConfig  `yaml:"locator"`
	Shell    ShellConfig    `yaml:"shell"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Debug       bool     `yaml:"debug"`
	OutputPaths []string `yaml:"output_paths"`
}

// ResolverConfig controls how module specifiers are mapped to files
type ResolverConfig struct {
	SearchPaths []string `yaml:"search_paths"`
	Extensions  []string `yaml:"extensions"`
	PackageFile string   `yaml:"package_file"`
}

// LocatorConfig contains function-locator settings
type LocatorConfig struct {
	CacheSize       int                         `yaml:"cache_size"`
	MaxWorkers      int                         `yaml:"max_workers"`
	DefaultLanguage string                      `yaml:"default_language"`
	Languages       map[string]LanguageSettings `yaml:"languages"`
}

// LanguageSettings describes how function definitions look in one language
type LanguageSettings struct {
	Keywords   []string `yaml:"keywords"`
	Extensions []string `yaml:"extensions"`
}

// ShellConfig contains interactive shell settings
type ShellConfig struct {
	Prompt string `yaml:"prompt"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Debug:       false,
			OutputPaths: []string{"stderr"},
		},
		Resolver: ResolverConfig{
			SearchPaths: []string{"."},
			Extensions:  []string{".py"},
			PackageFile: "__init__.py",
		},
		Locator: LocatorConfig{
			CacheSize:       256,
			MaxWorkers:      0, // 0 means use number of CPU cores
			DefaultLanguage: "python",
			Languages: map[string]LanguageSettings{
				"python": {
					Keywords:   []string{"def", "async def"},
					Extensions: []string{".py", ".pyw"},
				},
				"go": {
					Keywords:   []string{"func"},
					Extensions: []string{".go"},
				},
				"javascript": {
					Keywords:   []string{"function", "async function"},
					Extensions: []string{".js", ".mjs", ".cjs"},
				},
				"lua": {
					Keywords:   []string{"function", "local function"},
					Extensions: []string{".lua"},
				},
				"ruby": {
					Keywords:   []string{"def"},
					Extensions: []string{".rb"},
				},
			},
		},
		Shell: ShellConfig{
			Prompt: "(bp) ",
		},
	}
}

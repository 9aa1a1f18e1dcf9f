package config

import (
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	LLM      LLMConfig      `yaml:"llm"`
	Image    ImageConfig    `yaml:"image"`
	Charts   ChartsConfig   `yaml:"charts"`
	Data     DataConfig     `yaml:"data"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release
}

type DatabaseConfig struct {
	Type string `yaml:"type"` // sqlite, mysql
	DSN  string `yaml:"dsn"`
}

type LLMConfig struct {
	APIURL    string `yaml:"api_url"`
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
}

// ImageConfig points at an OpenAI-compatible image generations endpoint
// used for Stage 4 wireframe mockups.
type ImageConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
}

// ChartsConfig drives the external metrics chart script.
type ChartsConfig struct {
	Interpreter string `yaml:"interpreter"`
	ScriptPath  string `yaml:"script_path"`
}

type DataConfig struct {
	Dir         string `yaml:"dir"`
	ProjectsDir string `yaml:"projects_dir"`
	UploadsDir  string `yaml:"uploads_dir"`
}

var (
	cfg  *Config
	once sync.Once
)

func GetConfig() *Config {
	once.Do(func() {
		cfg = loadConfig()
	})
	return cfg
}

func loadConfig() *Config {
	config := &Config{
		Server: ServerConfig{
			Port: "8080",
			Mode: "debug",
		},
		Database: DatabaseConfig{
			Type: "sqlite",
			DSN:  "./data/board.db",
		},
		LLM: LLMConfig{
			APIURL:    "https://api.openai.com/v1",
			Model:     "gpt-4o",
			MaxTokens: 4000,
		},
		Charts: ChartsConfig{
			Interpreter: "python3",
			ScriptPath:  "./scripts/metrics_charts.py",
		},
		Data: DataConfig{
			Dir: "./data",
		},
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err == nil {
		yaml.Unmarshal(data, config)
	}

	// Environment variables take precedence over the config file.
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.LLM.APIKey = apiKey
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		config.LLM.APIURL = baseURL
	}
	if model := os.Getenv("OPENAI_MODEL_NAME"); model != "" {
		config.LLM.Model = model
	}
	if endpoint := os.Getenv("IMAGE_GENERATION_ENDPOINT"); endpoint != "" {
		config.Image.Endpoint = endpoint
	}
	if apiKey := os.Getenv("IMAGE_GENERATION_API_KEY"); apiKey != "" {
		config.Image.APIKey = apiKey
	}

	if dbType := os.Getenv("DB_TYPE"); dbType != "" {
		config.Database.Type = dbType
	}
	if dbDSN := os.Getenv("DB_DSN"); dbDSN != "" {
		config.Database.DSN = dbDSN
	}

	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		config.Data.Dir = dataDir
		config.Data.ProjectsDir = ""
		config.Data.UploadsDir = ""
	}
	if config.Data.ProjectsDir == "" {
		config.Data.ProjectsDir = filepath.Join(config.Data.Dir, "projects")
	}
	if config.Data.UploadsDir == "" {
		config.Data.UploadsDir = filepath.Join(config.Data.Dir, "uploads")
	}

	return config
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func UpdateConfig(newCfg *Config) {
	cfg = newCfg
}

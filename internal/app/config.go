package app

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Config carries run parameters. Values come from an optional yaml file,
// with env vars (GOPORT, OAI_API_KEY, OAI_MODEL, SNAPSHOT_PATH,
// RESULTS_PATH) layered on top.
type Config struct {
	Port                string `yaml:"port"`
	Model               string `yaml:"model"`
	Epochs              int    `yaml:"epochs"`
	MaxRefinementRounds int    `yaml:"max_refinement_rounds"`
	RateLimitPerMinute  int    `yaml:"rate_limit_per_minute"`
	DedupGuard          bool   `yaml:"dedup_guard"`
	DedupMinScore       int    `yaml:"dedup_min_score"`
	SnapshotPath        string `yaml:"snapshot_path"`
	ResultsPath         string `yaml:"results_path"`

	OAIApiKey string `yaml:"-"`
}

func defaultConfig() Config {
	return Config{
		Port:                "8000",
		Model:               "gpt-4o-mini",
		Epochs:              1,
		MaxRefinementRounds: 1,
		RateLimitPerMinute:  30,
		SnapshotPath:        "playbook.json",
		ResultsPath:         "results.csv",
	}
}

// LoadConfig reads the yaml file at path when it exists; a missing file is
// not an error, only defaults plus env apply then.
func LoadConfig(path string) (Config, error) {
	config := defaultConfig()

	content, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config, err
	}
	if err == nil {
		if err = yaml.Unmarshal(content, &config); err != nil {
			return config, err
		}
	}

	if port := os.Getenv("GOPORT"); port != "" {
		config.Port = port
	}
	if model := os.Getenv("OAI_MODEL"); model != "" {
		config.Model = model
	}
	if path := os.Getenv("SNAPSHOT_PATH"); path != "" {
		config.SnapshotPath = path
	}
	if path := os.Getenv("RESULTS_PATH"); path != "" {
		config.ResultsPath = path
	}
	config.OAIApiKey = os.Getenv("OAI_API_KEY")

	return config, nil
}

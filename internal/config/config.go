package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	ProviderAsk    = "ask"
	ProviderOpenAI = "openai"

	DefaultBaseURL = "https://ai-bot-backend.onrender.com"
	DefaultModel   = "gpt-4"
)

var ErrProfileNotFound = errors.New("profile not found")

type Profile struct {
	Provider string `json:"provider,omitempty"`
	BaseURL  string `json:"base_url,omitempty"`
	APIKey   string `json:"api_key,omitempty"`
	Model    string `json:"model,omitempty"`
	Markdown bool   `json:"markdown,omitempty"`
}

type Config struct {
	Profiles       map[string]Profile `json:"profiles"`
	ActiveProfile  string             `json:"active_profile"`
	currentProfile *Profile
	path           string
}

// LoadEnv reads a .env file from the working directory if there is one.
func LoadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

func LoadConfig() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadConfigFrom(configPath)
}

// LoadConfigFrom loads the config at configPath, creating a default one when
// the file does not exist yet.
func LoadConfigFrom(configPath string) (*Config, error) {
	if err := ensureConfigDir(configPath); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	config.path = configPath

	if err := config.setCurrentProfile(); err != nil {
		return nil, fmt.Errorf("failed to set current profile: %w", err)
	}

	return config, nil
}

// UseProfile makes name the active profile for this process. It does not save.
func (c *Config) UseProfile(name string) error {
	if _, exists := c.Profiles[name]; !exists {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	c.ActiveProfile = name
	return c.setCurrentProfile()
}

func (c *Config) IsValid() bool {
	if c.currentProfile == nil {
		return false
	}
	if c.GetProvider() == ProviderOpenAI {
		return c.GetAPIKey() != ""
	}
	return c.GetBaseURL() != ""
}

func (c *Config) GetProvider() string {
	if c.currentProfile == nil || c.currentProfile.Provider == "" {
		return ProviderAsk
	}
	return c.currentProfile.Provider
}

func (c *Config) GetAPIKey() string {
	if key := os.Getenv("RORITUTOR_API_KEY"); key != "" {
		return key
	}
	if c.currentProfile == nil {
		return ""
	}
	return c.currentProfile.APIKey
}

func (c *Config) GetModel() string {
	if c.currentProfile == nil || c.currentProfile.Model == "" {
		return DefaultModel
	}
	return c.currentProfile.Model
}

func (c *Config) GetBaseURL() string {
	if baseURL := os.Getenv("RORITUTOR_BASE_URL"); baseURL != "" {
		return baseURL
	}
	if c.currentProfile != nil && c.currentProfile.BaseURL != "" {
		return c.currentProfile.BaseURL
	}
	// The openai provider falls back to the library's default endpoint.
	if c.GetProvider() == ProviderOpenAI {
		return ""
	}
	return DefaultBaseURL
}

func (c *Config) RenderMarkdown() bool {
	return c.currentProfile != nil && c.currentProfile.Markdown
}

// Dir returns the directory holding the config file and the log.
func Dir() (string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Dir(configPath), nil
}

func getConfigPath() (string, error) {
	var configDir string

	// Use RORITUTOR_HOME if set, otherwise use user's home directory
	if home := os.Getenv("RORITUTOR_HOME"); home != "" {
		configDir = home
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = homeDir
	}

	return filepath.Join(configDir, ".roritutor", "config.json"), nil
}

func ensureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

func loadConfigFile(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultProfile talks to the hosted TutorGPT backend.
func DefaultProfile() Profile {
	return Profile{
		Provider: ProviderAsk,
		BaseURL:  DefaultBaseURL,
	}
}

func createDefaultConfig(configPath string) (*Config, error) {
	config := &Config{
		Profiles: map[string]Profile{
			"default": DefaultProfile(),
		},
		ActiveProfile: "default",
	}

	if err := saveConfig(config, configPath); err != nil {
		return nil, err
	}

	return config, nil
}

func saveConfig(config *Config, configPath string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}

func (c *Config) Save() error {
	configPath := c.path
	if configPath == "" {
		var err error
		configPath, err = getConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
	}

	return saveConfig(c, configPath)
}

func (c *Config) setCurrentProfile() error {
	if len(c.Profiles) == 0 {
		return fmt.Errorf("no profiles defined")
	}

	profile, exists := c.Profiles[c.ActiveProfile]
	if !exists {
		// If active profile doesn't exist, try to use the first available profile
		for name, p := range c.Profiles {
			c.ActiveProfile = name
			profile = p
			exists = true
			break
		}
	}

	if !exists {
		return fmt.Errorf("no valid profiles found")
	}

	c.currentProfile = &profile
	return nil
}

package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	defaultHomeDir        = ".shipflow"
	defaultLogLevel       = "info"
	defaultBuildServer    = "http://127.0.0.1:7001"
	defaultConnectTimeout = 5 * time.Second
	defaultBuildTimeout   = 5 * time.Minute
	defaultBuildCommand   = "npm run build"
	defaultMainBranch     = "master"
	defaultRemoteName     = "origin"
)

// Settings is the process-wide configuration, built once at startup and
// passed down to every collaborator.
type Settings struct {
	HomePath       string          `yaml:"home_path"`
	LogLevel       string          `yaml:"log_level"`
	BuildServer    string          `yaml:"build_server"`
	ConnectTimeout time.Duration   `yaml:"connect_timeout"`
	BuildTimeout   time.Duration   `yaml:"build_timeout"`
	BuildCommand   string          `yaml:"build_command"`
	MainBranch     string          `yaml:"main_branch"`
	RemoteName     string          `yaml:"remote_name"`
	Publish        PublishSettings `yaml:"publish"`
}

// PublishSettings configures the optional post-build template upload.
type PublishSettings struct {
	ArtifactURL string `yaml:"artifact_url"` // object-store base URL the build service uploads to
	SSHUser     string `yaml:"ssh_user"`
	SSHHost     string `yaml:"ssh_host"`
	SSHPath     string `yaml:"ssh_path"`
}

// UploadEnabled reports whether enough is configured to transfer a built template.
func (p PublishSettings) UploadEnabled() bool {
	return p.ArtifactURL != "" && p.SSHUser != "" && p.SSHHost != "" && p.SSHPath != ""
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// DefaultSettings returns the settings used when no config file exists.
func DefaultSettings() *Settings {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Settings{
		HomePath:       filepath.Join(home, defaultHomeDir),
		LogLevel:       defaultLogLevel,
		BuildServer:    defaultBuildServer,
		ConnectTimeout: defaultConnectTimeout,
		BuildTimeout:   defaultBuildTimeout,
		BuildCommand:   defaultBuildCommand,
		MainBranch:     defaultMainBranch,
		RemoteName:     defaultRemoteName,
	}
}

// NewSettings reads the YAML file at path on top of the defaults, expands
// ${ENV_VAR} references and validates the result. An empty path yields the
// defaults.
func NewSettings(path string) (*Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}
	if unmarshalErr := yaml.Unmarshal(data, settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	settings.HomePath = ExpandEnv(settings.HomePath)
	settings.BuildServer = ExpandEnv(settings.BuildServer)
	settings.Publish.ArtifactURL = ExpandEnv(settings.Publish.ArtifactURL)
	settings.Publish.SSHUser = ExpandEnv(settings.Publish.SSHUser)
	settings.Publish.SSHHost = ExpandEnv(settings.Publish.SSHHost)
	settings.Publish.SSHPath = ExpandEnv(settings.Publish.SSHPath)

	if validateErr := settings.Validate(); validateErr != nil {
		return nil, validateErr
	}
	return settings, nil
}

// Validate checks for values the release flow cannot run without.
func (s *Settings) Validate() error {
	if s.HomePath == "" {
		return fmt.Errorf("%w: home_path is required", ErrConfiguration)
	}
	if s.BuildServer == "" {
		return fmt.Errorf("%w: build_server is required", ErrConfiguration)
	}
	if s.ConnectTimeout <= 0 {
		return fmt.Errorf("%w: connect_timeout must be positive", ErrConfiguration)
	}
	if s.BuildTimeout <= 0 {
		return fmt.Errorf("%w: build_timeout must be positive", ErrConfiguration)
	}
	if s.MainBranch == "" || s.RemoteName == "" {
		return fmt.Errorf("%w: main_branch and remote_name are required", ErrConfiguration)
	}
	return nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".shipflow.yaml",
		".shipflow.yml",
		"shipflow.yaml",
		"shipflow.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// ExpandEnv replaces ${ENV_VAR} references with their values.
func ExpandEnv(raw string) string {
	if raw == "" {
		return raw
	}
	return envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})
}

package bauplan

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// defaultEndpoint is the commercial API endpoint used when neither
	// the profile file nor the environment names one.
	defaultEndpoint = "https://api.use1.aprod.bauplanlabs.com"

	// defaultProfileName is the profile used when Config carries
	// neither an API key nor a profile name.
	defaultProfileName = "default"
)

// Config selects the credential used to construct a client. At most one
// of APIKey and Profile is set: APIKey is a per-call override, Profile
// names an entry in the host profile file, and the zero value means
// "use the host default profile".
type Config struct {
	Profile string
	APIKey  string
}

// profileFile mirrors the on-disk layout of ~/.bauplan/config.yml.
type profileFile struct {
	Profiles map[string]profileEntry `yaml:"profiles"`
}

type profileEntry struct {
	APIKey      string `yaml:"api_key"`
	APIEndpoint string `yaml:"api_endpoint"`
}

// configPath returns the profile file location, honoring the
// BAUPLAN_CONFIG_PATH override.
func configPath() (string, error) {
	if p := os.Getenv("BAUPLAN_CONFIG_PATH"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".bauplan", "config.yml"), nil
}

// loadProfile reads the named profile from the host profile file.
func loadProfile(name string) (*profileEntry, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile file %s: %w", path, err)
	}

	var file profileFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing profile file %s: %w", path, err)
	}

	entry, ok := file.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile %q not found in %s", name, path)
	}
	if entry.APIKey == "" {
		return nil, fmt.Errorf("profile %q has no api_key", name)
	}
	return &entry, nil
}

// resolveCredential turns a Config into an (apiKey, endpoint) pair.
// The per-call API key override wins; otherwise the named (or default)
// profile supplies both values.
func resolveCredential(cfg Config) (apiKey, endpoint string, err error) {
	endpoint = defaultEndpoint
	if env := os.Getenv("BAUPLAN_API_ENDPOINT"); env != "" {
		endpoint = env
	}

	if cfg.APIKey != "" {
		return cfg.APIKey, endpoint, nil
	}

	name := cfg.Profile
	if name == "" {
		name = defaultProfileName
	}
	entry, err := loadProfile(name)
	if err != nil {
		return "", "", err
	}
	if entry.APIEndpoint != "" && os.Getenv("BAUPLAN_API_ENDPOINT") == "" {
		endpoint = entry.APIEndpoint
	}
	return entry.APIKey, endpoint, nil
}

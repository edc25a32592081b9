package config

import (
	"os"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/entitykit/wikibase"
	"github.com/entitykit/wikibase/pkg/constants"
	"github.com/entitykit/wikibase/pkg/errors"
)

// Environment variables overriding settings file values.
const (
	EnvAPIURL    = "WIKIBASE_API_URL"
	EnvUserAgent = "WIKIBASE_USER_AGENT"
	EnvMaxLag    = "WIKIBASE_MAX_LAG"
	EnvBot       = "WIKIBASE_BOT"

	// DefaultTokenEnv names the variable holding the OAuth token. The
	// token itself never lives in a settings file.
	DefaultTokenEnv = "WIKIBASE_TOKEN"
)

// Settings configures the API client.
type Settings struct {
	APIURL    string `yaml:"api_url"`
	UserAgent string `yaml:"user_agent"`
	TokenEnv  string `yaml:"token_env"`
	MaxLag    int    `yaml:"max_lag"`
	Bot       bool   `yaml:"bot"`
}

// DefaultSettings returns settings for anonymous Wikidata access.
func DefaultSettings() *Settings {
	return &Settings{
		APIURL:    constants.DefaultAPIURL,
		UserAgent: constants.DefaultUserAgent,
		TokenEnv:  DefaultTokenEnv,
		MaxLag:    constants.DefaultMaxLag,
	}
}

// LoadSettings reads a YAML settings file over the defaults and applies
// environment overrides. An empty path skips the file.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.WrapIO("read", path, err)
		}
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, errors.WrapParse("yaml", path, err)
		}
		if s.TokenEnv == "" {
			s.TokenEnv = DefaultTokenEnv
		}
	}
	s.applyEnv()
	return s, nil
}

// Token reads the OAuth token from the configured environment variable.
// Empty means anonymous access.
func (s *Settings) Token() string {
	return os.Getenv(s.TokenEnv)
}

// ClientOptions translates the settings into client options.
func (s *Settings) ClientOptions() []wikibase.Option {
	opts := []wikibase.Option{
		wikibase.WithAPIURL(s.APIURL),
		wikibase.WithUserAgent(s.UserAgent),
		wikibase.WithMaxLag(s.MaxLag),
		wikibase.WithBot(s.Bot),
	}
	if token := s.Token(); token != "" {
		opts = append(opts, wikibase.WithOAuthToken(token))
	}
	return opts
}

func (s *Settings) applyEnv() {
	if v := os.Getenv(EnvAPIURL); v != "" {
		s.APIURL = v
	}
	if v := os.Getenv(EnvUserAgent); v != "" {
		s.UserAgent = v
	}
	if v := os.Getenv(EnvMaxLag); v != "" {
		if lag, err := strconv.Atoi(v); err == nil {
			s.MaxLag = lag
		}
	}
	if v := os.Getenv(EnvBot); v != "" {
		if bot, err := strconv.ParseBool(v); err == nil {
			s.Bot = bot
		}
	}
}

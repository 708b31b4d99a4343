package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for all settings.
const envPrefix = "IPBOOKS"

// envKeys lists every scalar configuration key.  AutomaticEnv only resolves
// keys viper has already seen (from the file or a default), so each key is
// bound explicitly or an env-only override like IPBOOKS_DOCKET_USER would
// silently unmarshal as the zero value.  invoice.firms is a list and has no
// env form.
var envKeys = []string{
	"log.level",
	"log.format",
	"log.output_paths",
	"docket.host",
	"docket.port",
	"docket.user",
	"docket.password",
	"docket.db_name",
	"docket.ssl_mode",
	"docket.max_open_conns",
	"docket.max_idle_conns",
	"docket.conn_max_lifetime",
	"docket.dial_timeout",
	"books.endpoint",
	"books.application_name",
	"books.qbxml_version",
	"books.timeout",
	"books.expense_account",
	"metrics.enabled",
	"metrics.listen_addr",
}

// newViper builds a pre-configured viper instance: YAML file type, IPBOOKS_
// env prefix, automatic env binding, and a key replacer mapping "." → "_" so
// nested keys like "docket.host" resolve to "IPBOOKS_DOCKET_HOST".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		v.MustBindEnv(key)
	}
	return v
}

// Load reads the YAML file at configPath, merges IPBOOKS_* environment
// overrides, applies defaults for unset fields, and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from IPBOOKS_* environment variables,
// with no config file required.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

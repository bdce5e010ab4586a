package variant

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the YAML form of a Policy. If nil, the policy defaults
// apply (see NewPolicy).
type Config struct {
	// AttributeKey names the cart attribute carrying the assigned token.
	AttributeKey string `yaml:"attribute_key"`

	// AllowedTokens restricts valid variant tokens to a closed set.
	// Empty means any single alphanumeric character.
	AllowedTokens []string `yaml:"allowed_tokens"`

	// SubscriptionExemption controls whether carts with recurring line
	// items skip filtering. Unset defaults to true.
	SubscriptionExemption *bool `yaml:"subscription_exemption"`
}

// LoadConfig reads a policy YAML file. Returns nil if path is empty
// (defaults apply). Returns an error if the file exists but is invalid.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.AttributeKey == "" {
		cfg.AttributeKey = DefaultAttributeKey
	}
	if cfg.SubscriptionExemption == nil {
		on := true
		cfg.SubscriptionExemption = &on
	}
}

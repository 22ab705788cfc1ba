package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/riskibarqy/fantasy-squad/internal/domain/fantasy"
)

// LoadRules returns fantasy.DefaultRules overlaid with the YAML document at
// path. Keys absent from the file keep their default; quota entries merge
// per position. An empty path yields the defaults.
func LoadRules(path string) (fantasy.Rules, error) {
	rules := fantasy.DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fantasy.Rules{}, fmt.Errorf("read rules file: %w", err)
	}

	return ParseRules(data)
}

func ParseRules(data []byte) (fantasy.Rules, error) {
	rules := fantasy.DefaultRules()
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return fantasy.Rules{}, fmt.Errorf("decode rules: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return fantasy.Rules{}, err
	}

	return rules, nil
}

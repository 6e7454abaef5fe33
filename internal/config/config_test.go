package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		EmbeddingWeight:   0.8,
		NetworkWeight:     0.2,
		FirstDegreeBoost:  0.5,
		SecondDegreeBoost: 0.25,
		MatchTopK:         5,
	}
}

func TestValidateMatching(t *testing.T) {
	assert.NoError(t, validConfig().validateMatching())

	c := validConfig()
	c.NetworkWeight = 0.9
	assert.Error(t, c.validateMatching(), "network weight must not exceed embedding weight")

	c = validConfig()
	c.FirstDegreeBoost = 1.5
	assert.Error(t, c.validateMatching(), "boosts above 1 would push network scores out of range")

	c = validConfig()
	c.FirstDegreeBoost = 0.2
	assert.Error(t, c.validateMatching(), "first-degree boost must exceed second-degree boost")

	c = validConfig()
	c.SecondDegreeBoost = 0
	assert.Error(t, c.validateMatching())

	c = validConfig()
	c.MatchTopK = 0
	assert.Error(t, c.validateMatching())
}

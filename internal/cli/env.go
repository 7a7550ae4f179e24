package cli

import (
	"github.com/caarlos0/env/v11"

	"github.com/matzehuels/gittrophy/pkg/errors"
)

// Env holds settings read from the environment. Flags take precedence.
type Env struct {
	CacheDir string `env:"GITTROPHY_CACHE_DIR"`
	NoCache  bool   `env:"GITTROPHY_NO_CACHE"`
	Font     string `env:"GITTROPHY_FONT"`
}

func loadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, errors.Wrap(errors.ErrCodeConfig, err, "parse environment")
	}
	return e, nil
}

package cli

import (
	"github.com/abexport/abexport/internal/api"
	"github.com/abexport/abexport/internal/config"
)

// withClient loads config (failing fast when no credential is available,
// before any network call) and hands a ready client to the command body.
func withClient(fn func(*api.Client) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return fn(api.NewClient(cfg))
}

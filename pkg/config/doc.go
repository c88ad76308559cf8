// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11:
//
//   - the default .env file is read once, if present
//   - LoadEnv reads additional files, later ones taking precedence
//   - Load parses the environment into a struct through its field tags and
//     caches the result per type
//   - if the struct implements Validator, Validate runs before caching
//
// Every boardly package exposes such a struct (twofactor.Config,
// secretbox.Config, session.Config, pg.Config and so on):
//
//	var cfg twofactor.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err // e.g. errors.Is(err, twofactor.ErrMissingSecret)
//	}
//
// A failed Load is not cached, so a corrected environment can be retried.
// ResetCache and ForceReloadConfig exist for tests.
package config

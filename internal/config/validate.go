package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) exceeds max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
	}

	if c.Portal.MaxPollOptions < 2 {
		return fmt.Errorf("portal.max_poll_options must be at least 2 (got %d)", c.Portal.MaxPollOptions)
	}

	if c.Portal.ListLimit <= 0 || c.Portal.ListLimit > c.Portal.MaxListLimit {
		return fmt.Errorf("portal.list_limit must be in 1..%d (got %d)", c.Portal.MaxListLimit, c.Portal.ListLimit)
	}

	if c.Server.RateLimitPerMin <= 0 {
		return fmt.Errorf("server.rate_limit_per_min must be > 0 (got %d)", c.Server.RateLimitPerMin)
	}

	return nil
}

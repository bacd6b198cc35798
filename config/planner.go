package config

import (
	"fmt"
	"time"
)

// HTTPConfig configures the planner HTTP API.
type HTTPConfig struct {
	Address string `json:"address"`
	// Token, when set, is required as a bearer token on the journal route.
	Token string `json:"token"`
}

// SetDefaults applies the default listen address.
func (c *HTTPConfig) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8080"
	}
}

// PlannerConfig tunes the planning session and its refresh loop.
type PlannerConfig struct {
	// RefreshIntervalSeconds re-fetches vehicles and orders periodically.
	// Zero disables the periodic refresh.
	RefreshIntervalSeconds int `json:"refresh_interval_seconds"`
	// DockedOnly restricts the vehicle choice to docked seaplanes.
	DockedOnly *bool `json:"docked_only"`
	// RefreshAfterSubmit re-fetches orders and vehicles after a delivery is created.
	RefreshAfterSubmit *bool `json:"refresh_after_submit"`
}

// SetDefaults enables docked-only choice and post-submission refresh.
func (c *PlannerConfig) SetDefaults() {
	if c.DockedOnly == nil {
		v := true
		c.DockedOnly = &v
	}
	if c.RefreshAfterSubmit == nil {
		v := true
		c.RefreshAfterSubmit = &v
	}
}

// Validate checks the interval range.
func (c PlannerConfig) Validate() error {
	if c.RefreshIntervalSeconds < 0 {
		return fmt.Errorf("refresh_interval_seconds must not be negative")
	}
	return nil
}

// RefreshInterval returns the periodic refresh interval.
func (c PlannerConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSeconds) * time.Second
}

// DockedOnlyEnabled reports the docked-only setting, true when unset.
func (c PlannerConfig) DockedOnlyEnabled() bool { return c.DockedOnly == nil || *c.DockedOnly }

// RefreshAfterSubmitEnabled reports the post-submission refresh setting,
// true when unset.
func (c PlannerConfig) RefreshAfterSubmitEnabled() bool {
	return c.RefreshAfterSubmit == nil || *c.RefreshAfterSubmit
}

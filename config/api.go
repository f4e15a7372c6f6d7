package config

// APIConfig configures the HTTP server started by "evac serve".
type APIConfig struct {
	Addr string `json:"addr"`
	// Token, when set, is required as a bearer token on /api/trials.
	Token string `json:"token"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

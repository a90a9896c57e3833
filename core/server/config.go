package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// IdentityURL is the endpoint of the external identity provider used to
	// verify bearer tokens. Empty disables verification (all requests are
	// treated as unauthenticated).
	IdentityURL string `mapstructure:"identity_url" default:""`
}

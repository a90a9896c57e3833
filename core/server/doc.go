// Package server holds the HTTP server configuration.
//
// The main application entry point handles the server startup; this package
// only defines the configuration structure: the listen port and the endpoint
// of the external identity provider that verifies bearer tokens.
//
// It is primarily used by the core/config package to embed server settings.
package server

// Package config provides configuration management for the library rental service.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file, with defaults bound from struct tags.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections owned by the core packages they configure:
//   - Server: HTTP port and identity provider endpoint
//   - Database: MySQL connection details
//   - Cache: Redis connection details
//   - Storage: MinIO credentials and bucket for cover images
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config

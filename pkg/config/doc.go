// Package config loads typed configuration from environment variables using
// github.com/caarlos0/env, with optional .env files via github.com/joho/godotenv.
//
// Every package owns a small Config struct with env tags; the binary loads
// each of them once at startup:
//
//	var usageCfg usage.Config
//	config.MustLoad(&usageCfg)
//
// Parsed values are cached per type for the lifetime of the process, so
// repeated calls are cheap and return the same values.
package config

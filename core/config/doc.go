// Package config loads typed configuration from environment variables.
// Each configuration type is parsed once and cached for subsequent calls.
//
// A .env file in the working directory is loaded on first use, then
// caarlos0/env fills struct fields from their `env` tags:
//
//	import "github.com/dmitrymomot/mailcraft/core/config"
//
//	var cfg assistant.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
//	// Or panic on failure during startup
//	var logCfg logger.Config
//	config.MustLoad(&logCfg)
//
// Different types are cached independently; loading the same type twice returns
// the first result even if the environment changed in between.
package config

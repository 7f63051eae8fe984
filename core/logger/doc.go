// Package logger provides structured logging on top of log/slog: a factory with
// environment presets and nil-safe attribute helpers for the layout domain.
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/mailcraft/core/logger"
//
//	log := logger.New(logger.WithDevelopment("mailcraft"))
//	log.Info("tree decoded",
//		logger.Component("htmlcodec"),
//		logger.Count("nodes", 12),
//	)
//
// Production preset writes JSON at info level:
//
//	log := logger.New(
//		logger.WithProduction("mailcraft"),
//		logger.WithOutput(os.Stderr),
//	)
//
// Settings can be read from the environment (APP_ENV, LOG_LEVEL, LOG_FORMAT):
//
//	cfg := config.MustLoad[logger.Config]()
//	log := logger.FromConfig(cfg, "mailcraft")
//	logger.SetAsDefault(log)
//
// # Attribute Helpers
//
// Helpers return an empty attribute for zero values, which slog drops:
//
//	log.Warn("action dropped",
//		logger.ActionType("update"),
//		logger.NodeID(id),     // omitted when id == ""
//		logger.Error(err),     // omitted when err == nil
//	)
//
// # Testing
//
//	var buf bytes.Buffer
//	log := logger.New(logger.WithJSONFormatter(), logger.WithOutput(&buf))
//
// Use Discard when a component requires a logger but the output is irrelevant.
package logger

// Package logger builds configured log/slog loggers for the storefront client
// packages. It standardizes output format (text for development, JSON for
// production), level selection and common attribute helpers so every package
// logs the same way.
//
//	log := logger.New(
//	    logger.WithDevelopment("storefront"),
//	)
//	log.Info("sdk ready", slog.String("public_key", key))
package logger

// Package logger builds the process-wide *slog.Logger and keeps attribute
// names consistent across packages.
//
// New takes functional options. WithEnvironment selects a preset from APP_ENV:
// text at debug level in development, JSON in staging and production. Context
// extractors add request-scoped attributes at log time; WithRequestID wires in
// the id assigned by chi's RequestID middleware.
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "boardly"),
//	    logger.WithRequestID(),
//	    logger.WithContextExtractors(environment.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
//
//	log.DebugContext(ctx, "two-factor claim rejected",
//	    logger.UserID(uid),
//	    logger.Reason("session_mismatch"),
//	)
//
// Attribute helpers such as Error and UserID return an empty slog.Attr for
// nil input, which slog omits, so they can be passed without nil checks.
package logger

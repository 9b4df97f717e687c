// Package logger builds *slog.Logger instances with environment presets,
// static attributes and values pulled from context.Context on every record.
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "reviewsystem"),
//	    logger.WithContextValue("request_id", requestIDKey{}),
//	)
//	logger.SetAsDefault(log)
//
//	log.WarnContext(ctx, "no quota defined",
//	    logger.Plan(plan),
//	    logger.Feature(feature),
//	    logger.Error(err),
//	)
//
// Attribute helpers (Error, TenantID, Plan, Feature, Usage, Limit, ...) keep
// key names consistent across packages. Error and Errors return an empty
// attribute for nil errors, so they can be passed unconditionally.
package logger

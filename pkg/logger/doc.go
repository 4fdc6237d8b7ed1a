// Package logger builds configured slog.Logger instances for services
// embedding the toolkit. It supports JSON and text formats, static
// attributes, and per-call context extractors - pair it with
// rbac.LoggerExtractor to annotate every record with the acting
// identity.
//
//	log := logger.New(
//	    logger.WithProduction("admin-api"),
//	    logger.WithContextExtractors(rbac.LoggerExtractor()),
//	)
package logger

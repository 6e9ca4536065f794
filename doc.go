// Package trackingmetrics implements a server for recording per-user
// measurements and serving them back as paginated lists or chart-ready time
// series.
//
// The server supports two metric types:
//   - distance: meter, centimeter, inch, feet, yard and mile, related by
//     scalar factors to the meter
//   - temperature: °C, °F and °K, related by pairwise conversion formulas
//
// A submission is idempotent per (user, metric type, calendar date): sending
// a second value for the same day overwrites the first instead of creating a
// new record. Chart queries collapse any historical same-day duplicates to
// the latest write and can convert values to a requested unit on the fly;
// storage always keeps the originally submitted unit.
//
// Records are stored in PostgreSQL or, when no DSN is configured, in memory.
// Users are soft-deleted and deleting a user soft-deletes the user's metrics.
//
// Features:
//   - REST API for submitting metrics, listing them and querying chart data
//   - User management with soft delete
//   - Display-time unit conversion
//   - Request correlation ids and structured logging
//   - Response compression using gzip
//   - Audit logging of submissions to file or HTTP endpoint
//   - Database migrations applied at startup
//   - Graceful shutdown handling
//
// The server and the seeding command are configured via command-line flags
// and environment variables.
package trackingmetrics

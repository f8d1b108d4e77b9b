/*
Package observability turns conversion hooks into monitoring signals.

Metrics exposes Prometheus collectors fed by domain.ConversionHooks, and
LoggingHooks writes an audit trail of each conversion to a slog.Logger.
Both return plain hooks, so they compose with ConversionHooks.Merge.
*/
package observability

// Package api defines the wire-format types shared by the daemon's HTTP
// handlers and the CLI client, plus converters from internal models.
//
// Response DTOs use camelCase JSON tags. Request DTOs accept the snake_case
// names older callers send and, where both spellings exist in the wild, the
// camelCase form too. Editor versions are exposed by their catalog name
// (R2022_3_6) alongside the qualified version string. Timestamps use RFC3339
// with milliseconds.
package api

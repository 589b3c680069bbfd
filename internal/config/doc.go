// Package config loads runtime configuration for the site tools.
//
// Values come from an optional `sitetools.yaml` (searched in `.` and
// `config/`) and can be overridden by environment variables prefixed with
// `BL_`, e.g. `BL_SITE_ROOT` or `BL_REDIS_ADDR`.
package config

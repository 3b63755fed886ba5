// Package config loads server, database, auth and study settings from
// defaults, an optional config.yaml and TANDEM_-prefixed environment
// variables, and validates the result before anything else starts.
package config

// Package config loads and validates ETL configuration from YAML.
//
// Config files support ${VAR} environment variable expansion, so secrets
// (API key, database password) can stay out of the file itself.
//
// Time windows are expressed in whole months. The fetch window trails today
// by lookback_lag months because upstream sale events settle late; the
// retention window bounds how much sales history the store keeps.
package config

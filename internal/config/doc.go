// Package config loads and validates application configuration from a local
// .env file, an optional YAML file and SCRY_ prefixed environment variables.
package config

// Package postgres provides the PostgreSQL implementation of the lesson store
// defined in the internal/store package, together with the embedded goose
// migrations that create its schema. Lesson bodies are stored as JSONB.
package postgres

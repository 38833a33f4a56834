// Package ciutil detects the execution environment and resolves settings
// that differ between CI and local development, such as the database used
// by integration tests.
package ciutil

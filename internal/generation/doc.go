// Package generation defines the boundary between the lesson pipeline and
// external generative text providers (Gemini, OpenAI-compatible endpoints).
//
// A Provider issues one request for one prompt. FailoverClient tries an ordered
// list of providers and returns the first non-empty response, aggregating every
// failure when none succeed. Retry is a separate decorator that re-runs a whole
// operation with exponential backoff for errors classified as transient, so
// provider iteration and transient-failure recovery stay independently testable.
package generation

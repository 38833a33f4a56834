// Package gemini adapts Google's Gemini API to the generation.Provider
// interface.
//
// The provider issues exactly one GenerateContent request per call and maps
// the outcome onto the generation package's error sentinels: safety blocks
// become ErrContentBlocked, responses without text become ErrEmptyResponse,
// and SDK errors are returned wrapped so that the retry decorator can classify
// them. Retries and failover are the caller's responsibility.
package gemini

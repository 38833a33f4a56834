// Package openai adapts OpenAI-compatible chat completion endpoints to the
// generation.Provider interface. The same Provider serves OpenAI and Groq;
// they differ only in base URL, model and key.
package openai

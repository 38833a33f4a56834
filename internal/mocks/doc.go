// Package mocks provides centralized mock implementations for testing.
//
// Each mock exposes function fields for every interface method and records its
// calls, so tests can both stub behavior and assert on how a dependency was
// used. Mocks are safe for concurrent use.
//
// Usage:
//
//	import "github.com/phrazzld/scry-tutor/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    provider := mocks.NewMockProviderWithText("gemini", `{"title": "Greetings"}`)
//
//	    // Use the mock in your test...
//	}
//
// When adding a new mock to this package:
//  1. Create a new file named after the interface being mocked
//  2. Implement the mock struct with function fields for each interface method
//  3. Document any helper methods or special functionality
package mocks

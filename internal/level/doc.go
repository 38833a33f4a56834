// Package level holds the per-tier lesson policies (A1 through C2) and the
// dispatcher that routes a learner to the policy for their tier.
//
// A policy is stateless configuration plus a deterministic lesson assembler:
// vocabulary guides for prompts, curated seed vocabulary, the set of on-tier
// words used for offline auditing, and a template lesson that needs no
// language model. Call sites reach policies only through Dispatcher so that
// tier strings are never branched on elsewhere.
package level

// Package validation runs the advisory passes applied to a decoded lesson:
// synonym sanitization, which blanks synonyms harder than the learner's tier
// allows, and the dialogue turn-taking audit, which reports dialogues where the
// learner does not open or does not answer every other speaker. Neither pass
// discards a lesson; the caller decides what a turn-taking finding means.
package validation

// Package domain holds the lesson model shared by every layer: learner
// profiles and tiers, topics, generated lessons with their typed exercise
// payloads, and the persisted lesson record.
package domain

// Package service contains the lesson use cases. GenerationService runs the
// generation pipeline: tier routing, continuity lookup, prompt rendering,
// provider failover with retry, response repair, structural validation and
// the post-generation passes. LessonService persists generated lessons and
// records when they are shared, keeping the continuity cache in step.
//
// Services receive their collaborators through constructor injection and
// depend on store interfaces, never on a concrete database.
package service

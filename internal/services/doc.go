// Package services defines shared utilities consumed by the pipeline stages
// and external collaborator clients.
//
// Key responsibilities:
//   - Context helpers that stamp session identifiers and stage names for
//     logging.
//   - Structured error markers plus the Wrap helper that give every stage
//     failure a uniform, classifiable shape.
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error handling, observability, retries) stays uniform across the pipeline.
package services

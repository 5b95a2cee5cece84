// Package services defines shared utilities consumed by the provisioning
// stages and external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and component names
//     for logging and tracing.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification uniform across stages.
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error handling, observability, retries) stays uniform across the pipeline.
package services

// Command medscribe drives the clinical documentation workflow: session
// creation, audio and image ingestion, transcript review, note generation,
// PDF rendering, final assembly, and retention sweeps.
package main

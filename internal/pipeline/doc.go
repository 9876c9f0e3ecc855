// Package pipeline orchestrates the clinical documentation workflow as a
// small acyclic stage graph over session artifacts.
//
// The primary branch runs audio ingest, transcript confirmation, note
// generation, and PDF rendering in order, each stage gated on the artifact
// the previous stage produced. The secondary branch recognizes scanned
// bills under its own session id. The two branches meet only in the final
// read-only assembly. Re-invoking an earlier stage overwrites its artifact
// but never invalidates already-produced downstream artifacts; the caller
// regenerates those explicitly.
package pipeline

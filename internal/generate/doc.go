// Package generate drafts structured clinical notes from confirmed
// transcripts via a JSON-only chat-completion API.
package generate

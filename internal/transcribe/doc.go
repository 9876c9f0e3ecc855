// Package transcribe provides the HTTP client for the speech-to-text
// service that turns consult recordings into draft transcripts.
package transcribe

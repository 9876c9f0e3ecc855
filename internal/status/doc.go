// Package status derives a completion view from the set of artifacts present
// for a session. The projection is pure and advisory: it never caches, never
// mutates, and degrades instead of failing so UI callers are never blocked.
package status

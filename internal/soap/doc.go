// Package soap defines the structured clinical document schema and the fixed
// set of specialty templates used to generate it.
package soap

// Package render lays out finalized clinical notes as PDF documents.
package render

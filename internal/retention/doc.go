// Package retention deletes sessions whose artifacts have aged past the
// configured retention period.
package retention

// Package artifacts persists the intermediate outputs of a documentation
// workflow, one named value per (session, key), in SQLite.
//
// Sessions have no creation call; one comes into existence the first time an
// artifact is stored under its id, and the set of keys present determines
// how far the workflow has progressed. A repeat store for the same key
// overwrites in place, so there is exactly one row per (session, key).
//
// The Store fronts the database with a write-through overlay map: every
// Store call updates the overlay before the durable write, and Get fills the
// overlay on a durable hit. Durable write failures propagate; read and
// enumeration failures degrade to "absent" so advisory readers never block.
//
// Treat this package as the single source of truth for artifact semantics;
// when you add keys, extend keys.go so the closed vocabulary stays closed.
package artifacts

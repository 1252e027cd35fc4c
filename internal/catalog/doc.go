// Package catalog holds the read-only, cycle-scoped snapshot of rights,
// contract, package and general video records the window engine reads.
//
// A Snapshot is built once per processing cycle (from a YAML fixture or the
// SQLite store) and then only read. Lookups of absent records report
// ok=false; they never fail.
package catalog

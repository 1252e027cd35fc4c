// Package rights holds the cycle-scoped licensing input records: rights
// windows and the contracts, packages and assets they reference.
//
// All records are treated as immutable once loaded. Dates are epoch
// milliseconds.
package rights

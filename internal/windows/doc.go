// Package windows computes the availability windows of one title in one
// country, optionally scoped to a locale, and folds the result into a rollup
// accumulator.
//
// # Paths
//
// A computation takes one of two paths, chosen once per call:
//
//   - Episode path: raw rights windows are sorted by hold-adjusted start,
//     each window's contracts and packages are merged into per-package
//     entries, and the current-or-first-future window is folded into the
//     accumulator.
//   - Rolled-up path: used for seasons and shows once a live episode has
//     anchored the accumulator. Windows are synthesized from the values the
//     accumulator already holds.
//
// # Catalog mode
//
// SingleCatalog processing ignores locale data entirely. MultiCatalog(locale)
// gates every contract/package pair on localized assets and, when enabled,
// on the title's subtitle and dub requirements; windows left without entries
// are dropped.
//
// # Concurrency
//
// An Engine may be shared across goroutines as long as each computation gets
// its own accumulator. The Resolver must allow concurrent reads.
package windows

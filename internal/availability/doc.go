// Package availability defines the availability window records produced by
// the window engine and handed to the surrounding pipeline.
package availability

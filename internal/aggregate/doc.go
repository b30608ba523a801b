// Package aggregate computes the cost and distance figures of the trip
// report. Every function is pure: no I/O, no shared state. Numeric trip
// fields are coerced leniently, so a malformed value counts as 0 instead of
// poisoning a sum.
package aggregate

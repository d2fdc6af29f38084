// Package geo provides forward/reverse geocoding and the coordinate
// fuzzing that keeps a list owner's exact position private.
//
// Fuzzing offsets a point by a deterministic pseudo-random amount within
// roughly 300 meters. The offset is derived from the list id, so repeated
// reads of the same list show the same public point instead of a jitter
// cloud that would average back to the true location.
package geo

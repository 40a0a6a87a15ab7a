// Package spatial provides the broad phase of the collision pipeline: a
// uniform hash grid rebuilt from body positions every step.
//
// The grid uses a counting-sort layout. After [Grid.Rebuild], bucket b owns
// the half-open slice entries[start[b]:start[b+1]] of body indices, so a
// rebuild is O(N) and a bucket lookup is O(1).
//
// # Correctness
//
// Distinct cells may hash to the same bucket. [Grid.Query] therefore returns
// a superset of the bodies near a point: false positives are expected,
// false negatives are not (for maxDist at least the interaction radius).
// Callers run the exact overlap test themselves.
//
// # Lifetime
//
// The grid snapshots positions at rebuild time and holds no reference to
// the bodies. Rebuild after positions change and before the next query.
package spatial

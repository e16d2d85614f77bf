// Package nbody implements the physics core of the gravity animation.
//
// The package keeps a small set of point masses and advances them with a
// position Störmer–Verlet scheme:
//
//   - [Body]: one point mass with current and previous position
//   - [DistanceMatrix]: pairwise separations, rebuilt every tick
//   - [Acceleration]: floored pairwise gravity on one body
//   - [VerletPosition]: explicit position update without velocity state
//   - [Step]: one synchronous tick over every body
//   - [Loop]: per-frame driver that defers outside mutations to tick boundaries
//
// # Example
//
//	s, _ := nbody.Initialize(3, []float64{1024, 2, 4})
//	for i := 0; i < 1000; i++ {
//	    if err := nbody.Step(s); err != nil {
//	        break
//	    }
//	}
//
// # Simultaneity
//
// A tick computes every body's candidate position from one snapshot of
// positions and only then commits them. Nothing in this package mutates a
// body's position while other bodies of the same tick are still being
// evaluated.
//
// # Thread Safety
//
// [State] is not safe for concurrent use. [Loop] serialises outside
// mutations through an inbox drained at tick boundaries; ticking itself must
// happen on a single goroutine.
package nbody

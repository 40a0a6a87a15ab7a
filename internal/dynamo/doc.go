// Package dynamo drives the collision simulation.
//
// A [Simulator] owns a fixed population of bodies, the scenario walls and
// the boundary walls synthesized from the arena extent. Each call to
// [Simulator.Step] runs one deterministic pass:
//
//   - integrate every body
//   - rebuild the spatial grid from the new positions
//   - resolve particle–particle overlaps
//   - resolve every body against scenario walls, then boundary walls
//
// # Example
//
//	cfg := dynamo.DefaultConfig()
//	s, err := dynamo.New(bodies, walls, cfg)
//	if err != nil {
//	    return err
//	}
//	for i := 0; i < 600; i++ {
//	    s.Advance()
//	}
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe and never start goroutines. For
// parallel runs use [Ensemble], which builds one Simulator per seed.
package dynamo

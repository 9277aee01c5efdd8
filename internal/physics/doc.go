// Package physics implements the bouncing sphere box.
//
// An [Engine] owns every sphere and advances them on a fixed timestep
// (1/60 s by default) regardless of the real frame duration:
//
//   - integrate position with the current velocity
//   - apply gravity along y and a framerate independent drag
//   - resolve the six walls of the [-1,1]^3 box with a look-ahead test
//
// The floor is the only inelastic wall. Impacts slower than
// [Params.RestSpeed] freeze the sphere; faster ones rebound with
// [Params.Restitution] of their speed.
//
//	eng := physics.New(rand.New(rand.NewSource(42)))
//	eng.AddSpheres(100)
//	for frame := 0; frame < 600; frame++ {
//	    eng.Step()
//	}
//	snap := eng.Snapshot()
package physics

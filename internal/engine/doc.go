// Package engine contains the turn state machine of the tycoon simulation.
//
// ARCHITECTURAL RULE: every transition takes a state.GameState and returns a
// new one. Nothing is mutated in place and every random draw comes from the
// random.Source the caller passes in, so a seeded game replays exactly.
// The Engine composes the subsystems and writes each transition to the
// audit ledger; the subsystems themselves are pure.
package engine

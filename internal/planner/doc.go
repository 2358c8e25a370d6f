// Package planner decides which license associations to drop.
//
// Given the dependencies that carry more than one license and the operator's
// selection, the planner produces a deterministic Resolution: one Outcome per
// dependency plus the RemovalPlan the engine applies to the inventory.
//
// Every multi-license dependency ends in exactly one of three outcomes:
//   - Resolved: a selection names one of its licenses; the others are planned for removal
//   - Unresolved: no selection exists; all licenses are kept
//   - Mismatch: the selection names a license the dependency does not carry; all
//     licenses are kept and the entry is reported so the selection file can be fixed
package planner

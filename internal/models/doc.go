// Package models defines the core domain entities for the settlement engine.
//
// # Entities
//
//   - Group: a set of members who share costs. The creator is always a member
//     and is the only one who may delete the group or remove members.
//   - Obligation: a single shared cost fronted by one payer, carrying the
//     per-participant shares and their payment state. An obligation whose
//     participants have all paid is terminal and is removed from the live
//     store by the settlement finalizer.
//   - Share / ShareMap: a participant's slice of an obligation. The amount and
//     the paid flag live in one record keyed by participant id, so the split
//     amounts and the paid flags can never drift apart structurally.
//
// # Design principles
//
//  1. Money is integer minor units (Money). Split sums are exact; there is no
//     floating-point drift to reconcile.
//  2. Mutations that must preserve entity invariants (marking a share paid,
//     removing a participant) are methods on the entity, not free-form map
//     edits by callers.
//  3. Entities reference each other by ID string, never by pointer.
//  4. Users are external: the engine only ever sees a stable opaque user id
//     supplied by the authentication layer.
package models

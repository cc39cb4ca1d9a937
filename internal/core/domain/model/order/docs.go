// Package order provides the Order aggregate of a group meal order and its
// lifecycle state machine.
//
// The package includes:
//   - Order: the aggregate root owning identity, metadata, version token and positions
//   - Position: a line item owned by exactly one order
//   - Status and Transition: the state machine NEW -> OPEN -> LOCKED -> ORDERED -> DELIVERED -> ARCHIVED
//   - StateTimeouts: how long an order may rest in a state before housekeeping acts
//
// Key business rules:
//   - the first position moves a NEW order to OPEN, removing the last one moves it back
//   - locking requires orderer, fetcher and money collector to be set
//   - REVOKED is reachable from OPEN, LOCKED and ORDERED
//   - only NEW, ARCHIVED and REVOKED orders may be deleted
//   - payment fields of a position stay editable through LOCKED, ORDERED and DELIVERED
//
// Every violated precondition is reported as an *errs.InvalidStateError that
// names the actual state and the accepted ones. The aggregate itself is pure:
// persistence, version replacement and notification happen in the use cases.
package order

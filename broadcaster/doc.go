// Package broadcaster implements the flooding protocol of a node: it sends the
// locally generated events, relays what it hears from other nodes and
// suppresses duplicates so that a flood wave dies out.
//
// # Core Components
//
// Broadcaster: owns the network endpoint and the SuppressionTable, and runs the
// protocol loop.
//
// SuppressionTable: per-peer record of the last sequence value accepted from
// that peer, indexed by peer id 0..N-1.
//
// Transport: interface for the broadcast medium (see package network).
//
// # Protocol
//
// A local event is sent as {origin: self, sequence: 0}. The table entry of the
// node itself is never read or written for local events.
//
// An inbound message is handled as follows:
//  1. origin == self: the node hears its own broadcast, discard it
//  2. a sequence is stored for origin and the inbound sequence is not smaller:
//     discard it as already relayed or stale
//  3. otherwise store the sequence, report origin to the analyzer, increment
//     the stored value and broadcast {origin: self, sequence: stored, payload}
//
// The origin field names the last hop, not the author of the event: every relay
// overwrites it with the relaying node's id. Suppression is therefore keyed by
// the neighbour a message came from and by its hop count.
//
// # Scheduling
//
// Run waits on the context, the generator channel and the inbound channel in a
// single select, so whichever is ready first is served and the loop never
// spins. The select also carries a timer set to the poll timeout. It is only
// the ceiling on one wait: when it fires nothing was ready, and the loop counts
// the idle wait in Stats.Idle and waits again. A small poll timeout therefore
// costs wakeups on an idle node but never changes which event is served.
package broadcaster

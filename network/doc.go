// Package network provides the broadcast medium a flooding node talks to.
// Every endpoint delivers what any peer sends to every peer, the sender
// included, and offers no ordering, reliability or authentication.
//
// # Core Components
//
// Endpoint: a UDP endpoint bound to the shared port on every interface. It
// sends each message to the configured broadcast address and decodes inbound
// datagrams on a dedicated goroutine.
//
// Medium: an in-memory broadcast domain. Endpoints attached to the same Medium
// receive every message broadcast by any of them. A full inbound queue drops
// the message, the same way a congested network would.
//
// # Inbound Delivery
//
// Both endpoint kinds expose received messages on a channel returned by
// Inbound, so the caller can wait on the network together with other channels
// in a single select. When the channel is closed the endpoint is finished and
// Err reports why: nil if it was closed locally, the transport failure
// otherwise.
//
// # Failure Model
//
// A datagram whose length differs from message.Size and any send or receive
// failure are fatal for the endpoint. There is no retry.
package network

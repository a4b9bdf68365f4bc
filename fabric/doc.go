// Package fabric is the message-passing substrate the distributed graph runs
// on: a fixed set of ranks inside one process, point-to-point calls between
// them and collective synchronisation.
//
// Every rank owns two goroutines:
//
//	driver   - runs the RankFunc given to Fabric.Run; may block on Call,
//	           Exec and collectives.
//	executor - drains the rank's mailbox and runs handlers and Exec closures
//	           one at a time, to completion.
//
// Because only the executor touches rank-local state, that state needs no
// locks. The price is that handlers must not block: a handler that needs
// data from another rank forwards the request there (Call.Forward) and the
// final reply travels straight back to the original caller.
//
// Payloads are byte slices and are copied at every hop, so no pointer into
// one rank's memory ever reaches another rank.
//
// Collectives (Barrier, Exchange, Gather, Broadcast, AllReduceInt64) share one
// counting barrier. All ranks must issue them in the same order. When any
// rank's driver returns an error the barrier breaks and every other rank
// gets ErrAborted from its next collective, so a local failure surfaces as a
// collective one.
//
// WithTransientFaults simulates lost requests and lost acknowledgments for
// chosen message kinds, to exercise retry and de-duplication paths.
package fabric

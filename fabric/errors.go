// SPDX-License-Identifier: MIT

package fabric

import "errors"

// Sentinel errors for fabric operations.
var (
	// ErrTransient reports a delivery failure before acknowledgment. The
	// request may or may not have been applied by the target; only
	// operations that de-duplicate on the receiving side may be retried.
	ErrTransient = errors.New("fabric: transient delivery failure")

	// ErrAborted reports that another rank failed and the collective was
	// broken. Every rank observes it at its next barrier.
	ErrAborted = errors.New("fabric: run aborted")

	// ErrNoHandler reports a call of a kind nobody registered on the target.
	ErrNoHandler = errors.New("fabric: no handler for message kind")

	// ErrRankOutOfRange reports a call addressed to a rank that does not exist.
	ErrRankOutOfRange = errors.New("fabric: rank out of range")

	// ErrStopped reports use of a fabric whose run has finished.
	ErrStopped = errors.New("fabric: stopped")

	// ErrCallTimeout reports a call that exceeded the configured timeout.
	// A hung call is fatal for the run.
	ErrCallTimeout = errors.New("fabric: call timed out")

	// ErrNoReply reports a handler that returned without replying,
	// failing or forwarding.
	ErrNoReply = errors.New("fabric: handler returned without reply")
)

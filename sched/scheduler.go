/* flatfw - flat exact-match NDN forwarder
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

// Package sched provides the event schedulers that drive the forwarder's
// processing delay: a discrete-event simulator and a wall-clock executor.
package sched

import "time"

// Scheduler runs callbacks at a future instant on a single timeline.
// Callbacks never run concurrently with each other.
type Scheduler interface {
	// Now returns the time elapsed since the scheduler started.
	Now() time.Duration
	// Schedule runs fn after delay. A non-positive delay runs fn at the current instant,
	// after every callback already scheduled for that instant.
	Schedule(delay time.Duration, fn func())
}

/* flatfw - flat exact-match NDN forwarder
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package defn

type FwCounters struct {
	NInInterests      uint64
	NInContentObjects uint64
	NForwarded        uint64
	NOverridden       uint64
	NNoRoute          uint64
	NLoopDrops        uint64
	NStaleDrops       uint64
	NUnsupported      uint64
}

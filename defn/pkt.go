/* flatfw - flat exact-match NDN forwarder
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package defn

import (
	"fmt"

	enc "github.com/named-data/ndnd/std/encoding"
)

// PacketType is the packet type carried in the fixed header.
type PacketType uint8

const (
	PacketTypeInterest       PacketType = 0
	PacketTypeContentObject  PacketType = 1
	PacketTypeInterestReturn PacketType = 2
)

func (t PacketType) String() string {
	switch t {
	case PacketTypeInterest:
		return "Interest"
	case PacketTypeContentObject:
		return "ContentObject"
	case PacketTypeInterestReturn:
		return "InterestReturn"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(t))
	}
}

// ParsePacketType parses the lower-case packet type names used in traces.
func ParsePacketType(s string) (PacketType, error) {
	switch s {
	case "interest":
		return PacketTypeInterest, nil
	case "object", "content-object", "data":
		return PacketTypeContentObject, nil
	case "return", "interest-return":
		return PacketTypeInterestReturn, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPacketType, s)
}

// Packet is a decoded packet handed to the forwarder.
// Name is shared read-only with the caller and must not be mutated.
type Packet struct {
	Type PacketType
	Name enc.Name
	// Length is the packet length field of the fixed header, in bytes.
	Length uint16
}

// String formats the packet for logs.
func (p *Packet) String() string {
	return fmt.Sprintf("%s(%s, %dB)", p.Type, p.Name, p.Length)
}

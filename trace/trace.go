/* flatfw - flat exact-match NDN forwarder
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

// Package trace replays a scripted sequence of route changes and packet
// arrivals through a forwarder, on a simulated clock or in wall-clock time.
package trace

import (
	"fmt"
	"time"

	"github.com/named-data/flatfw/core"
	"github.com/named-data/flatfw/defn"
	enc "github.com/named-data/ndnd/std/encoding"
)

// Event actions.
const (
	ActionInput       = "input"
	ActionOutput      = "output"
	ActionAddRoute    = "add_route"
	ActionRemoveRoute = "remove_route"
	ActionTeardown    = "teardown"
)

// Trace is the content of a trace file.
type Trace struct {
	Connections []Conn  `json:"connections"`
	Routes      []Route `json:"routes"`
	Events      []Event `json:"events"`
}

type Conn struct {
	Id  uint64 `json:"id"`
	URI string `json:"uri"`
}

type Route struct {
	Name string `json:"name"`
	Conn uint64 `json:"conn"`
}

// Event is one timed step of the trace. Action defaults to input.
type Event struct {
	At     time.Duration `json:"at"`
	Action string        `json:"action"`

	// packet events
	Type    string  `json:"type"`
	Name    string  `json:"name"`
	Length  uint16  `json:"length"`
	Ingress uint64  `json:"ingress"`
	Egress  *uint64 `json:"egress"`

	// route and teardown events
	Conn uint64 `json:"conn"`
}

// Read loads a trace file.
func Read(file string) (*Trace, error) {
	t := &Trace{}
	if err := core.ReadYaml(t, file); err != nil {
		return nil, err
	}
	return t, nil
}

// step is a validated event ready to be scheduled.
type step struct {
	Event
	name    enc.Name
	pktType defn.PacketType
}

func (t *Trace) compile() ([]enc.Name, []step, error) {
	routes := make([]enc.Name, len(t.Routes))
	for i, r := range t.Routes {
		name, err := enc.NameFromStr(r.Name)
		if err != nil {
			return nil, nil, fmt.Errorf("route %d: invalid name %q: %w", i, r.Name, err)
		}
		routes[i] = name
	}

	steps := make([]step, len(t.Events))
	for i, e := range t.Events {
		s := step{Event: e}
		if s.Action == "" {
			s.Action = ActionInput
		}
		if s.At < 0 {
			return nil, nil, fmt.Errorf("event %d: negative time %s", i, s.At)
		}

		switch s.Action {
		case ActionInput, ActionOutput:
			pktType, err := defn.ParsePacketType(s.Type)
			if err != nil {
				return nil, nil, fmt.Errorf("event %d: %w", i, err)
			}
			s.pktType = pktType
			fallthrough
		case ActionAddRoute, ActionRemoveRoute:
			name, err := enc.NameFromStr(s.Name)
			if err != nil {
				return nil, nil, fmt.Errorf("event %d: invalid name %q: %w", i, s.Name, err)
			}
			s.name = name
		case ActionTeardown:
		default:
			return nil, nil, fmt.Errorf("event %d: unknown action %q", i, s.Action)
		}
		if s.Action == ActionInput && s.Egress != nil {
			return nil, nil, fmt.Errorf("event %d: egress is only allowed on output events", i)
		}
		steps[i] = s
	}
	return routes, steps, nil
}

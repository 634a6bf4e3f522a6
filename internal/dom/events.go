package dom

import (
	"fmt"

	"golang.org/x/net/html"
)

// EventKind names a UI event.
type EventKind string

const (
	MouseEnter EventKind = "mouseenter"
	MouseLeave EventKind = "mouseleave"
	Click      EventKind = "click"
)

// Valid reports whether k is one of the supported event kinds.
func (k EventKind) Valid() bool {
	switch k {
	case MouseEnter, MouseLeave, Click:
		return true
	}
	return false
}

// Event is delivered to the listeners registered on Target for Kind.
// Events do not bubble.
type Event struct {
	Kind   EventKind
	Target *html.Node
}

// Handler reacts to a dispatched event.
type Handler func(Event)

// ListenerID identifies a registered listener for removal.
type ListenerID uint64

type listener struct {
	target  *html.Node
	kind    EventKind
	handler Handler
}

// AddEventListener registers handler for kind events on target.
func (d *Document) AddEventListener(target *html.Node, kind EventKind, handler Handler) ListenerID {
	d.nextListener++
	id := d.nextListener
	d.listeners[id] = &listener{target: target, kind: kind, handler: handler}
	d.byTarget[target] = append(d.byTarget[target], id)
	return id
}

// RemoveEventListener unregisters a listener. Unknown ids are ignored.
func (d *Document) RemoveEventListener(id ListenerID) {
	l, ok := d.listeners[id]
	if !ok {
		return
	}
	delete(d.listeners, id)

	ids := d.byTarget[l.target]
	for i, other := range ids {
		if other == id {
			ids = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(d.byTarget, l.target)
	} else {
		d.byTarget[l.target] = ids
	}
}

// ListenerCount returns the number of registered listeners.
func (d *Document) ListenerCount() int {
	return len(d.listeners)
}

// Dispatch runs every listener registered on ev.Target for ev.Kind, in
// registration order, and returns how many ran. Each handler runs to
// completion before the next starts. A listener added by a handler first
// runs on the next dispatch; one removed by a handler does not run.
func (d *Document) Dispatch(ev Event) int {
	ids := append([]ListenerID(nil), d.byTarget[ev.Target]...)
	ran := 0
	for _, id := range ids {
		l, ok := d.listeners[id]
		if !ok || l.kind != ev.Kind {
			continue
		}
		l.handler(ev)
		ran++
	}
	return ran
}

// DispatchTo resolves an element handle and dispatches kind on it.
func (d *Document) DispatchTo(elementID string, kind EventKind) (int, error) {
	if !kind.Valid() {
		return 0, fmt.Errorf("unsupported event kind %q", kind)
	}
	target, err := d.ElementByID(elementID)
	if err != nil {
		return 0, err
	}
	return d.Dispatch(Event{Kind: kind, Target: target}), nil
}

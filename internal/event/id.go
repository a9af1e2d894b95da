package event

import (
	"strconv"
	"sync"
)

// ID identifies an event route on a Dispatcher.
//
// IDs are not a closed enumeration. The framework reserves the lifecycle
// IDs below; applications and subsystems allocate further IDs with Register.
type ID uint32

// Reserved lifecycle IDs dispatched by the program loop.
const (
	// Invalid is the zero ID. It is never dispatched by the framework.
	Invalid ID = 0

	// Update is dispatched once per loop iteration.
	Update ID = 1

	// Render is dispatched once per rendered frame.
	Render ID = 2

	// Exit is dispatched exactly once after the loop stops.
	Exit ID = 3
)

// firstUserID is the first ID handed out by Register.
// Values below it are reserved for the framework.
const firstUserID ID = 100

// idTable maps names to allocated IDs and back.
type idTable struct {
	mu     sync.RWMutex
	byName map[string]ID
	names  map[ID]string
	next   ID
}

var ids = newIDTable()

func newIDTable() *idTable {
	t := &idTable{
		byName: make(map[string]ID),
		names:  make(map[ID]string),
		next:   firstUserID,
	}
	t.names[Update] = "Update"
	t.names[Render] = "Render"
	t.names[Exit] = "Exit"
	for id, name := range t.names {
		t.byName[name] = id
	}
	return t
}

func (t *idTable) register(name string) ID {
	t.mu.Lock()
	defer t.mu.Unlock()

	if id, ok := t.byName[name]; ok {
		return id
	}
	id := t.next
	t.next++
	t.byName[name] = id
	t.names[id] = name
	return id
}

func (t *idTable) lookup(name string) (ID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.byName[name]
	return id, ok
}

func (t *idTable) name(id ID) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	name, ok := t.names[id]
	return name, ok
}

func (t *idTable) all() map[string]ID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]ID, len(t.byName))
	for name, id := range t.byName {
		out[name] = id
	}
	return out
}

// Register allocates an ID for name. Registering the same name twice
// returns the same ID, so packages can safely register in init.
// An empty name allocates nothing and returns Invalid.
func Register(name string) ID {
	if name == "" {
		return Invalid
	}
	return ids.register(name)
}

// Lookup returns the ID registered under name.
func Lookup(name string) (ID, bool) {
	return ids.lookup(name)
}

// Names returns a copy of every registered name and its ID,
// including the reserved lifecycle IDs.
func Names() map[string]ID {
	return ids.all()
}

// String returns the registered name of the ID.
func (id ID) String() string {
	if name, ok := ids.name(id); ok {
		return name
	}
	return "event(" + strconv.FormatUint(uint64(id), 10) + ")"
}

// Reserved reports whether the ID belongs to the framework range.
func (id ID) Reserved() bool {
	return id < firstUserID
}

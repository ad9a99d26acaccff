package property

// Kind is the dense discriminant of property within its namespace.
type Kind interface {
	~uint8
}

// Property is the tagged value stored in the table. Its kind selects the column.
type Property[K Kind] interface {
	Kind() K
}

// Config stores table configuration.
type Config[K Kind] struct {
	// NumOfKinds is the number of kinds declared in the namespace.
	NumOfKinds K

	// Capacity is the number of entity rows allocated upfront.
	Capacity uint32
}

// New creates new property table.
func New[K Kind, P Property[K]](config Config[K]) *Table[K, P] {
	numOfKinds := uint64(config.NumOfKinds)
	return &Table[K, P]{
		numOfKinds: numOfKinds,
		slots:      make([]slot[P], uint64(config.Capacity)*numOfKinds),
	}
}

type slot[P any] struct {
	Set   bool
	Value P
}

// Table stores properties in flat array indexed by [entity][kind].
type Table[K Kind, P Property[K]] struct {
	numOfKinds uint64
	slots      []slot[P]
}

// Set stores the property, replacing previous value of the same kind.
func (t *Table[K, P]) Set(index uint32, p P) {
	s := t.slot(index, p.Kind(), true)
	s.Set = true
	s.Value = p
}

// Get returns the property of the kind if it is set.
func (t *Table[K, P]) Get(index uint32, kind K) (P, bool) {
	s := t.slot(index, kind, false)
	if s == nil || !s.Set {
		var p P
		return p, false
	}
	return s.Value, true
}

// Clear unsets the property of the kind.
func (t *Table[K, P]) Clear(index uint32, kind K) {
	if s := t.slot(index, kind, false); s != nil {
		*s = slot[P]{}
	}
}

// Reset unsets all the properties of the entity.
func (t *Table[K, P]) Reset(index uint32) {
	start := uint64(index) * t.numOfKinds
	if start >= uint64(len(t.slots)) {
		return
	}
	clear(t.slots[start : start+t.numOfKinds])
}

func (t *Table[K, P]) slot(index uint32, kind K, grow bool) *slot[P] {
	if uint64(kind) >= t.numOfKinds {
		panic("property kind out of range")
	}

	i := uint64(index)*t.numOfKinds + uint64(kind)
	if i >= uint64(len(t.slots)) {
		if !grow {
			return nil
		}
		t.grow(index)
	}
	return &t.slots[i]
}

func (t *Table[K, P]) grow(index uint32) {
	rows := uint64(len(t.slots)) / t.numOfKinds
	for rows <= uint64(index) {
		rows = 2*rows + 1
	}
	slots := make([]slot[P], rows*t.numOfKinds)
	copy(slots, t.slots)
	t.slots = slots
}

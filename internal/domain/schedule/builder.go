package schedule

import (
	"fmt"
	"sort"
)

// Entry is one medicine's administration plan within a session: the
// sorted set of hours (0-23) plus free-text instructions. An entry
// never exists with an empty hour set.
type Entry struct {
	MedicineID   string `json:"medicineId"`
	Hours        []int  `json:"hours"`
	Instructions string `json:"instructions,omitempty"`
}

// Builder accumulates the per-medicine hour selections for a
// treatment-planning session. Entries keep their creation order, which
// callers may use as an explicit row order when rendering.
type Builder struct {
	entries map[string]*Entry
	order   []string
}

func NewBuilder() *Builder {
	return &Builder{entries: make(map[string]*Entry)}
}

// ToggleHour flips the given hour for a medicine. The first toggled
// hour creates the entry; removing the last one deletes it.
func (b *Builder) ToggleHour(medicineID string, hour int) error {
	if hour < 0 || hour > 23 {
		return fmt.Errorf("hour out of range: %d", hour)
	}

	e, ok := b.entries[medicineID]
	if !ok {
		b.entries[medicineID] = &Entry{MedicineID: medicineID, Hours: []int{hour}}
		b.order = append(b.order, medicineID)
		return nil
	}

	for i, h := range e.Hours {
		if h == hour {
			e.Hours = append(e.Hours[:i], e.Hours[i+1:]...)
			if len(e.Hours) == 0 {
				b.remove(medicineID)
			}
			return nil
		}
	}

	e.Hours = append(e.Hours, hour)
	sort.Ints(e.Hours)
	return nil
}

// AddHour adds the hour if it is not already selected. Unlike
// ToggleHour it is idempotent, which bulk loaders rely on.
func (b *Builder) AddHour(medicineID string, hour int) error {
	if e, ok := b.entries[medicineID]; ok {
		for _, h := range e.Hours {
			if h == hour {
				return nil
			}
		}
	}
	return b.ToggleHour(medicineID, hour)
}

// SetInstructions attaches free text to an existing entry. Without at
// least one selected hour there is no entry to attach to, so this is a
// no-op.
func (b *Builder) SetInstructions(medicineID, text string) {
	if e, ok := b.entries[medicineID]; ok {
		e.Instructions = text
	}
}

// Entry returns the entry for a medicine, or nil.
func (b *Builder) Entry(medicineID string) *Entry {
	return b.entries[medicineID]
}

// Entries returns all entries in session order.
func (b *Builder) Entries() []Entry {
	out := make([]Entry, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, *b.entries[id])
	}
	return out
}

// Len reports the number of medicines with at least one hour.
func (b *Builder) Len() int {
	return len(b.entries)
}

func (b *Builder) remove(medicineID string) {
	delete(b.entries, medicineID)
	for i, id := range b.order {
		if id == medicineID {
			b.order = append(b.order[:i], b.order[i+1:]...)
			return
		}
	}
}

package outcome

// Outcomes is an ordered collection of outcomes correlated by an item key,
// such as the fingerprint of each key in an uploaded KEYS file. Every input
// item yields exactly one entry; appending a second outcome for the same key
// overwrites in place so the invariant of one outcome per item holds.
type Outcomes[T any] struct {
	keys  []string
	byKey map[string]Outcome[T]
}

// NewOutcomes returns an empty aggregate.
func NewOutcomes[T any]() *Outcomes[T] {
	return &Outcomes[T]{byKey: make(map[string]Outcome[T])}
}

// Append records the outcome for the given item key, preserving insertion
// order for new keys.
func (a *Outcomes[T]) Append(key string, o Outcome[T]) {
	if _, exists := a.byKey[key]; !exists {
		a.keys = append(a.keys, key)
	}
	a.byKey[key] = o
}

// Len returns the number of items in the aggregate.
func (a *Outcomes[T]) Len() int {
	return len(a.keys)
}

// Get returns the outcome recorded for key.
func (a *Outcomes[T]) Get(key string) (Outcome[T], bool) {
	o, ok := a.byKey[key]
	return o, ok
}

// Keys returns the item keys in insertion order.
func (a *Outcomes[T]) Keys() []string {
	out := make([]string, len(a.keys))
	copy(out, a.keys)
	return out
}

// ResultCount returns the number of successful outcomes, warnings included.
func (a *Outcomes[T]) ResultCount() int {
	count := 0
	for _, key := range a.keys {
		if a.byKey[key].OK() {
			count++
		}
	}
	return count
}

// ErrorCount returns the number of failed outcomes.
func (a *Outcomes[T]) ErrorCount() int {
	return len(a.keys) - a.ResultCount()
}

// WarningCount returns the number of successes that carry a warning.
func (a *Outcomes[T]) WarningCount() int {
	count := 0
	for _, key := range a.keys {
		if a.byKey[key].Warned() {
			count++
		}
	}
	return count
}

// Results projects the values of all successful outcomes in insertion order.
func (a *Outcomes[T]) Results() []T {
	var out []T
	for _, key := range a.keys {
		if o := a.byKey[key]; o.OK() {
			out = append(out, o.value)
		}
	}
	return out
}

// Causes projects the causes of all failed outcomes in insertion order.
func (a *Outcomes[T]) Causes() []error {
	var out []error
	for _, key := range a.keys {
		if o := a.byKey[key]; !o.OK() {
			out = append(out, o.cause)
		}
	}
	return out
}

// MapResults applies fn to the value of every successful outcome, leaving
// failures untouched. Warnings are preserved across the mapping.
func (a *Outcomes[T]) MapResults(fn func(T) T) {
	for _, key := range a.keys {
		o := a.byKey[key]
		if !o.OK() {
			continue
		}
		o.value = fn(o.value)
		a.byKey[key] = o
	}
}

// Each calls fn for every entry in insertion order.
func (a *Outcomes[T]) Each(fn func(key string, o Outcome[T])) {
	for _, key := range a.keys {
		fn(key, a.byKey[key])
	}
}

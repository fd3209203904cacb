package formstate

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-quillfield/pkg/validation"
)

// Listener observes value changes.
type Listener func(name, value string)

// State tracks field values and server-provided errors keyed by field name.
// It satisfies the host form-state contract fields bind to and is safe for
// concurrent use.
type State struct {
	mu        sync.RWMutex
	values    map[string]any
	errors    map[string][]string
	listeners map[int]Listener
	nextID    int
}

// New seeds the state with prefilled values and errors.
func New(prefill map[string]any, errs map[string][]string) *State {
	s := &State{
		values:    make(map[string]any, len(prefill)),
		errors:    make(map[string][]string, len(errs)),
		listeners: make(map[int]Listener),
	}
	for name, value := range prefill {
		s.values[name] = value
	}
	for name, messages := range errs {
		if clean := normalizeMessages(messages); len(clean) > 0 {
			s.errors[name] = clean
		}
	}
	return s
}

// FieldValue returns the value stored under name as a string. Missing values
// yield "".
func (s *State) FieldValue(name string) string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	value := s.values[name]
	s.mu.RUnlock()
	return stringify(value)
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// FieldError returns the first error recorded for name.
func (s *State) FieldError(name string) string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if messages := s.errors[name]; len(messages) > 0 {
		return messages[0]
	}
	return ""
}

// ErrorsFor returns a copy of every error recorded for name.
func (s *State) ErrorsFor(name string) []string {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.errors[name])
}

// OnChange stores value under name, clears the errors recorded for it and
// notifies listeners.
func (s *State) OnChange(name, value string) {
	s.Set(name, value)
}

// Set is OnChange for typed values such as numbers and booleans. Listeners
// receive the value as FieldValue would report it.
func (s *State) Set(name string, value any) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.values[name] = value
	delete(s.errors, name)
	listeners := make([]Listener, 0, len(s.listeners))
	for _, id := range slices.Sorted(maps.Keys(s.listeners)) {
		listeners = append(listeners, s.listeners[id])
	}
	s.mu.Unlock()

	text := stringify(value)
	for _, listener := range listeners {
		listener(name, text)
	}
}

// Subscribe registers fn for value changes. The returned function removes it.
func (s *State) Subscribe(fn Listener) func() {
	if s == nil || fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Values returns a copy of the stored values.
func (s *State) Values() map[string]any {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.values)
}

// Errors returns a copy of the stored errors.
func (s *State) Errors() map[string][]string {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]string, len(s.errors))
	for name, messages := range s.errors {
		out[name] = slices.Clone(messages)
	}
	return out
}

// SetErrors replaces the recorded errors.
func (s *State) SetErrors(errs map[string][]string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = make(map[string][]string, len(errs))
	for name, messages := range errs {
		if clean := normalizeMessages(messages); len(clean) > 0 {
			s.errors[name] = clean
		}
	}
}

// ApplyResult replaces the recorded errors with the field issues of result.
// Issues that are not addressed to a field are returned as form-level
// messages.
func (s *State) ApplyResult(result validation.Result) []string {
	byField := result.FieldErrors()
	form := normalizeMessages(byField[""])
	delete(byField, "")
	s.SetErrors(byField)
	return form
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

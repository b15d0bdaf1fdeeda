package page

import (
	"maps"
	"sync"

	"github.com/MrSnakeDoc/wayfare/internal/widget"
)

// Slot is an in-memory widget.Container: the element a widget is mounted in.
type Slot struct {
	mu       sync.Mutex
	attrs    map[string]string
	children []widget.Element
}

func NewSlot(attrs map[string]string) *Slot {
	s := &Slot{attrs: make(map[string]string, len(attrs))}
	maps.Copy(s.attrs, attrs)
	return s
}

func (s *Slot) HasChild(tag, attr, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, el := range s.children {
		if el.Tag == tag && el.Attrs[attr] == value {
			return true
		}
	}
	return false
}

func (s *Slot) AppendChild(el widget.Element) {
	s.mu.Lock()
	s.children = append(s.children, el)
	s.mu.Unlock()
}

func (s *Slot) RemoveChild(tag, attr, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]widget.Element, 0, len(s.children))
	for _, el := range s.children {
		if el.Tag == tag && el.Attrs[attr] == value {
			continue
		}
		kept = append(kept, el)
	}
	s.children = kept
}

func (s *Slot) ReplaceChildren(els ...widget.Element) {
	s.mu.Lock()
	s.children = append([]widget.Element(nil), els...)
	s.mu.Unlock()
}

func (s *Slot) SetAttributes(attrs map[string]string) {
	s.mu.Lock()
	maps.Copy(s.attrs, attrs)
	s.mu.Unlock()
}

func (s *Slot) Attributes() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.attrs)
}

func (s *Slot) Children() []widget.Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]widget.Element(nil), s.children...)
}

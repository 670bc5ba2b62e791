package tag

import (
	"encoding/json"
	"iter"
	"maps"
	"slices"
	"strings"
)

// TagSet is an immutable, unordered collection of unique tags.
//
// Construction from a list with repeated identifiers keeps the last
// occurrence. Iteration helpers always return tags sorted by identifier
// so output is deterministic.
type TagSet struct {
	tags map[string]Tag
}

// NewSet builds a set from tags. Later duplicates replace earlier ones.
func NewSet(tags ...Tag) *TagSet {
	m := make(map[string]Tag, len(tags))
	for _, t := range tags {
		m[t.id] = t
	}
	return &TagSet{tags: m}
}

// FromIDs builds a set of provenance-free tags.
func FromIDs(identifiers ...string) *TagSet {
	tags := make([]Tag, len(identifiers))
	for i, id := range identifiers {
		tags[i] = New(id)
	}
	return NewSet(tags...)
}

// Empty returns a new empty set.
func Empty() *TagSet {
	return &TagSet{tags: map[string]Tag{}}
}

// Len returns the number of tags in the set.
func (s *TagSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.tags)
}

// Tags returns the members sorted by identifier.
func (s *TagSet) Tags() []Tag {
	ids := s.IDs()
	out := make([]Tag, len(ids))
	for i, id := range ids {
		out[i] = s.tags[id]
	}
	return out
}

// IDs returns the member identifiers, sorted.
func (s *TagSet) IDs() []string {
	if s == nil {
		return []string{}
	}
	return slices.Sorted(maps.Keys(s.tags))
}

// Contains reports whether a tag with t's identifier is present.
func (s *TagSet) Contains(t Tag) bool {
	if s == nil {
		return false
	}
	_, ok := s.tags[t.id]
	return ok
}

// TryGet returns the stored instance equal to t, which may carry
// provenance t lacks.
func (s *TagSet) TryGet(t Tag) (Tag, bool) {
	if s == nil {
		return Tag{}, false
	}
	stored, ok := s.tags[t.id]
	return stored, ok
}

// Add returns a set that also contains t. If an equal tag is already
// present the receiver is returned unchanged.
func (s *TagSet) Add(t Tag) *TagSet {
	if s.Contains(t) {
		return s
	}
	m := s.clone(1)
	m[t.id] = t
	return &TagSet{tags: m}
}

// Remove returns a set without t.
func (s *TagSet) Remove(t Tag) *TagSet {
	m := s.clone(0)
	delete(m, t.id)
	return &TagSet{tags: m}
}

// AddOrReplace returns a set containing t, replacing any equal tag.
func (s *TagSet) AddOrReplace(t Tag) *TagSet {
	m := s.clone(1)
	m[t.id] = t
	return &TagSet{tags: m}
}

// ReplaceIfExists replaces the stored tag equal to t. When no equal tag
// is present the receiver itself is returned, so callers can detect the
// no-op by pointer comparison.
func (s *TagSet) ReplaceIfExists(t Tag) *TagSet {
	if !s.Contains(t) {
		return s
	}
	return s.AddOrReplace(t)
}

// Union returns the tags present in either set. Instances already in the
// receiver win over equal instances in other.
func (s *TagSet) Union(other *TagSet) *TagSet {
	m := s.clone(other.Len())
	if other != nil {
		for id, t := range other.tags {
			if _, ok := m[id]; !ok {
				m[id] = t
			}
		}
	}
	return &TagSet{tags: m}
}

// Except returns the receiver's tags that are not in other.
func (s *TagSet) Except(other *TagSet) *TagSet {
	m := s.clone(0)
	if other != nil {
		for id := range other.tags {
			delete(m, id)
		}
	}
	return &TagSet{tags: m}
}

// Intersect returns the receiver's tags that are also in other.
func (s *TagSet) Intersect(other *TagSet) *TagSet {
	m := make(map[string]Tag)
	if s != nil {
		for id, t := range s.tags {
			if other.Contains(t) {
				m[id] = t
			}
		}
	}
	return &TagSet{tags: m}
}

// IsSubsetOf reports whether every tag of s is in other.
func (s *TagSet) IsSubsetOf(other *TagSet) bool {
	if s.Len() > other.Len() {
		return false
	}
	if s == nil {
		return true
	}
	for id := range s.tags {
		if _, ok := other.tags[id]; !ok {
			return false
		}
	}
	return true
}

// IsSupersetOf reports whether every tag of other is in s.
func (s *TagSet) IsSupersetOf(other *TagSet) bool {
	return other.IsSubsetOf(s)
}

// Equal reports set equality by identifier.
func (s *TagSet) Equal(other *TagSet) bool {
	return s.Len() == other.Len() && s.IsSubsetOf(other)
}

// IsFullyCollapsed reports whether every member is a master tag.
// The empty set is fully collapsed.
func (s *TagSet) IsFullyCollapsed() bool {
	if s == nil {
		return true
	}
	for _, t := range s.tags {
		if !t.IsMaster() {
			return false
		}
	}
	return true
}

// AllCombinations yields every subset of s (the power set). The empty set
// is only yielded when includeEmpty is true.
func (s *TagSet) AllCombinations(includeEmpty bool) iter.Seq[*TagSet] {
	members := s.Tags()
	return func(yield func(*TagSet) bool) {
		var walk func(i int, acc []Tag) bool
		walk = func(i int, acc []Tag) bool {
			if i == len(members) {
				if len(acc) == 0 && !includeEmpty {
					return true
				}
				return yield(NewSet(acc...))
			}
			if !walk(i+1, acc) {
				return false
			}
			return walk(i+1, append(acc, members[i]))
		}
		walk(0, make([]Tag, 0, len(members)))
	}
}

// String renders the set as {'a', 'b'} in identifier order.
func (s *TagSet) String() string {
	ids := s.IDs()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = "'" + id + "'"
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// MarshalJSON encodes the set as a sorted list of tags.
func (s *TagSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Tags())
}

func (s *TagSet) clone(extra int) map[string]Tag {
	m := make(map[string]Tag, s.Len()+extra)
	if s != nil {
		maps.Copy(m, s.tags)
	}
	return m
}

package esexpr

import (
	"slices"
	"strings"
)

// Kind discriminates the expression variants.
type Kind uint8

const (
	KindConstructor Kind = iota
	KindBool
	KindInt
	KindStr
	KindBinary
	KindFloat32
	KindFloat64
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindConstructor:
		return "constructor"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindStr:
		return "str"
	case KindBinary:
		return "binary"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindNull:
		return "null"
	default:
		return "invalid"
	}
}

// Tag is the discriminator of an expression variant. Constructor tags
// carry the constructor name; all other kinds leave Name empty.
type Tag struct {
	Kind Kind
	Name string
}

// ConstructorTag builds the tag for a constructor with the given name.
func ConstructorTag(name string) Tag {
	return Tag{Kind: KindConstructor, Name: name}
}

// IsConstructor reports whether the tag is a constructor tag with the
// given name.
func (t Tag) IsConstructor(name string) bool {
	return t.Kind == KindConstructor && t.Name == name
}

func (t Tag) String() string {
	if t.Kind == KindConstructor {
		return "constructor " + t.Name
	}
	return t.Kind.String()
}

// TagSet is an ordered, deduplicated set of tags. The zero value is an
// empty set.
type TagSet struct {
	tags []Tag
}

// NewTagSet builds a set from the given tags, dropping duplicates but
// keeping first-seen order.
func NewTagSet(tags ...Tag) TagSet {
	var s TagSet
	for _, t := range tags {
		s.add(t)
	}
	return s
}

func (s *TagSet) add(t Tag) {
	if !s.Contains(t) {
		s.tags = append(s.tags, t)
	}
}

// Contains reports set membership.
func (s TagSet) Contains(t Tag) bool {
	return slices.Contains(s.tags, t)
}

// Union returns a set holding the tags of both sets.
func (s TagSet) Union(other TagSet) TagSet {
	out := NewTagSet(s.tags...)
	for _, t := range other.tags {
		out.add(t)
	}
	return out
}

// Len returns the number of tags in the set.
func (s TagSet) Len() int { return len(s.tags) }

// Tags returns a copy of the set contents in insertion order.
func (s TagSet) Tags() []Tag { return slices.Clone(s.tags) }

// Equal reports whether both sets hold the same tags, ignoring order.
func (s TagSet) Equal(other TagSet) bool {
	if len(s.tags) != len(other.tags) {
		return false
	}
	for _, t := range s.tags {
		if !other.Contains(t) {
			return false
		}
	}
	return true
}

// String renders the set sorted by name so error messages are stable.
func (s TagSet) String() string {
	names := make([]string, len(s.tags))
	for i, t := range s.tags {
		names[i] = t.String()
	}
	slices.Sort(names)
	return "{" + strings.Join(names, ", ") + "}"
}

package core

import (
	"sort"
	"strings"
)

var keyEscaper = strings.NewReplacer(`\`, `\\`, ",", `\,`, "|", `\|`)

// Selection holds the user-chosen values for the three filter columns.
// An empty set matches nothing.
type Selection struct {
	Platforms  Set
	PostTypes  Set
	Sentiments Set
}

// Set is a set of category labels.
type Set map[string]struct{}

// NewSet builds a Set from values; duplicates collapse.
func NewSet(values ...string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Has reports whether v is in the set.
func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// NewSelection builds a Selection from value lists; nil or empty lists give
// empty sets that match nothing.
func NewSelection(platforms, postTypes, sentiments []string) Selection {
	return Selection{
		Platforms:  NewSet(platforms...),
		PostTypes:  NewSet(postTypes...),
		Sentiments: NewSet(sentiments...),
	}
}

// Match reports whether p satisfies all three membership predicates.
func (s Selection) Match(p Post) bool {
	return s.Platforms.Has(p.Platform) && s.PostTypes.Has(p.PostType) && s.Sentiments.Has(p.Sentiment)
}

// Key returns a canonical string for the selection, usable as a cache key.
// Equal selections yield equal keys regardless of insertion order.
func (s Selection) Key() string {
	var b strings.Builder
	for i, set := range []Set{s.Platforms, s.PostTypes, s.Sentiments} {
		if i > 0 {
			b.WriteByte('|')
		}
		for j, v := range set.Sorted() {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(keyEscaper.Replace(v))
		}
	}
	return b.String()
}

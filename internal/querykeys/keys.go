// Package querykeys is the single source of truth for query cache keys.
//
// Every cached read in the API is stored under one of these keys and every write
// invalidates the keys it made stale, so producers and consumers of cached data agree on key
// identity without repeating string literals.
package querykeys

import "strings"

const (
	EstimatesDomain = "estimates"
	StagesDomain    = "stages"
	UserDomain      = "user"

	profileSegment = "profile"

	// Separator joins segments into the storage form of a key.
	Separator = ":"
)

// Key is an ordered sequence of segments. The first segment is always the
// owning domain's name.
type Key []string

type estimatesKeys struct{}

// All identifies every estimate.
func (estimatesKeys) All() Key {
	return Key{EstimatesDomain}
}

// Detail identifies a single estimate. The id is embedded as given.
func (estimatesKeys) Detail(id string) Key {
	return Key{EstimatesDomain, id}
}

type stagesKeys struct{}

func (stagesKeys) All() Key {
	return Key{StagesDomain}
}

// ByProject identifies the stages of one project.
func (stagesKeys) ByProject(projectID string) Key {
	return Key{StagesDomain, projectID}
}

type userKeys struct{}

func (userKeys) Profile() Key {
	return Key{UserDomain, profileSegment}
}

// The registry. These values carry no state; each call builds a new Key.
var (
	Estimates estimatesKeys
	Stages    stagesKeys
	User      userKeys
)

func (k Key) Domain() string {
	if len(k) == 0 {
		return ""
	}
	return k[0]
}

func (k Key) Clone() Key {
	if k == nil {
		return nil
	}
	out := make(Key, len(k))
	copy(out, k)
	return out
}

func (k Key) Equal(other Key) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if k[i] != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is a leading subsequence of k. A key is a
// prefix of itself, and the empty key is a prefix of every key.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	return prefix.Equal(k[:len(prefix)])
}

// With returns a new key with extra segments appended, used to scope a shared
// key to one owner in storage (e.g. the profile of a specific user).
func (k Key) With(segments ...string) Key {
	out := make(Key, 0, len(k)+len(segments))
	out = append(out, k...)
	return append(out, segments...)
}

func (k Key) String() string {
	return strings.Join(k, Separator)
}

// Pattern returns a glob matching the storage form of every key strictly below
// k. It does not match k itself, and it never matches a sibling whose segment
// only starts with the same text ("stages" vs "stages_archive").
func (k Key) Pattern() string {
	if len(k) == 0 {
		return "*"
	}

	escaped := make([]string, len(k))
	for i, segment := range k {
		escaped[i] = globEscaper.Replace(segment)
	}
	return strings.Join(escaped, Separator) + Separator + "*"
}

var globEscaper = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	`?`, `\?`,
	`[`, `\[`,
	`]`, `\]`,
)

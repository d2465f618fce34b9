package querykeys

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownEntry = errors.New("unknown query key entry")
	ErrArity        = errors.New("wrong number of query key arguments")
)

// Entry describes one registry entry for clients that build keys themselves.
type Entry struct {
	Domain string   `json:"domain"`
	Name   string   `json:"name"`
	Params []string `json:"params"`
	// Example is the key produced when each param is replaced by its name.
	Example Key `json:"example"`

	build func(args []string) Key
}

var entries = []Entry{
	{
		Domain: EstimatesDomain,
		Name:   "all",
		build:  func([]string) Key { return Estimates.All() },
	},
	{
		Domain: EstimatesDomain,
		Name:   "detail",
		Params: []string{"id"},
		build:  func(args []string) Key { return Estimates.Detail(args[0]) },
	},
	{
		Domain: StagesDomain,
		Name:   "all",
		build:  func([]string) Key { return Stages.All() },
	},
	{
		Domain: StagesDomain,
		Name:   "byProject",
		Params: []string{"projectId"},
		build:  func(args []string) Key { return Stages.ByProject(args[0]) },
	},
	{
		Domain: UserDomain,
		Name:   "profile",
		build:  func([]string) Key { return User.Profile() },
	},
}

// Catalog lists every registry entry. The returned slice is a copy.
func Catalog() []Entry {
	out := make([]Entry, len(entries))
	for i, entry := range entries {
		params := make([]string, len(entry.Params))
		copy(params, entry.Params)

		out[i] = Entry{
			Domain:  entry.Domain,
			Name:    entry.Name,
			Params:  params,
			Example: entry.build(params),
		}
	}
	return out
}

// Lookup resolves an entry by domain and name and applies args in order.
func Lookup(domain, name string, args ...string) (Key, error) {
	for _, entry := range entries {
		if entry.Domain != domain || entry.Name != name {
			continue
		}

		if len(args) != len(entry.Params) {
			return nil, fmt.Errorf(
				"%w: %s.%s takes %d, got %d",
				ErrArity,
				domain,
				name,
				len(entry.Params),
				len(args),
			)
		}
		return entry.build(args), nil
	}

	return nil, fmt.Errorf("%w: %s.%s", ErrUnknownEntry, domain, name)
}

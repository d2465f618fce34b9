package querykeys

import (
	"path"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Shapes(t *testing.T) {
	tests := []struct {
		name     string
		key      Key
		expected Key
	}{
		{name: "estimates all", key: Estimates.All(), expected: Key{"estimates"}},
		{name: "estimate detail", key: Estimates.Detail("42"), expected: Key{"estimates", "42"}},
		{name: "stages all", key: Stages.All(), expected: Key{"stages"}},
		{
			name:     "stages by project",
			key:      Stages.ByProject("proj-7"),
			expected: Key{"stages", "proj-7"},
		},
		{name: "user profile", key: User.Profile(), expected: Key{"user", "profile"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.key)
		})
	}
}

func TestRegistry_FirstSegmentIsDomain(t *testing.T) {
	assert.Equal(t, EstimatesDomain, Estimates.All().Domain())
	assert.Equal(t, EstimatesDomain, Estimates.Detail("x").Domain())
	assert.Equal(t, StagesDomain, Stages.All().Domain())
	assert.Equal(t, StagesDomain, Stages.ByProject("x").Domain())
	assert.Equal(t, UserDomain, User.Profile().Domain())
	assert.Equal(t, "", Key{}.Domain())
}

func TestRegistry_IdentifiersEmbeddedVerbatim(t *testing.T) {
	ids := []string{"", " padded ", "a:b", "*", "日本", "with\nnewline", "x[1]?"}

	for _, id := range ids {
		assert.Equal(t, Key{"estimates", id}, Estimates.Detail(id), "id %q", id)
		assert.Equal(t, Key{"stages", id}, Stages.ByProject(id), "projectID %q", id)
	}
}

func TestRegistry_Deterministic(t *testing.T) {
	assert.True(t, Estimates.All().Equal(Estimates.All()))
	assert.True(t, Estimates.Detail("42").Equal(Estimates.Detail("42")))
	assert.True(t, Stages.ByProject("p").Equal(Stages.ByProject("p")))
	assert.True(t, User.Profile().Equal(User.Profile()))
}

func TestRegistry_DistinctIdentifiersDoNotCollide(t *testing.T) {
	assert.False(t, Estimates.Detail("a").Equal(Estimates.Detail("b")))
	assert.False(t, Stages.ByProject("a").Equal(Stages.ByProject("b")))
	assert.False(t, Estimates.Detail("").Equal(Estimates.All()))
}

func TestRegistry_CallerMutationDoesNotLeak(t *testing.T) {
	all := Estimates.All()
	all[0] = "changed"

	profile := User.Profile()
	profile[1] = "changed"

	assert.Equal(t, Key{"estimates"}, Estimates.All())
	assert.Equal(t, Key{"user", "profile"}, User.Profile())
}

func TestRegistry_ConcurrentReads(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, Key{"stages", "p"}, Stages.ByProject("p"))
			}
		}()
	}
	wg.Wait()
}

func TestKey_HasPrefix(t *testing.T) {
	tests := []struct {
		name     string
		key      Key
		prefix   Key
		expected bool
	}{
		{name: "domain covers project", key: Stages.ByProject("p"), prefix: Stages.All(), expected: true},
		{name: "key covers itself", key: Estimates.Detail("1"), prefix: Estimates.Detail("1"), expected: true},
		{name: "empty prefix covers all", key: User.Profile(), prefix: Key{}, expected: true},
		{name: "other domain", key: Estimates.Detail("1"), prefix: Stages.All(), expected: false},
		{name: "longer prefix", key: Stages.All(), prefix: Stages.ByProject("p"), expected: false},
		{name: "sibling id", key: Estimates.Detail("1"), prefix: Estimates.Detail("2"), expected: false},
		{name: "segment text prefix is not a key prefix", key: Key{"stages_archive"}, prefix: Stages.All(), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.key.HasPrefix(tt.prefix))
		})
	}
}

func TestKey_StringAndPattern(t *testing.T) {
	assert.Equal(t, "estimates", Estimates.All().String())
	assert.Equal(t, "estimates:42", Estimates.Detail("42").String())
	assert.Equal(t, "user:profile", User.Profile().String())

	assert.Equal(t, "stages:*", Stages.All().Pattern())
	assert.Equal(t, "stages:proj-7:*", Stages.ByProject("proj-7").Pattern())
	assert.Equal(t, `estimates:a\*b\?:*`, Estimates.Detail("a*b?").Pattern())
	assert.Equal(t, `estimates:\[x\]:*`, Estimates.Detail("[x]").Pattern())
	assert.Equal(t, "*", Key{}.Pattern())
}

func TestKey_PatternMatchesOnlyDescendants(t *testing.T) {
	tests := []struct {
		name    string
		key     Key
		storage string
		want    bool
	}{
		{"key itself", Stages.ByProject("p"), "stages:p", false},
		{"child", Stages.ByProject("p"), "stages:p:archived", true},
		{"sibling sharing a prefix", Stages.All(), "stages_archive:p", false},
		{"escaped segment", Estimates.Detail("a*"), "estimates:a*:lines", true},
		{"escaped segment is literal", Estimates.Detail("a*"), "estimates:abc:lines", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, err := path.Match(tt.key.Pattern(), tt.storage)
			require.NoError(t, err)
			assert.Equal(t, tt.want, matched)
		})
	}
}

func TestKey_WithAndClone(t *testing.T) {
	base := User.Profile()
	scoped := base.With("u-1")

	assert.Equal(t, Key{"user", "profile", "u-1"}, scoped)
	assert.Equal(t, Key{"user", "profile"}, base)
	assert.True(t, scoped.HasPrefix(base))

	clone := scoped.Clone()
	clone[2] = "u-2"
	assert.Equal(t, "u-1", scoped[2])
	assert.Nil(t, Key(nil).Clone())
}

func TestCatalog(t *testing.T) {
	catalog := Catalog()
	require.Len(t, catalog, 5)

	assert.Equal(t, Entry{
		Domain:  "estimates",
		Name:    "detail",
		Params:  []string{"id"},
		Example: Key{"estimates", "id"},
	}, Entry{
		Domain:  catalog[1].Domain,
		Name:    catalog[1].Name,
		Params:  catalog[1].Params,
		Example: catalog[1].Example,
	})

	catalog[0].Params = append(catalog[0].Params, "mutated")
	assert.Empty(t, Catalog()[0].Params)
}

func TestLookup(t *testing.T) {
	key, err := Lookup("stages", "byProject", "proj-7")
	require.NoError(t, err)
	assert.Equal(t, Key{"stages", "proj-7"}, key)

	key, err = Lookup("user", "profile")
	require.NoError(t, err)
	assert.Equal(t, Key{"user", "profile"}, key)

	_, err = Lookup("estimates", "detail")
	assert.ErrorIs(t, err, ErrArity)

	_, err = Lookup("estimates", "all", "extra")
	assert.ErrorIs(t, err, ErrArity)

	_, err = Lookup("invoices", "all")
	assert.ErrorIs(t, err, ErrUnknownEntry)
}

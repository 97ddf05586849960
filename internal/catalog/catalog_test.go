package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsConsistent(t *testing.T) {
	cat := Default()

	require.Greater(t, cat.Len(), 10)

	def, ok := cat.Get(NextJS)
	require.True(t, ok)
	assert.Equal(t, CategoryFramework, def.Category)
	assert.Contains(t, def.DependsOn, TypeScript)

	assert.Equal(t, 0, cat.Index(Turborepo))
	assert.Equal(t, -1, cat.Index("nope"))
}

func TestGet_ReturnsCopy(t *testing.T) {
	cat := MustNew(
		Definition{ID: "a", Category: CategoryTooling, DependsOn: []ID{"b"}},
		Definition{ID: "b", Category: CategoryTooling},
	)

	def, _ := cat.Get("a")
	def.DependsOn[0] = "mutated"

	again, _ := cat.Get("a")
	assert.Equal(t, ID("b"), again.DependsOn[0])
}

func TestNew_Rejects(t *testing.T) {
	tests := []struct {
		name string
		defs []Definition
		want string
	}{
		{
			name: "duplicate id",
			defs: []Definition{
				{ID: "a", Category: CategoryTooling},
				{ID: "a", Category: CategoryTooling},
			},
			want: "duplicate plugin id",
		},
		{
			name: "unknown reference",
			defs: []Definition{
				{ID: "a", Category: CategoryTooling, DependsOn: []ID{"ghost"}},
			},
			want: "unknown plugin \"ghost\"",
		},
		{
			name: "self reference",
			defs: []Definition{
				{ID: "a", Category: CategoryTooling, Conflicts: []ID{"a"}},
			},
			want: "lists itself",
		},
		{
			name: "missing category",
			defs: []Definition{{ID: "a"}},
			want: "invalid plugin definition",
		},
		{
			name: "unknown category",
			defs: []Definition{{ID: "a", Category: "gardening"}},
			want: "invalid plugin definition",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.defs...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseAndExtend(t *testing.T) {
	data := []byte(`
plugins:
  - id: storybook
    name: Storybook
    category: tooling
    dependsOn: [typescript]
    optionalDeps: [nextjs]
    priority: 85
`)

	defs, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, defs, 1)

	extended, err := Default().Extend(defs...)
	require.NoError(t, err)

	def, ok := extended.Get("storybook")
	require.True(t, ok)
	assert.Equal(t, "Storybook", def.DisplayName())
	assert.Equal(t, extended.Len()-1, extended.Index("storybook"))

	// The built-in catalog is untouched.
	assert.False(t, Default().Has("storybook"))
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("plugins: [unclosed"))
	require.Error(t, err)
}

func TestByCategory(t *testing.T) {
	linting := Default().ByCategory(CategoryLinting)

	ids := make([]ID, 0, len(linting))
	for _, def := range linting {
		ids = append(ids, def.ID)
	}
	assert.Equal(t, []ID{ESLint, Prettier, Biome}, ids)
}

package databases

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogueCodesAreUnique(t *testing.T) {
	seen := map[int]string{}
	for _, db := range Catalogue() {
		prev, dup := seen[db.Code]
		require.False(t, dup, "code %d used by %s and %s", db.Code, prev, db.Name)
		seen[db.Code] = db.Name
	}
	assert.Len(t, Names(), len(Catalogue()))
}

func TestParse(t *testing.T) {
	db, err := Parse("5")
	require.NoError(t, err)
	assert.Equal(t, "pixiv Images", db.Name)

	db, err = Parse("  danbooru ")
	require.NoError(t, err)
	assert.Equal(t, 9, db.Code)

	db, err = Parse("120")
	require.NoError(t, err)
	assert.Equal(t, 120, db.Code)

	_, err = Parse("-1")
	assert.Error(t, err)
	_, err = Parse("")
	assert.Error(t, err)
	_, err = Parse("not a database")
	assert.Error(t, err)
}

func TestNewFilterOrdersAndDedupes(t *testing.T) {
	f := NewFilter(9, 5, 9, 999, 0)
	assert.Equal(t, []int{0, 5, 9, 999}, f.Codes())
	assert.Equal(t, 4, f.Len())
	assert.False(t, f.Empty())
}

func TestFilterLabel(t *testing.T) {
	assert.Equal(t, "All databases", Filter{}.Label())
	assert.True(t, Filter{}.Empty())
	assert.Empty(t, Filter{}.Codes())

	assert.Equal(t, "Danbooru", NewFilter(9).Label())
	assert.Equal(t, "3 databases selected", NewFilter(9, 5, 41).Label())
}

func TestFromNames(t *testing.T) {
	f := FromNames([]string{"Twitter", "Anime", "Unknown"})
	assert.Equal(t, []int{21, 41}, f.Codes())
	assert.Equal(t, []string{"Anime", "Twitter"}, f.Names())
}

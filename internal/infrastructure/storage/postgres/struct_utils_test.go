package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type taggedEntity struct {
	ID      string `db:"id"`
	Name    string `db:"name"`
	Ignored string `db:"-"`
	hidden  int    `db:"hidden"` // unexported fields never reach the database
	NoTag   string
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[taggedEntity]()
	assert.Equal(t, []string{"id", "name"}, cols)
}

func TestStructToMap(t *testing.T) {
	e := &taggedEntity{ID: "abc", Name: "Acme", Ignored: "x", NoTag: "y"}
	m := StructToMap(e)

	assert.Equal(t, "abc", m["id"])
	assert.Equal(t, "Acme", m["name"])
	assert.NotContains(t, m, "-")
	assert.NotContains(t, m, "")
	assert.NotContains(t, m, "hidden")
}

package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"kitchenledger/internal/core/id"
)

type Stamps struct {
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type sampleRow struct {
	Stamps
	ID      id.ID  `db:"id"`
	Name    string `db:"name"`
	Ignored string `db:"-"`
	Plain   string
}

func TestExtractDBColumns_Embedded(t *testing.T) {
	cols := ExtractDBColumns[sampleRow]()

	assert.ElementsMatch(t, []string{"id", "name", "created_at", "updated_at"}, cols)
	assert.Equal(t, cols, ExtractDBColumns[*sampleRow]())
}

func TestStructToMap(t *testing.T) {
	now := time.Now().UTC()
	row := &sampleRow{Stamps: Stamps{CreatedAt: now}, ID: id.New(), Name: "Flour", Ignored: "x"}

	m := StructToMap(row)

	assert.Equal(t, row.ID, m["id"])
	assert.Equal(t, "Flour", m["name"])
	assert.Equal(t, now, m["created_at"])
	assert.NotContains(t, m, "Ignored")
	assert.NotContains(t, m, "Plain")
	assert.Nil(t, StructToMap(42))
}

func TestColumnsHelpers(t *testing.T) {
	cols := []string{"id", "name", "created_at"}
	assert.Equal(t, []string{"name"}, ColumnsExcept(cols, "id", "created_at"))

	picked := PickColumns(map[string]any{"id": 1, "name": "a", "extra": true}, cols)
	assert.Equal(t, map[string]any{"id": 1, "name": "a"}, picked)
}

package migrate

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradevault/internal/domain"
	"tradevault/internal/repository"
	"tradevault/migrations"
)

func script(body string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(body)}
}

func TestLoadManifest(t *testing.T) {
	fsys := fstest.MapFS{
		"000001_create_things.up.sql":   script("-- entities: things\nCREATE TABLE things ();\n"),
		"000001_create_things.down.sql": script("-- entities: things\nDROP TABLE things;\n"),
		"000002_create_widgets.up.sql":  script("-- entities: widgets, things\nCREATE TABLE widgets ();\n"),
		"000002_create_widgets.down.sql": script("-- entities: widgets\nDROP TABLE widgets;\n"),
		"README.md":                     script("not a migration"),
	}

	m, err := LoadManifest(fsys)
	require.NoError(t, err)
	require.Len(t, m.Migrations, 2)

	assert.Equal(t, uint64(1), m.Migrations[0].Version)
	assert.Equal(t, "create_things", m.Migrations[0].Name)
	assert.Equal(t, []string{"things"}, m.Migrations[0].Entities)
	assert.Equal(t, []string{"widgets", "things"}, m.Migrations[1].Entities)
	assert.Equal(t, uint64(2), m.Latest())

	touching := m.Touching("things")
	require.Len(t, touching, 2)
	assert.Equal(t, uint64(1), touching[0].Version)
}

func TestLoadManifest_MissingHeader(t *testing.T) {
	fsys := fstest.MapFS{
		"000001_create_things.up.sql":   script("CREATE TABLE things ();\n"),
		"000001_create_things.down.sql": script("-- entities: things\nDROP TABLE things;\n"),
	}

	_, err := LoadManifest(fsys)
	var migErr *domain.MigrationError
	require.ErrorAs(t, err, &migErr)
	assert.Contains(t, migErr.Detail, "must declare touched entities")
}

func TestLoadManifest_MissingInverse(t *testing.T) {
	fsys := fstest.MapFS{
		"000001_create_things.up.sql": script("-- entities: things\nCREATE TABLE things ();\n"),
	}

	_, err := LoadManifest(fsys)
	var migErr *domain.MigrationError
	require.ErrorAs(t, err, &migErr)
	assert.Equal(t, uint64(1), migErr.Version)
	assert.Contains(t, migErr.Detail, "missing inverse")
}

func TestLoadManifest_Empty(t *testing.T) {
	_, err := LoadManifest(fstest.MapFS{})
	var migErr *domain.MigrationError
	require.ErrorAs(t, err, &migErr)
	assert.Contains(t, migErr.Detail, "no migration scripts")
}

// The real embedded script set must parse, be ordered, and cover every
// entity table the store writes to.
func TestEmbeddedManifest(t *testing.T) {
	m, err := LoadManifest(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, m.Migrations)

	for i := 1; i < len(m.Migrations); i++ {
		assert.Greater(t, m.Migrations[i].Version, m.Migrations[i-1].Version)
	}

	for _, schema := range repository.Schemas() {
		assert.NotEmpty(t, m.Touching(schema.Table),
			"no migration declares table %s", schema.Table)
	}
}

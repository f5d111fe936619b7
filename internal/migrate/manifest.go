package migrate

import (
	"bufio"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"tradevault/internal/domain"
)

const entitiesHeader = "-- entities:"

var scriptName = regexp.MustCompile(`^(\d+)_(.+)\.(up|down)\.sql$`)

// Migration is one parsed entry of the migration manifest.
type Migration struct {
	Version  uint64
	Name     string
	Entities []string
}

// Manifest is the ordered set of migration scripts, parsed from the embedded
// filesystem. Every .up.sql must declare the entity tables it touches and
// must carry an explicit .down.sql inverse.
type Manifest struct {
	Migrations []Migration
}

// LoadManifest parses and validates the migration scripts in fsys. Duplicate
// version numbers, missing entity headers and missing inverse scripts are
// all MigrationError: a malformed sequence must never reach a database.
func LoadManifest(fsys fs.FS) (*Manifest, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	ups := make(map[uint64]Migration)
	downs := make(map[uint64]bool)
	for _, entry := range entries {
		m := scriptName.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		version, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil {
			return nil, &domain.MigrationError{Detail: fmt.Sprintf("bad version in script name %q", entry.Name())}
		}

		if m[3] == "down" {
			downs[version] = true
			continue
		}

		if _, ok := ups[version]; ok {
			return nil, &domain.MigrationError{Version: version, Detail: "duplicate version number"}
		}
		ents, err := parseEntities(fsys, entry.Name())
		if err != nil {
			return nil, err
		}
		ups[version] = Migration{Version: version, Name: m[2], Entities: ents}
	}

	if len(ups) == 0 {
		return nil, &domain.MigrationError{Detail: "no migration scripts found"}
	}

	manifest := &Manifest{Migrations: make([]Migration, 0, len(ups))}
	for version, mig := range ups {
		if !downs[version] {
			return nil, &domain.MigrationError{Version: version, Detail: "missing inverse (.down.sql) script"}
		}
		manifest.Migrations = append(manifest.Migrations, mig)
	}
	sort.Slice(manifest.Migrations, func(i, j int) bool {
		return manifest.Migrations[i].Version < manifest.Migrations[j].Version
	})
	return manifest, nil
}

// parseEntities reads the manifest header from the first line of a script.
func parseEntities(fsys fs.FS, name string) ([]string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return nil, &domain.MigrationError{Detail: fmt.Sprintf("%s is empty", name)}
	}
	line := strings.TrimSpace(scanner.Text())
	if !strings.HasPrefix(line, entitiesHeader) {
		return nil, &domain.MigrationError{
			Detail: fmt.Sprintf("%s: first line must declare touched entities (%q)", name, entitiesHeader),
		}
	}

	var entities []string
	for _, e := range strings.Split(strings.TrimPrefix(line, entitiesHeader), ",") {
		if e = strings.TrimSpace(e); e != "" {
			entities = append(entities, e)
		}
	}
	if len(entities) == 0 {
		return nil, &domain.MigrationError{Detail: fmt.Sprintf("%s declares no entities", name)}
	}
	return entities, nil
}

// Touching returns the migrations that declare the given entity table.
func (m *Manifest) Touching(table string) []Migration {
	var out []Migration
	for _, mig := range m.Migrations {
		for _, e := range mig.Entities {
			if e == table {
				out = append(out, mig)
				break
			}
		}
	}
	return out
}

// Latest returns the highest version in the manifest.
func (m *Manifest) Latest() uint64 {
	return m.Migrations[len(m.Migrations)-1].Version
}

package database

import (
	"io/fs"
	"slices"
	"strings"
	"testing"
	"testing/fstest"
)

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(Migrations(), ".")
	if err != nil {
		t.Fatalf("reading embedded migrations: %v", err)
	}

	want := map[string]string{
		"001_price_quotes.up.sql":    "price_quotes",
		"002_wallet_balances.up.sql": "wallet_balances",
	}
	found := 0
	for _, e := range entries {
		table, ok := want[e.Name()]
		if !ok {
			continue
		}
		found++
		sql, err := fs.ReadFile(Migrations(), e.Name())
		if err != nil {
			t.Fatalf("reading %s: %v", e.Name(), err)
		}
		if !strings.Contains(string(sql), "CREATE TABLE IF NOT EXISTS "+table) {
			t.Errorf("%s does not create %s", e.Name(), table)
		}
	}
	if found != len(want) {
		t.Errorf("found %d of %d expected migrations", found, len(want))
	}
}

func TestPendingMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"002_b.up.sql":   {Data: []byte("CREATE TABLE b (id INT);")},
		"001_a.up.sql":   {Data: []byte("CREATE TABLE a (id INT);")},
		"003_c.up.sql":   {Data: []byte("CREATE TABLE c (id INT);")},
		"001_a.down.sql": {Data: []byte("DROP TABLE a;")},
		"README.md":      {Data: []byte("notes")},
	}

	tests := []struct {
		name    string
		applied map[string]bool
		want    []string
	}{
		{"fresh database", nil, []string{"001_a.up.sql", "002_b.up.sql", "003_c.up.sql"}},
		{"partially applied", map[string]bool{"001_a.up.sql": true}, []string{"002_b.up.sql", "003_c.up.sql"}},
		{"gap is filled", map[string]bool{"001_a.up.sql": true, "003_c.up.sql": true}, []string{"002_b.up.sql"}},
		{"up to date", map[string]bool{"001_a.up.sql": true, "002_b.up.sql": true, "003_c.up.sql": true}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pending, err := pendingMigrations(fsys, tt.applied)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var got []string
			for _, m := range pending {
				got = append(got, m.file)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("pending = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPendingMigrationsCarriesSQL(t *testing.T) {
	fsys := fstest.MapFS{"001_a.up.sql": {Data: []byte("CREATE TABLE a (id INT);")}}

	pending, err := pendingMigrations(fsys, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pending) != 1 || pending[0].sql != "CREATE TABLE a (id INT);" {
		t.Errorf("pending = %+v", pending)
	}
}

func TestPendingMigrationsRejectsEmptyFile(t *testing.T) {
	fsys := fstest.MapFS{
		"001_a.up.sql": {Data: []byte("CREATE TABLE a (id INT);")},
		"002_b.up.sql": {Data: []byte("  \n")},
	}

	_, err := pendingMigrations(fsys, nil)
	if err == nil || !strings.Contains(err.Error(), "002_b.up.sql") {
		t.Errorf("err = %v, want empty migration error naming 002_b.up.sql", err)
	}
}

func TestEmbeddedMigrationsAllPendingOnFreshDatabase(t *testing.T) {
	pending, err := pendingMigrations(Migrations(), map[string]bool{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pending) != 2 || pending[0].file != "001_price_quotes.up.sql" {
		t.Errorf("pending = %+v, want both embedded migrations in order", pending)
	}
}

package database

import (
	"path/filepath"
	"testing"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		url, dialect, dsn string
	}{
		{"./data/complaints.db", DialectSQLite, "./data/complaints.db"},
		{"sqlite://./x.db", DialectSQLite, "./x.db"},
		{"postgres://u@h/db", DialectPostgres, "postgres://u@h/db"},
		{"postgresql://u@h/db", DialectPostgres, "postgresql://u@h/db"},
	}
	for _, tt := range tests {
		dialect, dsn := ParseURL(tt.url)
		if dialect != tt.dialect || dsn != tt.dsn {
			t.Errorf("ParseURL(%q) = %q, %q", tt.url, dialect, dsn)
		}
	}
}

func TestRebind(t *testing.T) {
	pg := &DB{Dialect: DialectPostgres}
	if got := pg.Rebind("UPDATE t SET a = ? WHERE id = ?"); got != "UPDATE t SET a = $1 WHERE id = $2" {
		t.Fatalf("unexpected postgres query %q", got)
	}
	lite := &DB{Dialect: DialectSQLite}
	if got := lite.Rebind("SELECT ?"); got != "SELECT ?" {
		t.Fatalf("sqlite query should be unchanged, got %q", got)
	}
}

func TestOpenAppliesMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	d, err := Open(Config{URL: path})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	var n int
	if err := d.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&n); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 applied migrations, got %d", n)
	}
	if _, err := d.Exec("INSERT INTO complaints (id, created_at, akimat_status) VALUES ('x', '2026-01-01T00:00:00.000000000Z', 'PREPARED')"); err != nil {
		t.Fatalf("insert into migrated table: %v", err)
	}
	d.Close()

	// Reopening must not re-run ALTER TABLE statements
	d, err = Open(Config{URL: path})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer d.Close()
	if err := d.QueryRow("SELECT COUNT(*) FROM complaints").Scan(&n); err != nil || n != 1 {
		t.Fatalf("expected data to survive reopen, n=%d err=%v", n, err)
	}
}

func TestSplitStatements(t *testing.T) {
	got := splitStatements("A;\n\n B ; ;")
	if len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Fatalf("unexpected statements %q", got)
	}
}

package repo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tbourn/go-health-backend/internal/config"
	"github.com/tbourn/go-health-backend/internal/domain"
)

func TestOpen_MissingURL(t *testing.T) {
	db, err := Open(context.Background(), config.DatabaseConfig{URL: "  "})
	if !errors.Is(err, ErrMissingDatabaseURL) || db != nil {
		t.Fatalf("expected ErrMissingDatabaseURL, got db=%v err=%v", db, err)
	}
}

func TestOpenSQLite_ErrorOnBadPath(t *testing.T) {
	base := t.TempDir()
	bad := filepath.Join(base, "does-not-exist", "app.db")

	db, err := OpenSQLite(bad)
	if err == nil || db != nil {
		t.Fatalf("expected error opening %q, got db=%v err=%v", bad, db, err)
	}

	// Be tolerant across platforms/drivers:
	// - Windows: *os.PathError
	// - SQLite:  "unable to open database file" / "out of memory (14)"
	// - Unix:    "no such file or directory"
	lower := strings.ToLower(err.Error())
	if !(os.IsNotExist(err) ||
		strings.Contains(lower, "unable to open database file") ||
		strings.Contains(lower, "no such file or directory") ||
		strings.Contains(lower, "out of memory")) {
		t.Fatalf("unexpected error opening %q: %v", bad, err)
	}
}

func TestOpen_SQLite_SetsPragmas_Pool_AndBootstraps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")
	cfg := config.DatabaseConfig{URL: "sqlite:" + path, MaxOpenConns: 4, MaxIdleConns: 2}

	db, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = Close(db) })

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB(): %v", err)
	}
	if stats := sqlDB.Stats(); stats.MaxOpenConnections != 4 {
		t.Fatalf("expected MaxOpenConnections=4, got %d", stats.MaxOpenConnections)
	}

	var (
		journalMode string
		fkOn        int
		busyMS      int
	)
	if err := db.Raw("PRAGMA journal_mode;").Row().Scan(&journalMode); err != nil {
		t.Fatalf("PRAGMA journal_mode: %v", err)
	}
	if strings.ToLower(journalMode) != "wal" {
		t.Fatalf("expected journal_mode=wal, got %q", journalMode)
	}
	if err := db.Raw("PRAGMA foreign_keys;").Row().Scan(&fkOn); err != nil {
		t.Fatalf("PRAGMA foreign_keys: %v", err)
	}
	if fkOn != 1 {
		t.Fatalf("expected foreign_keys=1, got %d", fkOn)
	}
	if err := db.Raw("PRAGMA busy_timeout;").Row().Scan(&busyMS); err != nil {
		t.Fatalf("PRAGMA busy_timeout: %v", err)
	}
	if busyMS != 5000 {
		t.Fatalf("expected busy_timeout=5000, got %d", busyMS)
	}

	if err := Ping(context.Background(), db); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if err := Bootstrap(context.Background(), db); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if !db.Migrator().HasTable(&domain.User{}) {
		t.Fatalf("expected users table after bootstrap")
	}
}

func TestClose_NilAndTwice(t *testing.T) {
	if err := Close(nil); err != nil {
		t.Fatalf("Close(nil) = %v", err)
	}
	db := newTestDB(t, false)
	if err := Close(db); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := Ping(context.Background(), db); err == nil {
		t.Fatalf("expected ping on closed pool to fail")
	}
}

func TestWithConnPragmas(t *testing.T) {
	cases := map[string]string{
		"app.db":                    "app.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		"file:x?mode=memory":        "file:x?mode=memory&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		"x?_pragma=foreign_keys(0)": "x?_pragma=foreign_keys(0)",
	}
	for in, want := range cases {
		if got := withConnPragmas(in); got != want {
			t.Fatalf("withConnPragmas(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestIsDuplicate(t *testing.T) {
	if IsDuplicate(nil) {
		t.Fatalf("nil is not a duplicate")
	}
	for _, msg := range []string{
		"UNIQUE constraint failed: users.email",
		`ERROR: duplicate key value violates unique constraint "ux_users_email" (SQLSTATE 23505)`,
	} {
		if !IsDuplicate(errors.New(msg)) {
			t.Fatalf("expected %q to be a duplicate", msg)
		}
	}
	if IsDuplicate(errors.New("connection refused")) {
		t.Fatalf("unrelated error reported as duplicate")
	}

	db := newTestDB(t, true)
	seedUser(t, db, "dup@example.com")
	_, err := CreateUser(context.Background(), db, "dup@example.com", "h", "Again")
	if !IsDuplicate(err) {
		t.Fatalf("expected duplicate email to be detected, got %v", err)
	}
}

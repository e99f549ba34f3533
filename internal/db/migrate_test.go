package db

import (
	"context"
	"testing"

	dbfs "github.com/aiktc/portal/db"
)

func TestMigrateIdempotent(t *testing.T) {
	ctx := context.Background()
	d, err := New(ctx, "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	defer d.Close()

	if err := Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("first migrate failed: %v", err)
	}
	if err := Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}

	var versions int
	if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations`).Scan(&versions); err != nil {
		t.Fatalf("count versions: %v", err)
	}
	if versions == 0 {
		t.Fatalf("expected at least one recorded migration")
	}

	// schema is usable after migration
	for _, table := range []string{"identities", "profiles", "courses", "enrollments", "assignments", "materials", "announcements", "attendance", "feedback"} {
		var n int
		if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM `+table).Scan(&n); err != nil {
			t.Errorf("table %s not created: %v", table, err)
		}
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	ctx := context.Background()
	d, err := New(ctx, "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	defer d.Close()

	if err := Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	// a profile without its identity must be rejected
	_, err = d.Exec(ctx, `INSERT INTO profiles (id, full_name, role, department, created, updated) VALUES ('ghost', 'Ghost', 'student', 'ai_ml', 0, 0)`)
	if err == nil {
		t.Fatalf("expected foreign key violation for orphan profile")
	}
}

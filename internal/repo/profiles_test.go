package repo

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-health-backend/internal/domain"
)

func TestFindProfile_MissingReturnsNil(t *testing.T) {
	db := newTestDB(t, true)
	u := seedUser(t, db, "p0@example.com")
	p, err := FindProfileByUserID(context.Background(), db, u.ID)
	if p != nil || err != nil {
		t.Fatalf("FindProfileByUserID(no profile) = %v, %v; want nil, nil", p, err)
	}
}

func TestUpsertProfile_MergesAndKeepsSingleRow(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()
	u := seedUser(t, db, "p1@example.com")

	dob := domain.Date("1990-04-12")
	first, err := UpsertProfile(ctx, db, u.ID, ProfilePatch{Height: ptr(180.0), DateOfBirth: &dob})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if first.Height == nil || *first.Height != 180 || first.Weight != nil {
		t.Fatalf("unexpected first profile: %+v", first)
	}

	second, err := UpsertProfile(ctx, db, u.ID, ProfilePatch{Weight: ptr(75.5), OnboardingCompleted: ptr(true)})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("upsert created a new row: %d vs %d", second.ID, first.ID)
	}
	if second.Height == nil || *second.Height != 180 {
		t.Fatalf("height should be kept, got %+v", second.Height)
	}
	if second.Weight == nil || *second.Weight != 75.5 || !second.OnboardingCompleted {
		t.Fatalf("patch not applied: %+v", second)
	}
	if second.DateOfBirth == nil || *second.DateOfBirth != dob {
		t.Fatalf("date of birth should be kept, got %v", second.DateOfBirth)
	}

	var n int64
	if err := db.Model(&domain.Profile{}).Where("user_id = ?", u.ID).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected exactly one profile row, got %d", n)
	}
}

func TestUpsertProfile_EmptyPatchCreatesRow(t *testing.T) {
	db := newTestDB(t, true)
	u := seedUser(t, db, "p2@example.com")
	p, err := UpsertProfile(context.Background(), db, u.ID, ProfilePatch{})
	if err != nil || p == nil {
		t.Fatalf("UpsertProfile(empty) = %v, %v", p, err)
	}
	if p.OnboardingCompleted {
		t.Fatalf("onboarding should default to false")
	}
}

func TestUpsertProfile_UnknownUserFails(t *testing.T) {
	db := newTestDB(t, true)
	if _, err := UpsertProfile(context.Background(), db, 12345, ProfilePatch{Height: ptr(170.0)}); err == nil {
		t.Fatalf("expected foreign key violation for unknown user")
	}
}

// The Postgres statement must be a single atomic upsert that only assigns
// the patched columns.
func TestUpsertProfile_PostgresStatement(t *testing.T) {
	sqlDB, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer sqlDB.Close()

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		DryRun: true,
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open postgres dialector: %v", err)
	}

	stmt := upsertProfile(gdb, 7, ProfilePatch{Height: ptr(181.0)}).Statement
	sql := stmt.SQL.String()

	for _, want := range []string{
		`INSERT INTO "user_profiles"`,
		`ON CONFLICT ("user_id") DO UPDATE SET`,
		`"height"="excluded"."height"`,
		`"updated_at"="excluded"."updated_at"`,
	} {
		if !strings.Contains(sql, want) {
			t.Fatalf("upsert SQL missing %q:\n%s", want, sql)
		}
	}
	if strings.Contains(sql, `"weight"="excluded"`) {
		t.Fatalf("unpatched column must not be assigned:\n%s", sql)
	}
}

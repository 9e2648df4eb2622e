package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"symptom-checker-server/internal/models"
)

func openTestRepositories(t *testing.T) *Repositories {
	t.Helper()

	database, err := models.InitDB(models.DatabaseConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "symptoms-test.db"),
	})
	if err != nil {
		t.Fatalf("init database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewRepositories(database)
}

func createTestUser(t *testing.T, repos *Repositories, email string) models.User {
	t.Helper()
	user := models.User{Email: email, Name: "Test"}
	if err := user.SetPassword("password123"); err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := repos.Users.Create(context.Background(), &user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func createTestRecord(t *testing.T, repos *Repositories, userID string, at time.Time, symptoms ...string) models.SymptomHistory {
	t.Helper()
	record := models.SymptomHistory{
		UserID:            userID,
		OriginalInput:     "test input",
		ProcessedSymptoms: symptoms,
		Timestamp:         at.UTC(),
	}
	if err := repos.History.Create(context.Background(), &record); err != nil {
		t.Fatalf("create history: %v", err)
	}
	return record
}

func TestUserRepositoryRoundTrip(t *testing.T) {
	repos := openTestRepositories(t)
	ctx := context.Background()
	user := createTestUser(t, repos, "jane@example.com")

	if user.ID == "" {
		t.Fatal("expected generated user id")
	}

	byEmail, err := repos.Users.FindByEmail(ctx, "jane@example.com")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if byEmail.ID != user.ID || !byEmail.CheckPassword("password123") {
		t.Fatalf("unexpected user %#v", byEmail)
	}

	age := 52
	byEmail.Age = &age
	if err := repos.Users.Save(ctx, &byEmail); err != nil {
		t.Fatalf("save user: %v", err)
	}
	byID, err := repos.Users.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if byID.AgeString() != "52" {
		t.Fatalf("expected saved age, got %q", byID.AgeString())
	}

	if _, err := repos.Users.FindByEmail(ctx, "missing@example.com"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}

	duplicate := models.User{Email: "jane@example.com", Password: "x"}
	if err := repos.Users.Create(ctx, &duplicate); err == nil {
		t.Fatal("expected unique email constraint to reject duplicate")
	}
}

func TestHistoryRepositoryStoresSnapshots(t *testing.T) {
	repos := openTestRepositories(t)
	ctx := context.Background()
	user := createTestUser(t, repos, "jane@example.com")

	record := models.SymptomHistory{
		UserID:            user.ID,
		OriginalInput:     "fever and cough",
		ProcessedSymptoms: []string{"fever", "cough"},
		Predictions: []models.EnhancedPrediction{{
			Disease:     "Influenza",
			Probability: 82.5,
			MedicalAdvice: models.MedicalAdvice{
				CriticalLevel: models.CriticalHigh,
				Disclaimer:    "consult a doctor",
			},
		}},
		Age:       "30",
		Timestamp: time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC),
	}
	if err := repos.History.Create(ctx, &record); err != nil {
		t.Fatalf("create history: %v", err)
	}

	loaded, err := repos.History.FindByIDForUser(ctx, record.ID, user.ID)
	if err != nil {
		t.Fatalf("load history: %v", err)
	}
	if len(loaded.ProcessedSymptoms) != 2 || loaded.ProcessedSymptoms[1] != "cough" {
		t.Fatalf("unexpected symptoms %#v", loaded.ProcessedSymptoms)
	}
	if len(loaded.Predictions) != 1 || loaded.Predictions[0].MedicalAdvice.CriticalLevel != models.CriticalHigh {
		t.Fatalf("unexpected predictions %#v", loaded.Predictions)
	}
	if !loaded.Timestamp.Equal(record.Timestamp) {
		t.Fatalf("timestamp = %v, want %v", loaded.Timestamp, record.Timestamp)
	}
}

func TestHistoryRepositoryFindByUser(t *testing.T) {
	repos := openTestRepositories(t)
	ctx := context.Background()
	owner := createTestUser(t, repos, "owner@example.com")
	other := createTestUser(t, repos, "other@example.com")

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for day := 0; day < 5; day++ {
		createTestRecord(t, repos, owner.ID, base.AddDate(0, 0, day), "fever")
	}
	createTestRecord(t, repos, other.ID, base, "cough")

	page, total, err := repos.History.FindByUser(ctx, owner.ID, models.HistoryFilter{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("find by user: %v", err)
	}
	if total != 5 || len(page) != 2 {
		t.Fatalf("expected 2 of 5 records, got %d of %d", len(page), total)
	}
	if !page[0].Timestamp.Equal(base.AddDate(0, 0, 2)) || !page[1].Timestamp.Equal(base.AddDate(0, 0, 1)) {
		t.Fatalf("expected newest-first second page, got %v and %v", page[0].Timestamp, page[1].Timestamp)
	}

	ranged, total, err := repos.History.FindByUser(ctx, owner.ID, models.HistoryFilter{
		StartDate: base.AddDate(0, 0, 1),
		EndDate:   base.AddDate(0, 0, 3),
		Page:      1,
		Limit:     10,
	})
	if err != nil {
		t.Fatalf("find by range: %v", err)
	}
	if total != 3 || len(ranged) != 3 {
		t.Fatalf("expected 3 records in range, got %d (total %d)", len(ranged), total)
	}
}

func TestHistoryRepositoryFindSince(t *testing.T) {
	repos := openTestRepositories(t)
	ctx := context.Background()
	user := createTestUser(t, repos, "jane@example.com")

	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	createTestRecord(t, repos, user.ID, base.AddDate(0, -2, 0), "old")
	createTestRecord(t, repos, user.ID, base.AddDate(0, 0, 10), "later")
	createTestRecord(t, repos, user.ID, base.AddDate(0, 0, 1), "earlier")

	records, err := repos.History.FindSince(ctx, user.ID, base)
	if err != nil {
		t.Fatalf("find since: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ProcessedSymptoms[0] != "earlier" || records[1].ProcessedSymptoms[0] != "later" {
		t.Fatalf("expected oldest first, got %v then %v", records[0].ProcessedSymptoms, records[1].ProcessedSymptoms)
	}
}

func TestHistoryRepositoryOwnership(t *testing.T) {
	repos := openTestRepositories(t)
	ctx := context.Background()
	owner := createTestUser(t, repos, "owner@example.com")
	intruder := createTestUser(t, repos, "intruder@example.com")
	record := createTestRecord(t, repos, owner.ID, time.Now(), "fever")

	if _, err := repos.History.FindByIDForUser(ctx, record.ID, intruder.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound for foreign record, got %v", err)
	}

	deleted, err := repos.History.DeleteForUser(ctx, record.ID, intruder.ID)
	if err != nil || deleted != 0 {
		t.Fatalf("expected no rows deleted by intruder, got %d (%v)", deleted, err)
	}

	deleted, err = repos.History.DeleteForUser(ctx, record.ID, owner.ID)
	if err != nil || deleted != 1 {
		t.Fatalf("expected owner to delete record, got %d (%v)", deleted, err)
	}
	if _, err := repos.History.FindByIDForUser(ctx, record.ID, owner.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record to be gone, got %v", err)
	}
}

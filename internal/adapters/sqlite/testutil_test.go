// Package sqlite_test contains integration tests for SQLite repositories.
//
// setupTestDB is the single place the schema is loaded for tests. It runs the
// embedded goose migrations against a temp-file database, so tests always see
// the production schema. Use the seed* helpers instead of raw INSERTs for
// parent rows.
package sqlite_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/example/quitplan/internal/db"
)

// setupTestDB creates a migrated database in the test's temp directory.
// A file is used rather than :memory: because every pooled connection to
// :memory: would see its own empty database.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedPlan inserts a test plan and returns its ID.
func seedPlan(t *testing.T, db *sql.DB, id, userID, coachID, status string) string {
	t.Helper()
	if id == "" {
		id = "PLAN-001"
	}
	if userID == "" {
		userID = "user-1"
	}
	if status == "" {
		status = "created"
	}
	var coach any
	if coachID != "" {
		coach = coachID
	}
	_, err := db.Exec("INSERT INTO quit_plans (id, user_id, coach_id, name, status) VALUES (?, ?, ?, 'Test Plan', ?)",
		id, userID, coach, status)
	if err != nil {
		t.Fatalf("failed to seed plan: %v", err)
	}
	return id
}

// seedStage inserts a test stage and returns its ID.
func seedStage(t *testing.T, db *sql.DB, id, planID string, number int, start, end string) string {
	t.Helper()
	_, err := db.Exec("INSERT INTO stages (id, plan_id, stage_number, title, start_date, end_date) VALUES (?, ?, ?, 'Test Stage', ?, ?)",
		id, planID, number, start, end)
	if err != nil {
		t.Fatalf("failed to seed stage: %v", err)
	}
	return id
}

// seedTask inserts a test task and returns its ID.
func seedTask(t *testing.T, db *sql.DB, id, stageID string, position int) string {
	t.Helper()
	_, err := db.Exec("INSERT INTO tasks (id, stage_id, position, title) VALUES (?, ?, ?, 'Test Task')",
		id, stageID, position)
	if err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}
	return id
}

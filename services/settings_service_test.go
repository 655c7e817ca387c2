package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"
)

var settingsColumns = []string{"settings_id", "evaluations_enabled", "updated_at"}

func settingsRow(enabled int64) []driver.Value {
	return []driver.Value{int64(1), enabled, time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)}
}

func TestGetCreatesSettingsRowOnFirstAccess(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `system_settings` WHERE"),
			args:    []driver.Value{int64(1)},
			columns: settingsColumns,
			rows:    [][]driver.Value{},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `system_settings`"),
			result:  scriptedResult{rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	settings, err := NewSettingsService(db).Get()
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if settings.SettingsID != 1 {
		t.Fatalf("expected settings id 1, got %d", settings.SettingsID)
	}
	if !settings.EvaluationsEnabled {
		t.Fatalf("expected evaluations to default to enabled")
	}

	if _, committed, _ := state.transactions(); committed != 1 {
		t.Fatalf("expected the insert to commit once, got %d commits", committed)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetReturnsExistingSettingsRow(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `system_settings` WHERE"),
			args:    []driver.Value{int64(1)},
			columns: settingsColumns,
			rows:    [][]driver.Value{settingsRow(0)},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	settings, err := NewSettingsService(db).Get()
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if settings.EvaluationsEnabled {
		t.Fatalf("expected the stored disabled state to be returned as is")
	}

	if begun, _, _ := state.transactions(); begun != 0 {
		t.Fatalf("expected no writes, got %d transactions", begun)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetSettingsReloadsRowAfterLosingCreateRace(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `system_settings` WHERE"),
			args:    []driver.Value{int64(1)},
			columns: settingsColumns,
			rows:    [][]driver.Value{},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `system_settings`"),
			err:     errors.New("Error 1062 (23000): Duplicate entry '1' for key 'system_settings.PRIMARY'"),
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `system_settings` WHERE"),
			args:    []driver.Value{int64(1)},
			columns: settingsColumns,
			rows:    [][]driver.Value{settingsRow(1)},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	settings, err := NewSettingsService(db).Get()
	if err != nil {
		t.Fatalf("expected the losing writer to recover, got error: %v", err)
	}
	if !settings.EvaluationsEnabled {
		t.Fatalf("expected the winner's row to be returned")
	}

	if _, committed, rolledBack := state.transactions(); committed != 0 || rolledBack != 1 {
		t.Fatalf("expected the failed insert to roll back, got %d commits and %d rollbacks", committed, rolledBack)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestToggleEvaluationsFlipsGate(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `system_settings` WHERE"),
			args:    []driver.Value{int64(1)},
			columns: settingsColumns,
			rows:    [][]driver.Value{settingsRow(1)},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `system_settings` SET `evaluations_enabled`=\\?"),
			result:  scriptedResult{rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	settings, err := NewSettingsService(db).ToggleEvaluations()
	if err != nil {
		t.Fatalf("ToggleEvaluations returned error: %v", err)
	}
	if settings.EvaluationsEnabled {
		t.Fatalf("expected the enabled gate to toggle off")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSetEvaluationsEnabledSkipsRedundantWrite(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `system_settings` WHERE"),
			args:    []driver.Value{int64(1)},
			columns: settingsColumns,
			rows:    [][]driver.Value{settingsRow(1)},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	settings, err := NewSettingsService(db).SetEvaluationsEnabled(true)
	if err != nil {
		t.Fatalf("SetEvaluationsEnabled returned error: %v", err)
	}
	if !settings.EvaluationsEnabled {
		t.Fatalf("expected the gate to stay enabled")
	}

	if begun, _, _ := state.transactions(); begun != 0 {
		t.Fatalf("expected no update for an unchanged state, got %d transactions", begun)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

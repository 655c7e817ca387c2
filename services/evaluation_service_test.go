package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"evaluation-management-api/models"
)

var (
	employeeColumns   = []string{"employee_id", "name", "employee_code", "supervisor_id", "created_at", "updated_at"}
	supervisorColumns = []string{"supervisor_id", "name", "email", "password_hash", "role", "manager_id", "created_at", "updated_at"}
	evaluationColumns = []string{"evaluation_id", "supervisor_id", "employee_id", "period_id", "year", "month", "notes", "created_at"}
	responseColumns   = []string{"response_id", "evaluation_id", "question_id", "answer_id", "score", "created_at"}
)

func employeeRow(id int64, name, code string, supervisorID int64) []driver.Value {
	at := time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)
	return []driver.Value{id, name, code, supervisorID, at, at}
}

func supervisorRow(id int64, name, email, role string) []driver.Value {
	at := time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)
	return []driver.Value{id, name, email, "$2a$10$hash", role, nil, at, at}
}

func evaluationRow(id, supervisorID, employeeID, periodID, year, month int64, notes string, createdAt time.Time) []driver.Value {
	return []driver.Value{id, supervisorID, employeeID, periodID, year, month, notes, createdAt}
}

func responseRow(id, evaluationID, questionID, answerID int64, score driver.Value) []driver.Value {
	return []driver.Value{id, evaluationID, questionID, answerID, score, time.Date(2025, time.March, 15, 14, 0, 0, 0, time.UTC)}
}

// submitPreludeSteps scripts the reads Submit performs before it writes
// anything: employee, evaluator, settings gate, active questions with
// answers and the period row.
func submitPreludeSteps(evaluatorRole string, employeeSupervisorID int64) []*queryStep {
	return []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `employees` WHERE"),
			args:    []driver.Value{int64(10)},
			columns: employeeColumns,
			rows:    [][]driver.Value{employeeRow(10, "Alice Stone", "EMP001", employeeSupervisorID)},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `supervisors` WHERE"),
			args:    []driver.Value{int64(2)},
			columns: supervisorColumns,
			rows:    [][]driver.Value{supervisorRow(2, "Sam Ward", "sam@example.com", evaluatorRole)},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `system_settings` WHERE"),
			args:    []driver.Value{int64(1)},
			columns: settingsColumns,
			rows:    [][]driver.Value{settingsRow(1)},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `evaluation_questions` WHERE is_active = \\? ORDER BY order_index, question_id"),
			args:    []driver.Value{true},
			columns: questionColumns,
			rows: [][]driver.Value{
				questionRow(1, "Quality of work", 1, 0),
				questionRow(2, "Team attitude", 1, 1),
			},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `question_answers` WHERE .*question_id.* ORDER BY order_index, answer_id"),
			args:    []driver.Value{int64(1), int64(2)},
			columns: answerColumns,
			rows: [][]driver.Value{
				answerRow(11, 1, "Excellent", int64(100), 0),
				answerRow(12, 1, "Poor", int64(20), 1),
				answerRow(21, 2, "Positive", int64(80), 0),
				answerRow(22, 2, "Not applicable", nil, 1),
			},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `evaluation_periods` WHERE year = \\? AND month = \\?"),
			args:    []driver.Value{int64(2025), int64(3)},
			columns: periodColumns,
			rows:    [][]driver.Value{periodRow(4, 2025, 3)},
		},
	}
}

func TestSubmitRejectsOverlongNotes(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	svc := NewEvaluationService(db)
	_, err := svc.Submit(2, SubmitInput{EmployeeID: 10, Notes: strings.Repeat("n", 1001)})
	svcErr, ok := AsServiceError(err)
	if !ok || svcErr.Code != ErrCodeInvalid {
		t.Fatalf("expected invalid error, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("expected no statements: %v", err)
	}
}

func TestSubmitDeniesSupervisorOfAnotherTeam(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `employees` WHERE"),
			args:    []driver.Value{int64(10)},
			columns: employeeColumns,
			rows:    [][]driver.Value{employeeRow(10, "Alice Stone", "EMP001", 77)},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `supervisors` WHERE"),
			args:    []driver.Value{int64(2)},
			columns: supervisorColumns,
			rows:    [][]driver.Value{supervisorRow(2, "Sam Ward", "sam@example.com", models.RoleSupervisor)},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	_, err := NewEvaluationService(db).Submit(2, SubmitInput{EmployeeID: 10})
	svcErr, ok := AsServiceError(err)
	if !ok || svcErr.Code != ErrCodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}

	if begun, _, _ := state.transactions(); begun != 0 {
		t.Fatalf("expected nothing to be written, got %d transactions", begun)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSubmitUnknownEmployee(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `employees` WHERE"),
			args:    []driver.Value{int64(99)},
			columns: employeeColumns,
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	_, err := NewEvaluationService(db).Submit(2, SubmitInput{EmployeeID: 99})
	svcErr, ok := AsServiceError(err)
	if !ok || svcErr.Code != ErrCodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSubmitBlockedWhileEvaluationsDisabled(t *testing.T) {
	// A manager evaluating another team's employee passes the access
	// check and still stops at the gate.
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `employees` WHERE"),
			args:    []driver.Value{int64(10)},
			columns: employeeColumns,
			rows:    [][]driver.Value{employeeRow(10, "Alice Stone", "EMP001", 77)},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `supervisors` WHERE"),
			args:    []driver.Value{int64(2)},
			columns: supervisorColumns,
			rows:    [][]driver.Value{supervisorRow(2, "Grand Manager", "manager@example.com", models.RoleManager)},
		},
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

	_, err := NewEvaluationService(db).Submit(2, SubmitInput{EmployeeID: 10})
	svcErr, ok := AsServiceError(err)
	if !ok || svcErr.Code != ErrCodeDisabled {
		t.Fatalf("expected disabled error, got %v", err)
	}

	if begun, _, _ := state.transactions(); begun != 0 {
		t.Fatalf("expected nothing to be written, got %d transactions", begun)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSubmitRequiresActiveQuestions(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `employees` WHERE"),
			args:    []driver.Value{int64(10)},
			columns: employeeColumns,
			rows:    [][]driver.Value{employeeRow(10, "Alice Stone", "EMP001", 2)},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `supervisors` WHERE"),
			args:    []driver.Value{int64(2)},
			columns: supervisorColumns,
			rows:    [][]driver.Value{supervisorRow(2, "Sam Ward", "sam@example.com", models.RoleSupervisor)},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `system_settings` WHERE"),
			args:    []driver.Value{int64(1)},
			columns: settingsColumns,
			rows:    [][]driver.Value{settingsRow(1)},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `evaluation_questions` WHERE is_active = \\?"),
			args:    []driver.Value{true},
			columns: questionColumns,
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	_, err := NewEvaluationService(db).Submit(2, SubmitInput{EmployeeID: 10})
	svcErr, ok := AsServiceError(err)
	if !ok || svcErr.Code != ErrCodeNoQuestions {
		t.Fatalf("expected no questions error, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSubmitPersistsSelectionsAsSnapshots(t *testing.T) {
	steps := append(submitPreludeSteps(models.RoleSupervisor, 2),
		&queryStep{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `evaluations`"),
			result:  scriptedResult{lastInsertID: 55, rowsAffected: 1},
		},
		&queryStep{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `evaluation_responses`"),
			result:  scriptedResult{lastInsertID: 501, rowsAffected: 1},
		},
		&queryStep{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `evaluation_responses`"),
			result:  scriptedResult{lastInsertID: 502, rowsAffected: 1},
		},
	)

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewEvaluationService(db)
	svc.now = func() time.Time {
		return time.Date(2025, time.March, 15, 14, 30, 0, 0, time.UTC)
	}

	summary, err := svc.Submit(2, SubmitInput{
		EmployeeID: 10,
		Selections: map[uint]uint{1: 11, 2: 21},
		Notes:      "Solid month",
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if summary.EvaluationID != 55 {
		t.Fatalf("expected the inserted evaluation id, got %d", summary.EvaluationID)
	}
	if summary.Year != 2025 || summary.Month != 3 {
		t.Fatalf("expected the submission to stamp 2025-03, got %d-%d", summary.Year, summary.Month)
	}
	if summary.PeriodID == nil || *summary.PeriodID != 4 {
		t.Fatalf("expected period 4 to be linked, got %v", summary.PeriodID)
	}
	if summary.Notes != "Solid month" {
		t.Fatalf("unexpected notes: %q", summary.Notes)
	}

	if len(summary.Responses) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(summary.Responses))
	}
	first, second := summary.Responses[0], summary.Responses[1]
	if first.ResponseID != 501 || first.QuestionID != 1 || first.AnswerID != 11 {
		t.Fatalf("unexpected first response: %+v", first)
	}
	if first.Score == nil || *first.Score != 100 {
		t.Fatalf("expected the answer score to be snapshotted, got %v", first.Score)
	}
	if second.QuestionID != 2 || second.AnswerID != 21 || second.Score == nil || *second.Score != 80 {
		t.Fatalf("unexpected second response: %+v", second)
	}

	if summary.TotalScore != 180 {
		t.Fatalf("expected total 180, got %d", summary.TotalScore)
	}
	if summary.AverageScore != 90 {
		t.Fatalf("expected average 90, got %v", summary.AverageScore)
	}

	if summary.Employee == nil || summary.Employee.Name != "Alice Stone" {
		t.Fatalf("expected the employee to be attached")
	}
	if summary.Supervisor == nil || summary.Supervisor.Email != "sam@example.com" {
		t.Fatalf("expected the evaluator to be attached")
	}
	if summary.Period == nil || summary.Period.PeriodID != 4 {
		t.Fatalf("expected the period to be attached")
	}

	if begun, committed, _ := state.transactions(); begun != 1 || committed != 1 {
		t.Fatalf("expected one committed transaction, got %d begun and %d committed", begun, committed)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSubmitAllowsPartialAnswering(t *testing.T) {
	// Question 1 gets no selection at all and simply has no response
	// row; the submission still goes through.
	steps := append(submitPreludeSteps(models.RoleSupervisor, 2),
		&queryStep{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `evaluations`"),
			result:  scriptedResult{lastInsertID: 58, rowsAffected: 1},
		},
		&queryStep{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `evaluation_responses`"),
			result:  scriptedResult{lastInsertID: 510, rowsAffected: 1},
		},
	)

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewEvaluationService(db)
	svc.now = func() time.Time {
		return time.Date(2025, time.March, 15, 14, 30, 0, 0, time.UTC)
	}

	summary, err := svc.Submit(2, SubmitInput{
		EmployeeID: 10,
		Selections: map[uint]uint{2: 21},
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if len(summary.Responses) != 1 {
		t.Fatalf("expected 1 response, got %d", len(summary.Responses))
	}
	if summary.Responses[0].QuestionID != 2 || summary.Responses[0].AnswerID != 21 {
		t.Fatalf("unexpected response: %+v", summary.Responses[0])
	}
	if summary.TotalScore != 80 || summary.AverageScore != 80 {
		t.Fatalf("unexpected aggregates: total %d average %v", summary.TotalScore, summary.AverageScore)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSubmitSkipsSelectionsThatDoNotBelong(t *testing.T) {
	// Answer 21 belongs to question 2, and 999 belongs to nothing.
	// Both selections are dropped without failing the submission.
	steps := append(submitPreludeSteps(models.RoleSupervisor, 2),
		&queryStep{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `evaluations`"),
			result:  scriptedResult{lastInsertID: 56, rowsAffected: 1},
		},
	)

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewEvaluationService(db)
	svc.now = func() time.Time {
		return time.Date(2025, time.March, 15, 14, 30, 0, 0, time.UTC)
	}

	summary, err := svc.Submit(2, SubmitInput{
		EmployeeID: 10,
		Selections: map[uint]uint{1: 21, 2: 999},
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if len(summary.Responses) != 0 {
		t.Fatalf("expected no responses, got %d", len(summary.Responses))
	}
	if summary.TotalScore != 0 || summary.AverageScore != 0 {
		t.Fatalf("expected zero aggregates, got total %d average %v", summary.TotalScore, summary.AverageScore)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSubmitRollsBackWhenAResponseInsertFails(t *testing.T) {
	steps := append(submitPreludeSteps(models.RoleSupervisor, 2),
		&queryStep{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `evaluations`"),
			result:  scriptedResult{lastInsertID: 57, rowsAffected: 1},
		},
		&queryStep{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `evaluation_responses`"),
			err:     errors.New("Error 1213 (40001): Deadlock found when trying to get lock"),
		},
	)

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewEvaluationService(db)
	svc.now = func() time.Time {
		return time.Date(2025, time.March, 15, 14, 30, 0, 0, time.UTC)
	}

	_, err := svc.Submit(2, SubmitInput{
		EmployeeID: 10,
		Selections: map[uint]uint{1: 11},
	})
	svcErr, ok := AsServiceError(err)
	if !ok || svcErr.Code != ErrCodePersistence {
		t.Fatalf("expected persistence error, got %v", err)
	}

	if _, committed, rolledBack := state.transactions(); committed != 0 || rolledBack != 1 {
		t.Fatalf("expected a rollback and no commit, got %d commits and %d rollbacks", committed, rolledBack)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListAppliesFiltersAndOrdersNewestFirst(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `evaluations` WHERE employee_id = \\? AND year = \\? AND month = \\? ORDER BY created_at DESC, evaluation_id DESC"),
			args:    []driver.Value{int64(10), int64(2025), int64(3)},
			columns: evaluationColumns,
			rows: [][]driver.Value{
				evaluationRow(9, 2, 10, 4, 2025, 3, "", time.Date(2025, time.March, 20, 10, 0, 0, 0, time.UTC)),
				evaluationRow(7, 2, 10, 4, 2025, 3, "", time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC)),
			},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `employees` WHERE"),
			args:    []driver.Value{int64(10)},
			columns: employeeColumns,
			rows:    [][]driver.Value{employeeRow(10, "Alice Stone", "EMP001", 2)},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `evaluation_responses` WHERE"),
			args:    []driver.Value{int64(9), int64(7)},
			columns: responseColumns,
			rows: [][]driver.Value{
				responseRow(501, 9, 1, 11, int64(80)),
				responseRow(502, 9, 2, 22, nil),
				responseRow(490, 7, 1, 12, int64(20)),
			},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `supervisors` WHERE"),
			args:    []driver.Value{int64(2)},
			columns: supervisorColumns,
			rows:    [][]driver.Value{supervisorRow(2, "Sam Ward", "sam@example.com", models.RoleSupervisor)},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	summaries, err := NewEvaluationService(db).List(EvaluationFilter{EmployeeID: 10, Year: 2025, Month: 3})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 evaluations, got %d", len(summaries))
	}

	newest := summaries[0]
	if newest.EvaluationID != 9 {
		t.Fatalf("expected the newest evaluation first, got %d", newest.EvaluationID)
	}
	// The unscored response is left out of the average divisor.
	if newest.TotalScore != 80 || newest.AverageScore != 80 {
		t.Fatalf("unexpected aggregates: total %d average %v", newest.TotalScore, newest.AverageScore)
	}
	if summaries[1].TotalScore != 20 || summaries[1].AverageScore != 20 {
		t.Fatalf("unexpected aggregates on older evaluation: %+v", summaries[1])
	}
	if newest.Employee == nil || newest.Employee.EmployeeCode != "EMP001" {
		t.Fatalf("expected the employee to be preloaded")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFindAnswerMatchesOnlyOwnAnswers(t *testing.T) {
	answers := []models.QuestionAnswer{
		{AnswerID: 11, QuestionID: 1, AnswerText: "Excellent"},
		{AnswerID: 12, QuestionID: 1, AnswerText: "Poor"},
	}

	if found := findAnswer(answers, 12); found == nil || found.AnswerText != "Poor" {
		t.Fatalf("expected answer 12 to be found, got %+v", found)
	}
	if found := findAnswer(answers, 21); found != nil {
		t.Fatalf("expected a foreign answer id to be rejected, got %+v", found)
	}
	if found := findAnswer(nil, 11); found != nil {
		t.Fatalf("expected no match on an empty answer set")
	}
}

func TestCopyScoreDetachesSnapshot(t *testing.T) {
	if copyScore(nil) != nil {
		t.Fatalf("expected nil to stay nil")
	}

	source := 80
	snapshot := copyScore(&source)
	if snapshot == nil || *snapshot != 80 {
		t.Fatalf("expected a copied value of 80, got %v", snapshot)
	}

	source = 10
	if *snapshot != 80 {
		t.Fatalf("expected the snapshot to keep 80 after the source changed, got %d", *snapshot)
	}
}

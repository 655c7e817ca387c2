package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"regexp"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stepKind int

const (
	kindQuery stepKind = iota
	kindExec
)

// queryStep scripts one expected statement. A nil args slice skips
// argument checking, which statements carrying wall clock timestamps
// need.
type queryStep struct {
	kind    stepKind
	pattern *regexp.Regexp
	args    []driver.Value
	delay   time.Duration
	columns []string
	rows    [][]driver.Value
	err     error
	result  scriptedResult
}

// scriptedDB hands out steps in order and fails on any statement the
// script did not expect. Transactions are counted, not scripted:
// begin, commit and rollback never reach the SQL layer.
type scriptedDB struct {
	mu         sync.Mutex
	idx        int
	steps      []*queryStep
	begun      int
	committed  int
	rolledBack int
}

func (state *scriptedDB) next(kind stepKind, query string, args []driver.Value) (*queryStep, error) {
	state.mu.Lock()
	defer state.mu.Unlock()

	if state.idx >= len(state.steps) {
		return nil, fmt.Errorf("unexpected statement: %s", query)
	}
	step := state.steps[state.idx]
	if step.kind != kind {
		return nil, fmt.Errorf("statement %d has the wrong kind: %s", state.idx, query)
	}
	if !step.pattern.MatchString(query) {
		return nil, fmt.Errorf("statement %d does not match %s: %s", state.idx, step.pattern, query)
	}
	if step.args != nil {
		if len(args) != len(step.args) {
			return nil, fmt.Errorf("statement %d expected %d args, got %d: %s", state.idx, len(step.args), len(args), query)
		}
		for i := range args {
			if args[i] != step.args[i] {
				return nil, fmt.Errorf("statement %d arg %d expected %v, got %v: %s", state.idx, i, step.args[i], args[i], query)
			}
		}
	}
	state.idx++
	return step, nil
}

func (state *scriptedDB) verifyComplete() error {
	state.mu.Lock()
	defer state.mu.Unlock()
	if state.idx != len(state.steps) {
		return fmt.Errorf("%d scripted statements were never executed", len(state.steps)-state.idx)
	}
	return nil
}

func (state *scriptedDB) transactions() (begun, committed, rolledBack int) {
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.begun, state.committed, state.rolledBack
}

type scriptedDriver struct {
	state *scriptedDB
}

func (d *scriptedDriver) Open(string) (driver.Conn, error) {
	return &scriptedConn{state: d.state}, nil
}

type scriptedConn struct {
	state *scriptedDB
}

func (c *scriptedConn) Prepare(string) (driver.Stmt, error) {
	return nil, fmt.Errorf("prepare is not supported")
}

func (c *scriptedConn) Close() error {
	return nil
}

func (c *scriptedConn) Begin() (driver.Tx, error) {
	c.state.mu.Lock()
	c.state.begun++
	c.state.mu.Unlock()
	return &scriptedTx{state: c.state}, nil
}

func (c *scriptedConn) QueryContext(ctx context.Context, query string, named []driver.NamedValue) (driver.Rows, error) {
	step, err := c.state.next(kindQuery, query, namedToValues(named))
	if err != nil {
		return nil, err
	}
	if step.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(step.delay):
		}
	}
	if step.err != nil {
		return nil, step.err
	}
	return &scriptedRows{columns: step.columns, rows: step.rows}, nil
}

func (c *scriptedConn) ExecContext(ctx context.Context, query string, named []driver.NamedValue) (driver.Result, error) {
	step, err := c.state.next(kindExec, query, namedToValues(named))
	if err != nil {
		return nil, err
	}
	if step.err != nil {
		return nil, step.err
	}
	return step.result, nil
}

type scriptedTx struct {
	state *scriptedDB
}

func (t *scriptedTx) Commit() error {
	t.state.mu.Lock()
	t.state.committed++
	t.state.mu.Unlock()
	return nil
}

func (t *scriptedTx) Rollback() error {
	t.state.mu.Lock()
	t.state.rolledBack++
	t.state.mu.Unlock()
	return nil
}

type scriptedRows struct {
	columns []string
	rows    [][]driver.Value
	idx     int
}

func (r *scriptedRows) Columns() []string {
	return r.columns
}

func (r *scriptedRows) Close() error {
	return nil
}

func (r *scriptedRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.idx])
	r.idx++
	return nil
}

type scriptedResult struct {
	lastInsertID int64
	rowsAffected int64
	err          error
}

func (r scriptedResult) LastInsertId() (int64, error) {
	return r.lastInsertID, r.err
}

func (r scriptedResult) RowsAffected() (int64, error) {
	return r.rowsAffected, r.err
}

func namedToValues(named []driver.NamedValue) []driver.Value {
	args := make([]driver.Value, len(named))
	for i, nv := range named {
		args[i] = nv.Value
	}
	return args
}

// newScriptedGormDB opens a gorm handle over a one-connection scripted
// driver so service tests can pin down the exact statements a call
// issues, in order, without a live MySQL server.
func newScriptedGormDB(t *testing.T, steps []*queryStep) (*gorm.DB, *scriptedDB, func()) {
	t.Helper()

	state := &scriptedDB{steps: steps}
	driverName := fmt.Sprintf("scripted_%d", time.Now().UnixNano())
	sql.Register(driverName, &scriptedDriver{state: state})

	sqlDB, err := sql.Open(driverName, "scripted")
	if err != nil {
		t.Fatalf("failed to open scripted db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open gorm over scripted db: %v", err)
	}

	cleanup := func() {
		_ = sqlDB.Close()
	}
	return gormDB, state, cleanup
}

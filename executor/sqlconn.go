package executor

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
)

// SQLConn adapts a *sql.DB to the Conn boundary. Statements that return
// rows are drained and counted; everything else reports rows affected.
type SQLConn struct {
	db *sql.DB
}

// NewSQLConn wraps an open database handle. The caller keeps ownership of
// the handle and closes it after the run.
func NewSQLConn(db *sql.DB) *SQLConn {
	return &SQLConn{db: db}
}

// Execute runs one statement and returns the number of rows it returned
// (for queries) or affected (for DML). The statement text is passed to the
// driver verbatim.
func (c *SQLConn) Execute(ctx context.Context, stmt string) (int64, error) {
	if returnsRows(stmt) {
		rows, err := c.db.QueryContext(ctx, stmt)
		if err != nil {
			return 0, classify(err)
		}
		defer rows.Close()

		var n int64
		for rows.Next() {
			n++
		}

		if err := rows.Err(); err != nil {
			return n, classify(err)
		}

		return n, nil
	}

	result, err := c.db.ExecContext(ctx, stmt)
	if err != nil {
		return 0, classify(err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		// Some drivers cannot report affected rows; that is not a
		// statement failure.
		return 0, nil
	}

	return n, nil
}

// returnsRows reports whether the statement produces a result set and
// should run through Query rather than Exec.
func returnsRows(stmt string) bool {
	head := firstWord(stmt)

	switch head {
	case "SELECT", "VALUES", "EXPLAIN", "PRAGMA", "SHOW", "DESCRIBE":
		return true
	case "WITH":
		// A WITH prefix may front either a query or DML
		// (WITH ... INSERT/UPDATE/DELETE).
		return !containsDML(stmt)
	default:
		return false
	}
}

func firstWord(stmt string) string {
	fields := strings.Fields(stmt)
	if len(fields) == 0 {
		return ""
	}

	return strings.ToUpper(fields[0])
}

func containsDML(stmt string) bool {
	upper := strings.ToUpper(stmt)

	for _, kw := range []string{"INSERT ", "UPDATE ", "DELETE "} {
		if strings.Contains(upper, kw) {
			return true
		}
	}

	return false
}

// classify maps driver errors onto the harness error kinds. Unrecognized
// errors pass through unchanged and are captured per statement.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrStatementTimeout, err)
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %v", ErrConnectionLost, err)
	}

	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "no such module"),
		strings.Contains(msg, "unsupported"),
		strings.Contains(msg, "not supported"):
		return fmt.Errorf("%w: %v", ErrUnsupportedFeature, err)

	case strings.Contains(msg, "database is closed"),
		strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "broken pipe"):
		return fmt.Errorf("%w: %v", ErrConnectionLost, err)
	}

	return err
}

// Package repository implements raw-SQL data access for the movie
// reservation service. Each repository wraps a *sql.DB and exposes
// plain methods for autonomous reads plus ...Tx variants that operate
// inside a caller-owned transaction. Sentinel errors defined here and
// in the individual repository files let the service and handler
// layers distinguish failure scenarios with errors.Is.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrLockWaitTimeout is returned when a row lock could not be acquired
// within the store's bound. Unlike the other sentinels this failure is
// transient: the caller may retry the whole operation. Handlers
// translate it into 503 with a Retry-After hint.
var ErrLockWaitTimeout = errors.New("lock wait timeout")

// MySQL server error numbers for lock acquisition failures.
const (
	mysqlErrLockWaitTimeout = 1205
	mysqlErrDeadlock        = 1213
)

// translateLockErr maps MySQL lock-wait and deadlock errors onto
// ErrLockWaitTimeout so callers don't need to know driver error codes.
// Both conditions abort the transaction and are safe to retry. Any
// other error is returned unchanged.
func translateLockErr(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		if me.Number == mysqlErrLockWaitTimeout || me.Number == mysqlErrDeadlock {
			return ErrLockWaitTimeout
		}
	}
	return err
}

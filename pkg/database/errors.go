package database

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/project-shkedia/media-db-service/pkg/apperrors"
)

// droppedPatterns match driver messages for a session that went away under us.
var droppedPatterns = []string{
	"conn closed",
	"connection reset",
	"broken pipe",
	"server closed the connection unexpectedly",
	"terminating connection",
	"unexpected eof",
	"use of closed network connection",
	"sql: database is closed",
}

// IsConnectionDropped reports whether err means the session was lost and the
// statement may be re-run on a fresh one. Constraint violations, syntax errors
// and timeouts are not drops.
func IsConnectionDropped(err error) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, apperrors.ErrTransientStore),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, net.ErrClosed),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.EPIPE):
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08 is connection exception; 57P01-57P03 are admin/crash shutdown.
		switch {
		case strings.HasPrefix(pgErr.Code, "08"):
			return true
		case pgErr.Code == "57P01", pgErr.Code == "57P02", pgErr.Code == "57P03":
			return true
		}
		return false
	}

	if pgconn.SafeToRetry(err) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range droppedPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

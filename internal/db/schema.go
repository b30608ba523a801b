package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"

	"github.com/sirupsen/logrus"
)

// HasTable reports whether table exists in the current schema. Lookup errors
// count as "absent"; a bad connection is logged once per call site.
func HasTable(ctx context.Context, q QueryRower, table string) bool {
	var name sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		LIMIT 1
	`, table).Scan(&name)
	if err != nil {
		logBadConn("HasTable", err)
		return false
	}
	return name.Valid && name.String != ""
}

func logBadConn(tag string, err error) {
	if errors.Is(err, driver.ErrBadConn) {
		logrus.WithField("probe", tag).Warn("driver.ErrBadConn")
	}
}

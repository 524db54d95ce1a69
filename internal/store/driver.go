package store

import (
	"database/sql"
	"fmt"
	"unicode/utf8"

	"github.com/mattn/go-sqlite3"

	"github.com/roach88/critnf/internal/criteria"
)

// DriverName is the database/sql driver registered by this package: the
// sqlite3 driver plus the critnf_match function.
const DriverName = "sqlite3_critnf"

// MatchFunc is the SQL function evaluating SIMILAR TO and LIKE_REGEX:
//
//	critnf_match(pattern TEXT, mode INTEGER, escape TEXT, ci INTEGER, value) -> 0, 1, or NULL
//
// mode is a criteria.MatchMode, escape is "" for none, and ci is 1 for
// case-insensitive matching. A NULL value yields NULL.
const MatchFunc = "critnf_match"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			// LIKE must agree with criteria.MatchCriteria on every
			// connection, not just the first.
			if _, err := conn.Exec("PRAGMA case_sensitive_like = ON", nil); err != nil {
				return err
			}
			return conn.RegisterFunc(MatchFunc, matchValue, true)
		},
	})
}

func matchValue(pattern string, mode int64, escape string, ci int64, value any) (any, error) {
	// go-sqlite3 hands SQL NULL to an any parameter as a nil []byte.
	if b, ok := value.([]byte); ok && b == nil {
		return nil, nil
	}

	var s string
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		s = fmt.Sprint(v)
	}

	esc := criteria.NoEscape
	if escape != "" {
		esc, _ = utf8.DecodeRuneInString(escape)
	}

	re, err := criteria.DefaultPatternCache().Compile(criteria.PatternKey{
		Pattern:         pattern,
		Escape:          esc,
		Mode:            criteria.MatchMode(mode),
		CaseInsensitive: ci != 0,
	})
	if err != nil {
		return nil, err
	}
	if re.MatchString(s) {
		return int64(1), nil
	}
	return int64(0), nil
}

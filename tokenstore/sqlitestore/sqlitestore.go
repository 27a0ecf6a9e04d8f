// Package sqlitestore keeps the token store's two locations in a SQLite
// database file: a cookies table for the edge jar and a local_storage table
// for the page key-value store.
package sqlitestore

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"path/filepath"
	"time"

	apperrors "github.com/jrsteele09/go-bank-client/internal/errors"
	"github.com/jrsteele09/go-bank-client/tokenstore"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS cookies (
	name      TEXT PRIMARY KEY,
	value     TEXT NOT NULL,
	path      TEXT NOT NULL DEFAULT '/',
	expires   INTEGER NOT NULL DEFAULT 0,
	max_age   INTEGER NOT NULL DEFAULT 0,
	secure    INTEGER NOT NULL DEFAULT 0,
	same_site INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS local_storage (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

var (
	_ tokenstore.CookieJar = (*DB)(nil)
	_ tokenstore.KeyValue  = (*DB)(nil)
)

// DB implements both token store locations over one SQLite connection pool
type DB struct {
	conn    *sql.DB
	nowTime func() time.Time
}

// Open creates the directory for dbPath if needed, opens the database and
// ensures the schema exists.
func Open(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, errors.Wrap(err, "[sqlitestore Open] create directory")
	}

	conn, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.Wrap(err, "[sqlitestore Open] open database")
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "[sqlitestore Open] ping database")
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "[sqlitestore Open] create schema")
	}

	return &DB{conn: conn, nowTime: time.Now}, nil
}

// WithNowTime replaces the clock used to decide cookie expiry
func (db *DB) WithNowTime(nowFunc func() time.Time) *DB {
	db.nowTime = nowFunc
	return db
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) SetCookie(ctx context.Context, cookie *http.Cookie) error {
	if cookie == nil || cookie.Name == "" {
		return apperrors.ErrInvalidRequest
	}
	var expires int64
	if !cookie.Expires.IsZero() {
		expires = cookie.Expires.UnixMilli()
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO cookies (name, value, path, expires, max_age, secure, same_site)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			value = excluded.value, path = excluded.path, expires = excluded.expires,
			max_age = excluded.max_age, secure = excluded.secure, same_site = excluded.same_site`,
		cookie.Name, cookie.Value, cookie.Path, expires, cookie.MaxAge, boolToInt(cookie.Secure), int(cookie.SameSite))
	return errors.Wrap(err, "[sqlitestore SetCookie]")
}

func (db *DB) Cookie(ctx context.Context, name string) (*http.Cookie, error) {
	var (
		c        http.Cookie
		expires  int64
		secure   int
		sameSite int
	)
	row := db.conn.QueryRowContext(ctx,
		`SELECT name, value, path, expires, max_age, secure, same_site FROM cookies WHERE name = ?`, name)
	err := row.Scan(&c.Name, &c.Value, &c.Path, &expires, &c.MaxAge, &secure, &sameSite)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrTokenNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[sqlitestore Cookie]")
	}
	if expires != 0 {
		c.Expires = time.UnixMilli(expires)
		if !c.Expires.After(db.nowTime()) {
			return nil, apperrors.ErrTokenNotFound
		}
	}
	c.Secure = secure == 1
	c.SameSite = http.SameSite(sameSite)
	return &c, nil
}

func (db *DB) RemoveCookie(ctx context.Context, name string) error {
	_, err := db.conn.ExecContext(ctx, `DELETE FROM cookies WHERE name = ?`, name)
	return errors.Wrap(err, "[sqlitestore RemoveCookie]")
}

func (db *DB) SetItem(ctx context.Context, key, value string) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO local_storage (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return errors.Wrap(err, "[sqlitestore SetItem]")
}

func (db *DB) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := db.conn.QueryRowContext(ctx, `SELECT value FROM local_storage WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "[sqlitestore GetItem]")
	}
	return value, true, nil
}

func (db *DB) RemoveItem(ctx context.Context, key string) error {
	_, err := db.conn.ExecContext(ctx, `DELETE FROM local_storage WHERE key = ?`, key)
	return errors.Wrap(err, "[sqlitestore RemoveItem]")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

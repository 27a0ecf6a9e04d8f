package sqlitestore_test

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/jrsteele09/go-bank-client/internal/errors"
	"github.com/jrsteele09/go-bank-client/tokenstore"
	"github.com/jrsteele09/go-bank-client/tokenstore/sqlitestore"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) (*sqlitestore.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "client.db")
	db, err := sqlitestore.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, path
}

func TestDB_KeyValue(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)

	_, ok, err := db.GetItem(ctx, "token")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, db.SetItem(ctx, "token", "a"))
	require.NoError(t, db.SetItem(ctx, "token", "b"))

	v, ok, err := db.GetItem(ctx, "token")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "b", v)

	require.NoError(t, db.RemoveItem(ctx, "token"))
	require.NoError(t, db.RemoveItem(ctx, "token"))
	_, ok, err = db.GetItem(ctx, "token")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDB_Cookies(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	db, _ := openTestDB(t)
	db.WithNowTime(func() time.Time { return now })

	_, err := db.Cookie(ctx, "token")
	require.ErrorIs(t, err, apperrors.ErrTokenNotFound)

	require.NoError(t, db.SetCookie(ctx, &http.Cookie{
		Name:     "token",
		Value:    "tok",
		Path:     "/",
		Expires:  now.Add(24 * time.Hour),
		MaxAge:   86400,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}))

	c, err := db.Cookie(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, "tok", c.Value)
	require.True(t, c.Secure)
	require.Equal(t, http.SameSiteStrictMode, c.SameSite)
	require.Equal(t, 86400, c.MaxAge)
	require.True(t, c.Expires.Equal(now.Add(24*time.Hour)))

	now = now.Add(25 * time.Hour)
	_, err = db.Cookie(ctx, "token")
	require.ErrorIs(t, err, apperrors.ErrTokenNotFound)

	require.NoError(t, db.RemoveCookie(ctx, "token"))
	require.NoError(t, db.RemoveCookie(ctx, "token"))
}

func TestDB_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	db, path := openTestDB(t)

	store, err := tokenstore.New(db, db)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "persisted", time.Now().Add(72*time.Hour)))
	require.NoError(t, db.Close())

	reopened, err := sqlitestore.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	store, err = tokenstore.New(reopened, reopened)
	require.NoError(t, err)

	token, ok, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "persisted", token)

	record, ok, err := store.LoadCookie(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "persisted", record.Token)

	require.NoError(t, store.Clear(ctx))
	_, ok, err = store.Load(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDB_StoreSaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	nowFunc := func() time.Time { return now }
	db, _ := openTestDB(t)
	db.WithNowTime(nowFunc)
	store, err := tokenstore.New(db, db, tokenstore.WithNowTime(nowFunc))
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, "tok", now.Add(36*time.Hour)))

	c, err := db.Cookie(ctx, tokenstore.DefaultKey)
	require.NoError(t, err)
	require.Equal(t, "tok", c.Value)
	require.Equal(t, "/", c.Path)
	require.True(t, c.Secure)
	require.Equal(t, http.SameSiteStrictMode, c.SameSite)
	require.Equal(t, 2*86400, c.MaxAge)
	require.True(t, c.Expires.Equal(now.Add(48*time.Hour)))

	token, ok, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "tok", token)

	record, ok, err := store.LoadCookie(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "tok", record.Token)
	require.True(t, record.ExpiresAt.Equal(now.Add(48*time.Hour)))

	require.NoError(t, store.Clear(ctx))
	_, err = db.Cookie(ctx, tokenstore.DefaultKey)
	require.ErrorIs(t, err, apperrors.ErrTokenNotFound)
	_, ok, err = store.Load(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

package memstore

import (
	"context"
	"net/http"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/go-bank-client/internal/errors"
	"github.com/jrsteele09/go-bank-client/tokenstore"
)

var (
	_ tokenstore.CookieJar = (*Jar)(nil)
	_ tokenstore.KeyValue  = (*KeyValue)(nil)
)

// Jar is an in-memory cookie jar. Expired cookies read as absent.
type Jar struct {
	cookies map[string]http.Cookie
	nowTime func() time.Time
	lock    sync.RWMutex
}

// NewJar creates an empty Jar using the given clock, or time.Now when nil
func NewJar(nowFunc func() time.Time) *Jar {
	if nowFunc == nil {
		nowFunc = time.Now
	}
	return &Jar{
		cookies: make(map[string]http.Cookie),
		nowTime: nowFunc,
	}
}

func (j *Jar) SetCookie(_ context.Context, cookie *http.Cookie) error {
	if cookie == nil || cookie.Name == "" {
		return apperrors.ErrInvalidRequest
	}
	j.lock.Lock()
	defer j.lock.Unlock()
	j.cookies[cookie.Name] = *cookie
	return nil
}

func (j *Jar) Cookie(_ context.Context, name string) (*http.Cookie, error) {
	j.lock.RLock()
	defer j.lock.RUnlock()

	c, ok := j.cookies[name]
	if !ok {
		return nil, apperrors.ErrTokenNotFound
	}
	if !c.Expires.IsZero() && !c.Expires.After(j.nowTime()) {
		return nil, apperrors.ErrTokenNotFound
	}
	return &c, nil
}

func (j *Jar) RemoveCookie(_ context.Context, name string) error {
	j.lock.Lock()
	defer j.lock.Unlock()
	delete(j.cookies, name)
	return nil
}

// Raw returns the stored cookie regardless of expiry
func (j *Jar) Raw(name string) (http.Cookie, bool) {
	j.lock.RLock()
	defer j.lock.RUnlock()
	c, ok := j.cookies[name]
	return c, ok
}

// KeyValue is an in-memory key-value store
type KeyValue struct {
	items map[string]string
	lock  sync.RWMutex
}

func NewKeyValue() *KeyValue {
	return &KeyValue{items: make(map[string]string)}
}

func (kv *KeyValue) SetItem(_ context.Context, key, value string) error {
	kv.lock.Lock()
	defer kv.lock.Unlock()
	kv.items[key] = value
	return nil
}

func (kv *KeyValue) GetItem(_ context.Context, key string) (string, bool, error) {
	kv.lock.RLock()
	defer kv.lock.RUnlock()
	v, ok := kv.items[key]
	return v, ok, nil
}

func (kv *KeyValue) RemoveItem(_ context.Context, key string) error {
	kv.lock.Lock()
	defer kv.lock.Unlock()
	delete(kv.items, key)
	return nil
}

// NewStore is a convenience constructor for a Store over fresh in-memory backends
func NewStore(nowFunc func() time.Time, options ...tokenstore.StoreOption) (*tokenstore.Store, *Jar, *KeyValue) {
	jar := NewJar(nowFunc)
	kv := NewKeyValue()
	if nowFunc != nil {
		options = append([]tokenstore.StoreOption{tokenstore.WithNowTime(nowFunc)}, options...)
	}
	store, _ := tokenstore.New(jar, kv, options...)
	return store, jar, kv
}

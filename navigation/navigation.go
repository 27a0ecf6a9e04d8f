// Package navigation lets the session manager request a view change without
// knowing how the page surface performs it.
package navigation

import (
	"context"
	"sync"
)

// View routes the session lifecycle navigates between
const (
	RoutePublicLanding = "/"
	RouteLogin         = "/login"
	RouteRegister      = "/register"
	RouteDashboard     = "/dashboard"
)

// Navigator moves the user to another view
type Navigator interface {
	Navigate(ctx context.Context, path string)
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(ctx context.Context, path string)

func (f NavigatorFunc) Navigate(ctx context.Context, path string) {
	f(ctx, path)
}

type holderKey struct{}

// Holder receives the navigation target requested while a page request is handled
type Holder struct {
	mu     sync.Mutex
	target string
}

// Target returns the last requested path, empty if none
func (h *Holder) Target() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.target
}

func (h *Holder) set(path string) {
	h.mu.Lock()
	h.target = path
	h.mu.Unlock()
}

// WithHolder returns a child context carrying a fresh Holder
func WithHolder(ctx context.Context) (context.Context, *Holder) {
	h := &Holder{}
	return context.WithValue(ctx, holderKey{}, h), h
}

// HolderFrom returns the Holder carried by ctx, if any
func HolderFrom(ctx context.Context) (*Holder, bool) {
	h, ok := ctx.Value(holderKey{}).(*Holder)
	return h, ok
}

// RequestNavigator records targets into the Holder found in the context.
// Navigation requested outside a request (no Holder) is dropped.
type RequestNavigator struct{}

func (RequestNavigator) Navigate(ctx context.Context, path string) {
	if h, ok := HolderFrom(ctx); ok {
		h.set(path)
	}
}

// Recorder keeps every navigation in order
type Recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *Recorder) Navigate(_ context.Context, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

// Paths returns a copy of the recorded navigation targets
func (r *Recorder) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

// Last returns the most recent target, empty if none
func (r *Recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.paths) == 0 {
		return ""
	}
	return r.paths[len(r.paths)-1]
}

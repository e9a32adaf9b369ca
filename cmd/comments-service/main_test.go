package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-content-comments/internal/storage/memory"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func checkHealthz(h http.Handler) int {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	return rec.Code
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	var ready int32

	// До готовности — 503 даже при живом хранилище.
	require.Equal(t, http.StatusServiceUnavailable, checkHealthz(healthz(&ready, stubPinger{})))

	ready = 1
	require.Equal(t, http.StatusOK, checkHealthz(healthz(&ready, stubPinger{})))
	require.Equal(t, http.StatusServiceUnavailable, checkHealthz(healthz(&ready, stubPinger{err: errors.New("down")})))

	// memory не умеет Ping — достаточно флага.
	require.Equal(t, http.StatusOK, checkHealthz(healthz(&ready, memory.New())))
}

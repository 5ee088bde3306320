package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpsRouter(t *testing.T) {
	var down error
	r := NewOpsRouter(func(context.Context) error { return down })

	for _, tc := range []struct {
		path string
		err  error
		want int
	}{
		{"/healthz", nil, http.StatusOK},
		{"/readyz", nil, http.StatusOK},
		{"/readyz", errors.New("connection refused"), http.StatusServiceUnavailable},
		{"/healthz", errors.New("connection refused"), http.StatusOK},
	} {
		down = tc.err
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if w.Code != tc.want {
			t.Errorf("%s with err=%v: status %d, want %d", tc.path, tc.err, w.Code, tc.want)
		}
	}
}

package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetTokenConcurrentWithRequests(t *testing.T) {
	var mu sync.Mutex
	var lastAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		lastAuth = r.Header.Get("Authorization")
		mu.Unlock()
		writeJSON(t, w, http.StatusOK, map[string]string{"message": "ok"})
	}))
	defer server.Close()

	c := New(server.URL, WithToken("initial"))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		i := i
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				c.SetToken(fmt.Sprintf("token-%d-%d", i, j))
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				assert.NoError(t, c.do(context.Background(), "GET", "/ping", nil, nil, nil))
			}
		}()
	}
	wg.Wait()

	c.SetToken("final")
	require.NoError(t, c.do(context.Background(), "GET", "/ping", nil, nil, nil))
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "Bearer final", lastAuth)
}

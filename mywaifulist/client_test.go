package mywaifulist

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{WithBaseURL(server.URL + "/api/v1"), WithLogger(zerolog.Nop())}, opts...)
	client, err := NewClient("test-key", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close(context.Background()) })

	return client, server
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		apiKey  string
		opts    []Option
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			apiKey: "test-key",
		},
		{
			name:    "missing API key",
			apiKey:  "  ",
			wantErr: true,
			errMsg:  "API key is required",
		},
		{
			name:    "empty base URL",
			apiKey:  "test-key",
			opts:    []Option{WithBaseURL("")},
			wantErr: true,
			errMsg:  "base URL is required",
		},
		{
			name:   "HTTP/1.1 transport",
			apiKey: "test-key",
			opts:   []Option{WithHTTPVersion(HTTP1), WithRedirectPolicy(RedirectNormal)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.apiKey, tt.opts...)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, DefaultBaseURL, client.exec.baseURL)
			assert.Equal(t, DefaultTimeout, client.exec.timeout)
			assert.True(t, client.ownsPool)
			require.NoError(t, client.Close(context.Background()))
		})
	}
}

func TestClientOptions(t *testing.T) {
	t.Run("with timeout", func(t *testing.T) {
		client, err := NewClient("test-key", WithTimeout(5*time.Second))
		require.NoError(t, err)
		defer client.Close(context.Background())
		assert.Equal(t, 5*time.Second, client.exec.timeout)
	})

	t.Run("base URL gets trailing slash", func(t *testing.T) {
		client, err := NewClient("test-key", WithBaseURL("http://localhost:8080/api/v1"))
		require.NoError(t, err)
		defer client.Close(context.Background())
		assert.Equal(t, "http://localhost:8080/api/v1/", client.exec.baseURL)
	})

	t.Run("with custom http client", func(t *testing.T) {
		customClient := &http.Client{Timeout: 10 * time.Second}
		client, err := NewClient("test-key", WithHTTPClient(customClient))
		require.NoError(t, err)
		defer client.Close(context.Background())
		assert.Same(t, customClient, client.exec.httpClient)
	})

	t.Run("caller-owned http client is not closed", func(t *testing.T) {
		transport := &idleTrackingTransport{}
		client, err := NewClient("test-key", WithHTTPClient(&http.Client{Transport: transport}))
		require.NoError(t, err)
		assert.False(t, client.ownsHTTPClient)

		require.NoError(t, client.Close(context.Background()))
		assert.Zero(t, transport.closed.Load())
	})

	t.Run("own http client is closed", func(t *testing.T) {
		client, err := NewClient("test-key")
		require.NoError(t, err)
		assert.True(t, client.ownsHTTPClient)

		transport := &idleTrackingTransport{}
		client.httpClient.Transport = transport
		require.NoError(t, client.Close(context.Background()))
		assert.Equal(t, int32(1), transport.closed.Load())
	})

	t.Run("with worker pool", func(t *testing.T) {
		pool := NewWorkerPool(2, zerolog.Nop())
		defer pool.Stop(context.Background())

		client, err := NewClient("test-key", WithWorkerPool(pool))
		require.NoError(t, err)
		assert.False(t, client.ownsPool)

		// Closing the client must leave a caller-owned pool running
		require.NoError(t, client.Close(context.Background()))
		assert.NoError(t, pool.Submit(func() {}))
	})
}

// idleTrackingTransport counts CloseIdleConnections calls
type idleTrackingTransport struct {
	closed atomic.Int32
}

func (t *idleTrackingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, fmt.Errorf("no network in this test")
}

func (t *idleTrackingTransport) CloseIdleConnections() {
	t.closed.Add(1)
}

func TestRequestHeaders(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/waifu/1", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("apikey"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "waifuctl/test", r.Header.Get("User-Agent"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))

		fmt.Fprint(w, `{"id":1,"name":"Rem"}`)
	}, WithUserAgent("waifuctl/test"))

	waifu, err := client.GetWaifuByID(context.Background(), 1).Get()
	require.NoError(t, err)
	assert.Equal(t, Waifu{ID: 1, Name: "Rem"}, waifu)
}

func TestAccessorPaths(t *testing.T) {
	var mu sync.Mutex
	var got string

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		got = strings.TrimPrefix(r.URL.RequestURI(), "/api/v1/")
		mu.Unlock()

		w.WriteHeader(http.StatusTeapot)
		fmt.Fprint(w, `{"message":"short and stout"}`)
	})

	ctx := context.Background()
	tests := []struct {
		path string
		call func() *Error
	}{
		{"waifu/rem", func() *Error { return client.GetWaifu(ctx, "rem").Failure() }},
		{"waifu/12", func() *Error { return client.GetWaifuByID(ctx, 12).Failure() }},
		{"waifu/12/images?page=3", func() *Error { return client.GetWaifuImages(ctx, 12, 3).Failure() }},
		{"waifu?page=2", func() *Error { return client.GetWaifusByPage(ctx, 2).Failure() }},
		{"meta/daily", func() *Error { return client.GetDailyWaifu(ctx).Failure() }},
		{"meta/random", func() *Error { return client.GetRandomWaifu(ctx).Failure() }},
		{"airing", func() *Error { return client.GetSeasonalAnime(ctx).Failure() }},
		{"airing/best", func() *Error { return client.GetBestWaifus(ctx).Failure() }},
		{"airing/popular", func() *Error { return client.GetPopularWaifus(ctx).Failure() }},
		{"airing/trash", func() *Error { return client.GetTrashWaifus(ctx).Failure() }},
		{"series/re-zero", func() *Error { return client.GetSeries(ctx, "re-zero").Failure() }},
		{"series/9", func() *Error { return client.GetSeriesByID(ctx, 9).Failure() }},
		{"series?page=4", func() *Error { return client.GetSeriesByPage(ctx, 4).Failure() }},
		{"airing/fall/2016", func() *Error { return client.GetAllSeries(ctx, SeasonFall, 2016).Failure() }},
		{"series/re-zero/waifus", func() *Error { return client.GetSeriesWaifus(ctx, "re-zero").Failure() }},
		{"series/9/waifus", func() *Error { return client.GetSeriesWaifusByID(ctx, 9).Failure() }},
		{"user/5", func() *Error { return client.GetUserProfile(ctx, 5).Failure() }},
		{"user/5/likes?page=1", func() *Error { return client.GetUserWaifus(ctx, 5, ListLikes, 1).Failure() }},
		{"user/5/lists", func() *Error { return client.GetUserLists(ctx, 5).Failure() }},
		{"user/5/lists/8", func() *Error { return client.GetUserList(ctx, 5, 8).Failure() }},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			failure := tt.call()

			mu.Lock()
			assert.Equal(t, tt.path, got)
			mu.Unlock()
			assert.Equal(t, ErrorKindAPI, failure.Kind)
			assert.Equal(t, http.StatusTeapot, failure.StatusCode)
			assert.Equal(t, "short and stout", failure.Message)
		})
	}
}

func TestExecuteReturnsEveryStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "boom")
	})

	raw, err := client.Execute(context.Background(), "/meta/daily")
	require.NoError(t, err)
	assert.Equal(t, RawResult{StatusCode: 500, Body: "boom"}, raw)
	assert.False(t, raw.IsSuccess())
}

func TestRedirectsAreNotFollowedByDefault(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/elsewhere", http.StatusFound)
	})

	raw, err := client.Execute(context.Background(), "meta/random")
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, raw.StatusCode)

	failure := client.GetRandomWaifu(context.Background()).Failure()
	assert.Equal(t, ErrorKindAPI, failure.Kind)
	assert.Equal(t, http.StatusFound, failure.StatusCode)
}

func TestRedirectPolicyNormalFollows(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/meta/random" {
			http.Redirect(w, r, "/api/v1/meta/daily", http.StatusFound)
			return
		}
		fmt.Fprint(w, `{"id":3,"name":"Megumin"}`)
	}, WithRedirectPolicy(RedirectNormal))

	waifu, err := client.GetRandomWaifu(context.Background()).Get()
	require.NoError(t, err)
	assert.Equal(t, "Megumin", waifu.Name)
}

func TestTransportErrors(t *testing.T) {
	t.Run("connection refused", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()

		client, err := NewClient("test-key", WithBaseURL(server.URL))
		require.NoError(t, err)
		defer client.Close(context.Background())

		res := client.GetDailyWaifu(context.Background())
		require.True(t, res.IsFailure())
		failure := res.Failure()
		assert.Equal(t, ErrorKindTransport, failure.Kind)
		assert.ErrorIs(t, failure, ErrTransport)
		assert.Equal(t, "meta/daily", failure.Path)
		assert.Zero(t, failure.StatusCode)
	})

	t.Run("request timeout", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}, WithTimeout(50*time.Millisecond))

		failure := client.GetDailyWaifu(context.Background()).Failure()
		assert.Equal(t, ErrorKindTransport, failure.Kind)
		assert.ErrorIs(t, failure, context.DeadlineExceeded)
	})

	t.Run("caller context cancelled", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"id":1,"name":"a"}`)
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		failure := client.GetDailyWaifu(ctx).Failure()
		assert.Equal(t, ErrorKindTransport, failure.Kind)
		assert.ErrorIs(t, failure, context.Canceled)
	})

	t.Run("closed client", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"id":1,"name":"a"}`)
		})
		require.NoError(t, client.Close(context.Background()))

		_, err := client.GetDailyWaifu(context.Background()).Get()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTransport)
		assert.ErrorIs(t, err, ErrClientClosed)
		assert.ErrorIs(t, err, ErrPoolStopped)

		_, err = client.Execute(context.Background(), "meta/daily")
		assert.ErrorIs(t, err, ErrClientClosed)
	})
}

func TestConcurrentCallsDoNotCrossTalk(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/api/v1/waifu/"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		// Finish out of order
		time.Sleep(time.Duration(rand.Intn(10)) * time.Millisecond)
		json.NewEncoder(w).Encode(map[string]any{
			"id":   id,
			"name": fmt.Sprintf("waifu-%d", id),
		})
	}, WithPoolSize(4))

	const calls = 64
	results := make([]Result[Waifu], calls)

	var wg sync.WaitGroup
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = client.GetWaifuByID(context.Background(), i+1)
		}(i)
	}
	wg.Wait()

	for i, res := range results {
		require.True(t, res.IsOk(), res.String())
		assert.Equal(t, Waifu{ID: i + 1, Name: fmt.Sprintf("waifu-%d", i+1)}, res.Value())
	}
}

func TestFetchCustomEndpoint(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/user/5/trash", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		fmt.Fprint(w, `{"data":[],"current_page":2,"last_page":2,"total":15,"per_page":15}`)
	})

	page, err := Fetch(context.Background(), client, "user/5/trash?page=2", PageOf[FilteredWaifu]()).Get()
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.False(t, page.HasNextPage())
	_, err = page.NextPage()
	assert.Error(t, err)
}

func TestTestConnection(t *testing.T) {
	t.Run("valid key", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"id":1,"name":"Rem"}`)
		})
		assert.NoError(t, client.TestConnection(context.Background()))
	})

	t.Run("invalid key", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"message":"Unauthenticated."}`)
		})

		err := client.TestConnection(context.Background())
		require.Error(t, err)
		var apiErr *Error
		require.ErrorAs(t, err, &apiErr)
		assert.True(t, apiErr.IsUnauthorized())
		assert.Equal(t, "Unauthenticated.", apiErr.Message)
	})
}

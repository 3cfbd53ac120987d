package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/example/go-lipi/internal/script"
	"github.com/example/go-lipi/internal/server"
	"github.com/example/go-lipi/internal/translit"
)

// ---------------------------------------------------------------------------
// request validation and limits
// ---------------------------------------------------------------------------

func TestTransliterate_OversizedTextRejectedAs413(t *testing.T) {
	h := server.NewHandler(
		&stubTransliterator{},
		&stubScriptLister{},
		server.WithMaxTextBytes(10),
	)

	bigText := strings.Repeat("x", 11)
	rec := postTransliterate(h, `{"text":"`+bigText+`","source":"iast","target":"deva"}`)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("want 413, got %d", rec.Code)
	}

	var errBody map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&errBody); err != nil {
		t.Fatalf("decode error body: %v", err)
	}

	if errBody["error"] == "" {
		t.Error("want non-empty error field")
	}
}

func TestTransliterate_TextAtExactLimitIsAccepted(t *testing.T) {
	h := server.NewHandler(
		&stubTransliterator{res: translit.Result{Text: "नमः"}},
		&stubScriptLister{},
		server.WithMaxTextBytes(7),
	)

	rec := postTransliterate(h, `{"text":"namaḥ","source":"iast","target":"deva"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("want 200 for exactly-limit text, got %d", rec.Code)
	}
}

func TestTransliterate_RequestTimeoutCancelsInFlight(t *testing.T) {
	// Converter that blocks until its context is cancelled.
	conv := &blockingTransliterator{release: make(chan struct{})}

	h := server.NewHandler(
		conv,
		&stubScriptLister{},
		server.WithRequestTimeout(20*time.Millisecond),
	)

	rec := postTransliterate(h, `{"text":"namaḥ","source":"iast","target":"deva"}`)

	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("want 504 on timeout, got %d", rec.Code)
	}

	var errBody map[string]string
	_ = json.NewDecoder(rec.Body).Decode(&errBody)
	if errBody["error"] == "" {
		t.Error("want non-empty error field")
	}
}

// ---------------------------------------------------------------------------
// worker pool / concurrency throttling
// ---------------------------------------------------------------------------

func TestTransliterate_ConcurrencyThrottling(t *testing.T) {
	const workers = 2
	const totalRequests = 5

	var (
		mu         sync.Mutex
		peak       int
		current    int32
		releaseAll = make(chan struct{})
	)
	conv := &countingTransliterator{
		onEnter: func() {
			n := int(atomic.AddInt32(&current, 1))

			mu.Lock()
			if n > peak {
				peak = n
			}
			mu.Unlock()
			<-releaseAll
		},
		onExit: func() { atomic.AddInt32(&current, -1) },
	}

	h := server.NewHandler(
		conv,
		&stubScriptLister{},
		server.WithWorkers(workers),
	)

	var wg sync.WaitGroup

	codes := make([]int, totalRequests)
	for i := range totalRequests {
		wg.Add(1)

		go func(idx int) {
			defer wg.Done()

			rec := postTransliterate(h, `{"text":"ka","source":"iast","target":"deva"}`)
			codes[idx] = rec.Code
		}(i)
	}

	// Give goroutines time to enter the converter.
	time.Sleep(50 * time.Millisecond)
	close(releaseAll)
	wg.Wait()

	mu.Lock()
	got := peak
	mu.Unlock()

	if got > workers {
		t.Errorf("peak concurrency %d exceeded worker limit %d", got, workers)
	}

	for i, code := range codes {
		if code != http.StatusOK {
			t.Errorf("request %d: want 200, got %d", i, code)
		}
	}
}

func TestTransliterate_WaiterCancelledWhileThrottled(t *testing.T) {
	conv := &blockingTransliterator{release: make(chan struct{})}

	h := server.NewHandler(
		conv,
		&stubScriptLister{},
		server.WithWorkers(1),
	)

	// First request occupies the single worker slot.
	done := make(chan struct{})
	go func() {
		defer close(done)
		postTransliterate(h, `{"text":"ka","source":"iast","target":"deva"}`)
	}()

	time.Sleep(20 * time.Millisecond)

	// Second request should be blocked waiting for a worker; cancel its context.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/transliterate",
		bytes.NewBufferString(`{"text":"kha","source":"iast","target":"deva"}`)).WithContext(ctx)
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("want 503 when waiter context cancelled, got %d", rec.Code)
	}

	close(conv.release)
	<-done
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

// blockingTransliterator blocks until release is closed or ctx is done.
type blockingTransliterator struct {
	release chan struct{}
}

func (b *blockingTransliterator) Transliterate(ctx context.Context, _ string, _, _ script.ID) (translit.Result, error) {
	select {
	case <-b.release:
		return translit.Result{}, nil
	case <-ctx.Done():
		return translit.Result{}, ctx.Err()
	}
}

// countingTransliterator calls onEnter/onExit around the conversion.
type countingTransliterator struct {
	onEnter func()
	onExit  func()
}

func (c *countingTransliterator) Transliterate(_ context.Context, _ string, _, _ script.ID) (translit.Result, error) {
	c.onEnter()
	defer c.onExit()

	return translit.Result{Text: "क"}, nil
}

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/example/go-lipi/internal/config"
	"github.com/example/go-lipi/internal/script"
)

func TestStart_LifecycleTransliterateAndShutdown(t *testing.T) {
	// Find an available port.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	addr := ln.Addr().String()
	ln.Close() // free it for the server

	cfg := config.DefaultConfig()
	cfg.Server.ListenAddr = addr

	s := New(cfg).WithShutdownTimeout(2 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)

	go func() {
		errCh <- s.Start(ctx)
	}()

	// Wait for the server to be ready.
	for range 50 {
		if err = ProbeHTTP(ctx, addr, script.Devanagari, script.IASTISO); err == nil {
			break
		}

		time.Sleep(20 * time.Millisecond)
	}

	if err != nil {
		t.Fatalf("server never became ready: %v", err)
	}

	client := &http.Client{Timeout: 2 * time.Second}
	body := bytes.NewBufferString(`{"text":"mahāsarasvatī","source":"iast_iso","target":"devanagari"}`)
	resp, err := client.Post(fmt.Sprintf("http://%s/transliterate", addr), "application/json", body)
	if err != nil {
		t.Fatalf("POST /transliterate: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/transliterate status = %d; want 200", resp.StatusCode)
	}

	var got transliterateResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode /transliterate: %v", err)
	}

	if got.Text != "महासरस्वती" {
		t.Errorf("text = %q; want %q", got.Text, "महासरस्वती")
	}

	// Graceful shutdown.
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Start() returned error on shutdown: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return within 5s of context cancel")
	}
}

func TestNew_ShutdownTimeoutFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    time.Duration
	}{
		{"configured", 5, 5 * time.Second},
		{"zero falls back", 0, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Server.ShutdownTimeout = tt.seconds

			if got := New(cfg).shutdownTimeout; got != tt.want {
				t.Fatalf("shutdownTimeout = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestPipeline_ListScripts(t *testing.T) {
	got := NewPipeline(script.Default(), 0, 1).ListScripts()

	if len(got) != len(script.IDs()) {
		t.Fatalf("ListScripts returned %d scripts; want %d", len(got), len(script.IDs()))
	}

	for _, info := range got {
		if info.Abugida != info.ID.IsAbugida() {
			t.Errorf("%s: Abugida = %v", info.ID, info.Abugida)
		}
	}
}

func TestPipeline_TransliterateChunked(t *testing.T) {
	p := NewPipeline(script.Default(), 8, 2)

	res, err := p.Transliterate(context.Background(), "namaḥ śivāya namaḥ", script.IASTISO, script.Devanagari)
	if err != nil {
		t.Fatalf("Transliterate: %v", err)
	}

	if res.Text != "नमः शिवाय नमः" {
		t.Errorf("Text = %q; want %q", res.Text, "नमः शिवाय नमः")
	}
}

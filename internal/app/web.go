// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/relabs-tech/motion_computer/internal/config"
)

// Envelope is the websocket message carrying one sample.
type Envelope struct {
	Kind   string          `json:"kind"`
	Sample json.RawMessage `json:"sample"`
}

// MotionStore keeps the latest payload per sample kind.
type MotionStore struct {
	mu     sync.RWMutex
	latest map[string]json.RawMessage
}

// NewMotionStore returns an empty store.
func NewMotionStore() *MotionStore {
	return &MotionStore{latest: make(map[string]json.RawMessage)}
}

// Update stores payload for kind. Payloads that are not JSON are rejected.
func (s *MotionStore) Update(kind string, payload []byte) error {
	if !json.Valid(payload) {
		return fmt.Errorf("%s payload is not valid JSON", kind)
	}
	cp := make(json.RawMessage, len(payload))
	copy(cp, payload)

	s.mu.Lock()
	s.latest[kind] = cp
	s.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the latest payloads, or nil when nothing has
// been received yet.
func (s *MotionStore) Snapshot() map[string]json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.latest) == 0 {
		return nil
	}
	out := make(map[string]json.RawMessage, len(s.latest))
	for k, v := range s.latest {
		out[k] = v
	}
	return out
}

// ingest records a sample and forwards it to websocket clients.
func ingest(store *MotionStore, hub *Hub, kind string, payload []byte) error {
	if err := store.Update(kind, payload); err != nil {
		return err
	}
	msg, err := json.Marshal(Envelope{Kind: kind, Sample: payload})
	if err != nil {
		return err
	}
	hub.Broadcast(msg)
	return nil
}

// newWebHandler serves the JSON API, the websocket stream and the static
// files under staticDir.
func newWebHandler(store *MotionStore, hub *Hub, staticDir string, logger *zap.SugaredLogger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/motion", func(w http.ResponseWriter, r *http.Request) {
		snap := store.Snapshot()
		if snap == nil {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(snap); err != nil {
			logger.Warnf("web: json encode error: %v", err)
		}
	})
	mux.Handle("/ws/motion", hub)
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))

	return mux
}

// RunWeb serves the latest motion samples over HTTP and websocket until
// interrupted.
func RunWeb(logger *zap.SugaredLogger) error {
	cfg := config.Get()

	store := NewMotionStore()
	hub := NewHub(logger)
	defer hub.Close()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDWeb)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	logger.Infof("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	for kind, topic := range topics(cfg) {
		kind := kind
		if err := subscribe(client, topic, func(_ mqtt.Client, msg mqtt.Message) {
			if err := ingest(store, hub, kind, msg.Payload()); err != nil {
				logger.Warnf("web: %v", err)
			}
		}); err != nil {
			return err
		}
		logger.Infof("web: subscribed to %s", topic)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.WebServerPort),
		Handler:           newWebHandler(store, hub, "web", logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("web: server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Infof("web: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

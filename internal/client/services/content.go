// Package services contains the application services of the Relief client.
// This file defines the content cache: it serves the catalog from the bundled
// dataset while online, mirrors it into durable storage and falls back to the
// mirror while offline.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/relief/internal/client/catalog"
	"github.com/dmitrijs2005/relief/internal/client/models"
	"github.com/dmitrijs2005/relief/internal/client/netstatus"
	"github.com/dmitrijs2005/relief/internal/client/repositories/kv"
	"github.com/dmitrijs2005/relief/internal/logging"
)

type Connectivity string

const (
	ConnectivityOnline  Connectivity = "online"
	ConnectivityOffline Connectivity = "offline"
)

type Phase string

const (
	PhaseUninitialized Phase = "uninitialized"
	PhaseReady         Phase = "ready"
)

// ContentState is a snapshot of the cache state machine. Generation counts
// completed loads.
type ContentState struct {
	Connectivity Connectivity
	Phase        Phase
	Generation   uint64
}

// ContentService provides one consistent ContentBundle regardless of
// connectivity.
//
// Contract:
//   - Load never fails; every storage problem degrades to the bundled dataset.
//   - A published bundle is built entirely from one source.
//   - Watch reloads once per delivered connectivity transition; the final
//     transition of a burst is always delivered.
type ContentService interface {
	Load(ctx context.Context) *models.ContentBundle
	Current() *models.ContentBundle
	State() ContentState
	Watch(ctx context.Context) <-chan struct{}
}

type contentService struct {
	repo    kv.Repository
	signal  netstatus.Signal
	bundled func() *models.ContentBundle
	logger  logging.Logger

	loadMu  sync.Mutex
	current atomic.Pointer[models.ContentBundle]
	state   atomic.Pointer[ContentState]
}

// NewContentService builds a ContentService backed by repo. bundled may be
// nil, in which case catalog.Bundled is used.
func NewContentService(repo kv.Repository, signal netstatus.Signal, bundled func() *models.ContentBundle, logger logging.Logger) ContentService {
	if bundled == nil {
		bundled = catalog.Bundled
	}
	s := &contentService{repo: repo, signal: signal, bundled: bundled, logger: logger}
	s.state.Store(&ContentState{Connectivity: connectivityOf(signal.Online()), Phase: PhaseUninitialized})
	return s
}

func connectivityOf(online bool) Connectivity {
	if online {
		return ConnectivityOnline
	}
	return ConnectivityOffline
}

func (s *contentService) Current() *models.ContentBundle {
	return s.current.Load()
}

func (s *contentService) State() ContentState {
	return *s.state.Load()
}

// Load reads connectivity, builds a bundle and publishes it. Concurrent calls
// are serialized.
func (s *contentService) Load(ctx context.Context) *models.ContentBundle {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	online := s.signal.Online()

	var b *models.ContentBundle
	if online {
		b = s.loadOnline(ctx)
	} else {
		b = s.loadOffline(ctx)
	}

	s.current.Store(b)
	prev := s.state.Load()
	s.state.Store(&ContentState{
		Connectivity: connectivityOf(online),
		Phase:        PhaseReady,
		Generation:   prev.Generation + 1,
	})

	s.logger.Debug(ctx, "content loaded", "online", online, "source", b.Source)
	return b
}

func (s *contentService) loadOnline(ctx context.Context) *models.ContentBundle {
	b := s.bundled()

	fields := []struct {
		key   string
		value any
	}{
		{KeyCachedServices, b.Services},
		{KeyCachedFAQs, b.FAQs},
		{KeyCachedTestimonials, b.Testimonials},
		{KeyCachedTranslations, b.Translations},
	}
	for _, f := range fields {
		raw, err := json.Marshal(f.value)
		if err != nil {
			s.logger.Warn(ctx, "content cache encode failed", "key", f.key, "error", err)
			continue
		}
		if err := s.repo.Set(ctx, f.key, raw); err != nil {
			s.logger.Warn(ctx, "content cache write failed", "key", f.key, "error", err)
		}
	}
	return b
}

func (s *contentService) loadOffline(ctx context.Context) *models.ContentBundle {
	cached, err := s.readCache(ctx)
	if err != nil {
		s.logger.Warn(ctx, "content cache unavailable, using bundled content", "error", err)
		return s.bundled()
	}
	if cached == nil {
		s.logger.Info(ctx, "content cache incomplete, using bundled content")
		return s.bundled()
	}
	return cached
}

// readCache returns nil, nil when any key is missing.
func (s *contentService) readCache(ctx context.Context) (*models.ContentBundle, error) {
	raw := make(map[string][]byte, len(ContentKeys))
	for _, key := range ContentKeys {
		v, err := s.repo.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, nil
		}
		raw[key] = v
	}

	b := &models.ContentBundle{Source: models.SourceCache}
	if err := decodeField(raw, KeyCachedServices, &b.Services); err != nil {
		return nil, err
	}
	if err := decodeField(raw, KeyCachedFAQs, &b.FAQs); err != nil {
		return nil, err
	}
	if err := decodeField(raw, KeyCachedTestimonials, &b.Testimonials); err != nil {
		return nil, err
	}
	if err := decodeField(raw, KeyCachedTranslations, &b.Translations); err != nil {
		return nil, err
	}

	if b.Services == nil || b.FAQs == nil || b.Testimonials == nil || b.Translations == nil {
		return nil, fmt.Errorf("content cache holds null fields")
	}
	return b, nil
}

func decodeField(raw map[string][]byte, key string, dst any) error {
	if err := json.Unmarshal(raw[key], dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// Watch subscribes to the connectivity signal and runs one Load per
// transition until ctx is done. The subscription is in place when Watch
// returns; the returned channel closes once the watcher has stopped.
func (s *contentService) Watch(ctx context.Context) <-chan struct{} {
	events, cancel := s.signal.Subscribe()
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer cancel()
		for {
			select {
			case online, ok := <-events:
				if !ok {
					return
				}
				s.logger.Info(ctx, "connectivity changed, reloading content", "online", online)
				s.Load(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
	return done
}

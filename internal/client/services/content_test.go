package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/relief/internal/client/catalog"
	"github.com/dmitrijs2005/relief/internal/client/models"
	"github.com/dmitrijs2005/relief/internal/client/netstatus"
	"github.com/dmitrijs2005/relief/internal/logging"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ignoreSource = cmpopts.IgnoreFields(models.ContentBundle{}, "Source")

func altBundle() *models.ContentBundle {
	return &models.ContentBundle{
		Services:     []models.ServiceRecord{{ID: "alt", Color: "red", Duration: "10 min", Category: "x", Rating: 3.5, ReviewCount: 2}},
		FAQs:         []models.FAQ{{ID: 9, Question: "faq.q9", Answer: "faq.a9"}},
		Testimonials: []models.Testimonial{{ID: 7, Quote: "q7", Author: "a7"}},
		Translations: models.Translations{models.LanguageEnglish: {"faq.q9": "Why?"}, models.LanguageAmharic: {}},
		Source:       models.SourceBundled,
	}
}

func TestContentService_OnlineMirrorsBundledDataset(t *testing.T) {
	ctx := context.Background()
	st := openSQLite(t)
	svc := NewContentService(st.KV, netstatus.NewStatic(true), nil, logging.Discard())

	got := svc.Load(ctx)

	want := catalog.Bundled()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("bundle mismatch (-want +got):\n%s", diff)
	}

	var services []models.ServiceRecord
	var faqs []models.FAQ
	var testimonials []models.Testimonial
	var translations models.Translations
	for key, dst := range map[string]any{
		KeyCachedServices:     &services,
		KeyCachedFAQs:         &faqs,
		KeyCachedTestimonials: &testimonials,
		KeyCachedTranslations: &translations,
	} {
		raw, err := st.KV.Get(ctx, key)
		require.NoError(t, err)
		require.NotNil(t, raw, key)
		require.NoError(t, json.Unmarshal(raw, dst), key)
	}
	assert.Equal(t, want.Services, services)
	assert.Equal(t, want.FAQs, faqs)
	assert.Equal(t, want.Testimonials, testimonials)
	assert.Equal(t, want.Translations, translations)
}

func TestContentService_OfflineRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	sig := netstatus.NewStatic(true)

	online := NewContentService(repo, sig, altBundle, logging.Discard())
	online.Load(ctx)

	sig.Set(false)
	offline := NewContentService(repo, sig, catalog.Bundled, logging.Discard())
	got := offline.Load(ctx)

	assert.Equal(t, models.SourceCache, got.Source)
	if diff := cmp.Diff(altBundle(), got, ignoreSource); diff != "" {
		t.Fatalf("cached bundle mismatch (-want +got):\n%s", diff)
	}
}

func TestContentService_OfflineFallsBackWithoutPartialBlend(t *testing.T) {
	for _, missing := range ContentKeys {
		t.Run("missing "+missing, func(t *testing.T) {
			ctx := context.Background()
			repo := newMemRepo()
			sig := netstatus.NewStatic(true)
			NewContentService(repo, sig, altBundle, logging.Discard()).Load(ctx)

			require.NoError(t, repo.Delete(ctx, missing))
			sets := repo.sets

			sig.Set(false)
			got := NewContentService(repo, sig, catalog.Bundled, logging.Discard()).Load(ctx)

			assert.Equal(t, models.SourceBundled, got.Source)
			assert.Equal(t, catalog.Bundled(), got)
			assert.Equal(t, sets, repo.sets, "offline fallback must not write")
		})
	}

	for _, bad := range []string{"{not json", "null", `"a string"`} {
		for _, key := range ContentKeys {
			t.Run("malformed "+key+" "+bad, func(t *testing.T) {
				ctx := context.Background()
				repo := newMemRepo()
				sig := netstatus.NewStatic(true)
				NewContentService(repo, sig, altBundle, logging.Discard()).Load(ctx)

				repo.put(key, bad)

				sig.Set(false)
				got := NewContentService(repo, sig, catalog.Bundled, logging.Discard()).Load(ctx)
				assert.Equal(t, catalog.Bundled(), got)
			})
		}
	}
}

func TestContentService_StorageErrorsDegradeToBundled(t *testing.T) {
	ctx := context.Background()

	t.Run("read error offline", func(t *testing.T) {
		repo := newMemRepo()
		repo.getErr = errors.New("disk on fire")
		got := NewContentService(repo, netstatus.NewStatic(false), nil, logging.Discard()).Load(ctx)
		assert.Equal(t, catalog.Bundled(), got)
	})

	t.Run("write error online", func(t *testing.T) {
		repo := newMemRepo()
		repo.setErr = errors.New("quota exceeded")
		got := NewContentService(repo, netstatus.NewStatic(true), nil, logging.Discard()).Load(ctx)
		assert.Equal(t, catalog.Bundled(), got)
		assert.Equal(t, len(ContentKeys), repo.sets, "each key is attempted independently")
	})

	t.Run("empty storage offline", func(t *testing.T) {
		got := NewContentService(newMemRepo(), netstatus.NewStatic(false), nil, logging.Discard()).Load(ctx)
		assert.Equal(t, models.SourceBundled, got.Source)
	})
}

func TestContentService_StateMachine(t *testing.T) {
	sig := netstatus.NewStatic(false)
	svc := NewContentService(newMemRepo(), sig, nil, logging.Discard())

	assert.Nil(t, svc.Current())
	assert.Equal(t, ContentState{Connectivity: ConnectivityOffline, Phase: PhaseUninitialized}, svc.State())

	b := svc.Load(context.Background())
	assert.Same(t, b, svc.Current())
	assert.Equal(t, ContentState{Connectivity: ConnectivityOffline, Phase: PhaseReady, Generation: 1}, svc.State())

	sig.Set(true)
	svc.Load(context.Background())
	assert.Equal(t, ContentState{Connectivity: ConnectivityOnline, Phase: PhaseReady, Generation: 2}, svc.State())
}

func TestContentService_ConcurrentLoads(t *testing.T) {
	svc := NewContentService(newMemRepo(), netstatus.NewStatic(true), nil, logging.Discard())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NotNil(t, svc.Load(context.Background()))
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 16, svc.State().Generation)
}

func TestContentService_WatchReloadsOncePerTransition(t *testing.T) {
	sig := netstatus.NewStatic(true)
	repo := newMemRepo()
	svc := NewContentService(repo, sig, nil, logging.Discard())
	svc.Load(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	done := svc.Watch(ctx)

	gen := func() uint64 { return svc.State().Generation }

	sig.Set(false)
	require.Eventually(t, func() bool { return gen() == 2 }, time.Second, time.Millisecond)
	assert.Equal(t, ConnectivityOffline, svc.State().Connectivity)
	assert.Equal(t, models.SourceCache, svc.Current().Source)

	sig.Set(false) // not a transition
	sig.Set(true)
	require.Eventually(t, func() bool { return gen() == 3 }, time.Second, time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	assert.EqualValues(t, 3, gen(), "no extra reloads")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}

	sig.Set(false)
	time.Sleep(20 * time.Millisecond)
	assert.EqualValues(t, 3, gen(), "stopped watcher must not reload")
}

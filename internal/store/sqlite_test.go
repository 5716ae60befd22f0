package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() }) //nolint:errcheck
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestProfileRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := Profile{
		CompanyName:   "Barclays Bank PLC",
		LinkedInURL:   "https://www.linkedin.com/company/barclays-bank",
		LinkedInTitle: "Barclays",
		WebsiteURL:    "https://home.barclays",
	}
	require.NoError(t, s.PutProfile(ctx, p, time.Hour))

	got, err := s.GetProfile(ctx, "Barclays Bank PLC")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p.LinkedInURL, got.LinkedInURL)
	assert.Equal(t, p.LinkedInTitle, got.LinkedInTitle)
	assert.Equal(t, p.WebsiteURL, got.WebsiteURL)
	assert.WithinDuration(t, time.Now().UTC(), got.CachedAt, time.Minute)
}

func TestGetProfileMissing(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetProfile(context.Background(), "No Such Company")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetProfileExpired(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutProfile(ctx, Profile{CompanyName: "Acme"}, -time.Hour))

	got, err := s.GetProfile(ctx, "Acme")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPutProfileReplaces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutProfile(ctx, Profile{CompanyName: "Acme", WebsiteURL: "https://old.example"}, time.Hour))
	require.NoError(t, s.PutProfile(ctx, Profile{CompanyName: "Acme", WebsiteURL: "https://new.example"}, time.Hour))

	got, err := s.GetProfile(ctx, "Acme")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "https://new.example", got.WebsiteURL)
}

func TestStaleProfiles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutProfile(ctx, Profile{CompanyName: "Oldest"}, -2*time.Hour))
	require.NoError(t, s.PutProfile(ctx, Profile{CompanyName: "Stale"}, -time.Hour))
	require.NoError(t, s.PutProfile(ctx, Profile{CompanyName: "Fresh"}, time.Hour))

	names, err := s.StaleProfiles(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Oldest", "Stale"}, names)

	names, err = s.StaleProfiles(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Oldest"}, names)
}

func TestRecordAndCountSearches(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	n, err := s.TotalSearches(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, s.RecordSearch(ctx, "barclays", 3, 0.9))
	require.NoError(t, s.RecordSearch(ctx, "hsbc", 1, 1.0))
	require.NoError(t, s.RecordSearch(ctx, "nothing", 0, 0))

	n, err = s.TotalSearches(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestMetaRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	v, err := s.GetMeta(ctx, "register_etag")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, s.SetMeta(ctx, "register_etag", `"abc123"`))
	require.NoError(t, s.SetMeta(ctx, "register_etag", `"def456"`))

	v, err = s.GetMeta(ctx, "register_etag")
	require.NoError(t, err)
	assert.Equal(t, `"def456"`, v)
}

package backend

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *LocalService {
	t.Helper()
	s, err := NewLocalService("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seed(t *testing.T, s *LocalService, listings ...Listing) []Listing {
	t.Helper()
	out := make([]Listing, 0, len(listings))
	for _, l := range listings {
		stored, err := s.Put(l)
		require.NoError(t, err)
		out = append(out, stored)
	}
	return out
}

func TestPutAssignsID(t *testing.T) {
	s := testStore(t)
	stored, err := s.Put(Listing{Caption: "Toyota Revo 2019"})
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)
}

func TestQueryMatchesAnyTerm(t *testing.T) {
	s := testStore(t)
	seed(t, s,
		Listing{ID: "a", Caption: "ขาย Toyota Revo 2019 สภาพดี"},
		Listing{ID: "b", Caption: "Honda Civic for sale"},
		Listing{ID: "c", Caption: "ຂາຍ ລີໂວ້ ປີ 2020"},
	)

	got, err := s.Query(context.Background(), Query{Terms: []string{"revo", "ລີໂວ້"}, Limit: 10})
	require.NoError(t, err)
	ids := listingIDs(got)
	assert.ElementsMatch(t, []string{"a", "c"}, ids)
}

func TestQueryScriptInsensitive(t *testing.T) {
	s := testStore(t)
	seed(t, s, Listing{ID: "a", Caption: "TOYOTA (REVO) ปี 2019"})

	got, err := s.Query(context.Background(), Query{Terms: []string{"revo"}, Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestQueryOrderingPromotedThenRecency(t *testing.T) {
	s := testStore(t)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	seed(t, s,
		Listing{ID: "old", Caption: "revo", PostedAt: base},
		Listing{ID: "new", Caption: "revo", PostedAt: base.Add(48 * time.Hour)},
		Listing{ID: "promoted", Caption: "revo", Promoted: true, PostedAt: base.Add(-time.Hour)},
	)

	got, err := s.Query(context.Background(), Query{Terms: []string{"revo"}, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"promoted", "new", "old"}, listingIDs(got))
}

func TestQueryPaginationWindow(t *testing.T) {
	s := testStore(t)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seed(t, s, Listing{Caption: "revo", PostedAt: base.Add(time.Duration(i) * time.Hour)})
	}

	// Requesting limit+1 rows surfaces further pages.
	page, err := s.Query(context.Background(), Query{Terms: []string{"revo"}, Start: 0, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, page, 3)

	rest, err := s.Query(context.Background(), Query{Terms: []string{"revo"}, Start: 3, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, rest, 2)

	beyond, err := s.Query(context.Background(), Query{Terms: []string{"revo"}, Start: 10, Limit: 3})
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestQueryUnfilteredFeed(t *testing.T) {
	s := testStore(t)
	seed(t, s,
		Listing{ID: "a", Caption: "anything"},
		Listing{ID: "b", Caption: "at all"},
	)

	got, err := s.Query(context.Background(), Query{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestQuerySingleTermFallbackContract(t *testing.T) {
	s := testStore(t)
	seed(t, s,
		Listing{ID: "a", Caption: "Toyota Revo"},
		Listing{ID: "b", Caption: "Honda City"},
	)

	got, err := s.Query(context.Background(), Query{Term: "revo", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, listingIDs(got))
}

func TestQueryCancelledContext(t *testing.T) {
	s := testStore(t)
	seed(t, s, Listing{ID: "a", Caption: "revo"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Query(ctx, Query{Terms: []string{"revo"}, Limit: 10})
	assert.ErrorIs(t, err, context.Canceled)
}

func listingIDs(listings []Listing) []string {
	ids := make([]string, len(listings))
	for i, l := range listings {
		ids[i] = l.ID
	}
	return ids
}

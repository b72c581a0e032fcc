package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/rodkhai/carsearch/pkg/normalize"
)

const listingPrefix = "listing/"

// LocalService is an embedded listing store implementing the same
// contract as the remote data service. It backs development setups and
// tests: captions are matched script-insensitively through the shared
// normalizer, and results come back promoted-first then newest-first,
// mirroring the production ordering.
type LocalService struct {
	db *badger.DB
}

// NewLocalService opens a badger-backed listing store at path. An empty
// path opens an in-memory store.
func NewLocalService(path string) (*LocalService, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open listing store: %w", err)
	}
	return &LocalService{db: db}, nil
}

// Put stores a listing, assigning an ID when missing, and returns the
// stored listing.
func (s *LocalService) Put(listing Listing) (Listing, error) {
	if listing.ID == "" {
		listing.ID = uuid.NewString()
	}
	raw, err := json.Marshal(listing)
	if err != nil {
		return Listing{}, fmt.Errorf("encode listing: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(listingPrefix+listing.ID), raw)
	})
	if err != nil {
		return Listing{}, fmt.Errorf("store listing: %w", err)
	}
	return listing, nil
}

// Query implements Service.
func (s *LocalService) Query(ctx context.Context, q Query) ([]Listing, error) {
	var matched []Listing

	terms := make([]string, 0, len(q.Terms)+1)
	for _, t := range q.Terms {
		if n := normalize.Normalize(t); n != "" {
			terms = append(terms, n)
		}
	}
	if len(terms) == 0 && q.Term != "" {
		if n := normalize.Normalize(q.Term); n != "" {
			terms = append(terms, n)
		}
	}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(listingPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var listing Listing
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &listing)
			})
			if err != nil {
				return fmt.Errorf("decode listing: %w", err)
			}
			if matches(listing, terms) {
				matched = append(matched, listing)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Promoted listings first, then recency; ID breaks remaining ties
	// so pagination windows stay stable.
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Promoted != matched[j].Promoted {
			return matched[i].Promoted
		}
		if !matched[i].PostedAt.Equal(matched[j].PostedAt) {
			return matched[i].PostedAt.After(matched[j].PostedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	start := q.Start
	if start < 0 {
		start = 0
	}
	if start >= len(matched) {
		return nil, nil
	}
	end := len(matched)
	if q.Limit > 0 && start+q.Limit < end {
		end = start + q.Limit
	}
	return matched[start:end], nil
}

// matches reports whether the listing's caption contains any term. An
// empty term list matches everything (unfiltered feed).
func matches(listing Listing, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	caption := normalize.Normalize(listing.Caption)
	for _, term := range terms {
		if strings.Contains(caption, term) {
			return true
		}
	}
	return false
}

// Close implements Service.
func (s *LocalService) Close() error {
	return s.db.Close()
}

package recon

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hearthdata/housing-etl/internal/model"
)

func TestResolveDeletesMatchingPersistedSales(t *testing.T) {
	day := time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)

	store := &fakeStore{
		sales: []SaleKey{
			{Address: "123 main st", SaleDate: day, SalePrice: 300000}, // matches, different casing
			{Address: "999 Other Rd", SaleDate: day, SalePrice: 100000},
		},
	}

	r := NewResolver(store, 50, nil)
	res := r.Resolve(context.Background(), []model.Sale{
		saleOn("123 MAIN ST", day, 300000),
	})

	if res.Err != nil {
		t.Fatalf("Resolve returned error: %v", res.Err)
	}
	if res.Count != 1 {
		t.Errorf("deleted = %d, want 1", res.Count)
	}
	if len(store.sales) != 1 || store.sales[0].Address != "999 Other Rd" {
		t.Errorf("store = %+v, want only the non-matching sale", store.sales)
	}
}

func TestResolveBoundedByDateRange(t *testing.T) {
	inRange := time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)
	outOfRange := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)

	// Same key triple exists outside the incoming span; it must never be
	// fetched as a candidate, let alone deleted.
	store := &fakeStore{
		sales: []SaleKey{
			{Address: "123 Main St", SaleDate: outOfRange, SalePrice: 300000},
		},
	}

	r := NewResolver(store, 50, nil)
	res := r.Resolve(context.Background(), []model.Sale{
		saleOn("123 Main St", inRange, 300000),
	})

	if res.Count != 0 {
		t.Errorf("deleted = %d, want 0", res.Count)
	}
	if len(store.fetchRanges) != 1 {
		t.Fatalf("fetch calls = %d, want 1", len(store.fetchRanges))
	}
	if got := store.fetchRanges[0]; !got[0].Equal(inRange) || !got[1].Equal(inRange) {
		t.Errorf("fetch range = [%v, %v], want [%v, %v]", got[0], got[1], inRange, inRange)
	}
	if len(store.sales) != 1 {
		t.Errorf("out-of-range sale was deleted")
	}
}

func TestResolveSpansIncomingDates(t *testing.T) {
	d1 := time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2023, 4, 20, 0, 0, 0, 0, time.UTC)

	store := &fakeStore{}
	r := NewResolver(store, 50, nil)

	r.Resolve(context.Background(), []model.Sale{
		saleOn("B", d2, 2),
		saleOn("A", d1, 1),
		saleOn("incomplete", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 0), // no price: excluded from span
	})

	if len(store.fetchRanges) != 1 {
		t.Fatalf("fetch calls = %d, want 1", len(store.fetchRanges))
	}
	got := store.fetchRanges[0]
	if !got[0].Equal(d1) || !got[1].Equal(d2) {
		t.Errorf("fetch range = [%v, %v], want [%v, %v]", got[0], got[1], d1, d2)
	}
}

func TestResolveSkipsIncompleteIncoming(t *testing.T) {
	store := &fakeStore{
		sales: []SaleKey{
			{Address: "123 Main St", SaleDate: time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC), SalePrice: 300000},
		},
	}

	r := NewResolver(store, 50, nil)
	res := r.Resolve(context.Background(), []model.Sale{
		saleOn("123 Main St", time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC), 0),
	})

	if res.Count != 0 {
		t.Errorf("deleted = %d, want 0", res.Count)
	}
	if len(store.fetchRanges) != 0 {
		t.Errorf("fetch calls = %d, want 0 when no complete keys", len(store.fetchRanges))
	}
}

func TestResolveDeleteChunking(t *testing.T) {
	day := time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)

	var persisted []SaleKey
	var incoming []model.Sale
	for i := 0; i < 7; i++ {
		d := day.AddDate(0, 0, i)
		persisted = append(persisted, SaleKey{Address: "Addr", SaleDate: d, SalePrice: 100000})
		incoming = append(incoming, saleOn("Addr", d, 100000))
	}

	store := &fakeStore{sales: persisted}
	r := NewResolver(store, 3, nil)

	res := r.Resolve(context.Background(), incoming)

	if res.Count != 7 {
		t.Errorf("deleted = %d, want 7", res.Count)
	}
	want := []int{3, 3, 1}
	if len(store.deleteSizes) != len(want) {
		t.Fatalf("delete chunks = %v, want %v", store.deleteSizes, want)
	}
	for i, n := range want {
		if store.deleteSizes[i] != n {
			t.Errorf("delete chunk %d size = %d, want %d", i, store.deleteSizes[i], n)
		}
	}
}

func TestResolveFetchFailure(t *testing.T) {
	store := &fakeStore{fetchErr: errors.New("timeout")}
	r := NewResolver(store, 50, nil)

	res := r.Resolve(context.Background(), []model.Sale{
		saleOn("123 Main St", time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC), 300000),
	})

	if res.Err == nil {
		t.Error("Resolve.Err = nil, want fetch failure recorded")
	}
	if res.Count != 0 {
		t.Errorf("deleted = %d, want 0", res.Count)
	}
}

func TestResolveDeleteFailureKeepsPartialCount(t *testing.T) {
	day := time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)

	store := &fakeStore{
		sales: []SaleKey{
			{Address: "Addr", SaleDate: day, SalePrice: 100000},
		},
		deleteErr: errors.New("connection reset"),
	}
	r := NewResolver(store, 50, nil)

	res := r.Resolve(context.Background(), []model.Sale{saleOn("Addr", day, 100000)})

	if res.Err == nil {
		t.Error("Resolve.Err = nil, want delete failure recorded")
	}
	if res.Count != 0 {
		t.Errorf("deleted = %d, want 0 from failed chunk", res.Count)
	}
}

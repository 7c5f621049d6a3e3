package history_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/paydash/internal/filter"
	"github.com/raysh454/paydash/internal/history"
	"github.com/raysh454/paydash/internal/model"
	"github.com/raysh454/paydash/internal/testutil"
)

func records(n int) []model.OperationRecord {
	out := make([]model.OperationRecord, n)
	for i := range out {
		out[i] = model.OperationRecord{ID: fmt.Sprintf("op-%02d", i), OperationType: model.OperationValidation, Status: model.StatusSuccess}
	}
	return out
}

func newStore(src history.Source, opts ...history.Option) *history.Store {
	opts = append([]history.Option{history.WithLogger(&testutil.DummyLogger{})}, opts...)
	return history.New(model.CategoryGlobal, src, opts...)
}

func TestNew_Defaults(t *testing.T) {
	s := newStore(&testutil.DummyPayments{})
	snap := s.Snapshot()
	assert.Equal(t, model.CategoryGlobal, s.Category())
	assert.Equal(t, 0, snap.Page)
	assert.Equal(t, history.DefaultPageSize, snap.Size)
	assert.Equal(t, 1, snap.TotalPages)
	assert.Empty(t, snap.Records)
	assert.False(t, snap.Loading)
	assert.False(t, snap.Filtered())
}

func TestLoad_AdoptsServerValues(t *testing.T) {
	src := &testutil.DummyPayments{
		HistoryFunc: func(_ context.Context, q model.HistoryQuery) (*model.Page, error) {
			return &model.Page{Content: records(2), TotalPages: 4, Number: 1}, nil
		},
	}
	s := newStore(src)

	require.NoError(t, s.Load(context.Background(), 7, 10))
	snap := s.Snapshot()
	assert.Equal(t, 1, snap.Page, "server page number is authoritative")
	assert.Equal(t, 4, snap.TotalPages)
	assert.Len(t, snap.Records, 2)
	assert.Empty(t, snap.Error)
	assert.False(t, snap.UpdatedAt.IsZero())
}

func TestLoad_FailureKeepsRecords(t *testing.T) {
	src := &testutil.DummyPayments{}
	src.SetPages(model.CategoryGlobal, records(3))
	s := newStore(src)
	require.NoError(t, s.Reload(context.Background()))

	boom := errors.New("connection refused")
	src.HistoryFunc = func(context.Context, model.HistoryQuery) (*model.Page, error) { return nil, boom }

	err := s.Reload(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	snap := s.Snapshot()
	assert.Len(t, snap.Records, 3)
	assert.Equal(t, history.LoadErrorMessage, snap.Error)
	assert.False(t, snap.Loading)
	assert.ErrorIs(t, s.LastError(), boom)

	src.HistoryFunc = nil
	require.NoError(t, s.Reload(context.Background()))
	assert.Empty(t, s.Snapshot().Error)
}

func TestSetPage_FailureKeepsPreviousRecords(t *testing.T) {
	src := &testutil.DummyPayments{}
	src.SetPages(model.CategoryGlobal, records(12))
	s := newStore(src, history.WithPageSize(5))
	require.NoError(t, s.Reload(context.Background()))

	src.HistoryFunc = func(context.Context, model.HistoryQuery) (*model.Page, error) {
		return nil, errors.New("timeout")
	}
	require.Error(t, s.SetPage(context.Background(), 2))

	snap := s.Snapshot()
	assert.Equal(t, 2, snap.Page)
	require.Len(t, snap.Records, 5)
	assert.Equal(t, "op-00", snap.Records[0].ID)
	assert.Equal(t, history.LoadErrorMessage, snap.Error)
}

func TestSetRange_ResetsPageAndSendsBounds(t *testing.T) {
	src := &testutil.DummyPayments{}
	src.SetPages(model.CategoryGlobal, records(25))
	s := newStore(src)
	require.NoError(t, s.SetPage(context.Background(), 2))
	assert.Equal(t, 2, s.Snapshot().Page)

	r := filter.Range{From: "2024-03-15T08:00:00.000Z", To: "2024-03-15T17:30:59.999Z"}
	require.NoError(t, s.SetRange(context.Background(), r))

	last := src.Queries[len(src.Queries)-1]
	assert.Equal(t, 0, last.Page)
	assert.Equal(t, r.From, last.From)
	assert.Equal(t, r.To, last.To)
	assert.True(t, s.Snapshot().Filtered())

	require.NoError(t, s.SetRange(context.Background(), filter.Range{}))
	last = src.Queries[len(src.Queries)-1]
	assert.Empty(t, last.From)
	assert.Empty(t, last.To)
}

func TestSetSize_DoesNotResetPage(t *testing.T) {
	src := &testutil.DummyPayments{
		HistoryFunc: func(_ context.Context, q model.HistoryQuery) (*model.Page, error) {
			return &model.Page{Content: records(1), TotalPages: 3, Number: q.Page}, nil
		},
	}
	s := newStore(src)
	require.NoError(t, s.SetPage(context.Background(), 2))

	require.NoError(t, s.SetSize(context.Background(), 50))
	last := src.Queries[len(src.Queries)-1]
	assert.Equal(t, 2, last.Page)
	assert.Equal(t, 50, last.Size)
	assert.Equal(t, 50, s.Snapshot().Size)

	err := s.SetSize(context.Background(), 7)
	assert.ErrorIs(t, err, history.ErrInvalidSize)
}

func TestSetSize_AdoptsServerPageWhenOutOfRange(t *testing.T) {
	src := &testutil.DummyPayments{}
	src.SetPages(model.CategoryGlobal, records(12))
	src.HistoryFunc = func(_ context.Context, q model.HistoryQuery) (*model.Page, error) {
		// server clamps the page like a real pager would
		total := (12 + q.Size - 1) / q.Size
		n := q.Page
		if n >= total {
			n = total - 1
		}
		return &model.Page{Content: records(1), TotalPages: total, Number: n}, nil
	}
	s := newStore(src, history.WithPageSize(5))
	require.NoError(t, s.SetPage(context.Background(), 2))
	require.NoError(t, s.SetSize(context.Background(), 50))
	assert.Equal(t, 0, s.Snapshot().Page)
}

func TestLoad_StaleResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	src := &testutil.DummyPayments{
		HistoryFunc: func(_ context.Context, q model.HistoryQuery) (*model.Page, error) {
			if q.Page == 0 {
				<-release
				return &model.Page{Content: records(1), TotalPages: 5, Number: 0}, nil
			}
			return &model.Page{Content: records(2), TotalPages: 5, Number: q.Page}, nil
		},
	}
	s := newStore(src)

	var wg sync.WaitGroup
	var slowErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		slowErr = s.Load(context.Background(), 0, 10)
	}()

	require.Eventually(t, func() bool { return src.QueryCount() == 1 }, time.Second, time.Millisecond)
	require.NoError(t, s.Load(context.Background(), 3, 10))
	close(release)
	wg.Wait()

	assert.ErrorIs(t, slowErr, history.ErrSuperseded)
	snap := s.Snapshot()
	assert.Equal(t, 3, snap.Page)
	assert.Len(t, snap.Records, 2)
	assert.False(t, snap.Loading)
}

func TestLoad_LoadingFlagAndListeners(t *testing.T) {
	release := make(chan struct{})
	src := &testutil.DummyPayments{
		HistoryFunc: func(context.Context, model.HistoryQuery) (*model.Page, error) {
			<-release
			return &model.Page{Content: records(1), TotalPages: 1}, nil
		},
	}
	s := newStore(src)

	var mu sync.Mutex
	var seen []bool
	s.Subscribe(func(snap history.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, snap.Loading)
	})

	done := make(chan error, 1)
	go func() { done <- s.Reload(context.Background()) }()
	require.Eventually(t, func() bool { return s.Snapshot().Loading }, time.Second, time.Millisecond)
	close(release)
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{true, false}, seen)
}

func TestSnapshot_Navigation(t *testing.T) {
	snap := history.Snapshot{Page: 0, TotalPages: 3}
	assert.False(t, snap.HasPrev())
	assert.True(t, snap.HasNext())
	assert.True(t, snap.CanGoTo(2))
	assert.False(t, snap.CanGoTo(3))
	assert.False(t, snap.CanGoTo(-1))

	empty := history.Snapshot{TotalPages: 0}
	assert.False(t, empty.HasNext())
	assert.False(t, empty.CanGoTo(0))
	assert.Equal(t, 1, empty.Pages())
}

func TestFind(t *testing.T) {
	src := &testutil.DummyPayments{}
	src.SetPages(model.CategoryGlobal, records(3))
	s := newStore(src)
	require.NoError(t, s.Reload(context.Background()))

	rec, ok := s.Find("op-01")
	assert.True(t, ok)
	assert.Equal(t, "op-01", rec.ID)
	_, ok = s.Find("missing")
	assert.False(t, ok)
}

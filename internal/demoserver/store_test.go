package demoserver_test

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/paydash/internal/demoserver"
	"github.com/raysh454/paydash/internal/model"
	"github.com/raysh454/paydash/internal/testutil"
)

var base = time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)

func openStore(t *testing.T) *demoserver.Store {
	t.Helper()
	s, err := demoserver.OpenStore("", &testutil.DummyLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func entry(id string, typ model.OperationType, at time.Time, ccy string) demoserver.Entry {
	return demoserver.Entry{
		OperationRecord: model.OperationRecord{
			ID:            id,
			OperationType: typ,
			Status:        model.StatusSuccess,
			Timestamp:     model.Timestamp{Time: at},
			SourceType:    "pain.001.001.03",
			TargetType:    "MT101",
			InputXML:      "<Document/>",
		},
		Currency: ccy,
	}
}

func fill(t *testing.T, s *demoserver.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, entry("a", model.OperationValidation, base, "EUR")))
	require.NoError(t, s.Insert(ctx, entry("b", model.OperationTransformation, base.Add(time.Hour), "EUR")))
	require.NoError(t, s.Insert(ctx, entry("c", model.OperationValidation, base.Add(2*time.Hour), "USD")))
}

func ids(p *model.Page) []string {
	out := []string{}
	for _, r := range p.Content {
		out = append(out, r.ID)
	}
	return out
}

func TestStore_ListNewestFirstPaged(t *testing.T) {
	s := openStore(t)
	fill(t, s)

	p, err := s.List(context.Background(), demoserver.ListQuery{Category: model.CategoryGlobal, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, ids(p))
	assert.Equal(t, 2, p.TotalPages)
	assert.Equal(t, 0, p.Number)

	p, err = s.List(context.Background(), demoserver.ListQuery{Category: model.CategoryGlobal, Page: 1, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(p))
	assert.Equal(t, 1, p.Number)
}

func TestStore_ListByCategory(t *testing.T) {
	s := openStore(t)
	fill(t, s)

	p, err := s.List(context.Background(), demoserver.ListQuery{Category: model.CategoryValidation, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, ids(p))
	for _, r := range p.Content {
		assert.Equal(t, model.OperationValidation, r.OperationType)
	}
}

func TestStore_ListRangeIsInclusive(t *testing.T) {
	s := openStore(t)
	fill(t, s)

	p, err := s.List(context.Background(), demoserver.ListQuery{
		Category: model.CategoryGlobal,
		Size:     10,
		From:     base.Add(time.Hour),
		To:       base.Add(2 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, ids(p))
}

func TestStore_EmptyListHasOnePage(t *testing.T) {
	s := openStore(t)

	p, err := s.List(context.Background(), demoserver.ListQuery{Category: model.CategoryTransformation, Size: 5})
	require.NoError(t, err)
	assert.NotNil(t, p.Content)
	assert.Empty(t, p.Content)
	assert.Equal(t, 1, p.TotalPages)
}

func TestStore_RoundTripsOptionalColumns(t *testing.T) {
	s := openStore(t)
	e := entry("x", model.OperationTransformation, base, "EUR")
	e.Status = model.StatusError
	e.Errors = json.RawMessage(`"[{\"code\":\"E1\"}]"`)
	e.BIC = "BNPAFRPPXXX"
	e.Details = "ACME"
	d := int64(120)
	e.Duration = &d
	require.NoError(t, s.Insert(context.Background(), e))

	p, err := s.List(context.Background(), demoserver.ListQuery{Category: model.CategoryGlobal})
	require.NoError(t, err)
	require.Len(t, p.Content, 1)

	got := p.Content[0]
	assert.Equal(t, model.StatusError, got.Status)
	assert.JSONEq(t, `"[{\"code\":\"E1\"}]"`, string(got.Errors))
	assert.Equal(t, "BNPAFRPPXXX", got.BIC)
	assert.Equal(t, "ACME", got.Details)
	require.NotNil(t, got.Duration)
	assert.Equal(t, int64(120), *got.Duration)
	assert.True(t, got.Timestamp.Equal(base))
	assert.Empty(t, got.OutputContent)
}

func TestStore_CurrencyCounts(t *testing.T) {
	s := openStore(t)
	fill(t, s)
	require.NoError(t, s.Insert(context.Background(), entry("d", model.OperationValidation, base, "")))

	counts, err := s.CurrencyCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"EUR": 2, "USD": 1}, counts)
}

func TestStore_SeedIsDeterministicAndOnce(t *testing.T) {
	ctx := context.Background()
	seeded := func() (*demoserver.Store, map[string]int) {
		s := openStore(t)
		require.NoError(t, s.Seed(ctx, 25, base, rand.New(rand.NewPCG(7, 7))))
		counts, err := s.CurrencyCounts(ctx)
		require.NoError(t, err)
		return s, counts
	}

	s1, c1 := seeded()
	_, c2 := seeded()
	assert.Equal(t, c1, c2)

	n, err := s1.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25, n)

	require.NoError(t, s1.Seed(ctx, 25, base, rand.New(rand.NewPCG(1, 1))))
	n, err = s1.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25, n)
}

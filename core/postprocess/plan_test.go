package postprocess

import (
	"context"
	"testing"

	"feature-merge/core/database"
	"feature-merge/core/gff"
	"feature-merge/core/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func feat(id, source string, start, end int) *gff.Feature {
	f := &gff.Feature{
		ID: id, SeqID: "chr1", Source: source, Type: "exon",
		Start: start, End: end, Score: ".", Strand: "+", Frame: ".",
	}
	f.Attributes.Set(gff.AttrID, id)
	return f
}

func aggregate(id string, children ...*gff.Feature) *gff.Feature {
	agg := children[0].Clone()
	agg.Attributes = nil
	agg.SetID(id)
	for _, c := range children {
		agg.Start = min(agg.Start, c.Start)
		agg.End = max(agg.End, c.End)
	}
	agg.Source = "merged"
	agg.Children = children
	return agg
}

func setupStore(t *testing.T, features ...*gff.Feature) *store.Store {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	st, err := store.Open(context.Background(), db, zap.NewNop())
	require.NoError(t, err)
	for _, f := range features {
		require.NoError(t, st.Insert(context.Background(), f))
	}
	return st
}

func TestBuildPlan(t *testing.T) {
	e1, e2 := feat("e1", "ens", 10, 50), feat("e2", "havana", 40, 80)
	e3 := feat("e3", "ens", 45, 60)
	agg := aggregate("exon_1", e1, e2, e3)
	pass := feat("e9", "ens", 200, 300)

	plan := BuildPlan([]*gff.Feature{agg, pass}, Options{})
	assert.Equal(t, Summary{Aggregates: 1, Bound: 3}, plan.Summary)
	require.Len(t, plan.Actions, 4)
	assert.Equal(t, ActionUpsert, plan.Actions[0].Type)
	for _, a := range plan.Actions[1:] {
		assert.Equal(t, ActionBind, a.Type)
		assert.Same(t, agg, a.Aggregate)
	}

	assert.Equal(t, Source, agg.Source)
	assert.Equal(t, []string{"ens", "havana"}, agg.Attributes.Get(gff.AttrSources))
	assert.Equal(t, []string{gff.AttrID, gff.AttrSources}, agg.Attributes.Keys())

	excluded := BuildPlan([]*gff.Feature{aggregate("exon_2", feat("a", "x", 1, 5), feat("b", "x", 3, 9))}, Options{ExcludeComponents: true})
	assert.Equal(t, Summary{Aggregates: 1, Deleted: 2}, excluded.Summary)
	assert.Equal(t, ActionDelete, excluded.Actions[1].Type)
}

func TestApplyPlan_Bind(t *testing.T) {
	ctx := context.Background()
	e1, e2, e3 := feat("e1", "ens", 10, 50), feat("e2", "ens", 40, 80), feat("e3", "ens", 200, 300)
	st := setupStore(t, e1, e2, e3)

	agg := aggregate("exon_1", e1, e2)
	executed, err := ApplyPlan(ctx, st, BuildPlan([]*gff.Feature{agg}, Options{}))
	require.NoError(t, err)
	assert.Equal(t, 3, executed)

	stored, err := st.Get(ctx, "exon_1")
	require.NoError(t, err)
	assert.Equal(t, Source, stored.Source)
	assert.Equal(t, 10, stored.Start)
	assert.Equal(t, 80, stored.End)
	assert.Equal(t, []string{"ens"}, stored.Attributes.Get(gff.AttrSources))

	for _, id := range []string{"e1", "e2"} {
		c, err := st.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, []string{"exon_1"}, c.Parents())
		assert.Equal(t, "exon_1", st.BoundParent(id))
	}
	assert.Equal(t, []string{"exon_1"}, e1.Parents())

	c, err := st.Get(ctx, "e3")
	require.NoError(t, err)
	assert.Empty(t, c.Parents())
}

func TestApplyPlan_ExcludeComponents(t *testing.T) {
	ctx := context.Background()
	e1, e2, e3 := feat("e1", "ens", 10, 50), feat("e2", "ens", 40, 80), feat("e3", "ens", 200, 300)
	st := setupStore(t, e1, e2, e3)

	_, err := ApplyPlan(ctx, st, BuildPlan([]*gff.Feature{aggregate("exon_1", e1, e2)}, Options{ExcludeComponents: true}))
	require.NoError(t, err)

	for _, id := range []string{"e1", "e2"} {
		ok, err := st.Exists(ctx, id)
		require.NoError(t, err)
		assert.False(t, ok, id)
	}
	n, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestApplyPlan_ReplacesExistingAggregate(t *testing.T) {
	ctx := context.Background()
	e1, e2 := feat("e1", "ens", 10, 50), feat("e2", "ens", 40, 80)
	old := feat("exon_1", "old", 1, 2)
	st := setupStore(t, e1, e2, old)

	_, err := ApplyPlan(ctx, st, BuildPlan([]*gff.Feature{aggregate("exon_1", e1, e2)}, Options{}))
	require.NoError(t, err)

	stored, err := st.Get(ctx, "exon_1")
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Start)
	assert.Equal(t, Source, stored.Source)
}

func TestApplyPlan_RollsBack(t *testing.T) {
	ctx := context.Background()
	e1 := feat("e1", "ens", 10, 50)
	st := setupStore(t, e1)

	// e2 was never stored, so binding it fails and the aggregate is not kept.
	agg := aggregate("exon_1", e1, feat("e2", "ens", 40, 80))
	_, err := ApplyPlan(ctx, st, BuildPlan([]*gff.Feature{agg}, Options{}))
	assert.ErrorIs(t, err, store.ErrUnknownID)
	assert.ErrorContains(t, err, "failed to bind e2 to exon_1")

	ok, err := st.Exists(ctx, "exon_1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestApplyPlan_Empty(t *testing.T) {
	st := setupStore(t)
	executed, err := ApplyPlan(context.Background(), st, BuildPlan(nil, Options{}))
	require.NoError(t, err)
	assert.Zero(t, executed)
}

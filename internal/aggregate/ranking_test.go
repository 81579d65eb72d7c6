package aggregate

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/5satoshi/webapp-sub000/internal/domain"
	"github.com/5satoshi/webapp-sub000/internal/logger"
	"github.com/5satoshi/webapp-sub000/internal/mocks"
	"github.com/5satoshi/webapp-sub000/internal/store"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int64) *int64       { return &v }
func strPtr(v string) *string     { return &v }

// Test node ids, named by their position in the common-category ranking
var (
	nodeFirst  = "02" + repeatHex("aa", 32)
	nodeSecond = "02" + repeatHex("bb", 32)
	nodeThird  = "03" + repeatHex("cc", 32)
)

func repeatHex(pair string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += pair
	}
	return out
}

func TestRanking_TopNodesByCategory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	ranking := NewRanking(mockStore)
	ctx := context.Background()

	// Phase one: top 3 by common share. Two nodes tie on share, so rank
	// breaks the tie: rank 1 sorts before rank 2.
	mockStore.EXPECT().
		TopNodeIDsByCategory(ctx, domain.CategoryCommon, 3).
		Return([]store.CategoryShareRow{
			{NodeID: nodeFirst, Category: domain.CategoryCommon, Share: floatPtr(0.9), Rank: intPtr(1)},
			{NodeID: nodeSecond, Category: domain.CategoryCommon, Share: floatPtr(0.9), Rank: intPtr(2)},
			{NodeID: nodeThird, Category: domain.CategoryCommon, Share: floatPtr(0.5), Rank: intPtr(3)},
		}, nil)

	// Phase two: cross-category backfill, returned in arbitrary order.
	// nodeThird has no micro observation at all.
	mockStore.EXPECT().
		LatestSharesByNode(ctx, []string{nodeFirst, nodeSecond, nodeThird}).
		Return([]store.CategoryShareRow{
			{NodeID: nodeThird, Category: domain.CategoryCommon, Share: floatPtr(0.5), Rank: intPtr(3)},
			{NodeID: nodeThird, Category: domain.CategoryMacro, Share: nil, Rank: nil},
			{NodeID: nodeFirst, Category: domain.CategoryCommon, Share: floatPtr(0.9), Rank: intPtr(1)},
			{NodeID: nodeFirst, Category: domain.CategoryMicro, Share: floatPtr(0.12345), Rank: intPtr(4)},
			{NodeID: nodeSecond, Category: domain.CategoryCommon, Share: floatPtr(0.9), Rank: intPtr(2)},
		}, nil)

	mockStore.EXPECT().
		LatestAliases(ctx, []string{nodeFirst, nodeSecond, nodeThird}).
		Return([]store.NodeAliasRow{
			{NodeID: nodeFirst, Alias: strPtr("alpha")},
		}, nil)

	rankings, err := ranking.TopNodesByCategory(ctx, domain.CategoryCommon, 3)
	require.NoError(t, err)
	require.Len(t, rankings, 3)

	// Re-sorted deterministically: equal shares fall back to rank ascending
	assert.Equal(t, nodeFirst, rankings[0].NodeID)
	assert.Equal(t, nodeSecond, rankings[1].NodeID)
	assert.Equal(t, nodeThird, rankings[2].NodeID)

	// Shares are percentages, scaled exactly once
	assert.Equal(t, floatPtr(90.0), rankings[0].CategoryShare)
	assert.Equal(t, intPtr(1), rankings[0].CategoryRank)
	assert.Equal(t, floatPtr(12.35), rankings[0].MicroShare)
	assert.Equal(t, intPtr(4), rankings[0].MicroRank)
	assert.Equal(t, strPtr("alpha"), rankings[0].Alias)

	// Unknown stays nil, never 0
	assert.Nil(t, rankings[0].MacroShare)
	assert.Nil(t, rankings[0].MacroRank)
	assert.Nil(t, rankings[1].Alias)
	assert.Nil(t, rankings[2].MicroShare)
	assert.Nil(t, rankings[2].MacroShare)
	assert.Equal(t, floatPtr(50.0), rankings[2].CategoryShare)
}

func TestRanking_TopNodesByCategory_PhaseOneFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	ranking := NewRanking(mockStore)
	ctx := context.Background()

	storeErr := errors.New("connection refused")
	mockStore.EXPECT().
		TopNodeIDsByCategory(ctx, domain.CategoryMicro, 10).
		Return(nil, storeErr)

	rankings, err := ranking.TopNodesByCategory(ctx, domain.CategoryMicro, 10)

	assert.ErrorIs(t, err, storeErr)
	assert.NotNil(t, rankings)
	assert.Empty(t, rankings)
}

func TestRanking_TopNodesByCategory_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	ranking := NewRanking(mockStore)
	ctx := context.Background()

	mockStore.EXPECT().
		TopNodeIDsByCategory(ctx, domain.CategoryMacro, 10).
		Return([]store.CategoryShareRow{}, nil)

	rankings, err := ranking.TopNodesByCategory(ctx, domain.CategoryMacro, 10)

	require.NoError(t, err)
	assert.NotNil(t, rankings)
	assert.Empty(t, rankings)
}

func TestRanking_TopNodesByCategory_PhaseTwoDegrades(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	ranking := NewRanking(mockStore)
	ctx := context.Background()

	mockStore.EXPECT().
		TopNodeIDsByCategory(ctx, domain.CategoryCommon, 2).
		Return([]store.CategoryShareRow{
			{NodeID: nodeFirst, Category: domain.CategoryCommon, Share: floatPtr(0.8), Rank: intPtr(1)},
			{NodeID: nodeSecond, Category: domain.CategoryCommon, Share: floatPtr(0.4), Rank: intPtr(2)},
		}, nil)
	mockStore.EXPECT().
		LatestSharesByNode(ctx, gomock.Any()).
		Return(nil, errors.New("query canceled"))
	mockStore.EXPECT().
		LatestAliases(ctx, gomock.Any()).
		Return(nil, nil)

	rankings, err := ranking.TopNodesByCategory(ctx, domain.CategoryCommon, 2)
	require.NoError(t, err)
	require.Len(t, rankings, 2)

	// Backfill failed: phase-one share and rank survive, the other
	// categories stay unknown
	assert.Equal(t, nodeFirst, rankings[0].NodeID)
	assert.Equal(t, floatPtr(80.0), rankings[0].CategoryShare)
	assert.Equal(t, intPtr(1), rankings[0].CategoryRank)
	assert.Nil(t, rankings[0].MicroShare)
	assert.Nil(t, rankings[0].MacroShare)
}

func TestRanking_TopNodesAllCategories_IsolatesFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockStore(ctrl)
	ranking := NewRanking(mockStore)
	ctx := context.Background()

	row := store.CategoryShareRow{NodeID: nodeFirst, Share: floatPtr(0.7), Rank: intPtr(1)}

	micro, common := row, row
	micro.Category = domain.CategoryMicro
	common.Category = domain.CategoryCommon

	mockStore.EXPECT().
		TopNodeIDsByCategory(ctx, domain.CategoryMicro, 5).
		Return([]store.CategoryShareRow{micro}, nil)
	mockStore.EXPECT().
		TopNodeIDsByCategory(ctx, domain.CategoryCommon, 5).
		Return([]store.CategoryShareRow{common}, nil)
	mockStore.EXPECT().
		TopNodeIDsByCategory(ctx, domain.CategoryMacro, 5).
		Return(nil, errors.New("timeout"))

	mockStore.EXPECT().
		LatestSharesByNode(ctx, []string{nodeFirst}).
		Return([]store.CategoryShareRow{micro, common}, nil).
		Times(2)
	mockStore.EXPECT().
		LatestAliases(ctx, []string{nodeFirst}).
		Return(nil, nil).
		Times(2)

	byCategory := ranking.TopNodesAllCategories(ctx, 5)

	require.Len(t, byCategory, 3)
	assert.Len(t, byCategory[domain.CategoryMicro], 1)
	assert.Len(t, byCategory[domain.CategoryCommon], 1)

	// The failed category degrades to an empty list, not a missing key
	assert.NotNil(t, byCategory[domain.CategoryMacro])
	assert.Empty(t, byCategory[domain.CategoryMacro])
}

func TestSortRankings(t *testing.T) {
	rankings := []NodeRanking{
		{NodeID: "d", CategoryShare: nil, CategoryRank: nil},
		{NodeID: "c", CategoryShare: floatPtr(50), CategoryRank: intPtr(3)},
		{NodeID: "b", CategoryShare: floatPtr(90), CategoryRank: intPtr(2)},
		{NodeID: "a", CategoryShare: floatPtr(90), CategoryRank: intPtr(1)},
		{NodeID: "e", CategoryShare: floatPtr(50), CategoryRank: nil},
	}

	sortRankings(rankings)

	order := make([]string, 0, len(rankings))
	for _, r := range rankings {
		order = append(order, r.NodeID)
	}

	// Share descending, then rank ascending with unknown last, then id
	assert.Equal(t, []string{"a", "b", "c", "e", "d"}, order)
}

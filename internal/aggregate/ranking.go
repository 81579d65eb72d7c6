package aggregate

import (
	"context"
	"sort"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/5satoshi/webapp-sub000/internal/domain"
	"github.com/5satoshi/webapp-sub000/internal/logger"
	"github.com/5satoshi/webapp-sub000/internal/store"
)

// NodeRanking is one row of a ranking table: the requested category's
// share and rank plus the node's numbers in every category, so the UI can
// render them side by side. Shares are percentages in [0,100]; a nil share
// or rank means "unknown", which is distinct from 0.
type NodeRanking struct {
	NodeID        string   `json:"node_id"`
	Alias         *string  `json:"alias"`
	CategoryShare *float64 `json:"category_share"`
	CategoryRank  *int64   `json:"category_rank"`
	MicroShare    *float64 `json:"micro_share"`
	MicroRank     *int64   `json:"micro_rank"`
	CommonShare   *float64 `json:"common_share"`
	CommonRank    *int64   `json:"common_rank"`
	MacroShare    *float64 `json:"macro_share"`
	MacroRank     *int64   `json:"macro_rank"`
}

// Ranking computes top-node tables from centrality observations
type Ranking struct {
	store store.Store
}

// NewRanking creates a new ranking aggregator
func NewRanking(s store.Store) *Ranking {
	return &Ranking{store: s}
}

// TopNodesByCategory returns the limit best nodes by latest share in the
// requested category, back-filled with every category's numbers for those
// nodes.
//
// The lookup is two-phase to bound query cost: phase one identifies the
// node ids using only the requested category, phase two batch-fetches all
// three categories plus aliases for exactly those ids. A phase-one failure
// returns an empty list and the error; phase-two failures are logged and
// degrade to phase-one data with the other categories left unknown.
func (r *Ranking) TopNodesByCategory(ctx context.Context, category domain.Category, limit int) ([]NodeRanking, error) {
	top, err := r.store.TopNodeIDsByCategory(ctx, category, limit)
	if err != nil {
		logger.ErrorCtx(ctx, err,
			zap.String("operation", "TopNodesByCategory"),
			zap.String("category", string(category)),
		)
		return []NodeRanking{}, err
	}
	if len(top) == 0 {
		return []NodeRanking{}, nil
	}

	ids := make([]string, 0, len(top))
	for _, row := range top {
		ids = append(ids, row.NodeID)
	}

	// Batch fetch across all categories; aliases ride along in parallel
	var (
		batch    []store.CategoryShareRow
		batchErr error
		aliases  []store.NodeAliasRow
		aliasErr error
	)
	pool := pond.NewPool(2, pond.WithContext(ctx))
	pool.Submit(func() {
		batch, batchErr = r.store.LatestSharesByNode(ctx, ids)
	})
	pool.Submit(func() {
		aliases, aliasErr = r.store.LatestAliases(ctx, ids)
	})
	pool.StopAndWait()

	if batchErr != nil {
		logger.ErrorCtx(ctx, batchErr,
			zap.String("operation", "TopNodesByCategory"),
			zap.String("category", string(category)),
			zap.Int("nodes", len(ids)),
		)
		batch = nil // degrade to phase-one data
	}
	if aliasErr != nil {
		logger.ErrorCtx(ctx, aliasErr,
			zap.String("operation", "TopNodesByCategory"),
			zap.String("step", "aliases"),
		)
		aliases = nil
	}

	aliasByNode := make(map[string]*string, len(aliases))
	for _, row := range aliases {
		aliasByNode[row.NodeID] = row.Alias
	}

	type categoryPair struct {
		share *float64
		rank  *int64
	}
	byNode := make(map[string]map[domain.Category]categoryPair, len(ids))
	for _, row := range batch {
		if byNode[row.NodeID] == nil {
			byNode[row.NodeID] = make(map[domain.Category]categoryPair, len(domain.Categories))
		}
		byNode[row.NodeID][row.Category] = categoryPair{share: row.Share, rank: row.Rank}
	}

	rankings := make([]NodeRanking, 0, len(top))
	for _, row := range top {
		ranking := NodeRanking{
			NodeID: row.NodeID,
			Alias:  aliasByNode[row.NodeID],
		}

		categories, ok := byNode[row.NodeID]
		if !ok {
			// Node missing from the batch: fall back to the phase-one
			// share and rank, leave the other categories unknown
			ranking.CategoryShare = SharePercentPtr(row.Share)
			ranking.CategoryRank = row.Rank
			rankings = append(rankings, ranking)
			continue
		}

		if pair, ok := categories[domain.CategoryMicro]; ok {
			ranking.MicroShare = SharePercentPtr(pair.share)
			ranking.MicroRank = pair.rank
		}
		if pair, ok := categories[domain.CategoryCommon]; ok {
			ranking.CommonShare = SharePercentPtr(pair.share)
			ranking.CommonRank = pair.rank
		}
		if pair, ok := categories[domain.CategoryMacro]; ok {
			ranking.MacroShare = SharePercentPtr(pair.share)
			ranking.MacroRank = pair.rank
		}

		switch category {
		case domain.CategoryMicro:
			ranking.CategoryShare, ranking.CategoryRank = ranking.MicroShare, ranking.MicroRank
		case domain.CategoryCommon:
			ranking.CategoryShare, ranking.CategoryRank = ranking.CommonShare, ranking.CommonRank
		case domain.CategoryMacro:
			ranking.CategoryShare, ranking.CategoryRank = ranking.MacroShare, ranking.MacroRank
		}

		rankings = append(rankings, ranking)
	}

	// The batched fetch does not preserve phase-one order, so re-sort with
	// the same comparator: share DESC, rank ASC nulls last, node id ASC
	sortRankings(rankings)

	return rankings, nil
}

// TopNodesAllCategories runs TopNodesByCategory for every category
// concurrently. A failure in one category leaves its entry empty without
// blocking the others.
func (r *Ranking) TopNodesAllCategories(ctx context.Context, limit int) map[domain.Category][]NodeRanking {
	results := make([]([]NodeRanking), len(domain.Categories))

	pool := pond.NewPool(len(domain.Categories), pond.WithContext(ctx))
	for i, category := range domain.Categories {
		pool.Submit(func() {
			rankings, err := r.TopNodesByCategory(ctx, category, limit)
			if err != nil {
				// Already logged; the category degrades to an empty list
				rankings = []NodeRanking{}
			}
			results[i] = rankings
		})
	}
	pool.StopAndWait()

	byCategory := make(map[domain.Category][]NodeRanking, len(domain.Categories))
	for i, category := range domain.Categories {
		byCategory[category] = results[i]
	}

	return byCategory
}

// sortRankings orders rankings by the deterministic ranking comparator:
// category share descending (unknown last), category rank ascending
// (unknown last), node id ascending.
func sortRankings(rankings []NodeRanking) {
	sort.SliceStable(rankings, func(i, j int) bool {
		a, b := rankings[i], rankings[j]

		switch {
		case a.CategoryShare == nil && b.CategoryShare != nil:
			return false
		case a.CategoryShare != nil && b.CategoryShare == nil:
			return true
		case a.CategoryShare != nil && b.CategoryShare != nil && *a.CategoryShare != *b.CategoryShare:
			return *a.CategoryShare > *b.CategoryShare
		}

		switch {
		case a.CategoryRank == nil && b.CategoryRank != nil:
			return false
		case a.CategoryRank != nil && b.CategoryRank == nil:
			return true
		case a.CategoryRank != nil && b.CategoryRank != nil && *a.CategoryRank != *b.CategoryRank:
			return *a.CategoryRank < *b.CategoryRank
		}

		return a.NodeID < b.NodeID
	})
}

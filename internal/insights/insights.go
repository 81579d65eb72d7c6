// Package insights assembles the structured summaries consumed by the
// natural-language generation service. The text generator itself is an
// external collaborator; this package only prepares its input and degrades
// cleanly when no generator is configured.
package insights

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/5satoshi/webapp-sub000/internal/aggregate"
	"github.com/5satoshi/webapp-sub000/internal/domain"
	"github.com/5satoshi/webapp-sub000/internal/logger"
)

// Generator turns a structured summary into operator-facing prose. It is
// implemented outside this repository.
type Generator interface {
	Generate(ctx context.Context, summary *Summary) (string, error)
}

// ChannelCounts is the channel population broken down by status
type ChannelCounts struct {
	Active   int `json:"active"`
	Pending  int `json:"pending"`
	Inactive int `json:"inactive"`
}

// Summary is the structured input handed to the text generator and
// returned verbatim to API callers
type Summary struct {
	Period      domain.PeriodKey                            `json:"period"`
	GeneratedAt time.Time                                   `json:"generated_at"`
	NodeID      string                                      `json:"node_id"`
	OurRanks    aggregate.CategoryRanks                     `json:"our_ranks"`
	TopNodes    map[domain.Category][]aggregate.NodeRanking `json:"top_nodes"`
	Channels    ChannelCounts                               `json:"channels"`
	Narrative   string                                      `json:"narrative,omitempty"`
}

// topNodesLimit bounds how many ranking rows feed the narrative
const topNodesLimit = 5

// Service builds summaries from the aggregation layer
type Service struct {
	ranking    *aggregate.Ranking
	timeseries *aggregate.Timeseries
	channels   *aggregate.Channels
	generator  Generator
	nodeID     string
}

// NewService creates an insights service. generator may be nil, in which
// case summaries carry no narrative text.
func NewService(ranking *aggregate.Ranking, timeseries *aggregate.Timeseries, channels *aggregate.Channels, generator Generator, nodeID string) *Service {
	return &Service{
		ranking:    ranking,
		timeseries: timeseries,
		channels:   channels,
		generator:  generator,
		nodeID:     nodeID,
	}
}

// BuildSummary assembles the structured summary for one period. Each
// section degrades independently; only a full channel-list failure aborts.
func (s *Service) BuildSummary(ctx context.Context, key domain.PeriodKey) (*Summary, error) {
	summary := &Summary{
		Period:      key,
		GeneratedAt: time.Now().UTC(),
		NodeID:      s.nodeID,
		OurRanks:    s.timeseries.NodeCategoryRanks(ctx, s.nodeID, key),
		TopNodes:    s.ranking.TopNodesAllCategories(ctx, topNodesLimit),
	}

	channels, err := s.channels.ListChannels(ctx)
	if err != nil {
		return nil, err
	}
	for _, channel := range channels {
		switch channel.Status {
		case domain.ChannelStatusActive:
			summary.Channels.Active++
		case domain.ChannelStatusPending:
			summary.Channels.Pending++
		default:
			summary.Channels.Inactive++
		}
	}

	if s.generator != nil {
		narrative, err := s.generator.Generate(ctx, summary)
		if err != nil {
			// The narrative is decoration; the summary stands on its own
			logger.ErrorCtx(ctx, err,
				zap.String("operation", "BuildSummary"),
				zap.String("period", string(key)),
			)
		} else {
			summary.Narrative = narrative
		}
	}

	return summary, nil
}

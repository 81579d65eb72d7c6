package aggregate

import (
	"context"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/5satoshi/webapp-sub000/internal/domain"
	"github.com/5satoshi/webapp-sub000/internal/logger"
	"github.com/5satoshi/webapp-sub000/internal/store"
	"github.com/5satoshi/webapp-sub000/internal/store/schema"
)

// ChannelSummary is one row of the channel list: the peer channel snapshot
// joined with its lifetime forwarding rollup. Balance figures are whole
// satoshi obtained by truncating the millisatoshi values.
type ChannelSummary struct {
	PeerID          string               `json:"peer_id"`
	ShortChannelID  string               `json:"short_channel_id"`
	FundingTxID     string               `json:"funding_txid"`
	Status          domain.ChannelStatus `json:"status"`
	CapacitySat     int64                `json:"capacity_sat"`
	LocalSat        int64                `json:"local_sat"`
	RemoteSat       int64                `json:"remote_sat"`
	TotalForwards   int64                `json:"total_forwards"`
	SettledForwards int64                `json:"settled_forwards"`
	SuccessRate     float64              `json:"success_rate"`
}

// ChannelDetail holds lifetime and directional statistics for one channel.
// Counts and volumes only include settled events; the per-direction
// success rates divide settled events by all attempts in that direction,
// which is intentionally a different formula from the peer-state-based
// rate in ChannelSummary.
type ChannelDetail struct {
	ShortChannelID    string     `json:"short_channel_id"`
	PeerID            string     `json:"peer_id"`
	Status            string     `json:"status"`
	FirstTransaction  *time.Time `json:"first_transaction"`
	LastTransaction   *time.Time `json:"last_transaction"`
	TotalCount        int64      `json:"total_count"`
	IncomingCount     int64      `json:"incoming_count"`
	OutgoingCount     int64      `json:"outgoing_count"`
	TotalVolumeSat    int64      `json:"total_volume_sat"`
	IncomingVolumeSat int64      `json:"incoming_volume_sat"`
	OutgoingVolumeSat int64      `json:"outgoing_volume_sat"`
	IncomingRate      float64    `json:"incoming_rate"`
	OutgoingRate      float64    `json:"outgoing_rate"`
	FeesEarnedMsat    int64      `json:"fees_earned_msat"`
	FeePolicy         string     `json:"fee_policy"`
	Drain             *float64   `json:"drain"`
}

// MapChannelStatus maps a raw channel lifecycle state name to its
// presentation status. Unlisted states map to inactive with a warning.
func MapChannelStatus(state string) domain.ChannelStatus {
	switch state {
	case "CHANNELD_NORMAL", "DUALOPEND_NORMAL":
		return domain.ChannelStatusActive
	case "OPENINGD", "CHANNELD_AWAITING_LOCKIN",
		"DUALOPEND_OPEN_INIT", "DUALOPEND_AWAITING_LOCKIN":
		return domain.ChannelStatusPending
	case "CHANNELD_SHUTTING_DOWN", "CLOSINGD_SIGEXCHANGE", "CLOSINGD_COMPLETE",
		"AWAITING_UNILATERAL", "FUNDING_SPEND_SEEN", "ONCHAIN",
		"DISCONNECTED", "CLOSED":
		return domain.ChannelStatusInactive
	default:
		logger.Warn("unknown channel state, mapping to inactive",
			zap.String("state", state),
		)
		return domain.ChannelStatusInactive
	}
}

// Channels computes per-channel statistics for our own routing node
type Channels struct {
	store  store.Store
	nodeID string
}

// NewChannels creates a new channel stats aggregator. nodeID is our own
// node's public key, used to resolve directional edge shares.
func NewChannels(s store.Store, nodeID string) *Channels {
	return &Channels{store: s, nodeID: nodeID}
}

// ListChannels returns a summary for every peer channel. Channels with no
// forwarding history get a policy default success rate: 100 when active,
// 0 otherwise.
func (c *Channels) ListChannels(ctx context.Context) ([]ChannelSummary, error) {
	rows, err := c.store.ListChannelsWithForwardStats(ctx)
	if err != nil {
		logger.ErrorCtx(ctx, err, zap.String("operation", "ListChannels"))
		return nil, err
	}

	summaries := make([]ChannelSummary, 0, len(rows))
	for _, row := range rows {
		status := MapChannelStatus(row.State)

		rate := RatePercent(row.SettledForwards, row.TotalForwards)
		if row.TotalForwards == 0 {
			if status == domain.ChannelStatusActive {
				rate = 100
			} else {
				rate = 0
			}
		}

		summaries = append(summaries, ChannelSummary{
			PeerID:          row.PeerID,
			ShortChannelID:  row.ShortChannelID,
			FundingTxID:     row.FundingTxID,
			Status:          status,
			CapacitySat:     MsatToSat(row.TotalMsat),
			LocalSat:        MsatToSat(row.OurMsat),
			RemoteSat:       MsatToSat(row.TotalMsat - row.OurMsat),
			TotalForwards:   row.TotalForwards,
			SettledForwards: row.SettledForwards,
			SuccessRate:     rate,
		})
	}

	return summaries, nil
}

// ChannelDetail returns lifetime directional statistics for one channel.
// A channel id with no matching rows yields the documented default record,
// never nil: all counts zero, rates zero, fee policy "N/A".
func (c *Channels) ChannelDetail(ctx context.Context, shortChannelID string) (*ChannelDetail, error) {
	var (
		channel    *schema.PeerChannel
		channelErr error
		totals     *store.ChannelTotalsRow
		totalsErr  error
		edges      []store.EdgeShareRow
		edgesErr   error
	)

	pool := pond.NewPool(3, pond.WithContext(ctx))
	pool.Submit(func() {
		channel, channelErr = c.store.GetChannel(ctx, shortChannelID)
	})
	pool.Submit(func() {
		totals, totalsErr = c.store.ChannelForwardTotals(ctx, shortChannelID)
	})
	pool.Submit(func() {
		edges, edgesErr = c.store.LatestEdgeShares(ctx, c.nodeID, domain.CategoryCommon)
	})
	pool.StopAndWait()

	if channelErr != nil {
		logger.ErrorCtx(ctx, channelErr,
			zap.String("operation", "ChannelDetail"),
			zap.String("short_channel_id", shortChannelID),
		)
		return nil, channelErr
	}
	if totalsErr != nil {
		logger.ErrorCtx(ctx, totalsErr,
			zap.String("operation", "ChannelDetail"),
			zap.String("short_channel_id", shortChannelID),
		)
		return nil, totalsErr
	}
	if edgesErr != nil {
		// The drain figure is auxiliary; degrade to unknown
		logger.ErrorCtx(ctx, edgesErr,
			zap.String("operation", "ChannelDetail"),
			zap.String("short_channel_id", shortChannelID),
			zap.String("step", "edge_shares"),
		)
		edges = nil
	}

	detail := &ChannelDetail{
		ShortChannelID: shortChannelID,
		FeePolicy:      "N/A",
	}

	if channel != nil {
		detail.PeerID = channel.PeerID
		detail.Status = string(MapChannelStatus(channel.State))
		detail.FeePolicy = formatFeePolicy(channel.FeeBaseMsat, channel.FeePPM)
		detail.Drain = drainForPeer(edges, c.nodeID, channel.PeerID)
	}

	if totals != nil {
		detail.FirstTransaction = totals.FirstSettled
		detail.LastTransaction = totals.LastSettled
		detail.IncomingCount = totals.IncomingSettled
		detail.OutgoingCount = totals.OutgoingSettled
		detail.TotalCount = totals.IncomingSettled + totals.OutgoingSettled
		detail.IncomingVolumeSat = MsatToSat(CoalesceInt(totals.IncomingMsat))
		detail.OutgoingVolumeSat = MsatToSat(CoalesceInt(totals.OutgoingMsat))
		detail.TotalVolumeSat = detail.IncomingVolumeSat + detail.OutgoingVolumeSat
		detail.IncomingRate = RatePercent(totals.IncomingSettled, totals.IncomingAttempts)
		detail.OutgoingRate = RatePercent(totals.OutgoingSettled, totals.OutgoingAttempts)
		detail.FeesEarnedMsat = CoalesceInt(totals.FeeMsat)
	}

	return detail, nil
}

// formatFeePolicy renders our advertised fee policy, degrading to partial
// strings when one component is missing
func formatFeePolicy(baseMsat, ppm *int64) string {
	switch {
	case baseMsat != nil && ppm != nil:
		return fmt.Sprintf("%d msat + %d ppm", *baseMsat, *ppm)
	case baseMsat != nil:
		return fmt.Sprintf("%d msat", *baseMsat)
	case ppm != nil:
		return fmt.Sprintf("%d ppm", *ppm)
	default:
		return "N/A"
	}
}

// drainForPeer derives the directional imbalance of the link to a peer
// from the latest edge shares: (outbound - inbound) / (outbound + inbound),
// in [-1,1]. Positive values mean the link drains liquidity outward. Nil
// when neither direction has an observation.
func drainForPeer(edges []store.EdgeShareRow, nodeID, peerID string) *float64 {
	var outbound, inbound float64
	var seen bool

	for _, edge := range edges {
		switch {
		case edge.Source == nodeID && edge.Destination == peerID:
			outbound = CoalesceFloat(edge.Share)
			seen = seen || edge.Share != nil
		case edge.Source == peerID && edge.Destination == nodeID:
			inbound = CoalesceFloat(edge.Share)
			seen = seen || edge.Share != nil
		}
	}

	if !seen || outbound+inbound == 0 {
		return nil
	}

	drain := (outbound - inbound) / (outbound + inbound)
	return &drain
}

package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/5satoshi/webapp-sub000/internal/aggregate"
	"github.com/5satoshi/webapp-sub000/internal/domain"
	"github.com/5satoshi/webapp-sub000/internal/insights"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// GetRankings returns the top nodes for one payment-size category
	// GET /api/v1/rankings?category=<micro|common|macro>&limit=<limit>
	GetRankings(c *gin.Context)

	// GetAllRankings returns the top nodes for every category
	// GET /api/v1/rankings/all?limit=<limit>
	GetAllRankings(c *gin.Context)

	// GetNodeTimeline returns a node's per-bucket share trend
	// GET /api/v1/nodes/:id/timeline?period=<day|week|month|quarter>
	GetNodeTimeline(c *gin.Context)

	// GetNodeRanks returns a node's latest rank and rank change per category
	// GET /api/v1/nodes/:id/ranks?period=<day|week|month|quarter>
	GetNodeRanks(c *gin.Context)

	// ListChannels returns a summary of every peer channel
	// GET /api/v1/channels
	ListChannels(c *gin.Context)

	// GetChannelDetail returns lifetime statistics for one channel
	// GET /api/v1/channels/:id
	GetChannelDetail(c *gin.Context)

	// GetInsightsSummary returns the structured insights summary
	// GET /api/v1/insights/summary?period=<day|week|month|quarter>
	GetInsightsSummary(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface on top of the aggregators
type handler struct {
	debug        bool
	defaultLimit int
	maxLimit     int
	ranking      *aggregate.Ranking
	timeseries   *aggregate.Timeseries
	channels     *aggregate.Channels
	insights     *insights.Service
}

// NewHandler creates a new REST API handler
func NewHandler(debug bool, defaultLimit, maxLimit int, ranking *aggregate.Ranking, timeseries *aggregate.Timeseries, channels *aggregate.Channels, insightsSvc *insights.Service) Handler {
	return &handler{
		debug:        debug,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		ranking:      ranking,
		timeseries:   timeseries,
		channels:     channels,
		insights:     insightsSvc,
	}
}

// GetRankings returns the top nodes for one payment-size category
func (h *handler) GetRankings(c *gin.Context) {
	category, limit, err := ParseRankingQuery(c, h.defaultLimit, h.maxLimit)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	rankings, err := h.ranking.TopNodesByCategory(c.Request.Context(), category, limit)
	if err != nil {
		h.respondInternalError(c, err, "Failed to get rankings")
		return
	}

	c.JSON(http.StatusOK, rankings)
}

// GetAllRankings returns the top nodes for every category
func (h *handler) GetAllRankings(c *gin.Context) {
	limit, err := ParseAllRankingsQuery(c, h.defaultLimit, h.maxLimit)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	// Per-category failures degrade to empty lists inside the aggregator
	c.JSON(http.StatusOK, h.ranking.TopNodesAllCategories(c.Request.Context(), limit))
}

// GetNodeTimeline returns a node's per-bucket share trend
func (h *handler) GetNodeTimeline(c *gin.Context) {
	nodeID := domain.NodeID(c.Param("id"))
	if !nodeID.Valid() {
		respondBadRequest(c, "Invalid node id")
		return
	}

	key, err := ParsePeriodQuery(c)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	points, err := h.timeseries.NodeShareTimeline(c.Request.Context(), nodeID.String(), key)
	if err != nil {
		h.respondInternalError(c, err, "Failed to get node timeline")
		return
	}
	if points == nil {
		points = []aggregate.SharePoint{}
	}

	c.JSON(http.StatusOK, points)
}

// GetNodeRanks returns a node's latest rank and rank change per category
func (h *handler) GetNodeRanks(c *gin.Context) {
	nodeID := domain.NodeID(c.Param("id"))
	if !nodeID.Valid() {
		respondBadRequest(c, "Invalid node id")
		return
	}

	key, err := ParsePeriodQuery(c)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	// Category failures degrade to unknown ranks inside the aggregator
	c.JSON(http.StatusOK, h.timeseries.NodeCategoryRanks(c.Request.Context(), nodeID.String(), key))
}

// ListChannels returns a summary of every peer channel
func (h *handler) ListChannels(c *gin.Context) {
	summaries, err := h.channels.ListChannels(c.Request.Context())
	if err != nil {
		h.respondInternalError(c, err, "Failed to list channels")
		return
	}
	if summaries == nil {
		summaries = []aggregate.ChannelSummary{}
	}

	c.JSON(http.StatusOK, summaries)
}

// GetChannelDetail returns lifetime statistics for one channel. An unknown
// channel id yields the default record, not a 404: empty is not an error.
func (h *handler) GetChannelDetail(c *gin.Context) {
	channelID := c.Param("id")
	if channelID == "" {
		respondBadRequest(c, "Channel id is required")
		return
	}

	detail, err := h.channels.ChannelDetail(c.Request.Context(), channelID)
	if err != nil {
		h.respondInternalError(c, err, "Failed to get channel detail")
		return
	}

	c.JSON(http.StatusOK, detail)
}

// GetInsightsSummary returns the structured insights summary
func (h *handler) GetInsightsSummary(c *gin.Context) {
	key, err := ParsePeriodQuery(c)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	summary, err := h.insights.BuildSummary(c.Request.Context(), key)
	if err != nil {
		h.respondInternalError(c, err, "Failed to build insights summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "dashboard-api",
	})
}

package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/5satoshi/webapp-sub000/internal/domain"
	"github.com/5satoshi/webapp-sub000/internal/period"
	"github.com/5satoshi/webapp-sub000/internal/store/schema"
)

var (
	testDB      *gorm.DB
	pgContainer *postgres.PostgresContainer
)

// TestMain sets up the test database before running tests
func TestMain(m *testing.M) {
	ctx := context.Background()

	// Check if we should use an external database (for CI or local development)
	dbHost := os.Getenv("TEST_DB_HOST")
	dbPort := os.Getenv("TEST_DB_PORT")
	dbUser := os.Getenv("TEST_DB_USER")
	dbPassword := os.Getenv("TEST_DB_PASSWORD")
	dbName := os.Getenv("TEST_DB_NAME")

	var dsn string
	var err error

	if dbHost != "" {
		// Use external database
		if dbPort == "" {
			dbPort = "5432"
		}
		if dbUser == "" {
			dbUser = "postgres"
		}
		if dbPassword == "" {
			dbPassword = "postgres"
		}
		if dbName == "" {
			dbName = "test_db"
		}

		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			dbHost, dbPort, dbUser, dbPassword, dbName)

		fmt.Printf("Using external database: %s:%s/%s\n", dbHost, dbPort, dbName)
	} else {
		// Start a PostgreSQL container for testing
		pgContainer, err = postgres.Run(ctx,
			"postgres:18-alpine",
			postgres.WithDatabase("test_db"),
			postgres.WithUsername("postgres"),
			postgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second)),
		)
		if err != nil {
			fmt.Printf("Failed to start PostgreSQL container: %v\n", err)
			os.Exit(1)
		}

		dsn, err = pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			fmt.Printf("Failed to get connection string: %v\n", err)
			if err := pgContainer.Terminate(ctx); err != nil {
				fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
			}
			os.Exit(1)
		}

		fmt.Printf("Started PostgreSQL container\n")
	}

	// Connect to the database
	testDB, err = gorm.Open(pgdriver.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		if pgContainer != nil {
			if err := pgContainer.Terminate(ctx); err != nil {
				fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
			}
		}
		os.Exit(1)
	}

	// Create the warehouse tables
	if err := Migrate(testDB); err != nil {
		fmt.Printf("Failed to migrate database: %v\n", err)
		if pgContainer != nil {
			if err := pgContainer.Terminate(ctx); err != nil {
				fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
			}
		}
		os.Exit(1)
	}

	// Run tests
	code := m.Run()

	// Cleanup
	if pgContainer != nil {
		if err := pgContainer.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
		}
	}

	os.Exit(code)
}

// initPGTestDB starts a transaction-isolated store for one test
func initPGTestDB(t *testing.T) (Store, *gorm.DB) {
	tx := testDB.Begin()
	require.NotNil(t, tx)
	require.NoError(t, tx.Error)

	t.Cleanup(func() {
		tx.Rollback()
	})

	return NewPGStore(tx), tx
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int64) *int64       { return &v }
func strPtr(v string) *string     { return &v }

var (
	nodeAlpha = "02" + hexPad("aa")
	nodeBeta  = "02" + hexPad("bb")
	nodeGamma = "03" + hexPad("cc")
)

func hexPad(pair string) string {
	out := ""
	for i := 0; i < 32; i++ {
		out += pair
	}
	return out
}

func seedObservation(t *testing.T, tx *gorm.DB, obs schema.CentralityObservation) {
	require.NoError(t, tx.Create(&obs).Error)
}

func TestPGStore_TopNodeIDsByCategory(t *testing.T) {
	s, tx := initPGTestDB(t)
	ctx := context.Background()

	older := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	// Alpha has an older, better observation that must NOT win: only the
	// latest row per node counts
	seedObservation(t, tx, schema.CentralityObservation{
		NodeID: nodeAlpha, Category: domain.CategoryCommon,
		Share: floatPtr(0.9), Rank: intPtr(1), ObservedAt: older,
	})
	seedObservation(t, tx, schema.CentralityObservation{
		NodeID: nodeAlpha, Category: domain.CategoryCommon,
		Share: floatPtr(0.2), Rank: intPtr(3), ObservedAt: newer,
	})
	seedObservation(t, tx, schema.CentralityObservation{
		NodeID: nodeBeta, Category: domain.CategoryCommon,
		Share: floatPtr(0.5), Rank: intPtr(2), ObservedAt: newer,
	})
	// Null share sorts last
	seedObservation(t, tx, schema.CentralityObservation{
		NodeID: nodeGamma, Category: domain.CategoryCommon,
		Share: nil, Rank: nil, ObservedAt: newer,
	})
	// Other categories are invisible to this query
	seedObservation(t, tx, schema.CentralityObservation{
		NodeID: nodeGamma, Category: domain.CategoryMicro,
		Share: floatPtr(0.99), Rank: intPtr(1), ObservedAt: newer,
	})

	rows, err := s.TopNodeIDsByCategory(ctx, domain.CategoryCommon, 10)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, nodeBeta, rows[0].NodeID)
	assert.Equal(t, floatPtr(0.5), rows[0].Share)
	assert.Equal(t, nodeAlpha, rows[1].NodeID)
	assert.Equal(t, floatPtr(0.2), rows[1].Share)
	assert.Equal(t, nodeGamma, rows[2].NodeID)
	assert.Nil(t, rows[2].Share)

	limited, err := s.TopNodeIDsByCategory(ctx, domain.CategoryCommon, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, nodeBeta, limited[0].NodeID)
}

func TestPGStore_LatestSharesByNode(t *testing.T) {
	s, tx := initPGTestDB(t)
	ctx := context.Background()

	now := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	seedObservation(t, tx, schema.CentralityObservation{
		NodeID: nodeAlpha, Category: domain.CategoryCommon,
		Share: floatPtr(0.3), Rank: intPtr(2), ObservedAt: now,
	})
	seedObservation(t, tx, schema.CentralityObservation{
		NodeID: nodeAlpha, Category: domain.CategoryMicro,
		Share: floatPtr(0.1), Rank: intPtr(5), ObservedAt: now,
	})
	// Node outside the requested set
	seedObservation(t, tx, schema.CentralityObservation{
		NodeID: nodeBeta, Category: domain.CategoryCommon,
		Share: floatPtr(0.8), Rank: intPtr(1), ObservedAt: now,
	})

	rows, err := s.LatestSharesByNode(ctx, []string{nodeAlpha})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byCategory := make(map[domain.Category]CategoryShareRow)
	for _, row := range rows {
		assert.Equal(t, nodeAlpha, row.NodeID)
		byCategory[row.Category] = row
	}
	assert.Equal(t, floatPtr(0.3), byCategory[domain.CategoryCommon].Share)
	assert.Equal(t, intPtr(5), byCategory[domain.CategoryMicro].Rank)

	empty, err := s.LatestSharesByNode(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPGStore_LatestAliases(t *testing.T) {
	s, tx := initPGTestDB(t)
	ctx := context.Background()

	older := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	seedObservation(t, tx, schema.CentralityObservation{
		NodeID: nodeAlpha, Category: domain.CategoryCommon,
		Alias: strPtr("old-name"), ObservedAt: older,
	})
	seedObservation(t, tx, schema.CentralityObservation{
		NodeID: nodeAlpha, Category: domain.CategoryCommon,
		Alias: strPtr("new-name"), ObservedAt: newer,
	})
	// A null alias in the latest row must not shadow an older real one
	seedObservation(t, tx, schema.CentralityObservation{
		NodeID: nodeBeta, Category: domain.CategoryCommon,
		Alias: strPtr("beta"), ObservedAt: older,
	})
	seedObservation(t, tx, schema.CentralityObservation{
		NodeID: nodeBeta, Category: domain.CategoryCommon,
		Alias: nil, ObservedAt: newer,
	})

	rows, err := s.LatestAliases(ctx, []string{nodeAlpha, nodeBeta, nodeGamma})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byNode := make(map[string]*string)
	for _, row := range rows {
		byNode[row.NodeID] = row.Alias
	}
	assert.Equal(t, strPtr("new-name"), byNode[nodeAlpha])
	assert.Equal(t, strPtr("beta"), byNode[nodeBeta])
}

func TestPGStore_ShareTimeline(t *testing.T) {
	s, tx := initPGTestDB(t)
	ctx := context.Background()

	day1 := time.Date(2025, 6, 1, 6, 0, 0, 0, time.UTC)
	day1b := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC)

	// Two same-day observations average into one bucket
	seedObservation(t, tx, schema.CentralityObservation{
		NodeID: nodeAlpha, Category: domain.CategoryCommon,
		Share: floatPtr(0.2), ObservedAt: day1,
	})
	seedObservation(t, tx, schema.CentralityObservation{
		NodeID: nodeAlpha, Category: domain.CategoryCommon,
		Share: floatPtr(0.4), ObservedAt: day1b,
	})
	seedObservation(t, tx, schema.CentralityObservation{
		NodeID: nodeAlpha, Category: domain.CategoryCommon,
		Share: floatPtr(0.6), ObservedAt: day2,
	})
	// Null shares never contribute a bucket
	seedObservation(t, tx, schema.CentralityObservation{
		NodeID: nodeAlpha, Category: domain.CategoryMacro,
		Share: nil, ObservedAt: day2,
	})

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 3, 23, 59, 59, 0, time.UTC)

	rows, err := s.ShareTimeline(ctx, nodeAlpha, period.GranularityDay, start, end)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, domain.CategoryCommon, rows[0].Category)
	assert.InDelta(t, 0.3, *rows[0].Share, 1e-9)
	assert.InDelta(t, 0.6, *rows[1].Share, 1e-9)
	assert.True(t, rows[0].Bucket.Before(rows[1].Bucket))
}

func TestPGStore_LatestRankAndRankBefore(t *testing.T) {
	s, tx := initPGTestDB(t)
	ctx := context.Background()

	older := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	seedObservation(t, tx, schema.CentralityObservation{
		NodeID: nodeAlpha, Category: domain.CategoryCommon,
		Rank: intPtr(8), ObservedAt: older,
	})
	seedObservation(t, tx, schema.CentralityObservation{
		NodeID: nodeAlpha, Category: domain.CategoryCommon,
		Rank: intPtr(5), ObservedAt: newer,
	})

	rank, found, err := s.LatestRank(ctx, nodeAlpha, domain.CategoryCommon)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, intPtr(5), rank)

	// Strictly-before excludes the boundary observation itself
	rank, found, err = s.RankBefore(ctx, nodeAlpha, domain.CategoryCommon, newer)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, intPtr(8), rank)

	_, found, err = s.RankBefore(ctx, nodeAlpha, domain.CategoryCommon, older)
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = s.LatestRank(ctx, nodeBeta, domain.CategoryCommon)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPGStore_ListChannelsWithForwardStats(t *testing.T) {
	s, tx := initPGTestDB(t)
	ctx := context.Background()

	require.NoError(t, tx.Create(&schema.PeerChannel{
		PeerID: nodeBeta, ShortChannelID: "100x1x0", FundingTxID: "aa",
		TotalMsat: 2_000_000, OurMsat: 800_000, State: "CHANNELD_NORMAL",
	}).Error)
	require.NoError(t, tx.Create(&schema.PeerChannel{
		PeerID: nodeGamma, ShortChannelID: "200x1x0", FundingTxID: "bb",
		TotalMsat: 1_000_000, OurMsat: 500_000, State: "ONCHAIN",
	}).Error)

	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	events := []schema.ForwardingEvent{
		// Settled forward in via 100x1x0, out via 200x1x0: counts once on each
		{InChannel: "100x1x0", OutChannel: "200x1x0", InMsat: 1000, OutMsat: 990,
			FeeMsat: 10, Status: domain.ForwardStatusSettled, ReceivedTime: now},
		// Failed forward out via 100x1x0
		{InChannel: "200x1x0", OutChannel: "100x1x0", InMsat: 500, OutMsat: 495,
			Status: domain.ForwardStatusFailed, ReceivedTime: now},
	}
	for i := range events {
		require.NoError(t, tx.Create(&events[i]).Error)
	}

	rows, err := s.ListChannelsWithForwardStats(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Ordered by capacity descending
	assert.Equal(t, "100x1x0", rows[0].ShortChannelID)
	assert.Equal(t, int64(2), rows[0].TotalForwards)
	assert.Equal(t, int64(1), rows[0].SettledForwards)

	assert.Equal(t, "200x1x0", rows[1].ShortChannelID)
	assert.Equal(t, int64(2), rows[1].TotalForwards)
	assert.Equal(t, int64(1), rows[1].SettledForwards)
}

func TestPGStore_GetChannel(t *testing.T) {
	s, tx := initPGTestDB(t)
	ctx := context.Background()

	require.NoError(t, tx.Create(&schema.PeerChannel{
		PeerID: nodeBeta, ShortChannelID: "100x1x0", FundingTxID: "aa",
		TotalMsat: 2_000_000, OurMsat: 800_000, State: "CHANNELD_NORMAL",
		FeeBaseMsat: intPtr(1000), FeePPM: intPtr(10),
	}).Error)

	channel, err := s.GetChannel(ctx, "100x1x0")
	require.NoError(t, err)
	require.NotNil(t, channel)
	assert.Equal(t, nodeBeta, channel.PeerID)
	assert.Equal(t, intPtr(1000), channel.FeeBaseMsat)

	missing, err := s.GetChannel(ctx, "999x9x9")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPGStore_ChannelForwardTotals(t *testing.T) {
	s, tx := initPGTestDB(t)
	ctx := context.Background()

	early := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	resolved := late.Add(2 * time.Second)

	events := []schema.ForwardingEvent{
		// Settled inbound
		{InChannel: "100x1x0", OutChannel: "200x1x0", InMsat: 1000, OutMsat: 990,
			FeeMsat: 10, Status: domain.ForwardStatusSettled, ReceivedTime: early},
		// Settled outbound, resolved later than received
		{InChannel: "200x1x0", OutChannel: "100x1x0", InMsat: 2000, OutMsat: 1980,
			FeeMsat: 20, Status: domain.ForwardStatusSettled,
			ReceivedTime: late, ResolvedTime: &resolved},
		// Failed inbound attempt: counted, not summed
		{InChannel: "100x1x0", OutChannel: "200x1x0", InMsat: 500, OutMsat: 495,
			Status: domain.ForwardStatusFailed, ReceivedTime: late},
		// Unrelated channel pair
		{InChannel: "300x1x0", OutChannel: "400x1x0", InMsat: 9000, OutMsat: 8900,
			Status: domain.ForwardStatusSettled, ReceivedTime: late},
	}
	for i := range events {
		require.NoError(t, tx.Create(&events[i]).Error)
	}

	totals, err := s.ChannelForwardTotals(ctx, "100x1x0")
	require.NoError(t, err)
	require.NotNil(t, totals)

	assert.Equal(t, int64(2), totals.IncomingAttempts)
	assert.Equal(t, int64(1), totals.IncomingSettled)
	assert.Equal(t, intPtr(1000), totals.IncomingMsat)
	assert.Equal(t, int64(1), totals.OutgoingAttempts)
	assert.Equal(t, int64(1), totals.OutgoingSettled)
	assert.Equal(t, intPtr(1980), totals.OutgoingMsat)
	assert.Equal(t, intPtr(20), totals.FeeMsat)
	require.NotNil(t, totals.FirstSettled)
	require.NotNil(t, totals.LastSettled)
	assert.Equal(t, early, totals.FirstSettled.UTC())
	assert.Equal(t, resolved, totals.LastSettled.UTC())

	// Unknown channel: all-zero row, not nil
	empty, err := s.ChannelForwardTotals(ctx, "999x9x9")
	require.NoError(t, err)
	require.NotNil(t, empty)
	assert.Equal(t, int64(0), empty.IncomingAttempts)
	assert.Nil(t, empty.IncomingMsat)
	assert.Nil(t, empty.FirstSettled)
}

func TestPGStore_LatestEdgeShares(t *testing.T) {
	s, tx := initPGTestDB(t)
	ctx := context.Background()

	older := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	edges := []schema.EdgeCentralityObservation{
		{Source: nodeAlpha, Destination: nodeBeta, Category: domain.CategoryCommon,
			Share: floatPtr(0.1), ObservedAt: older},
		{Source: nodeAlpha, Destination: nodeBeta, Category: domain.CategoryCommon,
			Share: floatPtr(0.3), ObservedAt: newer},
		{Source: nodeBeta, Destination: nodeAlpha, Category: domain.CategoryCommon,
			Share: floatPtr(0.2), ObservedAt: newer},
		// Different category and unrelated edge stay invisible
		{Source: nodeAlpha, Destination: nodeBeta, Category: domain.CategoryMacro,
			Share: floatPtr(0.9), ObservedAt: newer},
		{Source: nodeBeta, Destination: nodeGamma, Category: domain.CategoryCommon,
			Share: floatPtr(0.5), ObservedAt: newer},
	}
	for i := range edges {
		require.NoError(t, tx.Create(&edges[i]).Error)
	}

	rows, err := s.LatestEdgeShares(ctx, nodeAlpha, domain.CategoryCommon)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byPair := make(map[string]*float64)
	for _, row := range rows {
		byPair[row.Source+">"+row.Destination] = row.Share
	}
	assert.Equal(t, floatPtr(0.3), byPair[nodeAlpha+">"+nodeBeta])
	assert.Equal(t, floatPtr(0.2), byPair[nodeBeta+">"+nodeAlpha])
}

func TestNormalizeConnectionPoolSettings(t *testing.T) {
	open, idle, lifetime, idleTime := normalizeConnectionPoolSettings(0, 0, 0, 0)
	assert.Equal(t, 20, open)
	assert.Equal(t, 5, idle)
	assert.Equal(t, 5*time.Minute, lifetime)
	assert.Equal(t, 10*time.Minute, idleTime)

	// Idle is clamped to open
	open, idle, _, _ = normalizeConnectionPoolSettings(3, 10, time.Minute, time.Minute)
	assert.Equal(t, 3, open)
	assert.Equal(t, 3, idle)
}

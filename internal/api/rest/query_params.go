package rest

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/5satoshi/webapp-sub000/internal/domain"
)

// RankingQueryParams holds query parameters for GET /rankings
type RankingQueryParams struct {
	Category string `form:"category"`
	Limit    int    `form:"limit"`
}

// AllRankingsQueryParams holds query parameters for GET /rankings/all
type AllRankingsQueryParams struct {
	Limit int `form:"limit"`
}

// PeriodQueryParams holds the period selector shared by the node and
// insights endpoints. An unrecognized period is not rejected here: the
// period resolver falls back to day by contract.
type PeriodQueryParams struct {
	Period domain.PeriodKey `form:"period,default=day"`
}

// ParseRankingQuery parses and validates query parameters for GET /rankings
func ParseRankingQuery(c *gin.Context, defaultLimit, maxLimit int) (domain.Category, int, error) {
	var params RankingQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return "", 0, err
	}

	if params.Category == "" {
		return "", 0, fmt.Errorf("category is required")
	}
	category := domain.Category(params.Category)
	if !domain.IsValidCategory(category) {
		return "", 0, fmt.Errorf("%w: %s", domain.ErrInvalidCategory, params.Category)
	}

	return category, clampLimit(params.Limit, defaultLimit, maxLimit), nil
}

// ParseAllRankingsQuery parses query parameters for GET /rankings/all
func ParseAllRankingsQuery(c *gin.Context, defaultLimit, maxLimit int) (int, error) {
	var params AllRankingsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return 0, err
	}

	return clampLimit(params.Limit, defaultLimit, maxLimit), nil
}

// ParsePeriodQuery parses the period selector
func ParsePeriodQuery(c *gin.Context) (domain.PeriodKey, error) {
	var params PeriodQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return "", err
	}
	return params.Period, nil
}

// clampLimit applies the configured default and cap to a caller limit
func clampLimit(limit, defaultLimit, maxLimit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

package adlib

import "time"

// Ad type values accepted by the search endpoint.
const (
	AdTypeAll        = "ALL"
	AdTypePolitical  = "POLITICAL_AND_ISSUE_ADS"
	AdTypeHousing    = "HOUSING_ADS"
	AdTypeEmployment = "EMPLOYMENT_ADS"
	AdTypeCredit     = "CREDIT_ADS"
)

// Active-status values.
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
	StatusAll      = "ALL"
)

// Search-type values.
const (
	SearchKeyword   = "KEYWORD_EXACT_PHRASE"
	SearchUnordered = "KEYWORD_UNORDERED"
	SearchPage      = "PAGE"
)

// Sort modes. SortRelevancy omits sortData entirely, giving the server's
// default ordering; any other literal string causes a
// noncoercible_variable_value error from the remote service.
const (
	SortRelevancy   = ""
	SortImpressions = "SORT_BY_TOTAL_IMPRESSIONS"
)

var validAdTypes = map[string]struct{}{
	AdTypeAll: {}, AdTypePolitical: {}, AdTypeHousing: {}, AdTypeEmployment: {}, AdTypeCredit: {},
}

var validStatuses = map[string]struct{}{
	StatusActive: {}, StatusInactive: {}, StatusAll: {},
}

var validSearchTypes = map[string]struct{}{
	SearchKeyword: {}, SearchUnordered: {}, SearchPage: {},
}

var validSortModes = map[string]struct{}{
	SortRelevancy: {}, SortImpressions: {},
}

const (
	defaultTimeout            = 30 * time.Second
	defaultMaxRetries         = 3
	defaultMaxRefreshAttempts = 3
	defaultRateLimitDelay     = 2 * time.Second
	defaultJitter             = 1 * time.Second
	defaultPageSize           = 10
)

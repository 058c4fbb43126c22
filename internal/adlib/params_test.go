package adlib

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSearchParamsApplyDefaults(t *testing.T) {
	p := SearchParams{}
	p.applyDefaults()

	require.Equal(t, "US", p.Country)
	require.Equal(t, AdTypeAll, p.AdType)
	require.Equal(t, StatusActive, p.Status)
	require.Equal(t, SearchKeyword, p.SearchType)
	require.Equal(t, defaultPageSize, p.PageSize)
}

func TestSearchParamsValidateRejectsUnknownAdType(t *testing.T) {
	p := SearchParams{AdType: "NOT_A_REAL_TYPE", Status: StatusActive, SearchType: SearchKeyword, SortBy: SortRelevancy, Country: "US"}
	err := p.validate()
	require.Error(t, err)

	var invalid *InvalidParameterError
	require.True(t, errors.As(err, &invalid))
	require.Equal(t, "ad_type", invalid.Field)
}

func TestSearchParamsValidateRejectsBadCountry(t *testing.T) {
	p := SearchParams{AdType: AdTypeAll, Status: StatusActive, SearchType: SearchKeyword, SortBy: SortRelevancy, Country: "USA"}
	err := p.validate()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestSearchParamsValidateAcceptsDefaults(t *testing.T) {
	p := SearchParams{}
	p.applyDefaults()
	p.SortBy = SortImpressions
	require.NoError(t, p.validate())
}

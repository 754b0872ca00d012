package services_test

import (
	"errors"
	"math"
	"testing"

	"plantshop/internal/apperrors"
	"plantshop/internal/models"
	"plantshop/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeProductQuery_Defaults(t *testing.T) {
	q, err := services.NormalizeProductQuery(map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, models.ProductQuery{
		Order: models.OrderAsc,
		Page:  1,
		Limit: 12,
	}, q)
}

func TestNormalizeProductQuery_Valid(t *testing.T) {
	cases := []struct {
		name string
		raw  map[string]string
		want models.ProductQuery
	}{
		{
			name: "full",
			raw:  map[string]string{"search": " aloe ", "category": "Succulent", "sort": "price", "order": "desc", "page": "2", "limit": "5"},
			want: models.ProductQuery{Search: "aloe", Category: "Succulent", Sort: models.SortPrice, Order: models.OrderDesc, Page: 2, Limit: 5},
		},
		{
			name: "category all means no filter",
			raw:  map[string]string{"category": "all"},
			want: models.ProductQuery{Order: models.OrderAsc, Page: 1, Limit: 12},
		},
		{
			name: "sort without order defaults to asc",
			raw:  map[string]string{"sort": "name"},
			want: models.ProductQuery{Sort: models.SortName, Order: models.OrderAsc, Page: 1, Limit: 12},
		},
		{
			name: "unknown sort is accepted",
			raw:  map[string]string{"sort": "popularity"},
			want: models.ProductQuery{Sort: "popularity", Order: models.OrderAsc, Page: 1, Limit: 12},
		},
		{
			name: "largest limit on the second page",
			raw:  map[string]string{"page": "2", "limit": "9223372036854775807"},
			want: models.ProductQuery{Order: models.OrderAsc, Page: 2, Limit: math.MaxInt},
		},
		{
			name: "empty values are treated as absent",
			raw:  map[string]string{"page": "", "limit": "", "order": "", "search": "   "},
			want: models.ProductQuery{Order: models.OrderAsc, Page: 1, Limit: 12},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := services.NormalizeProductQuery(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, q)
		})
	}
}

func TestNormalizeProductQuery_Invalid(t *testing.T) {
	cases := []struct {
		name   string
		raw    map[string]string
		fields []string
	}{
		{"non numeric page", map[string]string{"page": "abc"}, []string{"page"}},
		{"partially numeric limit", map[string]string{"limit": "12abc"}, []string{"limit"}},
		{"zero page", map[string]string{"page": "0"}, []string{"page"}},
		{"negative limit", map[string]string{"limit": "-3"}, []string{"limit"}},
		{"bad order", map[string]string{"order": "up"}, []string{"order"}},
		{"page overflows skip", map[string]string{"page": "4611686018427387904", "limit": "4"}, []string{"page"}},
		{"page overflows skip with default limit", map[string]string{"page": "9223372036854775807"}, []string{"page"}},
		{"every failure reported", map[string]string{"page": "x", "limit": "y", "order": "sideways"}, []string{"order", "page", "limit"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := services.NormalizeProductQuery(tc.raw)
			require.Error(t, err)

			var verr *apperrors.ValidationError
			require.True(t, errors.As(err, &verr))
			got := make([]string, 0, len(verr.Fields))
			for _, f := range verr.Fields {
				got = append(got, f.Field)
			}
			assert.Equal(t, tc.fields, got)
		})
	}
}

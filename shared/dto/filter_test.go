package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gamasa/shared/dto"
)

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:      "equal with table",
			filter:    dto.Filter{Field: "status", Value: "available", Operator: dto.FilterOperatorEq, Table: "properties"},
			wantWhere: "properties.status = :status",
			wantArgs:  map[string]any{"status": "available"},
		},
		{
			name:      "less uses arg name",
			filter:    dto.Filter{ArgName: "check_out", Field: "check_in", Value: "2025-01-10", Operator: dto.FilterOperatorLess},
			wantWhere: "check_in < :check_out",
			wantArgs:  map[string]any{"check_out": "2025-01-10"},
		},
		{
			name:      "greater",
			filter:    dto.Filter{Field: "check_out", Value: "2025-01-01", Operator: dto.FilterOperatorGreater},
			wantWhere: "check_out > :check_out",
			wantArgs:  map[string]any{"check_out": "2025-01-01"},
		},
		{
			name:      "prefix appends wildcard",
			filter:    dto.Filter{ArgName: "geohash_0", Field: "geohash", Value: "stq4s", Operator: dto.FilterOperatorPrefix, Table: "properties"},
			wantWhere: "properties.geohash LIKE :geohash_0",
			wantArgs:  map[string]any{"geohash_0": "stq4s%"},
		},
		{
			name:      "in with slice",
			filter:    dto.Filter{Field: "role", Value: []string{"admin", "superadmin"}, Operator: dto.FilterOperatorIn},
			wantWhere: "role IN (:role_0, :role_1)",
			wantArgs:  map[string]any{"role_0": "admin", "role_1": "superadmin"},
		},
		{
			name:      "in with empty slice matches nothing",
			filter:    dto.Filter{Field: "role", Value: []string{}, Operator: dto.FilterOperatorIn},
			wantWhere: "FALSE",
			wantArgs:  map[string]any{},
		},
		{
			name:      "like is case insensitive",
			filter:    dto.Filter{Field: "title", Value: "شاليه", Operator: dto.FilterOperatorLike, Table: "properties"},
			wantWhere: "LOWER(properties.title) LIKE LOWER(:title)",
			wantArgs:  map[string]any{"title": "%شاليه%"},
		},
		{
			name:      "not equal",
			filter:    dto.Filter{Field: "status", Value: "rejected", Operator: dto.FilterOperatorNotEq},
			wantWhere: "status != :status",
			wantArgs:  map[string]any{"status": "rejected"},
		},
		{
			name:      "is null",
			filter:    dto.Filter{Field: "read_at", Operator: dto.FilterIsNull},
			wantWhere: "read_at IS NULL",
			wantArgs:  map[string]any{},
		},
		{
			name:      "unknown operator",
			filter:    dto.Filter{Field: "x", Value: 1, Operator: "between"},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "status", Value: "available", Operator: dto.FilterOperatorEq},
			dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{ArgName: "geohash_0", Field: "geohash", Value: "abc", Operator: dto.FilterOperatorPrefix},
					dto.Filter{ArgName: "geohash_1", Field: "geohash", Value: "abd", Operator: dto.FilterOperatorPrefix},
				},
			},
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(status = :status AND (geohash LIKE :geohash_0 OR geohash LIKE :geohash_1))", where)
	assert.Equal(t, map[string]any{"status": "available", "geohash_0": "abc%", "geohash_1": "abd%"}, args)

	unknown := dto.FilterGroup{Filters: []any{
		dto.Filter{Field: "x", Operator: "between"},
		dto.Filter{Field: "status", Value: "pending", Operator: dto.FilterOperatorEq},
	}}
	where, args = unknown.GetWhereClause()

	assert.Equal(t, "(status = :status)", where)
	assert.Equal(t, map[string]any{"status": "pending"}, args)

	empty := dto.FilterGroup{}
	where, args = empty.GetWhereClause()

	assert.Empty(t, where)
	assert.Empty(t, args)
}

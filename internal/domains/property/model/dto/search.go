package dto

import (
	"fmt"
	"net/http"
	"strconv"

	"gamasa/internal/domains/property/model"
	"gamasa/shared"
	"gamasa/shared/arabic"
	"gamasa/shared/constant"
	gDto "gamasa/shared/dto"
	"gamasa/shared/failure"
	"gamasa/shared/geo"
)

const (
	ParamQuery        = "q"
	ParamCity         = "city"
	ParamArea         = "area"
	ParamPropertyType = "property_type"
	ParamPricePeriod  = "price_period"
	ParamMinPrice     = "min_price"
	ParamMaxPrice     = "max_price"
	ParamBedrooms     = "bedrooms"
	ParamFurnished    = "furnished"
	ParamNear         = "near"
	ParamPrecision    = "precision"
	ParamStatus       = "status"
)

// sortColumns maps the accepted sort_by values to their columns.
var sortColumns = map[string]string{
	"created_at": model.TableName + "." + constant.FieldCreatedAt,
	"price":      model.TableName + "." + model.FieldPrice,
	"views":      model.TableName + "." + model.FieldViews,
	"bedrooms":   model.TableName + "." + model.FieldBedrooms,
}

type SearchRequest struct {
	Query        string   `json:"q"             validate:"omitempty,max=100,safe_text"`
	City         string   `json:"city"          validate:"omitempty,max=100,safe_text"`
	Area         string   `json:"area"          validate:"omitempty,max=100,safe_text"`
	PropertyType string   `json:"property_type" validate:"omitempty,oneof=apartment chalet villa room studio"`
	PricePeriod  string   `json:"price_period"  validate:"omitempty,oneof=daily weekly monthly"`
	MinPrice     *float64 `json:"min_price"     validate:"omitempty,gte=0"`
	MaxPrice     *float64 `json:"max_price"     validate:"omitempty,gte=0"`
	Bedrooms     *int     `json:"bedrooms"      validate:"omitempty,gte=0,lte=50"`
	Furnished    *bool    `json:"furnished"`
	Near         string   `json:"near"          validate:"omitempty,max=64"`
	Precision    uint     `json:"precision"     validate:"omitempty,gte=3,lte=8"`
	Status       string   `json:"status"        validate:"omitempty,oneof=pending available rejected rented"`
	OwnerID      string   `json:"-"`
}

func (s *SearchRequest) FromRequest(r *http.Request) {
	query := r.URL.Query()

	s.Query = query.Get(ParamQuery)
	s.City = query.Get(ParamCity)
	s.Area = query.Get(ParamArea)
	s.PropertyType = query.Get(ParamPropertyType)
	s.PricePeriod = query.Get(ParamPricePeriod)
	s.MinPrice = shared.ConvertStringToFloat(query.Get(ParamMinPrice))
	s.MaxPrice = shared.ConvertStringToFloat(query.Get(ParamMaxPrice))
	s.Furnished = shared.ConvertStringToBool(query.Get(ParamFurnished))
	s.Near = query.Get(ParamNear)
	s.Status = query.Get(ParamStatus)

	if bedrooms, err := shared.ConvertStringToInt(query.Get(ParamBedrooms)); err == nil {
		s.Bedrooms = &bedrooms
	}

	if precision, err := strconv.ParseUint(query.Get(ParamPrecision), 10, 8); err == nil {
		s.Precision = uint(precision)
	}
}

// ToFilter renders the search as a filter group over the properties table.
func (s *SearchRequest) ToFilter() (gDto.FilterGroup, error) {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	eq := func(field string, value any) {
		group.Filters = append(group.Filters, gDto.Filter{Field: field, Operator: gDto.FilterOperatorEq, Value: value, Table: model.TableName})
	}

	if s.Status != "" {
		eq(model.FieldStatus, s.Status)
	}

	if s.OwnerID != "" {
		eq(model.FieldOwnerID, s.OwnerID)
	}

	if s.PropertyType != "" {
		eq(model.FieldPropertyType, s.PropertyType)
	}

	if s.PricePeriod != "" {
		eq(model.FieldPricePeriod, s.PricePeriod)
	}

	if s.Bedrooms != nil {
		eq(model.FieldBedrooms, *s.Bedrooms)
	}

	if s.Furnished != nil {
		eq(model.FieldFurnished, *s.Furnished)
	}

	if s.City != "" {
		group.Filters = append(group.Filters, gDto.Filter{Field: model.FieldCity, Operator: gDto.FilterOperatorLike, Value: s.City, Table: model.TableName})
	}

	if s.Area != "" {
		group.Filters = append(group.Filters, gDto.Filter{Field: model.FieldArea, Operator: gDto.FilterOperatorLike, Value: s.Area, Table: model.TableName})
	}

	if q := arabic.Normalize(s.Query); q != "" {
		group.Filters = append(group.Filters, gDto.Filter{Field: model.FieldSearchText, Operator: gDto.FilterOperatorLike, Value: q, Table: model.TableName})
	}

	if s.MinPrice != nil && s.MaxPrice != nil && *s.MinPrice > *s.MaxPrice {
		return group, failure.BadRequestFromString("min_price must not exceed max_price")
	}

	if s.MinPrice != nil {
		group.Filters = append(group.Filters, gDto.Filter{ArgName: ParamMinPrice, Field: model.FieldPrice, Operator: gDto.FilterOperatorGreaterEq, Value: *s.MinPrice, Table: model.TableName})
	}

	if s.MaxPrice != nil {
		group.Filters = append(group.Filters, gDto.Filter{ArgName: ParamMaxPrice, Field: model.FieldPrice, Operator: gDto.FilterOperatorLessEq, Value: *s.MaxPrice, Table: model.TableName})
	}

	if s.Near != "" {
		point, err := geo.ParsePoint(s.Near)
		if err != nil {
			return group, failure.BadRequest(err)
		}

		cells := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorOr}
		for i, cell := range geo.Cells(point, s.Precision) {
			cells.Filters = append(cells.Filters, gDto.Filter{
				ArgName:  fmt.Sprintf("%s_%d", model.FieldGeohash, i),
				Field:    model.FieldGeohash,
				Operator: gDto.FilterOperatorPrefix,
				Value:    cell,
				Table:    model.TableName,
			})
		}

		group.Filters = append(group.Filters, cells)
	}

	return group, nil
}

// ApplySort replaces the requested sort with a whitelisted column, defaulting to newest first.
func ApplySort(params *gDto.QueryParams) {
	column, ok := sortColumns[params.SortBy]
	if !ok {
		column = sortColumns[constant.DefaultValueSortBy]
	}

	params.SortBy = column

	if params.SortDir == "" {
		params.SortDir = constant.DefaultValueSortDir
	}
}

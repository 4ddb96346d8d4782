package dto

import (
	"gamasa/internal/domains/favorite/model"
	"gamasa/shared"
	"gamasa/shared/constant"
	gModel "gamasa/shared/model"
	"gamasa/shared/timezone"

	"github.com/google/uuid"
)

func NewFavorite(user, propertyID string) model.Favorite {
	return model.Favorite{
		ID:         uuid.NewString(),
		UserID:     user,
		PropertyID: propertyID,
		Metadata:   gModel.NewMetadata(user),
	}
}

type FavoriteResponse struct {
	ID          string   `json:"id"`
	PropertyID  string   `json:"property_id"`
	Title       *string  `json:"title,omitempty"`
	City        *string  `json:"city,omitempty"`
	Area        *string  `json:"area,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	PricePeriod *string  `json:"price_period,omitempty"`
	Status      *string  `json:"status,omitempty"`
	CoverImage  *string  `json:"cover_image,omitempty"`
	SavedAt     string   `json:"saved_at"`
}

func (f *FavoriteResponse) FromModel(model model.Favorite) {
	f.ID = model.ID
	f.PropertyID = model.PropertyID
	f.Title = model.PropertyTitle
	f.City = model.PropertyCity
	f.Area = model.PropertyArea
	f.Price = model.PropertyPrice
	f.PricePeriod = model.PropertyPeriod
	f.Status = model.PropertyStatus

	if len(model.PropertyImages) > 0 {
		cover := model.PropertyImages[0]
		f.CoverImage = &cover
	}

	f.SavedAt = timezone.Format(model.CreatedAt, constant.DateFormat)
}

type GetFavoritesResponse struct {
	Favorites []FavoriteResponse `json:"favorites"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetFavoritesResponse) FromModels(models []model.Favorite, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Favorites = make([]FavoriteResponse, len(models))
	for i, mod := range models {
		r.Favorites[i].FromModel(mod)
	}
}

type FavoriteStatusResponse struct {
	PropertyID string `json:"property_id"`
	Favorite   bool   `json:"favorite"`
}

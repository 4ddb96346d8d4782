package dto

import (
	"math"

	"gamasa/internal/domains/review/model"
	"gamasa/shared"
	gDto "gamasa/shared/dto"
	gModel "gamasa/shared/model"

	"github.com/google/uuid"
)

type CreateReviewRequest struct {
	Rating  int    `json:"rating"  validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"omitempty,max=2000"`
}

func (c *CreateReviewRequest) ToModel(user, propertyID string) model.Review {
	review := model.Review{
		ID:         uuid.NewString(),
		PropertyID: propertyID,
		UserID:     user,
		Rating:     c.Rating,
		Metadata:   gModel.NewMetadata(user),
	}

	if c.Comment != "" {
		review.Comment = &c.Comment
	}

	return review
}

type ReviewResponse struct {
	ID           string  `json:"id"`
	PropertyID   string  `json:"property_id"`
	UserID       string  `json:"user_id"`
	ReviewerName *string `json:"reviewer_name,omitempty"`
	Rating       int     `json:"rating"`
	Comment      *string `json:"comment,omitempty"`
	gDto.Timestamps
}

func (r *ReviewResponse) FromModel(model model.Review) {
	r.ID = model.ID
	r.PropertyID = model.PropertyID
	r.UserID = model.UserID
	r.ReviewerName = model.ReviewerName
	r.Rating = model.Rating
	r.Comment = model.Comment
	r.Timestamps.FromModel(model.Metadata)
}

type SummaryResponse struct {
	Count         int     `json:"count"`
	AverageRating float64 `json:"average_rating"`
}

type GetReviewsResponse struct {
	Reviews   []ReviewResponse `json:"reviews"`
	Summary   SummaryResponse  `json:"summary"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

// FromModels fills the page and rounds the average to one decimal.
func (r *GetReviewsResponse) FromModels(models []model.Review, summary model.Summary, limit int) {
	r.TotalData = summary.Count
	r.TotalPage = shared.CalculateTotalPage(summary.Count, limit)
	r.Summary = SummaryResponse{
		Count:         summary.Count,
		AverageRating: math.Round(summary.Average*10) / 10,
	}

	r.Reviews = make([]ReviewResponse, len(models))
	for i, mod := range models {
		r.Reviews[i].FromModel(mod)
	}
}

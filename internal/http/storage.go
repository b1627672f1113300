package httpapi

import (
	"context"

	"playpartner-backend-go/internal/models"
	"playpartner-backend-go/internal/services"
	"playpartner-backend-go/internal/vetting"
)

// Storage is everything the handlers need from persistence.
// *services.Store implements it.
type Storage interface {
	Ping(ctx context.Context) error

	Dashboard(ctx context.Context) (vetting.Dashboard, error)
	ListPartners(ctx context.Context) ([]vetting.PartnerWithComputed, error)
	GetPartner(ctx context.Context, id int64) (vetting.PartnerWithComputed, error)
	CreatePartner(ctx context.Context, in services.PartnerInput) (models.Partner, error)
	UpdatePartner(ctx context.Context, id int64, patch services.PartnerPatch) (models.Partner, error)
	DeletePartner(ctx context.Context, id int64) error

	GetIntimacy(ctx context.Context, partnerID int64) (*models.PartnerIntimacy, error)
	UpsertIntimacy(ctx context.Context, partnerID int64, in services.IntimacyInput) (models.PartnerIntimacy, error)
	GetLogistics(ctx context.Context, partnerID int64) (*models.PartnerLogistics, error)
	UpsertLogistics(ctx context.Context, partnerID int64, in services.LogisticsInput) (models.PartnerLogistics, error)
	ListMedia(ctx context.Context, partnerID int64) ([]models.PartnerMedia, error)
	CreateMedia(ctx context.Context, partnerID int64, in services.MediaInput) (models.PartnerMedia, error)
	DeleteMedia(ctx context.Context, id int64) (models.PartnerMedia, error)

	ListAssessments(ctx context.Context) ([]services.AssessmentWithPartner, error)
	ListPartnerAssessments(ctx context.Context, partnerID int64) ([]models.AdminAssessment, error)
	CreateAssessment(ctx context.Context, in services.AssessmentInput) (models.AdminAssessment, error)

	ListTags(ctx context.Context) ([]models.Tag, error)
	CreateTag(ctx context.Context, in services.TagInput) (models.Tag, error)
	DeleteTag(ctx context.Context, id int64) error

	GetUser(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	SetPassword(ctx context.Context, userID, hash string, resetRequired bool) error
	SetLastLogin(ctx context.Context, userID string) error
}

var _ Storage = (*services.Store)(nil)

package services

import (
	"context"

	"playpartner-backend-go/internal/models"
)

const assessmentColumns = `id, partner_id, admin, status, rating, blacklisted, notes, created_at, updated_at`

type AssessmentInput struct {
	PartnerID   int64   `json:"partnerId"`
	Admin       string  `json:"admin"`
	Status      *string `json:"status"`
	Rating      *int    `json:"rating"`
	Blacklisted bool    `json:"blacklisted"`
	Notes       *string `json:"notes"`
}

// AssessmentWithPartner is an assessment joined with its partner row, which
// is nil if the partner disappeared between the two reads.
type AssessmentWithPartner struct {
	models.AdminAssessment
	Partner *models.Partner `json:"partner"`
}

func (in AssessmentInput) validate() (AssessmentInput, error) {
	if in.PartnerID <= 0 {
		return in, ErrBadRequest("Partner ID must be a positive integer")
	}
	if !models.IsAdmin(in.Admin) {
		return in, ErrBadRequest("Invalid admin: " + in.Admin)
	}
	in.Status = normalizeOptional(in.Status)
	if err := checkEnum("status", in.Status, models.IsStatus); err != nil {
		return in, err
	}
	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		return in, ErrBadRequest("Rating must be between 1 and 5")
	}
	in.Notes = normalizeOptional(in.Notes)
	return in, nil
}

// ListAssessments returns every assessment newest first, each with its partner.
func (s *Store) ListAssessments(ctx context.Context) ([]AssessmentWithPartner, error) {
	assessments := []models.AdminAssessment{}
	if err := s.DB.SelectContext(ctx, &assessments, `SELECT `+assessmentColumns+` FROM admin_assessments ORDER BY created_at DESC, id DESC`); err != nil {
		return nil, WrapError(err, "list assessments")
	}
	partners := []models.Partner{}
	if err := s.DB.SelectContext(ctx, &partners, `SELECT `+partnerColumns+` FROM partners`); err != nil {
		return nil, WrapError(err, "list partners")
	}
	byID := make(map[int64]*models.Partner, len(partners))
	for i := range partners {
		byID[partners[i].ID] = &partners[i]
	}
	items := make([]AssessmentWithPartner, 0, len(assessments))
	for _, a := range assessments {
		items = append(items, AssessmentWithPartner{AdminAssessment: a, Partner: byID[a.PartnerID]})
	}
	return items, nil
}

// ListPartnerAssessments returns the partner's assessments newest first. Rows
// with equal timestamps are ordered by descending id.
func (s *Store) ListPartnerAssessments(ctx context.Context, partnerID int64) ([]models.AdminAssessment, error) {
	items := []models.AdminAssessment{}
	if err := s.DB.SelectContext(ctx, &items, `SELECT `+assessmentColumns+` FROM admin_assessments WHERE partner_id = $1 ORDER BY created_at DESC, id DESC`, partnerID); err != nil {
		return nil, WrapError(err, "list partner assessments")
	}
	return items, nil
}

// CreateAssessment appends a review. Assessments are never updated, so the
// next read of the partner reflects it directly.
func (s *Store) CreateAssessment(ctx context.Context, in AssessmentInput) (models.AdminAssessment, error) {
	in, err := in.validate()
	if err != nil {
		return models.AdminAssessment{}, err
	}
	if err := s.partnerExists(ctx, in.PartnerID); err != nil {
		return models.AdminAssessment{}, err
	}
	now := s.now()
	var row models.AdminAssessment
	err = s.DB.GetContext(ctx, &row, `
INSERT INTO admin_assessments (partner_id, admin, status, rating, blacklisted, notes, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$7)
RETURNING `+assessmentColumns,
		in.PartnerID, in.Admin, in.Status, in.Rating, in.Blacklisted, in.Notes, now)
	if err != nil {
		return models.AdminAssessment{}, translatePgError(err, "create assessment", "Assessment already exists")
	}
	return row, nil
}

package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"playpartner-backend-go/internal/models"
	"playpartner-backend-go/internal/vetting"
)

const partnerColumns = `id, full_name, nickname, height, body_build, dob, city, status, referral_source, tags, created_at, updated_at`

type PartnerInput struct {
	FullName       string   `json:"fullName"`
	Nickname       *string  `json:"nickname"`
	Height         *string  `json:"height"`
	BodyBuild      *string  `json:"bodyBuild"`
	DOB            *string  `json:"dob"`
	City           *string  `json:"city"`
	Status         *string  `json:"status"`
	ReferralSource *string  `json:"referralSource"`
	Tags           []string `json:"tags"`
}

// PartnerPatch carries a partial update. Unset fields keep their stored
// value; a set field with a nil value clears the column.
type PartnerPatch struct {
	FullName       Optional[string]   `json:"fullName"`
	Nickname       Optional[string]   `json:"nickname"`
	Height         Optional[string]   `json:"height"`
	BodyBuild      Optional[string]   `json:"bodyBuild"`
	DOB            Optional[string]   `json:"dob"`
	City           Optional[string]   `json:"city"`
	Status         Optional[string]   `json:"status"`
	ReferralSource Optional[string]   `json:"referralSource"`
	Tags           Optional[[]string] `json:"tags"`
}

type partnerValues struct {
	fullName       string
	nickname       *string
	height         *string
	bodyBuild      *string
	dob            *time.Time
	city           *string
	status         *string
	referralSource *string
	tags           pq.StringArray
}

func (in PartnerInput) normalize() (partnerValues, error) {
	fullName, err := NormalizeRequired(in.FullName, "Full name is required")
	if err != nil {
		return partnerValues{}, err
	}
	values := partnerValues{
		fullName:       fullName,
		nickname:       normalizeOptional(in.Nickname),
		height:         normalizeOptional(in.Height),
		bodyBuild:      normalizeOptional(in.BodyBuild),
		city:           normalizeOptional(in.City),
		status:         normalizeOptional(in.Status),
		referralSource: normalizeOptional(in.ReferralSource),
		tags:           pq.StringArray(CleanTags(in.Tags)),
	}
	if values.status == nil {
		status := models.StatusNewProspect
		values.status = &status
	}
	if values.dob, err = parseDate("dob", in.DOB); err != nil {
		return partnerValues{}, err
	}
	if err := validatePartnerValues(values); err != nil {
		return partnerValues{}, err
	}
	return values, nil
}

func validatePartnerValues(v partnerValues) error {
	checks := []error{
		checkLength("Full name", &v.fullName, 255),
		checkLength("Nickname", v.nickname, 100),
		checkLength("Height", v.height, 50),
		checkLength("City", v.city, 100),
		checkEnum("body build", v.bodyBuild, models.IsBodyBuild),
		checkEnum("status", v.status, models.IsStatus),
		checkEnum("referral source", v.referralSource, models.IsReferralSource),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}

// ListPartners loads every partner with its related rows and derives the
// computed view. Partners are ordered newest first.
func (s *Store) ListPartners(ctx context.Context) ([]vetting.PartnerWithComputed, error) {
	partners := []models.Partner{}
	if err := s.DB.SelectContext(ctx, &partners, `SELECT `+partnerColumns+` FROM partners ORDER BY created_at DESC, id DESC`); err != nil {
		return nil, WrapError(err, "list partners")
	}
	intimacy := []models.PartnerIntimacy{}
	if err := s.DB.SelectContext(ctx, &intimacy, `SELECT `+intimacyColumns+` FROM partner_intimacy`); err != nil {
		return nil, WrapError(err, "list intimacy")
	}
	logistics := []models.PartnerLogistics{}
	if err := s.DB.SelectContext(ctx, &logistics, `SELECT `+logisticsColumns+` FROM partner_logistics`); err != nil {
		return nil, WrapError(err, "list logistics")
	}
	media := []models.PartnerMedia{}
	if err := s.DB.SelectContext(ctx, &media, `SELECT `+mediaColumns+` FROM partner_media ORDER BY id`); err != nil {
		return nil, WrapError(err, "list media")
	}
	assessments := []models.AdminAssessment{}
	if err := s.DB.SelectContext(ctx, &assessments, `SELECT `+assessmentColumns+` FROM admin_assessments ORDER BY created_at DESC, id DESC`); err != nil {
		return nil, WrapError(err, "list assessments")
	}
	tags, err := s.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	intimacyByPartner := make(map[int64]*models.PartnerIntimacy, len(intimacy))
	for i := range intimacy {
		intimacyByPartner[intimacy[i].PartnerID] = &intimacy[i]
	}
	logisticsByPartner := make(map[int64]*models.PartnerLogistics, len(logistics))
	for i := range logistics {
		logisticsByPartner[logistics[i].PartnerID] = &logistics[i]
	}
	mediaByPartner := map[int64][]models.PartnerMedia{}
	for _, item := range media {
		mediaByPartner[item.PartnerID] = append(mediaByPartner[item.PartnerID], item)
	}
	assessmentsByPartner := map[int64][]models.AdminAssessment{}
	for _, item := range assessments {
		assessmentsByPartner[item.PartnerID] = append(assessmentsByPartner[item.PartnerID], item)
	}

	items := make([]vetting.PartnerWithComputed, 0, len(partners))
	for _, partner := range partners {
		items = append(items, vetting.Compute(vetting.Input{
			Partner:     partner,
			Intimacy:    intimacyByPartner[partner.ID],
			Logistics:   logisticsByPartner[partner.ID],
			Media:       mediaByPartner[partner.ID],
			Assessments: assessmentsByPartner[partner.ID],
			Tags:        tags,
		}))
	}
	return items, nil
}

// GetPartner returns one partner with its computed view.
func (s *Store) GetPartner(ctx context.Context, id int64) (vetting.PartnerWithComputed, error) {
	var partner models.Partner
	if err := s.DB.GetContext(ctx, &partner, `SELECT `+partnerColumns+` FROM partners WHERE id = $1`, id); err != nil {
		if isNoRows(err) {
			return vetting.PartnerWithComputed{}, ErrNotFound("Partner not found")
		}
		return vetting.PartnerWithComputed{}, WrapError(err, "get partner")
	}
	intimacy, err := s.GetIntimacy(ctx, id)
	if err != nil {
		return vetting.PartnerWithComputed{}, err
	}
	logistics, err := s.GetLogistics(ctx, id)
	if err != nil {
		return vetting.PartnerWithComputed{}, err
	}
	media, err := s.ListMedia(ctx, id)
	if err != nil {
		return vetting.PartnerWithComputed{}, err
	}
	assessments, err := s.ListPartnerAssessments(ctx, id)
	if err != nil {
		return vetting.PartnerWithComputed{}, err
	}
	tags, err := s.ListTags(ctx)
	if err != nil {
		return vetting.PartnerWithComputed{}, err
	}
	return vetting.Compute(vetting.Input{
		Partner:     partner,
		Intimacy:    intimacy,
		Logistics:   logistics,
		Media:       media,
		Assessments: assessments,
		Tags:        tags,
	}), nil
}

func (s *Store) partnerExists(ctx context.Context, id int64) error {
	var exists bool
	if err := s.DB.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM partners WHERE id = $1)`, id); err != nil {
		return WrapError(err, "check partner")
	}
	if !exists {
		return ErrNotFound("Partner not found")
	}
	return nil
}

func (s *Store) CreatePartner(ctx context.Context, in PartnerInput) (models.Partner, error) {
	values, err := in.normalize()
	if err != nil {
		return models.Partner{}, err
	}
	now := s.now()
	var partner models.Partner
	err = s.DB.GetContext(ctx, &partner, `
INSERT INTO partners (full_name, nickname, height, body_build, dob, city, status, referral_source, tags, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$10)
RETURNING `+partnerColumns,
		values.fullName, values.nickname, values.height, values.bodyBuild, values.dob,
		values.city, values.status, values.referralSource, values.tags, now)
	if err != nil {
		return models.Partner{}, translatePgError(err, "create partner", "Partner already exists")
	}
	return partner, nil
}

// UpdatePartner applies the set fields of patch. An empty patch only bumps
// updated_at.
func (s *Store) UpdatePartner(ctx context.Context, id int64, patch PartnerPatch) (models.Partner, error) {
	sets := []string{}
	args := []any{}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}

	if patch.FullName.Set {
		if patch.FullName.Value == nil {
			return models.Partner{}, ErrBadRequest("Full name is required")
		}
		fullName, err := NormalizeRequired(*patch.FullName.Value, "Full name is required")
		if err != nil {
			return models.Partner{}, err
		}
		if err := checkLength("Full name", &fullName, 255); err != nil {
			return models.Partner{}, err
		}
		add("full_name", fullName)
	}

	text := []struct {
		column string
		field  string
		value  Optional[string]
		max    int
		valid  func(string) bool
	}{
		{column: "nickname", field: "Nickname", value: patch.Nickname, max: 100},
		{column: "height", field: "Height", value: patch.Height, max: 50},
		{column: "body_build", field: "body build", value: patch.BodyBuild, valid: models.IsBodyBuild},
		{column: "city", field: "City", value: patch.City, max: 100},
		{column: "status", field: "status", value: patch.Status, valid: models.IsStatus},
		{column: "referral_source", field: "referral source", value: patch.ReferralSource, valid: models.IsReferralSource},
	}
	for _, item := range text {
		if !item.value.Set {
			continue
		}
		value := normalizeOptional(item.value.Value)
		if item.max > 0 {
			if err := checkLength(item.field, value, item.max); err != nil {
				return models.Partner{}, err
			}
		}
		if item.valid != nil {
			if err := checkEnum(item.field, value, item.valid); err != nil {
				return models.Partner{}, err
			}
		}
		add(item.column, value)
	}

	if patch.DOB.Set {
		dob, err := parseDate("dob", patch.DOB.Value)
		if err != nil {
			return models.Partner{}, err
		}
		add("dob", dob)
	}
	if patch.Tags.Set {
		var tags pq.StringArray
		if patch.Tags.Value != nil {
			tags = pq.StringArray(CleanTags(*patch.Tags.Value))
		}
		add("tags", tags)
	}
	add("updated_at", s.now())
	args = append(args, id)

	query := `UPDATE partners SET ` + strings.Join(sets, ", ") +
		` WHERE id = $` + strconv.Itoa(len(args)) + ` RETURNING ` + partnerColumns
	var partner models.Partner
	if err := s.DB.GetContext(ctx, &partner, query, args...); err != nil {
		if isNoRows(err) {
			return models.Partner{}, ErrNotFound("Partner not found")
		}
		return models.Partner{}, translatePgError(err, "update partner", "Partner already exists")
	}
	return partner, nil
}

// DeletePartner removes the partner; related rows go with it through the
// cascading foreign keys.
func (s *Store) DeletePartner(ctx context.Context, id int64) error {
	result, err := s.DB.ExecContext(ctx, `DELETE FROM partners WHERE id = $1`, id)
	if err != nil {
		return WrapError(err, "delete partner")
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound("Partner not found")
	}
	return nil
}

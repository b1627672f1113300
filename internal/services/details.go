package services

import (
	"context"

	"github.com/lib/pq"

	"playpartner-backend-go/internal/models"
)

const (
	intimacyColumns  = `id, partner_id, kinks, role, bedroom_style, sexual_orientation, relationship_status, appealing_characteristics, phallic_length, notes, created_at, updated_at`
	logisticsColumns = `id, partner_id, discreet_dl, hosting, car, street_address, phone_number, city, created_at, updated_at`
	mediaColumns     = `id, partner_id, photo_face_url, photo_body_url, created_at`
)

type IntimacyInput struct {
	Kinks                    []string `json:"kinks"`
	Role                     []string `json:"role"`
	BedroomStyle             []string `json:"bedroomStyle"`
	SexualOrientation        *string  `json:"sexualOrientation"`
	RelationshipStatus       *string  `json:"relationshipStatus"`
	AppealingCharacteristics []string `json:"appealingCharacteristics"`
	PhallicLength            *float64 `json:"phallicLength"`
	Notes                    *string  `json:"notes"`
}

type LogisticsInput struct {
	DiscreetDL    bool    `json:"discreetDl"`
	Hosting       bool    `json:"hosting"`
	Car           bool    `json:"car"`
	StreetAddress *string `json:"streetAddress"`
	PhoneNumber   *string `json:"phoneNumber"`
	City          *string `json:"city"`
}

type MediaInput struct {
	PhotoFaceURL *string `json:"photoFaceUrl"`
	PhotoBodyURL *string `json:"photoBodyUrl"`
}

// GetIntimacy returns nil when the partner has no intimacy row.
func (s *Store) GetIntimacy(ctx context.Context, partnerID int64) (*models.PartnerIntimacy, error) {
	var row models.PartnerIntimacy
	err := s.DB.GetContext(ctx, &row, `SELECT `+intimacyColumns+` FROM partner_intimacy WHERE partner_id = $1`, partnerID)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, WrapError(err, "get intimacy")
	}
	return &row, nil
}

func (s *Store) UpsertIntimacy(ctx context.Context, partnerID int64, in IntimacyInput) (models.PartnerIntimacy, error) {
	sexualOrientation := normalizeOptional(in.SexualOrientation)
	relationshipStatus := normalizeOptional(in.RelationshipStatus)
	for _, err := range []error{
		checkLength("Sexual orientation", sexualOrientation, 100),
		checkLength("Relationship status", relationshipStatus, 100),
	} {
		if err != nil {
			return models.PartnerIntimacy{}, err
		}
	}
	if in.PhallicLength != nil && (*in.PhallicLength < 0 || *in.PhallicLength >= 1000) {
		return models.PartnerIntimacy{}, ErrBadRequest("Phallic length is out of range")
	}
	if err := s.partnerExists(ctx, partnerID); err != nil {
		return models.PartnerIntimacy{}, err
	}

	now := s.now()
	var row models.PartnerIntimacy
	err := s.DB.GetContext(ctx, &row, `
INSERT INTO partner_intimacy (partner_id, kinks, role, bedroom_style, sexual_orientation, relationship_status, appealing_characteristics, phallic_length, notes, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$10)
ON CONFLICT (partner_id) DO UPDATE SET
  kinks = EXCLUDED.kinks,
  role = EXCLUDED.role,
  bedroom_style = EXCLUDED.bedroom_style,
  sexual_orientation = EXCLUDED.sexual_orientation,
  relationship_status = EXCLUDED.relationship_status,
  appealing_characteristics = EXCLUDED.appealing_characteristics,
  phallic_length = EXCLUDED.phallic_length,
  notes = EXCLUDED.notes,
  updated_at = EXCLUDED.updated_at
RETURNING `+intimacyColumns,
		partnerID,
		pq.StringArray(CleanTags(in.Kinks)),
		pq.StringArray(CleanTags(in.Role)),
		pq.StringArray(CleanTags(in.BedroomStyle)),
		sexualOrientation,
		relationshipStatus,
		pq.StringArray(CleanTags(in.AppealingCharacteristics)),
		in.PhallicLength,
		normalizeOptional(in.Notes),
		now)
	if err != nil {
		return models.PartnerIntimacy{}, translatePgError(err, "upsert intimacy", "Intimacy already exists")
	}
	return row, nil
}

// GetLogistics returns nil when the partner has no logistics row.
func (s *Store) GetLogistics(ctx context.Context, partnerID int64) (*models.PartnerLogistics, error) {
	var row models.PartnerLogistics
	err := s.DB.GetContext(ctx, &row, `SELECT `+logisticsColumns+` FROM partner_logistics WHERE partner_id = $1`, partnerID)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, WrapError(err, "get logistics")
	}
	return &row, nil
}

func (s *Store) UpsertLogistics(ctx context.Context, partnerID int64, in LogisticsInput) (models.PartnerLogistics, error) {
	phone := normalizeOptional(in.PhoneNumber)
	city := normalizeOptional(in.City)
	for _, err := range []error{
		checkLength("Phone number", phone, 50),
		checkLength("City", city, 100),
	} {
		if err != nil {
			return models.PartnerLogistics{}, err
		}
	}
	if err := s.partnerExists(ctx, partnerID); err != nil {
		return models.PartnerLogistics{}, err
	}

	now := s.now()
	var row models.PartnerLogistics
	err := s.DB.GetContext(ctx, &row, `
INSERT INTO partner_logistics (partner_id, discreet_dl, hosting, car, street_address, phone_number, city, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$8)
ON CONFLICT (partner_id) DO UPDATE SET
  discreet_dl = EXCLUDED.discreet_dl,
  hosting = EXCLUDED.hosting,
  car = EXCLUDED.car,
  street_address = EXCLUDED.street_address,
  phone_number = EXCLUDED.phone_number,
  city = EXCLUDED.city,
  updated_at = EXCLUDED.updated_at
RETURNING `+logisticsColumns,
		partnerID, in.DiscreetDL, in.Hosting, in.Car, normalizeOptional(in.StreetAddress), phone, city, now)
	if err != nil {
		return models.PartnerLogistics{}, translatePgError(err, "upsert logistics", "Logistics already exists")
	}
	return row, nil
}

func (s *Store) ListMedia(ctx context.Context, partnerID int64) ([]models.PartnerMedia, error) {
	items := []models.PartnerMedia{}
	if err := s.DB.SelectContext(ctx, &items, `SELECT `+mediaColumns+` FROM partner_media WHERE partner_id = $1 ORDER BY id`, partnerID); err != nil {
		return nil, WrapError(err, "list media")
	}
	return items, nil
}

func (s *Store) CreateMedia(ctx context.Context, partnerID int64, in MediaInput) (models.PartnerMedia, error) {
	face := normalizeOptional(in.PhotoFaceURL)
	body := normalizeOptional(in.PhotoBodyURL)
	if face == nil && body == nil {
		return models.PartnerMedia{}, ErrBadRequest("A face or body photo is required")
	}
	if err := s.partnerExists(ctx, partnerID); err != nil {
		return models.PartnerMedia{}, err
	}
	var row models.PartnerMedia
	err := s.DB.GetContext(ctx, &row, `
INSERT INTO partner_media (partner_id, photo_face_url, photo_body_url, created_at)
VALUES ($1,$2,$3,$4)
RETURNING `+mediaColumns, partnerID, face, body, s.now())
	if err != nil {
		return models.PartnerMedia{}, translatePgError(err, "create media", "Media already exists")
	}
	return row, nil
}

// DeleteMedia removes the row and returns it so stored files can be cleaned up.
func (s *Store) DeleteMedia(ctx context.Context, id int64) (models.PartnerMedia, error) {
	var row models.PartnerMedia
	err := s.DB.GetContext(ctx, &row, `DELETE FROM partner_media WHERE id = $1 RETURNING `+mediaColumns, id)
	if isNoRows(err) {
		return models.PartnerMedia{}, ErrNotFound("Media not found")
	}
	if err != nil {
		return models.PartnerMedia{}, WrapError(err, "delete media")
	}
	return row, nil
}

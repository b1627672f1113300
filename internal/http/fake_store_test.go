package httpapi

import (
	"context"
	"sync"

	"playpartner-backend-go/internal/models"
	"playpartner-backend-go/internal/services"
	"playpartner-backend-go/internal/vetting"
)

// fakeStore keeps rows in memory. When err is set every call except Ping
// fails with it.
type fakeStore struct {
	mu sync.Mutex

	err     error
	pingErr error

	partners    []vetting.PartnerWithComputed
	media       []models.PartnerMedia
	intimacy    map[int64]models.PartnerIntimacy
	logistics   map[int64]models.PartnerLogistics
	assessments []services.AssessmentWithPartner
	tags        []models.Tag
	users       map[string]models.User

	createdPartners []services.PartnerInput
	patches         map[int64]services.PartnerPatch
	deleted         []int64
	passwords       map[string]string
	lastLogins      []string
}

var _ Storage = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		intimacy:  map[int64]models.PartnerIntimacy{},
		logistics: map[int64]models.PartnerLogistics{},
		users:     map[string]models.User{},
		patches:   map[int64]services.PartnerPatch{},
		passwords: map[string]string{},
	}
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeStore) Dashboard(context.Context) (vetting.Dashboard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return vetting.Dashboard{}, f.err
	}
	return vetting.Summarize(f.partners), nil
}

func (f *fakeStore) ListPartners(context.Context) ([]vetting.PartnerWithComputed, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]vetting.PartnerWithComputed{}, f.partners...), nil
}

func (f *fakeStore) findPartner(id int64) (vetting.PartnerWithComputed, bool) {
	for _, p := range f.partners {
		if p.ID == id {
			return p, true
		}
	}
	return vetting.PartnerWithComputed{}, false
}

func (f *fakeStore) GetPartner(_ context.Context, id int64) (vetting.PartnerWithComputed, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return vetting.PartnerWithComputed{}, f.err
	}
	p, ok := f.findPartner(id)
	if !ok {
		return vetting.PartnerWithComputed{}, services.ErrNotFound("Partner not found")
	}
	return p, nil
}

func (f *fakeStore) CreatePartner(_ context.Context, in services.PartnerInput) (models.Partner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.Partner{}, f.err
	}
	if in.FullName == "" {
		return models.Partner{}, services.ErrBadRequest("Full name is required")
	}
	f.createdPartners = append(f.createdPartners, in)
	partner := models.Partner{ID: int64(100 + len(f.createdPartners)), FullName: in.FullName}
	f.partners = append(f.partners, vetting.PartnerWithComputed{Partner: partner, EffectiveStatus: models.StatusNewProspect})
	return partner, nil
}

func (f *fakeStore) UpdatePartner(_ context.Context, id int64, patch services.PartnerPatch) (models.Partner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.Partner{}, f.err
	}
	p, ok := f.findPartner(id)
	if !ok {
		return models.Partner{}, services.ErrNotFound("Partner not found")
	}
	f.patches[id] = patch
	return p.Partner, nil
}

func (f *fakeStore) DeletePartner(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.findPartner(id); !ok {
		return services.ErrNotFound("Partner not found")
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) GetIntimacy(_ context.Context, partnerID int64) (*models.PartnerIntimacy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	row, ok := f.intimacy[partnerID]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (f *fakeStore) UpsertIntimacy(_ context.Context, partnerID int64, in services.IntimacyInput) (models.PartnerIntimacy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.PartnerIntimacy{}, f.err
	}
	if _, ok := f.findPartner(partnerID); !ok {
		return models.PartnerIntimacy{}, services.ErrNotFound("Partner not found")
	}
	row := models.PartnerIntimacy{
		ID:                 partnerID,
		PartnerID:          partnerID,
		Kinks:              in.Kinks,
		SexualOrientation:  in.SexualOrientation,
		RelationshipStatus: in.RelationshipStatus,
		PhallicLength:      in.PhallicLength,
		Notes:              in.Notes,
	}
	f.intimacy[partnerID] = row
	return row, nil
}

func (f *fakeStore) GetLogistics(_ context.Context, partnerID int64) (*models.PartnerLogistics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	row, ok := f.logistics[partnerID]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (f *fakeStore) UpsertLogistics(_ context.Context, partnerID int64, in services.LogisticsInput) (models.PartnerLogistics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.PartnerLogistics{}, f.err
	}
	if _, ok := f.findPartner(partnerID); !ok {
		return models.PartnerLogistics{}, services.ErrNotFound("Partner not found")
	}
	row := models.PartnerLogistics{
		ID:         partnerID,
		PartnerID:  partnerID,
		DiscreetDL: in.DiscreetDL,
		Hosting:    in.Hosting,
		Car:        in.Car,
		City:       in.City,
	}
	f.logistics[partnerID] = row
	return row, nil
}

func (f *fakeStore) ListMedia(_ context.Context, partnerID int64) ([]models.PartnerMedia, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	items := []models.PartnerMedia{}
	for _, m := range f.media {
		if m.PartnerID == partnerID {
			items = append(items, m)
		}
	}
	return items, nil
}

func (f *fakeStore) CreateMedia(_ context.Context, partnerID int64, in services.MediaInput) (models.PartnerMedia, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.PartnerMedia{}, f.err
	}
	if _, ok := f.findPartner(partnerID); !ok {
		return models.PartnerMedia{}, services.ErrNotFound("Partner not found")
	}
	row := models.PartnerMedia{ID: int64(len(f.media) + 1), PartnerID: partnerID, PhotoFaceURL: in.PhotoFaceURL, PhotoBodyURL: in.PhotoBodyURL}
	f.media = append(f.media, row)
	return row, nil
}

func (f *fakeStore) DeleteMedia(_ context.Context, id int64) (models.PartnerMedia, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.PartnerMedia{}, f.err
	}
	for i, m := range f.media {
		if m.ID == id {
			f.media = append(f.media[:i], f.media[i+1:]...)
			return m, nil
		}
	}
	return models.PartnerMedia{}, services.ErrNotFound("Media not found")
}

func (f *fakeStore) ListAssessments(context.Context) ([]services.AssessmentWithPartner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]services.AssessmentWithPartner{}, f.assessments...), nil
}

func (f *fakeStore) ListPartnerAssessments(_ context.Context, partnerID int64) ([]models.AdminAssessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	items := []models.AdminAssessment{}
	for _, a := range f.assessments {
		if a.PartnerID == partnerID {
			items = append(items, a.AdminAssessment)
		}
	}
	return items, nil
}

func (f *fakeStore) CreateAssessment(_ context.Context, in services.AssessmentInput) (models.AdminAssessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.AdminAssessment{}, f.err
	}
	row := models.AdminAssessment{ID: int64(len(f.assessments) + 1), PartnerID: in.PartnerID, Admin: in.Admin, Status: in.Status}
	f.assessments = append(f.assessments, services.AssessmentWithPartner{AdminAssessment: row})
	return row, nil
}

func (f *fakeStore) ListTags(context.Context) ([]models.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Tag{}, f.tags...), nil
}

func (f *fakeStore) CreateTag(_ context.Context, in services.TagInput) (models.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.Tag{}, f.err
	}
	for _, t := range f.tags {
		if t.TagName == in.TagName {
			return models.Tag{}, services.ErrConflict("Tag already exists")
		}
	}
	tag := models.Tag{ID: int64(len(f.tags) + 1), TagName: in.TagName, TagGroup: in.TagGroup}
	f.tags = append(f.tags, tag)
	return tag, nil
}

func (f *fakeStore) DeleteTag(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i, t := range f.tags {
		if t.ID == id {
			f.tags = append(f.tags[:i], f.tags[i+1:]...)
			return nil
		}
	}
	return services.ErrNotFound("Tag not found")
}

func (f *fakeStore) GetUser(_ context.Context, id string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.User{}, f.err
	}
	user, ok := f.users[id]
	if !ok {
		return models.User{}, services.ErrNotFound("User not found")
	}
	return user, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.User{}, f.err
	}
	for _, user := range f.users {
		if user.Email == services.NormalizeEmail(email) {
			return user, nil
		}
	}
	return models.User{}, services.ErrNotFound("User not found")
}

func (f *fakeStore) SetPassword(_ context.Context, userID, hash string, resetRequired bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	user := f.users[userID]
	user.PasswordHash = &hash
	user.IsPasswordResetRequired = resetRequired
	f.users[userID] = user
	f.passwords[userID] = hash
	return nil
}

func (f *fakeStore) SetLastLogin(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLogins = append(f.lastLogins, userID)
	return nil
}

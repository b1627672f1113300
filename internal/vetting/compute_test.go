package vetting

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playpartner-backend-go/internal/models"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }

func assessment(id int64, admin string, status *string, rating *int, at time.Time) models.AdminAssessment {
	return models.AdminAssessment{ID: id, PartnerID: 1, Admin: admin, Status: status, Rating: rating, CreatedAt: at}
}

func TestCompute_NoRelatedRows(t *testing.T) {
	got := Compute(Input{Partner: models.Partner{ID: 1, FullName: "Sam"}})

	assert.Nil(t, got.AvgRating)
	assert.Nil(t, got.Intimacy)
	assert.Nil(t, got.Logistics)
	assert.NotNil(t, got.Media)
	assert.Empty(t, got.Media)
	assert.NotNil(t, got.Assessments)
	assert.Empty(t, got.Assessments)
	assert.Equal(t, models.StatusNewProspect, got.EffectiveStatus)
	assert.False(t, got.ConflictFlag)
	assert.False(t, got.RiskFlag)
	assert.False(t, got.IsBlacklisted)
	assert.Nil(t, got.LatestStatus(models.AdminAllison))
	assert.Nil(t, got.LatestStatus(models.AdminRoxanne))
}

func TestCompute_BaseStatusWithoutAssessments(t *testing.T) {
	got := Compute(Input{Partner: models.Partner{ID: 1, Status: strPtr(models.StatusContacted)}})
	assert.Equal(t, models.StatusContacted, got.EffectiveStatus)

	got = Compute(Input{Partner: models.Partner{ID: 1, Status: strPtr("")}})
	assert.Equal(t, models.StatusNewProspect, got.EffectiveStatus)
}

func TestCompute_AverageRating(t *testing.T) {
	tests := []struct {
		name    string
		ratings []*int
		want    *float64
	}{
		{name: "no ratings", ratings: []*int{nil, nil}, want: nil},
		{name: "single", ratings: []*int{intPtr(4)}, want: floatPtr(4)},
		{name: "skips nulls", ratings: []*int{intPtr(5), nil, intPtr(2)}, want: floatPtr(3.5)},
		{name: "no rounding", ratings: []*int{intPtr(1), intPtr(2), intPtr(2)}, want: floatPtr(5.0 / 3.0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := make([]models.AdminAssessment, 0, len(tt.ratings))
			for i, r := range tt.ratings {
				rows = append(rows, assessment(int64(i+1), models.AdminAllison, nil, r, t0.Add(time.Duration(i)*time.Hour)))
			}
			got := Compute(Input{Partner: models.Partner{ID: 1}, Assessments: rows})
			if diff := cmp.Diff(tt.want, got.AvgRating); diff != "" {
				t.Errorf("avgRating mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompute_AverageIndependentOfOrder(t *testing.T) {
	a := []models.AdminAssessment{
		assessment(1, models.AdminAllison, nil, intPtr(5), t0),
		assessment(2, models.AdminRoxanne, nil, intPtr(1), t0.Add(time.Hour)),
		assessment(3, models.AdminAllison, nil, intPtr(3), t0.Add(2*time.Hour)),
	}
	b := []models.AdminAssessment{a[2], a[0], a[1]}

	first := Compute(Input{Assessments: a})
	second := Compute(Input{Assessments: b})
	require.NotNil(t, first.AvgRating)
	assert.InDelta(t, 3.0, *first.AvgRating, 1e-9)
	assert.Equal(t, *first.AvgRating, *second.AvgRating)
}

func TestCompute_LatestStatusDoesNotFallBack(t *testing.T) {
	got := Compute(Input{
		Partner: models.Partner{ID: 1, Status: strPtr(models.StatusContacted)},
		Assessments: []models.AdminAssessment{
			assessment(1, models.AdminAllison, nil, nil, t0.Add(2*time.Hour)),
			assessment(2, models.AdminAllison, strPtr(models.StatusVetted), nil, t0.Add(time.Hour)),
		},
	})

	assert.Nil(t, got.LatestStatus(models.AdminAllison))
	assert.Equal(t, models.StatusContacted, got.EffectiveStatus)
}

func TestCompute_LatestStatusIgnoresInputOrder(t *testing.T) {
	got := Compute(Input{
		Assessments: []models.AdminAssessment{
			assessment(1, models.AdminRoxanne, strPtr(models.StatusContacted), nil, t0),
			assessment(2, models.AdminRoxanne, strPtr(models.StatusVetted), nil, t0.Add(3*time.Hour)),
			assessment(3, models.AdminRoxanne, strPtr(models.StatusOnPause), nil, t0.Add(time.Hour)),
		},
	})

	require.NotNil(t, got.LatestStatus(models.AdminRoxanne))
	assert.Equal(t, models.StatusVetted, *got.LatestStatus(models.AdminRoxanne))
	assert.Equal(t, models.StatusVetted, got.EffectiveStatus)
}

func TestCompute_SameTimestampPrefersHigherID(t *testing.T) {
	got := Compute(Input{
		Assessments: []models.AdminAssessment{
			assessment(8, models.AdminAllison, strPtr(models.StatusVetted), nil, t0),
			assessment(4, models.AdminAllison, strPtr(models.StatusContacted), nil, t0),
		},
	})

	assert.Equal(t, models.StatusVetted, got.EffectiveStatus)
}

func TestCompute_FirstAdminTakesPriority(t *testing.T) {
	got := Compute(Input{
		Partner: models.Partner{ID: 1, Status: strPtr(models.StatusRetired)},
		Assessments: []models.AdminAssessment{
			assessment(1, models.AdminAllison, strPtr(models.StatusActive), nil, t0),
			assessment(2, models.AdminRoxanne, strPtr(models.StatusOnPause), nil, t0.Add(time.Hour)),
		},
	})

	assert.True(t, got.ConflictFlag)
	assert.Equal(t, models.StatusActive, got.EffectiveStatus)
	assert.False(t, got.RiskFlag)
}

func TestCompute_SecondAdminUsedWhenFirstSilent(t *testing.T) {
	got := Compute(Input{
		Partner: models.Partner{ID: 1, Status: strPtr(models.StatusContacted)},
		Assessments: []models.AdminAssessment{
			assessment(1, models.AdminRoxanne, strPtr(models.StatusReadyForVetting), nil, t0),
		},
	})

	assert.False(t, got.ConflictFlag)
	assert.Equal(t, models.StatusReadyForVetting, got.EffectiveStatus)
}

func TestCompute_AgreementIsNotConflict(t *testing.T) {
	got := Compute(Input{
		Assessments: []models.AdminAssessment{
			assessment(1, models.AdminAllison, strPtr(models.StatusVetted), nil, t0),
			assessment(2, models.AdminRoxanne, strPtr(models.StatusVetted), nil, t0),
		},
	})
	assert.False(t, got.ConflictFlag)
}

func TestCompute_DoNotEngageOverridesEverything(t *testing.T) {
	tests := []struct {
		name        string
		assessments []models.AdminAssessment
		conflict    bool
	}{
		{
			name: "second admin lockout beats first admin opinion",
			assessments: []models.AdminAssessment{
				assessment(1, models.AdminAllison, strPtr(models.StatusActive), nil, t0),
				assessment(2, models.AdminRoxanne, strPtr(models.StatusDoNotEngage), nil, t0),
			},
			conflict: true,
		},
		{
			name: "old blacklist is sticky",
			assessments: []models.AdminAssessment{
				{ID: 1, Admin: models.AdminRoxanne, Blacklisted: true, CreatedAt: t0},
				assessment(2, models.AdminAllison, strPtr(models.StatusActive), intPtr(5), t0.Add(48*time.Hour)),
				assessment(3, models.AdminRoxanne, strPtr(models.StatusActive), intPtr(5), t0.Add(48*time.Hour)),
			},
			conflict: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(Input{
				Partner:     models.Partner{ID: 1, Status: strPtr(models.StatusActive)},
				Assessments: tt.assessments,
			})
			assert.Equal(t, models.StatusDoNotEngage, got.EffectiveStatus)
			assert.Equal(t, tt.conflict, got.ConflictFlag)
		})
	}
}

func TestCompute_BlacklistSetsRisk(t *testing.T) {
	got := Compute(Input{
		Assessments: []models.AdminAssessment{{ID: 1, Admin: models.AdminAllison, Blacklisted: true, CreatedAt: t0}},
	})
	assert.True(t, got.IsBlacklisted)
	assert.True(t, got.RiskFlag)
	assert.Equal(t, models.StatusDoNotEngage, got.EffectiveStatus)
}

func TestCompute_RiskTagsMatchCaseInsensitively(t *testing.T) {
	catalog := []models.Tag{
		{ID: 1, TagName: "High Risk", TagGroup: models.TagGroupRisk},
		{ID: 2, TagName: "Hosts", TagGroup: models.TagGroupLogistics},
	}

	got := Compute(Input{Partner: models.Partner{ID: 1, Tags: []string{"hosts", "high risk"}}, Tags: catalog})
	assert.True(t, got.RiskFlag)
	assert.False(t, got.IsBlacklisted)

	got = Compute(Input{Partner: models.Partner{ID: 2, Tags: []string{"HOSTS"}}, Tags: catalog})
	assert.False(t, got.RiskFlag)

	got = Compute(Input{Partner: models.Partner{ID: 3, Tags: []string{"high risk"}}})
	assert.False(t, got.RiskFlag)
}

func TestCompute_PassesDetailsThrough(t *testing.T) {
	intimacy := &models.PartnerIntimacy{ID: 7, PartnerID: 1}
	logistics := &models.PartnerLogistics{ID: 8, PartnerID: 1, Hosting: true}
	media := []models.PartnerMedia{{ID: 9, PartnerID: 1}}

	got := Compute(Input{Partner: models.Partner{ID: 1}, Intimacy: intimacy, Logistics: logistics, Media: media})

	assert.Same(t, intimacy, got.Intimacy)
	assert.Same(t, logistics, got.Logistics)
	assert.Equal(t, media, got.Media)
}

func TestCompute_DoesNotReorderCallerSlice(t *testing.T) {
	rows := []models.AdminAssessment{
		assessment(1, models.AdminAllison, strPtr(models.StatusContacted), nil, t0),
		assessment(2, models.AdminAllison, strPtr(models.StatusVetted), nil, t0.Add(time.Hour)),
	}
	got := Compute(Input{Assessments: rows})

	assert.Equal(t, int64(1), rows[0].ID)
	assert.Equal(t, int64(1), got.Assessments[0].ID)
}

func TestEngine_ThreeReviewers(t *testing.T) {
	engine := NewEngine([]string{"A", "B", "C"})

	got := engine.Compute(Input{
		Assessments: []models.AdminAssessment{
			{ID: 1, Admin: "B", Status: strPtr(models.StatusVetted), CreatedAt: t0},
			{ID: 2, Admin: "C", Status: strPtr(models.StatusOnPause), CreatedAt: t0},
		},
	})
	assert.True(t, got.ConflictFlag)
	assert.Equal(t, models.StatusVetted, got.EffectiveStatus)

	got = engine.Compute(Input{
		Assessments: []models.AdminAssessment{
			{ID: 1, Admin: "A", Status: strPtr(models.StatusVetted), CreatedAt: t0},
			{ID: 2, Admin: "C", Status: strPtr(models.StatusVetted), CreatedAt: t0},
		},
	})
	assert.False(t, got.ConflictFlag)
}

func floatPtr(v float64) *float64 { return &v }

func TestCompute_JSONCarriesPerAdminStatuses(t *testing.T) {
	got := Compute(Input{
		Partner: models.Partner{ID: 1, FullName: "Sam"},
		Assessments: []models.AdminAssessment{
			assessment(1, models.AdminRoxanne, strPtr(models.StatusVetted), nil, t0),
		},
	})

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))

	require.Contains(t, fields, "latestAllisonStatus")
	assert.Nil(t, fields["latestAllisonStatus"])
	assert.Equal(t, models.StatusVetted, fields["latestRoxanneStatus"])
	assert.Equal(t, map[string]any{"Allison": nil, "Roxanne": models.StatusVetted}, fields["latestStatuses"])
	assert.Equal(t, models.StatusVetted, fields["effectiveStatus"])
}

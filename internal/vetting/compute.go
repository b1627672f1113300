// Package vetting derives the read-only partner view (effective status,
// average rating, risk and conflict flags) from a partner's stored rows, and
// aggregates those views into the dashboard queues.
//
// Nothing here performs I/O or keeps state between calls; every read
// recomputes from the rows it is given.
package vetting

import (
	"sort"
	"strings"

	"playpartner-backend-go/internal/models"
)

// Input is one partner with all of its related rows and the global tag
// catalog. Intimacy and Logistics may be nil; the slices may be empty.
type Input struct {
	Partner     models.Partner
	Intimacy    *models.PartnerIntimacy
	Logistics   *models.PartnerLogistics
	Media       []models.PartnerMedia
	Assessments []models.AdminAssessment
	Tags        []models.Tag
}

// PartnerWithComputed is the partner row extended with its details and the
// derived fields. It is never persisted.
type PartnerWithComputed struct {
	models.Partner
	Intimacy    *models.PartnerIntimacy  `json:"intimacy"`
	Logistics   *models.PartnerLogistics `json:"logistics"`
	Media       []models.PartnerMedia    `json:"media"`
	Assessments []models.AdminAssessment `json:"assessments"`

	AvgRating *float64 `json:"avgRating"`
	// LatestStatuses holds every reviewer the engine knows; the two named
	// fields mirror it for the configured admins.
	LatestStatuses      map[string]*string `json:"latestStatuses"`
	LatestAllisonStatus *string            `json:"latestAllisonStatus"`
	LatestRoxanneStatus *string            `json:"latestRoxanneStatus"`
	EffectiveStatus     string             `json:"effectiveStatus"`
	RiskFlag            bool               `json:"riskFlag"`
	ConflictFlag        bool               `json:"conflictFlag"`
	IsBlacklisted       bool               `json:"isBlacklisted"`
}

// LatestStatus returns the status carried by the most recent assessment of
// the given admin, or nil.
func (p PartnerWithComputed) LatestStatus(admin string) *string {
	return p.LatestStatuses[admin]
}

// Engine computes partner views for an ordered set of reviewers.
type Engine struct {
	reviewers []string
}

// NewEngine returns an engine for the reviewers in priority order.
func NewEngine(reviewers []string) Engine {
	return Engine{reviewers: append([]string(nil), reviewers...)}
}

var defaultEngine = NewEngine(models.Admins)

// Compute derives the view using the configured admin identities.
func Compute(in Input) PartnerWithComputed {
	return defaultEngine.Compute(in)
}

func (e Engine) Compute(in Input) PartnerWithComputed {
	media := in.Media
	if media == nil {
		media = []models.PartnerMedia{}
	}
	assessments := in.Assessments
	if assessments == nil {
		assessments = []models.AdminAssessment{}
	}

	latest := e.latestStatuses(assessments)
	blacklisted := anyBlacklisted(assessments)

	return PartnerWithComputed{
		Partner:         in.Partner,
		Intimacy:        in.Intimacy,
		Logistics:       in.Logistics,
		Media:           media,
		Assessments:     assessments,
		AvgRating:           averageRating(assessments),
		LatestStatuses:      latest,
		LatestAllisonStatus: latest[models.AdminAllison],
		LatestRoxanneStatus: latest[models.AdminRoxanne],
		EffectiveStatus:     e.effectiveStatus(in.Partner, latest, blacklisted),
		RiskFlag:            blacklisted || hasRiskTags(in.Partner.Tags, in.Tags),
		ConflictFlag:        e.conflict(latest),
		IsBlacklisted:       blacklisted,
	}
}

func averageRating(assessments []models.AdminAssessment) *float64 {
	sum, count := 0, 0
	for _, a := range assessments {
		if a.Rating == nil {
			continue
		}
		sum += *a.Rating
		count++
	}
	if count == 0 {
		return nil
	}
	avg := float64(sum) / float64(count)
	return &avg
}

// latestStatuses takes, per reviewer, the status of that reviewer's most
// recent assessment. A statusless latest assessment yields nil even when an
// older one carried a status.
func (e Engine) latestStatuses(assessments []models.AdminAssessment) map[string]*string {
	sorted := append([]models.AdminAssessment(nil), assessments...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].ID > sorted[j].ID
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	latest := make(map[string]*string, len(e.reviewers))
	for _, reviewer := range e.reviewers {
		latest[reviewer] = nil
		for _, a := range sorted {
			if a.Admin != reviewer {
				continue
			}
			if a.Status != nil && *a.Status != "" {
				status := *a.Status
				latest[reviewer] = &status
			}
			break
		}
	}
	return latest
}

func anyBlacklisted(assessments []models.AdminAssessment) bool {
	for _, a := range assessments {
		if a.Blacklisted {
			return true
		}
	}
	return false
}

func hasRiskTags(partnerTags []string, catalog []models.Tag) bool {
	if len(partnerTags) == 0 {
		return false
	}
	risk := map[string]bool{}
	for _, tag := range catalog {
		if tag.TagGroup == models.TagGroupRisk {
			risk[strings.ToLower(tag.TagName)] = true
		}
	}
	for _, name := range partnerTags {
		if risk[strings.ToLower(name)] {
			return true
		}
	}
	return false
}

// conflict reports whether two reviewers with an opinion disagree. A missing
// opinion never counts as disagreement.
func (e Engine) conflict(latest map[string]*string) bool {
	var first *string
	for _, reviewer := range e.reviewers {
		status := latest[reviewer]
		if status == nil {
			continue
		}
		if first == nil {
			first = status
			continue
		}
		if *status != *first {
			return true
		}
	}
	return false
}

func (e Engine) effectiveStatus(partner models.Partner, latest map[string]*string, blacklisted bool) string {
	if blacklisted {
		return models.StatusDoNotEngage
	}
	for _, reviewer := range e.reviewers {
		if status := latest[reviewer]; status != nil && *status == models.StatusDoNotEngage {
			return models.StatusDoNotEngage
		}
	}
	for _, reviewer := range e.reviewers {
		if status := latest[reviewer]; status != nil {
			return *status
		}
	}
	if partner.Status != nil && *partner.Status != "" {
		return *partner.Status
	}
	return models.StatusNewProspect
}

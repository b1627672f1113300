package vetting

import "playpartner-backend-go/internal/models"

const recentPartnersLimit = 10

// Dashboard is the aggregate served by the dashboard endpoint. The lists hold
// full computed partners, newest first.
type Dashboard struct {
	TotalPartners  int                   `json:"totalPartners"`
	ActivePartners int                   `json:"activePartners"`
	VettingQueue   []PartnerWithComputed `json:"vettingQueue"`
	RiskList       []PartnerWithComputed `json:"riskList"`
	ConflictsList  []PartnerWithComputed `json:"conflictsList"`
	RecentPartners []PartnerWithComputed `json:"recentPartners"`
}

// Summarize buckets computed partners into the dashboard queues. The input
// must already be ordered newest first; every list keeps that order.
func Summarize(partners []PartnerWithComputed) Dashboard {
	d := Dashboard{
		TotalPartners:  len(partners),
		VettingQueue:   []PartnerWithComputed{},
		RiskList:       []PartnerWithComputed{},
		ConflictsList:  []PartnerWithComputed{},
		RecentPartners: []PartnerWithComputed{},
	}
	for _, p := range partners {
		switch p.EffectiveStatus {
		case models.StatusActive:
			d.ActivePartners++
		case models.StatusReadyForVetting:
			d.VettingQueue = append(d.VettingQueue, p)
		}
		if p.RiskFlag {
			d.RiskList = append(d.RiskList, p)
		}
		if p.ConflictFlag {
			d.ConflictsList = append(d.ConflictsList, p)
		}
	}
	limit := min(len(partners), recentPartnersLimit)
	d.RecentPartners = append(d.RecentPartners, partners[:limit]...)
	return d
}

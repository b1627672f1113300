package models

import "slices"

const (
	StatusNewProspect     = "New Prospect"
	StatusContacted       = "Contacted"
	StatusReadyForVetting = "Ready for Vetting"
	StatusVetted          = "Vetted"
	StatusActive          = "Active"
	StatusOnPause         = "On Pause"
	StatusRetired         = "Retired"
	StatusDoNotEngage     = "Do Not Engage"
)

// Statuses is ordered from first contact to lockout.
var Statuses = []string{
	StatusNewProspect,
	StatusContacted,
	StatusReadyForVetting,
	StatusVetted,
	StatusActive,
	StatusOnPause,
	StatusRetired,
	StatusDoNotEngage,
}

var BodyBuilds = []string{
	"Slim",
	"Average",
	"Athletic",
	"Muscular",
	"Stocky",
	"Large/Big",
	"Other",
}

const (
	TagGroupVibe      = "Vibe"
	TagGroupLogistics = "Logistics"
	TagGroupRisk      = "Risk"
	TagGroupAdmin     = "Admin"
)

var TagGroups = []string{TagGroupVibe, TagGroupLogistics, TagGroupRisk, TagGroupAdmin}

const (
	AdminAllison = "Allison"
	AdminRoxanne = "Roxanne"
)

// Admins lists the reviewer identities in priority order. When reviewers
// disagree, the earlier entry decides the effective status.
var Admins = []string{AdminAllison, AdminRoxanne}

// ReferralSources are the admins who can introduce a partner.
var ReferralSources = []string{AdminAllison, AdminRoxanne}

const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

var Roles = []string{RoleAdmin, RoleViewer}

func IsStatus(value string) bool         { return slices.Contains(Statuses, value) }
func IsBodyBuild(value string) bool      { return slices.Contains(BodyBuilds, value) }
func IsTagGroup(value string) bool       { return slices.Contains(TagGroups, value) }
func IsAdmin(value string) bool          { return slices.Contains(Admins, value) }
func IsReferralSource(value string) bool { return slices.Contains(ReferralSources, value) }
func IsRole(value string) bool           { return slices.Contains(Roles, value) }

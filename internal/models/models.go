package models

import (
	"time"

	"github.com/lib/pq"
)

type User struct {
	ID                      string     `db:"id" json:"id"`
	Email                   string     `db:"email" json:"email"`
	PasswordHash            *string    `db:"password_hash" json:"-"`
	Role                    string     `db:"role" json:"role"`
	FirstName               *string    `db:"first_name" json:"firstName"`
	LastName                *string    `db:"last_name" json:"lastName"`
	IsPasswordResetRequired bool       `db:"is_password_reset_required" json:"isPasswordResetRequired"`
	LastLoginAt             *time.Time `db:"last_login_at" json:"lastLoginAt"`
	CreatedAt               time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt               time.Time  `db:"updated_at" json:"updatedAt"`
}

type Partner struct {
	ID             int64          `db:"id" json:"id"`
	FullName       string         `db:"full_name" json:"fullName"`
	Nickname       *string        `db:"nickname" json:"nickname"`
	Height         *string        `db:"height" json:"height"`
	BodyBuild      *string        `db:"body_build" json:"bodyBuild"`
	DOB            *time.Time     `db:"dob" json:"dob"`
	City           *string        `db:"city" json:"city"`
	Status         *string        `db:"status" json:"status"`
	ReferralSource *string        `db:"referral_source" json:"referralSource"`
	Tags           pq.StringArray `db:"tags" json:"tags"`
	CreatedAt      time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updatedAt"`
}

type PartnerIntimacy struct {
	ID                       int64          `db:"id" json:"id"`
	PartnerID                int64          `db:"partner_id" json:"partnerId"`
	Kinks                    pq.StringArray `db:"kinks" json:"kinks"`
	Role                     pq.StringArray `db:"role" json:"role"`
	BedroomStyle             pq.StringArray `db:"bedroom_style" json:"bedroomStyle"`
	SexualOrientation        *string        `db:"sexual_orientation" json:"sexualOrientation"`
	RelationshipStatus       *string        `db:"relationship_status" json:"relationshipStatus"`
	AppealingCharacteristics pq.StringArray `db:"appealing_characteristics" json:"appealingCharacteristics"`
	PhallicLength            *float64       `db:"phallic_length" json:"phallicLength"`
	Notes                    *string        `db:"notes" json:"notes"`
	CreatedAt                time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt                time.Time      `db:"updated_at" json:"updatedAt"`
}

type PartnerLogistics struct {
	ID            int64     `db:"id" json:"id"`
	PartnerID     int64     `db:"partner_id" json:"partnerId"`
	DiscreetDL    bool      `db:"discreet_dl" json:"discreetDl"`
	Hosting       bool      `db:"hosting" json:"hosting"`
	Car           bool      `db:"car" json:"car"`
	StreetAddress *string   `db:"street_address" json:"streetAddress"`
	PhoneNumber   *string   `db:"phone_number" json:"phoneNumber"`
	City          *string   `db:"city" json:"city"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

type PartnerMedia struct {
	ID           int64     `db:"id" json:"id"`
	PartnerID    int64     `db:"partner_id" json:"partnerId"`
	PhotoFaceURL *string   `db:"photo_face_url" json:"photoFaceUrl"`
	PhotoBodyURL *string   `db:"photo_body_url" json:"photoBodyUrl"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// AdminAssessment is append-only; rows are never updated once written.
type AdminAssessment struct {
	ID          int64     `db:"id" json:"id"`
	PartnerID   int64     `db:"partner_id" json:"partnerId"`
	Admin       string    `db:"admin" json:"admin"`
	Status      *string   `db:"status" json:"status"`
	Rating      *int      `db:"rating" json:"rating"`
	Blacklisted bool      `db:"blacklisted" json:"blacklisted"`
	Notes       *string   `db:"notes" json:"notes"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

type Tag struct {
	ID        int64     `db:"id" json:"id"`
	TagName   string    `db:"tag_name" json:"tagName"`
	TagGroup  string    `db:"tag_group" json:"tagGroup"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

func setupMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := NewStore(sqlx.NewDb(db, "sqlmock"))
	store.Now = func() time.Time { return fixedNow }
	return store, mock
}

func partnerRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "full_name", "nickname", "height", "body_build", "dob", "city", "status", "referral_source", "tags", "created_at", "updated_at"})
}

func intimacyRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "partner_id", "kinks", "role", "bedroom_style", "sexual_orientation", "relationship_status", "appealing_characteristics", "phallic_length", "notes", "created_at", "updated_at"})
}

func logisticsRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "partner_id", "discreet_dl", "hosting", "car", "street_address", "phone_number", "city", "created_at", "updated_at"})
}

func mediaRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "partner_id", "photo_face_url", "photo_body_url", "created_at"})
}

func assessmentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "partner_id", "admin", "status", "rating", "blacklisted", "notes", "created_at", "updated_at"})
}

func tagRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "tag_name", "tag_group", "created_at"})
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "first_name", "last_name", "is_password_reset_required", "last_login_at", "created_at", "updated_at"})
}

func existsRows(exists bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"exists"}).AddRow(exists)
}

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }

package dao

import (
	"context"
	"errors"

	"historytutor/tutor/sources/psql/models"
	"historytutor/tutor/utils/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PreferenceDAO struct {
	DB *gorm.DB
}

func NewPreferenceDAO(db *gorm.DB) *PreferenceDAO {
	return &PreferenceDAO{DB: db}
}

// GetByClientID returns nil, nil when nothing is stored for the client.
func (dao *PreferenceDAO) GetByClientID(ctx context.Context, clientID string) (*models.Preference, error) {
	var pref models.Preference
	err := dao.DB.WithContext(ctx).Where("client_id = ?", clientID).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

// Upsert inserts or replaces the preference row for pref.ClientID.
func (dao *PreferenceDAO) Upsert(ctx context.Context, pref *models.Preference) error {
	return dao.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "client_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"language", "font_size", "font_family", "updated_at"}),
	}).Create(pref).Error
}

// ClientPreferences scopes the DAO to one client id.
type ClientPreferences struct {
	dao      *PreferenceDAO
	clientID string
}

func (dao *PreferenceDAO) ForClient(clientID string) *ClientPreferences {
	return &ClientPreferences{dao: dao, clientID: clientID}
}

// Load reports ok=false when nothing has been stored yet. Stored values are
// returned as-is; callers validate them.
func (c *ClientPreferences) Load(ctx context.Context) (types.Preferences, bool, error) {
	pref, err := c.dao.GetByClientID(ctx, c.clientID)
	if err != nil || pref == nil {
		return types.Preferences{}, false, err
	}
	return types.Preferences{
		Language:   types.Language(pref.Language),
		FontSize:   types.FontSize(pref.FontSize),
		FontFamily: types.FontFamily(pref.FontFamily),
	}, true, nil
}

func (c *ClientPreferences) Save(ctx context.Context, p types.Preferences) error {
	return c.dao.Upsert(ctx, &models.Preference{
		ClientID:   c.clientID,
		Language:   string(p.Language),
		FontSize:   string(p.FontSize),
		FontFamily: string(p.FontFamily),
	})
}

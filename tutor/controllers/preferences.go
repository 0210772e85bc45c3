package controllers

import (
	"context"
	"errors"
	"fmt"

	"historytutor/tutor/localization"
	"historytutor/tutor/sources/psql/dao"
	"historytutor/tutor/utils/types"
)

var ErrInvalidPreferences = errors.New("invalid preferences")

type PreferencesController struct {
	dao *dao.PreferenceDAO
}

func NewPreferencesController(prefDAO *dao.PreferenceDAO) *PreferencesController {
	return &PreferencesController{dao: prefDAO}
}

// PreferencesResponse adds the derived font classes to the stored values.
type PreferencesResponse struct {
	types.Preferences
	FontClasses localization.FontClasses `json:"fontClasses"`
}

// PreferencesUpdate carries only the fields being changed.
type PreferencesUpdate struct {
	Language   *types.Language   `json:"language"`
	FontSize   *types.FontSize   `json:"fontSize"`
	FontFamily *types.FontFamily `json:"fontFamily"`
}

func (u PreferencesUpdate) validate() error {
	if u.Language != nil && !u.Language.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalidPreferences, localization.ErrUnsupportedLanguage)
	}
	if u.FontSize != nil && !u.FontSize.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalidPreferences, localization.ErrUnsupportedFontSize)
	}
	if u.FontFamily != nil && !u.FontFamily.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalidPreferences, localization.ErrUnsupportedFontFamily)
	}
	return nil
}

func respond(p types.Preferences) PreferencesResponse {
	return PreferencesResponse{Preferences: p, FontClasses: localization.FontClassesFor(p.FontSize)}
}

// openStore loads the client's preferences over defaults whose language is
// negotiated from acceptLanguage.
func (c *PreferencesController) openStore(ctx context.Context, clientID, acceptLanguage string) (*localization.Store, error) {
	defaults := types.DefaultPreferences()
	defaults.Language = localization.NegotiateLanguage(acceptLanguage)

	s, err := localization.NewStore(c.dao.ForClient(clientID), localization.WithDefaults(defaults))
	if err != nil {
		return nil, err
	}
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (c *PreferencesController) Get(ctx context.Context, clientID, acceptLanguage string) (PreferencesResponse, error) {
	s, err := c.openStore(ctx, clientID, acceptLanguage)
	if err != nil {
		return PreferencesResponse{}, err
	}
	return respond(s.Preferences()), nil
}

// Update validates every field before saving any of them.
func (c *PreferencesController) Update(ctx context.Context, clientID, acceptLanguage string, upd PreferencesUpdate) (PreferencesResponse, error) {
	if err := upd.validate(); err != nil {
		return PreferencesResponse{}, err
	}
	s, err := c.openStore(ctx, clientID, acceptLanguage)
	if err != nil {
		return PreferencesResponse{}, err
	}
	if upd.Language != nil {
		if err := s.SetLanguage(ctx, *upd.Language); err != nil {
			return PreferencesResponse{}, err
		}
	}
	if upd.FontSize != nil {
		if err := s.SetFontSize(ctx, *upd.FontSize); err != nil {
			return PreferencesResponse{}, err
		}
	}
	if upd.FontFamily != nil {
		if err := s.SetFontFamily(ctx, *upd.FontFamily); err != nil {
			return PreferencesResponse{}, err
		}
	}
	return respond(s.Preferences()), nil
}

package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"avnu/internal/model"
)

// USStates 可选的州代码，空串表示未选择。
var USStates = []string{
	"", "AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA",
	"HI", "ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME", "MD",
	"MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH", "NJ",
	"NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC",
	"SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
}

const maxFieldLen = 200

// SettingsStore profile 偏好设置。
type SettingsStore struct {
	base
}

// Get 返回设置，未保存过时为零值。
func (s *SettingsStore) Get(ctx context.Context, profileID string) (model.ProfileSettings, error) {
	return load[model.ProfileSettings](ctx, s.base, profileID, KeyProfile)
}

// Put 整体替换设置。
func (s *SettingsStore) Put(ctx context.Context, profileID string, settings model.ProfileSettings) (model.ProfileSettings, error) {
	settings.Name = strings.TrimSpace(settings.Name)
	settings.Email = strings.TrimSpace(settings.Email)
	settings.Zip = strings.TrimSpace(settings.Zip)
	settings.State = strings.ToUpper(strings.TrimSpace(settings.State))
	if err := ValidateSettings(settings); err != nil {
		return model.ProfileSettings{}, err
	}
	return update(ctx, s.base, profileID, KeyProfile, func(cur *model.ProfileSettings) (bool, error) {
		if *cur == settings {
			return false, nil
		}
		*cur = settings
		return true, nil
	})
}

// ValidateSettings 检查州代码和字段长度。
func ValidateSettings(s model.ProfileSettings) error {
	if !slices.Contains(USStates, s.State) {
		return fmt.Errorf("%w: unknown state %q", ErrInvalidSettings, s.State)
	}
	for name, v := range map[string]string{"name": s.Name, "email": s.Email, "zip": s.Zip} {
		if utf8.RuneCountInString(v) > maxFieldLen {
			return fmt.Errorf("%w: %s too long", ErrInvalidSettings, name)
		}
	}
	return nil
}

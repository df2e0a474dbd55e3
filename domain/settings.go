package domain

import "fmt"

// Settings is the user preference document. Sections and fields are fixed.
type Settings struct {
	Notifications NotificationSettings `json:"notifications"`
	Appearance    AppearanceSettings   `json:"appearance"`
	Privacy       PrivacySettings      `json:"privacy"`
	Preferences   PreferenceSettings   `json:"preferences"`
}

type NotificationSettings struct {
	TaskReminders   bool `json:"taskReminders"`
	DailyDigest     bool `json:"dailyDigest"`
	Achievements    bool `json:"achievements"`
	StreakReminders bool `json:"streakReminders"`
}

type AppearanceSettings struct {
	Theme       string `json:"theme"`
	ColorScheme string `json:"colorScheme"`
	CompactMode bool   `json:"compactMode"`
}

type PrivacySettings struct {
	Analytics    bool `json:"analytics"`
	CrashReports bool `json:"crashReports"`
	DataSharing  bool `json:"dataSharing"`
}

type PreferenceSettings struct {
	DefaultTaskPriority Priority `json:"defaultTaskPriority"`
	TaskSortOrder       string   `json:"taskSortOrder"`
	WeekStartsOn        string   `json:"weekStartsOn"`
	TimeFormat          string   `json:"timeFormat"`
}

// Sort orders accepted by preferences.taskSortOrder.
const (
	SortCreated  = "created"
	SortPriority = "priority"
	SortDueDate  = "dueDate"
)

// Settings section names as they appear in the document.
const (
	SectionNotifications = "notifications"
	SectionAppearance    = "appearance"
	SectionPrivacy       = "privacy"
	SectionPreferences   = "preferences"
)

func DefaultSettings() Settings {
	return Settings{
		Notifications: NotificationSettings{
			TaskReminders:   true,
			DailyDigest:     true,
			Achievements:    true,
			StreakReminders: true,
		},
		Appearance: AppearanceSettings{
			Theme:       "system",
			ColorScheme: "default",
		},
		Privacy: PrivacySettings{
			Analytics:    true,
			CrashReports: true,
		},
		Preferences: PreferenceSettings{
			DefaultTaskPriority: PriorityMedium,
			TaskSortOrder:       SortCreated,
			WeekStartsOn:        "monday",
			TimeFormat:          "12h",
		},
	}
}

// Validate checks every enum field.
func (s Settings) Validate() error {
	checks := []struct {
		field   string
		value   string
		allowed []string
	}{
		{"appearance.theme", s.Appearance.Theme, []string{"light", "dark", "system"}},
		{"appearance.colorScheme", s.Appearance.ColorScheme, []string{"default", "ocean", "sunset", "forest"}},
		{"preferences.defaultTaskPriority", string(s.Preferences.DefaultTaskPriority), []string{"low", "medium", "high"}},
		{"preferences.taskSortOrder", s.Preferences.TaskSortOrder, []string{SortCreated, SortPriority, SortDueDate}},
		{"preferences.weekStartsOn", s.Preferences.WeekStartsOn, []string{"sunday", "monday"}},
		{"preferences.timeFormat", s.Preferences.TimeFormat, []string{"12h", "24h"}},
	}
	for _, c := range checks {
		if !oneOf(c.value, c.allowed) {
			return WrapError(ErrCodeInvalid, ErrInvalidSetting.Message, fmt.Errorf("%s: unsupported value %q", c.field, c.value))
		}
	}
	return nil
}

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

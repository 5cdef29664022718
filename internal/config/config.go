package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	PublicBaseURL string

	// Conversation
	TimezoneLabel     string
	TimezoneID        string
	BookingCodePrefix string

	// Slot offering
	ReferenceYear      int
	LookaheadDays      int
	BusinessStartHour  int
	BusinessEndHour    int
	SlotDurationMins   int
	FallbackSlotsPath  string
	AllowedWeekdaysCSV string

	// Google integrations
	GoogleCredentialsPath string
	GoogleCalendarID      string
	GoogleSheetID         string

	// Advisor notification
	SendGridAPIKey    string
	SendGridFromEmail string
	AdvisorEmail      string

	// Sessions
	SessionIdleMinutes int
}

// Load reads configuration from environment variables. A .env file in the
// working directory is merged in first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "https://example.com"),

		TimezoneLabel:     getEnv("TIMEZONE_LABEL", "IST"),
		TimezoneID:        getEnv("TIMEZONE", "Asia/Kolkata"),
		BookingCodePrefix: getEnv("BOOKING_CODE_PREFIX", "NL"),

		ReferenceYear:      getEnvAsInt("REFERENCE_YEAR", 2026),
		LookaheadDays:      getEnvAsInt("LOOKAHEAD_DAYS", 14),
		BusinessStartHour:  getEnvAsInt("BUSINESS_START_HOUR", 9),
		BusinessEndHour:    getEnvAsInt("BUSINESS_END_HOUR", 17),
		SlotDurationMins:   getEnvAsInt("SLOT_DURATION_MINS", 30),
		FallbackSlotsPath:  getEnv("FALLBACK_SLOTS_PATH", "data/fallback_slots.json"),
		AllowedWeekdaysCSV: getEnv("ALLOWED_WEEKDAYS", "2,3,4,5,6"),

		GoogleCredentialsPath: getEnv("GOOGLE_SERVICE_ACCOUNT_KEY_PATH", getEnv("GOOGLE_APPLICATION_CREDENTIALS", "")),
		GoogleCalendarID:      getEnv("GOOGLE_CALENDAR_ID", "primary"),
		GoogleSheetID:         getEnv("GOOGLE_SHEET_ID", ""),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		AdvisorEmail:      getEnv("ADVISOR_EMAIL", getEnv("GMAIL_USER", "")),

		SessionIdleMinutes: getEnvAsInt("SESSION_IDLE_MINUTES", 30),
	}
}

// GoogleConfigured reports whether the Google adapters have credentials.
func (c *Config) GoogleConfigured() bool {
	return c.GoogleCredentialsPath != ""
}

// AllowedWeekdays parses the ALLOWED_WEEKDAYS csv (time.Weekday numbering,
// Sunday=0). Defaults to Tuesday through Saturday on a parse failure.
func (c *Config) AllowedWeekdays() []int {
	var days []int
	start := 0
	csv := c.AllowedWeekdaysCSV
	for i := 0; i <= len(csv); i++ {
		if i == len(csv) || csv[i] == ',' {
			if i > start {
				if d, err := strconv.Atoi(csv[start:i]); err == nil && d >= 0 && d <= 6 {
					days = append(days, d)
				}
			}
			start = i + 1
		}
	}
	if len(days) == 0 {
		return []int{2, 3, 4, 5, 6}
	}
	return days
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

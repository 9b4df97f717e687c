package notifications

import "time"

// Config configures quota notifications and their delivery channels.
type Config struct {
	AppURL          string        `env:"APP_URL" envDefault:"http://localhost:8080"`
	UpgradeURL      string        `env:"UPGRADE_URL" envDefault:"/settings/billing"`
	PlansURL        string        `env:"PLANS_URL" envDefault:"/pricing"`
	BufferSize      int           `env:"NOTIFICATIONS_BUFFER_SIZE" envDefault:"16"`
	MaxBroadcasters int           `env:"NOTIFICATIONS_MAX_BROADCASTERS" envDefault:"10000"`
	MaxPerUser      int           `env:"NOTIFICATIONS_MAX_PER_USER" envDefault:"100"`
	EmailEnabled    bool          `env:"NOTIFICATIONS_EMAIL_ENABLED" envDefault:"false"`
	EmailCooldown   time.Duration `env:"NOTIFICATIONS_EMAIL_COOLDOWN" envDefault:"24h"`
}

// Links returns the billing links configured for quota notifications.
func (c Config) Links() Links {
	return Links{UpgradeURL: c.UpgradeURL, PlansURL: c.PlansURL}
}

package usage

import "time"

// Cache backends accepted by Config.CacheBackend.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config configures the usage gate.
type Config struct {
	CacheTTL     time.Duration `env:"USAGE_CACHE_TTL" envDefault:"5m"`
	CacheBackend string        `env:"USAGE_CACHE_BACKEND" envDefault:"memory"`
	RegistrySize int           `env:"USAGE_REGISTRY_SIZE" envDefault:"1000"`
	RedisPrefix  string        `env:"USAGE_REDIS_PREFIX" envDefault:"reviewsystem:usage:"`
	PolicyFile   string        `env:"USAGE_POLICY_FILE"` // optional YAML override of the default quotas
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	switch c.CacheBackend {
	case BackendMemory, BackendRedis:
		return nil
	}
	return ErrInvalidBackend
}

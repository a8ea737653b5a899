package configuration

const AppName = "bolao"

const DefaultBackendBaseURL = "http://localhost:3333"

// DefaultRevalidateSeconds is the page-generation cache window (24h).
const DefaultRevalidateSeconds = 24 * 60 * 60

const (
	CacheSnapshotKey     = "landing:counters:snapshot"
	CacheSnapshotLockKey = "landing:counters:lock"
	CacheSnapshotLockTTL = 30
	CacheAppRateLimitKey = "app:ratelimit:%s"

	RateLimitScopeForm     = "form"
	RateLimitScopeCounters = "counters"
)

// Cache provider types.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheValkey = "valkey"
)

// Backend endpoints of the pool service.
const (
	BackendUsersCountPath   = "/users/count"
	BackendPoolsCountPath   = "/pools/count"
	BackendGuessesCountPath = "/guesses/count"
	BackendPoolsPath        = "/pools"
)

var ArrayConfigFields = []string{
	"app.allowed_origins",
	"app.trusted_proxies",
	"cache.redis.hosts",
	"cache.valkey.hosts",
}

var ConfigFileSearchPaths = []string{
	"./config.yaml",
	"templates/config.yaml",
}

// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	AWS           AWSConfig           `mapstructure:"aws"`
	Store         StoreConfig         `mapstructure:"store"`
	Queue         QueueConfig         `mapstructure:"queue"`
	Rules         RulesConfig         `mapstructure:"rules"`
	Sweep         SweepConfig         `mapstructure:"sweep"`
	Reconcile     ReconcileConfig     `mapstructure:"reconcile"`
	Consumer      ConsumerConfig      `mapstructure:"consumer"`
	RoleAuthority RoleAuthorityConfig `mapstructure:"role_authority"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Schedule      ScheduleConfig      `mapstructure:"schedule"`
	Alerts        AlertsConfig        `mapstructure:"alerts"`
	Logging       LoggingConfig       `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type AWSConfig struct {
	Region string `mapstructure:"region"`
}

// StoreConfig points at the preference table.
type StoreConfig struct {
	TableName string `mapstructure:"table_name"`
}

// QueueConfig holds the dispatch queue settings.
type QueueConfig struct {
	URL             string `mapstructure:"url"`
	WaitTimeSeconds int    `mapstructure:"wait_time_seconds"`
	MaxMessages     int    `mapstructure:"max_messages"`
}

// RulesConfig drives the trigger rule rebuild job.
type RulesConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Cron            string `mapstructure:"cron"`
	SearchWorkerARN string `mapstructure:"search_worker_arn"`
	ProtectedMarker string `mapstructure:"protected_marker"`
	DailyHour       int    `mapstructure:"daily_hour"`
	LockKey         string `mapstructure:"lock_key"`
	LockTTL         int    `mapstructure:"lock_ttl"` // milliseconds
	Timeout         int    `mapstructure:"timeout"`  // milliseconds
}

// SweepConfig drives the scan-and-dispatch job.
type SweepConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Cron          string `mapstructure:"cron"`
	DailyHour     int    `mapstructure:"daily_hour"`
	Concurrency   int    `mapstructure:"concurrency"`
	Timeout       int    `mapstructure:"timeout"`        // milliseconds
	RecordTimeout int    `mapstructure:"record_timeout"` // milliseconds
}

// ReconcileConfig drives the orphaned-preference cleanup job.
type ReconcileConfig struct {
	Enabled         bool     `mapstructure:"enabled"`
	Cron            string   `mapstructure:"cron"`
	Concurrency     int      `mapstructure:"concurrency"`
	AuthorizedRoles []string `mapstructure:"authorized_roles"`
	Timeout         int      `mapstructure:"timeout"`        // milliseconds
	RecordTimeout   int      `mapstructure:"record_timeout"` // milliseconds
}

// ConsumerConfig drives the queue consumer loop.
type ConsumerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	RecordTimeout int  `mapstructure:"record_timeout"` // milliseconds
	ErrorPause    int  `mapstructure:"error_pause"`    // milliseconds
}

// RoleAuthorityConfig points at the external role authority API.
type RoleAuthorityConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ScheduleConfig fixes the wall-clock zone schedules are evaluated in.
type ScheduleConfig struct {
	UTCOffsetHours int `mapstructure:"utc_offset_hours"`
}

// AlertsConfig holds run-failure notification settings.
type AlertsConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	TopicARN string `mapstructure:"topic_arn"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

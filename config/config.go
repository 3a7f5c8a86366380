package config

// Config is a snapshot of every setting the application needs. It is built
// once at process start with FromEnv and handed to app.New; services never
// read configuration on their own.
type Config struct {
	Env       string
	Port      string
	SecretKey string
	LogFile   string
	GRPCPort  string

	RateLimitPerMinute int
	MaxBodyBytes       int64
	// CORSOrigins lists allowed browser origins; "*" allows any.
	CORSOrigins []string

	Database DatabaseConfig
	Session  SessionConfig
	Redis    RedisConfig
	Storage  StorageConfig
}

type DatabaseConfig struct {
	Driver string
	DSN    string
	// MaxOpenConns of 0 keeps the pool default.
	MaxOpenConns int
}

type SessionConfig struct {
	Driver     string // memory | redis
	CookieName string
	TTLSeconds int
	Secure     bool
}

type RedisConfig struct {
	Addr     string
	Password string
}

type StorageConfig struct {
	Disk      string // local | s3
	LocalRoot string
	URL       string
	S3        S3Config
}

type S3Config struct {
	Bucket   string
	Region   string
	Key      string
	Secret   string
	Endpoint string
	URL      string
}

// FromEnv loads the config files and environment into a Config.
func FromEnv() (Config, error) {
	if err := Load(); err != nil {
		return Config{}, err
	}

	return Config{
		Env:                AppEnv(),
		Port:               AppPort(),
		SecretKey:          SecretKey(),
		LogFile:            LogFile(),
		GRPCPort:           GRPCPort(),
		RateLimitPerMinute: RateLimitPerMinute(),
		MaxBodyBytes:       int64(GetInt("MAX_BODY_BYTES", 4<<20)),
		CORSOrigins:        CORSOrigins(),
		Database: DatabaseConfig{
			Driver:       DatabaseDriver(),
			DSN:          DatabaseDSN(),
			MaxOpenConns: GetInt("DB_MAX_OPEN_CONNS", 25),
		},
		Session: SessionConfig{
			Driver:     SessionDriver(),
			CookieName: Get("SESSION_COOKIE", "grocery_session"),
			TTLSeconds: int(SessionTTL().Seconds()),
			Secure:     IsProduction(),
		},
		Redis: RedisConfig{
			Addr:     RedisAddr(),
			Password: RedisPassword(),
		},
		Storage: StorageConfig{
			Disk:      StorageDefault(),
			LocalRoot: StorageLocalRoot(),
			URL:       StorageURL(),
			S3: S3Config{
				Bucket:   StorageS3Bucket(),
				Region:   StorageS3Region(),
				Key:      StorageS3Key(),
				Secret:   StorageS3Secret(),
				Endpoint: StorageS3Endpoint(),
				URL:      StorageS3URL(),
			},
		},
	}, nil
}

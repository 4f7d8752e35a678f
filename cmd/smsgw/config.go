package main

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/rendau/smsgw/gwTools"
	"github.com/spf13/viper"
)

type ConfSt struct {
	Debug    bool   `mapstructure:"DEBUG"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	SmsUrl         string        `mapstructure:"SMS_URL"`
	SmsNamespace   string        `mapstructure:"SMS_NAMESPACE"`
	SmsAccount     string        `mapstructure:"SMS_ACCOUNT"`
	SmsPassword    string        `mapstructure:"SMS_PASSWORD"`
	SmsTimeout     time.Duration `mapstructure:"SMS_TIMEOUT"`
	SmsPhoneRegion string        `mapstructure:"SMS_PHONE_REGION"`
	SmsLogHttp     bool          `mapstructure:"SMS_LOG_HTTP"`

	// basic auth in front of the soap endpoint, off when user is empty
	SmsHttpUser     string `mapstructure:"SMS_HTTP_USER"`
	SmsHttpPassword string `mapstructure:"SMS_HTTP_PASSWORD"`

	RedisUrl       string        `mapstructure:"REDIS_URL"`
	RedisPsw       string        `mapstructure:"REDIS_PSW"`
	RedisDb        int           `mapstructure:"REDIS_DB"`
	RedisKeyPfx    string        `mapstructure:"REDIS_KEY_PREFIX"`
	StatusCacheTtl time.Duration `mapstructure:"STATUS_CACHE_TTL"`

	PgDsn string `mapstructure:"PG_DSN"`

	HttpListen      string `mapstructure:"HTTP_LISTEN"`
	HttpCorsOrigins string `mapstructure:"HTTP_CORS_ORIGINS"`
}

var defaultConf = ConfSt{
	LogLevel:       "info",
	SmsTimeout:     30 * time.Second,
	SmsPhoneRegion: gwTools.DefaultPhoneRegion,
	RedisKeyPfx:    "smsgw_",
	StatusCacheTtl: time.Minute,
	HttpListen:     ":8080",
}

// loadConf reads .env (optional) and the environment.
func loadConf(envFiles ...string) (*ConfSt, error) {
	_ = godotenv.Load(envFiles...)

	viper.AutomaticEnv()

	gwTools.SetViperDefaultsFromObj(defaultConf)

	conf := &ConfSt{}

	err := viper.Unmarshal(conf)
	if err != nil {
		return nil, err
	}

	return conf, nil
}

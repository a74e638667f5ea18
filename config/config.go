package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Auth     Auth
	Redis    Redis
	Scoring  Scoring
}

type Server struct {
	Port string
}
type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type Auth struct {
	JWTSecret string
	JWTIssuer string
	TokenTTLH int // access token lifetime in hours
}

type Redis struct {
	Addr     string
	Password string
}

// Scoring holds the single authoritative pass threshold. Every call site
// (scorer, retake gate, certificate aggregation) reads this value.
type Scoring struct {
	PassThresholdPercent   int
	ViolationRestartDelayS int
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("JWT_ISSUER", "ocelots-api")
	viper.SetDefault("JWT_TTL_HOURS", 24)
	viper.SetDefault("PASS_THRESHOLD_PERCENT", 40)
	viper.SetDefault("VIOLATION_RESTART_DELAY_SECONDS", 2)

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Auth.JWTSecret = viper.GetString("JWT_SECRET")
	config.Auth.JWTIssuer = viper.GetString("JWT_ISSUER")
	config.Auth.TokenTTLH = viper.GetInt("JWT_TTL_HOURS")

	config.Redis.Addr = viper.GetString("REDIS_ADDR")
	config.Redis.Password = viper.GetString("REDIS_PASSWORD")

	config.Scoring.PassThresholdPercent = viper.GetInt("PASS_THRESHOLD_PERCENT")
	config.Scoring.ViolationRestartDelayS = viper.GetInt("VIOLATION_RESTART_DELAY_SECONDS")

	log.Info().Str("port", config.Server.Port).Int("pass_threshold", config.Scoring.PassThresholdPercent).Msg("Config loaded")
	return &config, nil
}

package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/accountkeeper/internal/flagx"
	"github.com/dmitrijs2005/accountkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON config file. Durations use
// timex.Duration so both "15m" and integer nanoseconds are accepted.
// Pointer fields distinguish "absent" from an explicit zero.
type JsonConfig struct {
	EndpointAddrHTTP               string          `json:"endpoint_addr_http"`
	Storage                        string          `json:"storage"`
	DatabaseDSN                    string          `json:"database_dsn"`
	RunMigrations                  *bool           `json:"run_migrations"`
	AccessTokenSecret              string          `json:"access_token_secret"`
	RefreshTokenSecret             string          `json:"refresh_token_secret"`
	AccessTokenValidityDuration    *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDays       *int            `json:"refresh_token_validity_days"`
	VerifyEmailTokenValidityHours  *int            `json:"verify_email_token_validity_hours"`
	ResetPasswordTokenValidityDays *int            `json:"reset_password_token_validity_days"`
	BcryptCost                     *int            `json:"bcrypt_cost"`
	VerifyEmailURL                 string          `json:"verify_email_url"`
	ForgotPasswordURL              string          `json:"forgot_password_url"`
	MailProvider                   string          `json:"mail_provider"`
	MailFrom                       string          `json:"mail_from"`
	AWSRegion                      string          `json:"aws_region"`
	AWSAccessKeyID                 string          `json:"aws_access_key_id"`
	AWSSecretAccessKey             string          `json:"aws_secret_access_key"`
	ResendAPIKey                   string          `json:"resend_api_key"`
	LogBackend                     string          `json:"log_backend"`
	LogLevel                       string          `json:"log_level"`
	TokenSweepInterval             *timex.Duration `json:"token_sweep_interval"`
}

// parseJson loads the file named by -c/-config, if any, and copies every
// field present in it into config. Unreadable files and invalid JSON panic.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.Storage, c.Storage)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.AccessTokenSecret, c.AccessTokenSecret)
	setString(&config.RefreshTokenSecret, c.RefreshTokenSecret)
	setString(&config.VerifyEmailURL, c.VerifyEmailURL)
	setString(&config.ForgotPasswordURL, c.ForgotPasswordURL)
	setString(&config.MailProvider, c.MailProvider)
	setString(&config.MailFrom, c.MailFrom)
	setString(&config.AWSRegion, c.AWSRegion)
	setString(&config.AWSAccessKeyID, c.AWSAccessKeyID)
	setString(&config.AWSSecretAccessKey, c.AWSSecretAccessKey)
	setString(&config.ResendAPIKey, c.ResendAPIKey)
	setString(&config.LogBackend, c.LogBackend)
	setString(&config.LogLevel, c.LogLevel)

	setValue(&config.RunMigrations, c.RunMigrations)
	setValue(&config.RefreshTokenValidityDays, c.RefreshTokenValidityDays)
	setValue(&config.VerifyEmailTokenValidityHours, c.VerifyEmailTokenValidityHours)
	setValue(&config.ResetPasswordTokenValidityDays, c.ResetPasswordTokenValidityDays)
	setValue(&config.BcryptCost, c.BcryptCost)

	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.TokenSweepInterval != nil {
		config.TokenSweepInterval = c.TokenSweepInterval.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setValue[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

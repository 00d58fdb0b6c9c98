package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string    HTTP bind address (e.g., ":3333")
//	-d string    PostgreSQL DSN
//	-st string   storage backend: postgres or memory
//	-s string    access token HMAC secret
//	-rs string   refresh token HMAC secret
//	-t int       access token validity, minutes
//	-r int       refresh token validity, days
//	-mp string   mail provider: log, ses or resend
//	-l string    log level
//
// Only the flags above are kept from os.Args (flagx.FilterArgs), so flags
// meant for other components do not collide.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-st", "-s", "-rs", "-t", "-r", "-mp", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.Storage, "st", config.Storage, "storage backend (postgres|memory)")
	fs.StringVar(&config.AccessTokenSecret, "s", config.AccessTokenSecret, "access token secret")
	fs.StringVar(&config.RefreshTokenSecret, "rs", config.RefreshTokenSecret, "refresh token secret")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	fs.IntVar(&config.RefreshTokenValidityDays, "r", config.RefreshTokenValidityDays, "refresh_token_validity (in days)")

	fs.StringVar(&config.MailProvider, "mp", config.MailProvider, "mail provider (log|ses|resend)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
}

package config

import (
	"flag"
	"time"

	"github.com/yamdb/yamdb/internal/flagx"
)

// parseFlags overlays selected fields from command-line flags.
//
//	-a string   HTTP bind address (e.g. ":8000")
//	-d string   PostgreSQL DSN
//	-s string   secret key
//	-t int      access token validity, minutes
//	-k int      confirmation code timeout, minutes
//	-o          single-use confirmation codes
//	-p int      default page size
//	-m string   mail backend ("file" or "smtp")
//	-l string   log level
//
// Only the flags above are parsed; the rest of os.Args is left to others.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, flagx.Spec{
		Value: []string{"-a", "-d", "-s", "-t", "-k", "-p", "-m", "-l"},
		Bool:  []string{"-o"},
	})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	accessTTL := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	codeTimeout := fs.Int("k", int(config.ConfirmationCodeTimeout.Minutes()), "confirmation code timeout (in minutes)")
	fs.BoolVar(&config.SingleUseCodes, "o", config.SingleUseCodes, "invalidate a confirmation code after a successful exchange")
	fs.IntVar(&config.PageSize, "p", config.PageSize, "default page size")
	fs.StringVar(&config.MailBackend, "m", config.MailBackend, "mail backend (file|smtp)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Durations are only touched when given, so finer values from JSON or
	// the environment survive the minute granularity of the flags.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenValidityDuration = time.Duration(*accessTTL) * time.Minute
		case "k":
			config.ConfirmationCodeTimeout = time.Duration(*codeTimeout) * time.Minute
		}
	})
	return nil
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// loadDotEnv exports variables from path into the process environment.
// Variables already set win over the file; a missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// parseEnv overlays values from environment variables.
//
//	HTTP_ADDR, DATABASE_DSN, SECRET_KEY, LOG_LEVEL
//	ACCESS_TOKEN_TTL, CONFIRMATION_CODE_TIMEOUT   Go durations ("24h")
//	SINGLE_USE_CODES                              bool
//	ALLOWED_HOSTS                                 comma separated
//	PAGE_SIZE
//	MAIL_BACKEND, MAIL_DIR, MAIL_FROM, MAIL_SUBJECT
//	SMTP_HOST, SMTP_PORT, SMTP_USERNAME, SMTP_PASSWORD
func parseEnv(config *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("HTTP_ADDR", &config.HTTPAddr)
	str("DATABASE_DSN", &config.DatabaseDSN)
	str("SECRET_KEY", &config.SecretKey)
	str("LOG_LEVEL", &config.LogLevel)
	str("MAIL_BACKEND", &config.MailBackend)
	str("MAIL_DIR", &config.MailDir)
	str("MAIL_FROM", &config.MailFrom)
	str("MAIL_SUBJECT", &config.MailSubject)
	str("SMTP_HOST", &config.SMTPHost)
	str("SMTP_USERNAME", &config.SMTPUsername)
	str("SMTP_PASSWORD", &config.SMTPPassword)

	durations := map[string]*time.Duration{
		"ACCESS_TOKEN_TTL":          &config.AccessTokenValidityDuration,
		"CONFIRMATION_CODE_TIMEOUT": &config.ConfirmationCodeTimeout,
	}
	for key, dst := range durations {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("bad %s: %w", key, err)
			}
			*dst = d
		}
	}

	ints := map[string]*int{
		"PAGE_SIZE": &config.PageSize,
		"SMTP_PORT": &config.SMTPPort,
	}
	for key, dst := range ints {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("bad %s: %w", key, err)
			}
			*dst = n
		}
	}

	if v, ok := lookup("SINGLE_USE_CODES"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("bad SINGLE_USE_CODES: %w", err)
		}
		config.SingleUseCodes = b
	}

	if v, ok := lookup("ALLOWED_HOSTS"); ok && v != "" {
		config.AllowedHosts = splitList(v)
	}

	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

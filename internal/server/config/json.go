package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/yamdb/yamdb/internal/flagx"
	"github.com/yamdb/yamdb/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Durations accept "24h" style
// strings or integer nanoseconds. Absent fields leave the current value.
type JsonConfig struct {
	HTTPAddr                    *string         `json:"http_addr"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	SecretKey                   *string         `json:"secret_key"`
	LogLevel                    *string         `json:"log_level"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	ConfirmationCodeTimeout     *timex.Duration `json:"confirmation_code_timeout"`
	SingleUseCodes              *bool           `json:"single_use_codes"`
	AllowedHosts                []string        `json:"allowed_hosts"`
	PageSize                    *int            `json:"page_size"`
	MailBackend                 *string         `json:"mail_backend"`
	MailDir                     *string         `json:"mail_dir"`
	MailFrom                    *string         `json:"mail_from"`
	MailSubject                 *string         `json:"mail_subject"`
	SMTPHost                    *string         `json:"smtp_host"`
	SMTPPort                    *int            `json:"smtp_port"`
	SMTPUsername                *string         `json:"smtp_username"`
	SMTPPassword                *string         `json:"smtp_password"`
}

// parseJson overlays values from the file named by -c/-config, if any.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogLevel, c.LogLevel)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.ConfirmationCodeTimeout != nil {
		config.ConfirmationCodeTimeout = c.ConfirmationCodeTimeout.Duration
	}
	if c.SingleUseCodes != nil {
		config.SingleUseCodes = *c.SingleUseCodes
	}
	if c.AllowedHosts != nil {
		config.AllowedHosts = c.AllowedHosts
	}
	if c.PageSize != nil {
		config.PageSize = *c.PageSize
	}
	setString(&config.MailBackend, c.MailBackend)
	setString(&config.MailDir, c.MailDir)
	setString(&config.MailFrom, c.MailFrom)
	setString(&config.MailSubject, c.MailSubject)
	setString(&config.SMTPHost, c.SMTPHost)
	if c.SMTPPort != nil {
		config.SMTPPort = *c.SMTPPort
	}
	setString(&config.SMTPUsername, c.SMTPUsername)
	setString(&config.SMTPPassword, c.SMTPPassword)

	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

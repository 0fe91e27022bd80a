package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config aggregates every runtime setting of the service.
type Config struct {
	Server ServerConfig
	Mail   MailConfig
	Upload UploadConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	mail, err := loadMailConfig()
	if err != nil {
		return nil, err
	}

	upload, err := loadUploadConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Mail: mail, Upload: upload}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr        string
	Port        string
	Environment string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	addr := port
	if !strings.Contains(port, ":") {
		// Allow both ":8080" style addresses and bare port numbers.
		addr = ":" + port
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		// Earlier deploy manifests set NODE_ENV; keep honoring it.
		env = strings.TrimSpace(os.Getenv("NODE_ENV"))
	}
	if env == "" {
		env = "development"
	}

	return ServerConfig{Addr: addr, Port: strings.TrimPrefix(addr, ":"), Environment: env}, nil
}

// MailConfig describes the SMTP relay used for registration notifications.
type MailConfig struct {
	Host     string
	Port     int
	Secure   bool
	Username string
	Password string
	From     string
	To       string
	Timeout  time.Duration
}

func loadMailConfig() (MailConfig, error) {
	host := strings.TrimSpace(os.Getenv("MAIL_HOST"))
	if host == "" {
		return MailConfig{}, fmt.Errorf("MAIL_HOST is required")
	}

	port := 587
	if override, err := parseOptionalIntEnv("MAIL_PORT"); err != nil {
		return MailConfig{}, err
	} else if override != nil {
		if *override < 1 || *override > 65535 {
			return MailConfig{}, fmt.Errorf("invalid MAIL_PORT value: %d", *override)
		}
		port = *override
	}

	secure, err := parseBoolEnv("MAIL_SECURE", false)
	if err != nil {
		return MailConfig{}, err
	}

	to := strings.TrimSpace(os.Getenv("MAIL_TO"))
	if to == "" {
		return MailConfig{}, fmt.Errorf("MAIL_TO is required")
	}

	user := strings.TrimSpace(os.Getenv("MAIL_USER"))
	from := getEnvOrDefault("MAIL_FROM", user)
	if from == "" {
		return MailConfig{}, fmt.Errorf("MAIL_FROM or MAIL_USER is required")
	}

	timeoutSeconds := 15
	if override, err := parseOptionalIntEnv("MAIL_TIMEOUT"); err != nil {
		return MailConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return MailConfig{}, fmt.Errorf("invalid MAIL_TIMEOUT value: %d", *override)
		}
		timeoutSeconds = *override
	}

	return MailConfig{
		Host:     host,
		Port:     port,
		Secure:   secure,
		Username: user,
		Password: os.Getenv("MAIL_PASS"),
		From:     from,
		To:       to,
		Timeout:  time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

// UploadConfig describes the receipt staging area.
type UploadConfig struct {
	Dir      string
	MaxBytes int64
	TTL      time.Duration
}

func loadUploadConfig() (UploadConfig, error) {
	dir := getEnvOrDefault("UPLOAD_DIR", filepath.Join(os.TempDir(), "receipts"))

	maxBytes := int64(10 << 20)
	if override, err := parseOptionalIntEnv("UPLOAD_MAX_BYTES"); err != nil {
		return UploadConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return UploadConfig{}, fmt.Errorf("invalid UPLOAD_MAX_BYTES value: %d", *override)
		}
		maxBytes = int64(*override)
	}

	ttlSeconds := 3600
	if override, err := parseOptionalIntEnv("UPLOAD_TTL"); err != nil {
		return UploadConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return UploadConfig{}, fmt.Errorf("invalid UPLOAD_TTL value: %d", *override)
		}
		ttlSeconds = *override
	}

	return UploadConfig{
		Dir:      dir,
		MaxBytes: maxBytes,
		TTL:      time.Duration(ttlSeconds) * time.Second,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

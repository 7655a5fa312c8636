package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultEnvFilename is the dotenv file read when no other is given.
const DefaultEnvFilename = ".env"

// Credentials are the account secrets read once from the process environment.
// They are never written back anywhere and String masks them.
type Credentials struct {
	// Username is the extranet login name.
	Username string `env:"BOOKING_USERNAME"`
	// Password is the extranet password.
	Password string `env:"BOOKING_PASSWORD"`
	// TOTPSecret is the optional Base32 shared secret of the Pulse authenticator.
	// When empty the 2FA code is entered manually.
	TOTPSecret string `env:"PULSE_TOTP_SECRET"`
}

var (
	// ErrMissingUsername indicates that BOOKING_USERNAME is not set.
	ErrMissingUsername = errors.New("BOOKING_USERNAME is not set")
	// ErrMissingPassword indicates that BOOKING_PASSWORD is not set.
	ErrMissingPassword = errors.New("BOOKING_PASSWORD is not set")
)

// LoadCredentials loads an optional dotenv file into the process environment
// and parses the credentials from it. Variables already present in the environment win.
func LoadCredentials(envFilename string) (*Credentials, error) {
	if err := loadEnvFile(envFilename); err != nil {
		return nil, err
	}

	return ParseCredentials(env.ToMap(os.Environ()))
}

// ParseCredentials parses the credentials from the given environment.
func ParseCredentials(environment map[string]string) (*Credentials, error) {
	var creds Credentials
	if err := env.ParseWithOptions(&creds, env.Options{Environment: environment}); err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}

	creds.Username = strings.TrimSpace(creds.Username)
	creds.TOTPSecret = strings.TrimSpace(creds.TOTPSecret)

	if creds.Username == "" {
		return nil, ErrMissingUsername
	}

	if creds.Password == "" {
		return nil, ErrMissingPassword
	}

	return &creds, nil
}

// String implements fmt.Stringer without leaking secrets.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{Username: %s, Password: %s, TOTPSecret: %s}",
		c.Username, mask(c.Password), mask(c.TOTPSecret))
}

// GoString implements fmt.GoStringer so %#v is masked as well.
func (c Credentials) GoString() string {
	return c.String()
}

func loadEnvFile(filename string) error {
	isDefaultFile := filename == ""
	if isDefaultFile {
		filename = DefaultEnvFilename
	}

	err := godotenv.Load(filename)
	if err == nil {
		return nil
	}

	if isDefaultFile && errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("failed to load env file %s: %w", filename, err)
}

func mask(value string) string {
	if value == "" {
		return "<empty>"
	}

	return "<redacted>"
}

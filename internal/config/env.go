package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"golang.org/x/term"

	"github.com/AlexZinkM/event-registration/internal/common"
)

// Config contains all configuration parameters for the application.
// Note: the document passphrase is prompted at runtime when DOCUMENT_PASSPHRASE is unset - use GetDocumentPassphraseBytes()
type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	EventName     string `envconfig:"EVENT_NAME" default:"Festa Turma ITA 90"`
	EventDate     string `envconfig:"EVENT_DATE"`
	EventLocation string `envconfig:"EVENT_LOCATION"`

	RosterFilePath string `envconfig:"ROSTER_FILE_PATH" default:"participants.csv"`
	RosterEncoding string `envconfig:"ROSTER_ENCODING" default:"utf-8"`
	DataDir        string `envconfig:"DATA_DIR" default:"./data"`

	PIXKey          string `envconfig:"PIX_KEY" required:"true"`
	PIXMerchantName string `envconfig:"PIX_MERCHANT_NAME" required:"true"`
	PIXCity         string `envconfig:"PIX_CITY" required:"true"`
	QRModulePixels  int    `envconfig:"QR_MODULE_PIXELS" default:"10"`

	PriceUnder5          decimal.Decimal `envconfig:"PRICE_UNDER_5" default:"0"`
	Price5To12           decimal.Decimal `envconfig:"PRICE_5_TO_12" default:"37.50"`
	PriceAbove12         decimal.Decimal `envconfig:"PRICE_ABOVE_12" default:"75.00"`
	MaxGuestsPerCategory int             `envconfig:"MAX_GUESTS_PER_CATEGORY" default:"10"`

	VisitsEnabled      bool   `envconfig:"VISITS_ENABLED" default:"false"`
	MaxCompanions      int    `envconfig:"MAX_COMPANIONS" default:"10"`
	DocumentPassphrase string `envconfig:"DOCUMENT_PASSPHRASE"`

	AdminPassword string `envconfig:"ADMIN_PASSWORD"`
	ExportEnabled bool   `envconfig:"EXPORT_ENABLED" default:"true"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	cfg = c
	return nil
}

// Validate checks values envconfig cannot express with tags.
func (c *Config) Validate() error {
	for name, price := range map[string]decimal.Decimal{
		"PRICE_UNDER_5":  c.PriceUnder5,
		"PRICE_5_TO_12":  c.Price5To12,
		"PRICE_ABOVE_12": c.PriceAbove12,
	} {
		if price.IsNegative() {
			return fmt.Errorf("%s must not be negative", name)
		}
		if !price.Equal(price.Round(common.BRLDecimals)) {
			return fmt.Errorf("%s must have at most 2 decimals", name)
		}
	}
	if c.MaxGuestsPerCategory < 1 {
		return errors.New("MAX_GUESTS_PER_CATEGORY must be at least 1")
	}
	if c.MaxCompanions < 0 {
		return errors.New("MAX_COMPANIONS must not be negative")
	}
	if c.QRModulePixels < 1 {
		return errors.New("QR_MODULE_PIXELS must be at least 1")
	}
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// ConfirmationsPath returns the confirmations CSV location
func (c *Config) ConfirmationsPath() string {
	return filepath.Join(c.DataDir, "confirmations.csv")
}

// VisitsPath returns the visits CSV location
func (c *Config) VisitsPath() string {
	return filepath.Join(c.DataDir, "visits.csv")
}

// VisitsKeyPath returns the key file sealing visitor documents
func (c *Config) VisitsKeyPath() string {
	return filepath.Join(c.DataDir, "visits.key")
}

var passphraseBytes []byte

// PromptForPassphrase reads the document passphrase from DOCUMENT_PASSPHRASE or,
// when unset, prompts for it in the terminal without echo. It is kept in memory.
// Call this at startup before the server begins handling requests.
func PromptForPassphrase() error {
	if p := Get().DocumentPassphrase; p != "" {
		passphraseBytes = []byte(p)
		return nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("stdin is not a terminal: set DOCUMENT_PASSPHRASE or run the app interactively")
	}
	fmt.Fprint(os.Stderr, "Enter document passphrase: ")
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("failed to read passphrase: %w", err)
	}
	if len(raw) == 0 {
		return errors.New("passphrase cannot be empty")
	}

	passphraseBytes = make([]byte, len(raw))
	copy(passphraseBytes, raw)
	clear(raw)
	return nil
}

// GetDocumentPassphraseBytes returns the passphrase stored in memory (from PromptForPassphrase).
// Returns an error if the passphrase was not set.
// Caller must zero the returned slice after use for security.
func GetDocumentPassphraseBytes() ([]byte, error) {
	if len(passphraseBytes) == 0 {
		return nil, errors.New("passphrase not set: call PromptForPassphrase at startup")
	}
	out := make([]byte, len(passphraseBytes))
	copy(out, passphraseBytes)
	return out, nil
}

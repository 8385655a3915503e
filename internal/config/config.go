package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/garagebill/garagebill/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Company    CompanyConfig    `validate:"required"`
	Invoice    InvoiceConfig    `validate:"required"`
	Resources  ResourcesConfig
	Delivery   DeliveryConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

// CompanyConfig is the static business identity printed on every invoice.
// Immutable per render.
type CompanyConfig struct {
	Name            string `validate:"required"`
	Website         string
	ContactChannels []string
}

type InvoiceConfig struct {
	// DefaultVATRate is a 0-1 fraction applied when the source record
	// carries no VAT rate of its own.
	DefaultVATRate float64 `mapstructure:"default_vat_rate" validate:"gte=0,lte=1"`
	Currency       string  `validate:"required"`
}

// ResourcesConfig points at the optional page background template and logo.
// Load failures degrade to a blank background, so none of these are required.
type ResourcesConfig struct {
	TemplateURL string `mapstructure:"template_url"`
	LogoURL     string `mapstructure:"logo_url"`
}

type DeliveryConfig struct {
	// OutputDir is where the desktop save path writes finished documents.
	OutputDir string `mapstructure:"output_dir"`
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/garagebill")

	v.SetEnvPrefix("GARAGEBILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	}

	config := GetDefaultConfig()
	if err := v.Unmarshal(config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development.
// This is useful for running scripts and tests without a config file.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Company: CompanyConfig{
			Name:            "GarageBill Motors",
			Website:         "www.garagebill.example",
			ContactChannels: []string{"0151 000 0000", "bookings@garagebill.example"},
		},
		Invoice: InvoiceConfig{
			DefaultVATRate: 0.2,
			Currency:       "gbp",
		},
		Delivery: DeliveryConfig{OutputDir: "."},
	}
}

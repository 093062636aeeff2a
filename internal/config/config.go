package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Checkout  CheckoutConfig
	AI        AIConfig
	Printer   PrinterConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Scheduler SchedulerConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

// CheckoutConfig holds the knobs of the payment state machine. The simulated
// delays mirror the acquirer/PSP round trips of a real deployment.
type CheckoutConfig struct {
	ManagerPasscode   string
	CountdownTicks    int
	CountdownTick     time.Duration
	PixConfirmDelay   time.Duration
	PixFinalizeDelay  time.Duration
	CardAuthDelay     time.Duration
	CardFinalizeDelay time.Duration
	FiscalDelay       time.Duration
	AbandonErrorClear time.Duration
}

type AIConfig struct {
	APIKey string
}

type PrinterConfig struct {
	Type    string
	USBPath string
	Address string
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type SchedulerConfig struct {
	SummarySpec string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "superpos-terminal")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("MANAGER_PASSCODE", "1234")
	viper.SetDefault("CHECKOUT_COUNTDOWN_TICKS", 30)
	viper.SetDefault("CHECKOUT_COUNTDOWN_TICK_MS", 1000)
	viper.SetDefault("PIX_CONFIRM_DELAY_MS", 6000)
	viper.SetDefault("PIX_FINALIZE_DELAY_MS", 2000)
	viper.SetDefault("CARD_AUTH_DELAY_MS", 4500)
	viper.SetDefault("CARD_FINALIZE_DELAY_MS", 2000)
	viper.SetDefault("FISCAL_DELAY_MS", 3000)
	viper.SetDefault("ABANDON_ERROR_CLEAR_MS", 2000)
	viper.SetDefault("AI_API_KEY", "")
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_USB_PATH", "")
	viper.SetDefault("PRINTER_ADDRESS", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("SALES_SUMMARY_CRON", "0 * * * *")

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Checkout: CheckoutConfig{
			ManagerPasscode:   viper.GetString("MANAGER_PASSCODE"),
			CountdownTicks:    viper.GetInt("CHECKOUT_COUNTDOWN_TICKS"),
			CountdownTick:     time.Duration(viper.GetInt("CHECKOUT_COUNTDOWN_TICK_MS")) * time.Millisecond,
			PixConfirmDelay:   time.Duration(viper.GetInt("PIX_CONFIRM_DELAY_MS")) * time.Millisecond,
			PixFinalizeDelay:  time.Duration(viper.GetInt("PIX_FINALIZE_DELAY_MS")) * time.Millisecond,
			CardAuthDelay:     time.Duration(viper.GetInt("CARD_AUTH_DELAY_MS")) * time.Millisecond,
			CardFinalizeDelay: time.Duration(viper.GetInt("CARD_FINALIZE_DELAY_MS")) * time.Millisecond,
			FiscalDelay:       time.Duration(viper.GetInt("FISCAL_DELAY_MS")) * time.Millisecond,
			AbandonErrorClear: time.Duration(viper.GetInt("ABANDON_ERROR_CLEAR_MS")) * time.Millisecond,
		},
		AI: AIConfig{
			APIKey: viper.GetString("AI_API_KEY"),
		},
		Printer: PrinterConfig{
			Type:    viper.GetString("PRINTER_TYPE"),
			USBPath: viper.GetString("PRINTER_USB_PATH"),
			Address: viper.GetString("PRINTER_ADDRESS"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Scheduler: SchedulerConfig{
			SummarySpec: viper.GetString("SALES_SUMMARY_CRON"),
		},
	}
}

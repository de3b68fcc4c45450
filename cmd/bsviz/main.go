package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/JMcKesey/black-scholes-visualizer/internal/config"
	"github.com/JMcKesey/black-scholes-visualizer/internal/expiry"
	"github.com/JMcKesey/black-scholes-visualizer/internal/pricing"
)

var (
	cfgFile string
	verbose bool
	logger  *zap.Logger
	cfg     *config.Config
)

func setupLogger(verbose bool, logCfg *config.LoggingConfig) (*zap.Logger, error) {
	var zapConfig zap.Config
	if verbose {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
		zapConfig.DisableStacktrace = true
	}

	// Set log level from config
	if logCfg != nil && logCfg.Level != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(logCfg.Level)); err == nil {
			zapConfig.Level = zap.NewAtomicLevelAt(level)
		}
	}

	return zapConfig.Build()
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "bsviz",
		Short: "Black-Scholes pricing and PnL surface exploration",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip config loading for help commands
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				var err error
				logger, err = setupLogger(verbose, nil)
				return err
			}

			// Load config
			var err error
			cfg, err = config.Load(cfgFile)
			if err != nil {
				return err
			}

			// Setup logger with config
			logger, err = setupLogger(verbose, &cfg.Logging)
			if err != nil {
				return err
			}

			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", os.Getenv("BSVIZ_CONFIG"), "config file path (or set BSVIZ_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(priceCmd())
	rootCmd.AddCommand(surfaceCmd())

	// Setup signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// addOptionFlags registers the six scenario inputs shared by the price and
// surface commands. Defaults come from the loaded config at run time, so the
// flags register with zero defaults and are only read when changed.
func addOptionFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("spot", 0, "price of the underlying")
	cmd.Flags().Float64("strike", 0, "strike price")
	cmd.Flags().Float64("years", 0, "time to expiry in years")
	cmd.Flags().String("expiry", "", "expiry date YYYY-MM-DD (alternative to --years)")
	cmd.Flags().Float64("rate", 0, "annualized risk-free rate, as a decimal")
	cmd.Flags().Float64("vol", 0, "annualized volatility, as a decimal")
	cmd.Flags().String("kind", "", "option kind: call or put")
}

// resolveParams merges config defaults with any flags the user set and
// resolves --expiry into a year fraction.
func resolveParams(cmd *cobra.Command) (pricing.Parameters, error) {
	params := cfg.Params()

	flags := cmd.Flags()
	if flags.Changed("spot") {
		params.Spot, _ = flags.GetFloat64("spot")
	}
	if flags.Changed("strike") {
		params.Strike, _ = flags.GetFloat64("strike")
	}
	if flags.Changed("years") {
		params.TimeToExpiry, _ = flags.GetFloat64("years")
	}
	if flags.Changed("rate") {
		params.Rate, _ = flags.GetFloat64("rate")
	}
	if flags.Changed("vol") {
		params.Vol, _ = flags.GetFloat64("vol")
	}
	if flags.Changed("kind") {
		raw, _ := flags.GetString("kind")
		kind, err := pricing.ParseOptionKind(raw)
		if err != nil {
			return pricing.Parameters{}, err
		}
		params.Kind = kind
	}

	if flags.Changed("expiry") {
		if flags.Changed("years") {
			return pricing.Parameters{}, fmt.Errorf("--expiry and --years are mutually exclusive")
		}
		raw, _ := flags.GetString("expiry")
		expDate, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return pricing.Parameters{}, fmt.Errorf("invalid expiry date %q (use YYYY-MM-DD): %w", raw, err)
		}

		now := time.Now()
		years, err := expiry.YearsUntil(expDate, now)
		if err != nil {
			return pricing.Parameters{}, fmt.Errorf("expiry %s: %w", raw, err)
		}
		params.TimeToExpiry = years

		logger.Debug("resolved expiry",
			zap.String("expiry", raw),
			zap.Float64("years", years),
			zap.Int("tradingDays", expiry.TradingDays(now, expDate)),
		)
	}

	return params, nil
}

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/traderlab/cryptofolio/coingecko"
	"github.com/traderlab/cryptofolio/config"
	"github.com/traderlab/cryptofolio/ledger"
	"github.com/traderlab/cryptofolio/market"
)

var rootCmd = &cobra.Command{
	Use:   "cryptofolio",
	Short: "A personal crypto portfolio and futures tracker",
	Long: `Cryptofolio tracks a personal cryptocurrency portfolio across spot
holdings and leveraged futures positions backed by a virtual margin wallet.

It provides tools for:
  - Logging spot trades and deriving holdings, cost basis and P/L
  - Opening and closing leveraged futures positions with liquidation thresholds
  - Managing the futures margin wallet (deposit/withdraw)
  - Reconstructing the day-by-day historical portfolio value
  - Live valuation via the CoinGecko public API`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

var cfgFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default ./cryptofolio.yaml if present)")
}

// app bundles the wired collaborators each command needs.
type app struct {
	cfg      *config.Config
	log      *logrus.Logger
	store    ledger.Store
	provider market.PriceProvider
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.WithError(err).Warn("closing ledger")
		}
	}
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadFromFile(cfgFile)
	}
	if _, err := os.Stat("./cryptofolio.yaml"); err == nil {
		return config.LoadFromFile("./cryptofolio.yaml")
	}
	return config.Default(), nil
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	if cfg.Logging.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

// newApp wires config, logger, ledger store and the cached price
// provider. Callers must defer a.close().
func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log := newLogger(cfg)

	store, err := ledger.OpenSQLite(cfg.Ledger.Path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	opts := []coingecko.Option{}
	if cfg.API.BaseURL != "" {
		opts = append(opts, coingecko.WithBaseURL(cfg.API.BaseURL))
	}
	if cfg.API.Key != "" {
		opts = append(opts, coingecko.WithAPIKey(cfg.API.Key))
	}

	liveTTL, err := cfg.Cache.LiveTTLDuration()
	if err != nil {
		liveTTL = 30 * time.Second
	}
	historyTTL, err := cfg.Cache.HistoryTTLDuration()
	if err != nil {
		historyTTL = 5 * time.Minute
	}

	return &app{
		cfg:      cfg,
		log:      log,
		store:    store,
		provider: coingecko.Cached(coingecko.NewClient(opts...), liveTTL, historyTTL),
	}, nil
}

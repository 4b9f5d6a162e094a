package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-errors/errors"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var AppConfig Config

func InitConfig() {
	if err := godotenv.Load(); err == nil {
		logrus.Debug("Loaded .env file")
	}

	viper.AutomaticEnv()

	// Default config
	viper.SetDefault("HTTP_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DB_DIR", "/app/db")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("CANONICAL_DECIMALS", 6)
	viper.SetDefault("SUPPORTED_ASSETS", "USDC:6,USDT:6,DAI:18")
	viper.SetDefault("SYNTHETIC_SYMBOL", "BUSD")
	viper.SetDefault("REWARD_SYMBOL", "BSKT")
	viper.SetDefault("FULL_POWER_DURATION", "720h")
	viper.SetDefault("UNSTAKE_COOLDOWN", "168h")
	viper.SetDefault("MAKER_CAP", uint64(600_000_000_000_000))
	viper.SetDefault("TAKER_CAP", uint64(200_000_000_000_000))
	viper.SetDefault("FOUNDER_CAP", uint64(200_000_000_000_000))
	viper.SetDefault("MAKER_APR_BPS", 800)
	viper.SetDefault("TAKER_FEE_BPS", 30)

	logLevel, err := logrus.ParseLevel(strings.ToLower(viper.GetString("LOG_LEVEL")))
	if err != nil {
		logrus.Fatalf("Invalid log level: %v", err)
	}

	assets, err := parseAssetList(viper.GetString("SUPPORTED_ASSETS"))
	if err != nil {
		logrus.Fatalf("Invalid SUPPORTED_ASSETS: %v", err)
	}

	AppConfig = Config{
		HTTPPort:          viper.GetString("HTTP_PORT"),
		DbDir:             viper.GetString("DB_DIR"),
		LogLevel:          logLevel,
		JwtSecret:         viper.GetString("JWT_SECRET"),
		CanonicalDecimals: uint8(viper.GetInt("CANONICAL_DECIMALS")),
		SupportedAssets:   assets,
		SyntheticSymbol:   viper.GetString("SYNTHETIC_SYMBOL"),
		RewardSymbol:      viper.GetString("REWARD_SYMBOL"),
		FullPowerDuration: viper.GetDuration("FULL_POWER_DURATION"),
		UnstakeCooldown:   viper.GetDuration("UNSTAKE_COOLDOWN"),
		MakerCap:          viper.GetUint64("MAKER_CAP"),
		TakerCap:          viper.GetUint64("TAKER_CAP"),
		FounderCap:        viper.GetUint64("FOUNDER_CAP"),
		MakerAprBps:       viper.GetUint64("MAKER_APR_BPS"),
		TakerFeeBps:       viper.GetUint64("TAKER_FEE_BPS"),
	}

	logrus.Infof("Init config, FullPowerDuration %v, UnstakeCooldown %v, %d supported assets",
		AppConfig.FullPowerDuration, AppConfig.UnstakeCooldown, len(AppConfig.SupportedAssets))

	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(AppConfig.LogLevel)
}

// parseAssetList parses a "USDC:6,USDT:6" style list into asset specs
func parseAssetList(raw string) ([]AssetSpec, error) {
	var specs []AssetSpec
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Split(part, ":")
		if len(fields) != 2 {
			return nil, errors.Errorf("asset entry %q is not SYMBOL:decimals", part)
		}
		decimals, err := strconv.ParseUint(fields[1], 10, 8)
		if err != nil {
			return nil, errors.Errorf("asset entry %q has invalid decimals: %v", part, err)
		}
		specs = append(specs, AssetSpec{
			Symbol:   strings.ToUpper(strings.TrimSpace(fields[0])),
			Decimals: uint8(decimals),
		})
	}
	if len(specs) == 0 {
		return nil, errors.New("no supported assets configured")
	}
	return specs, nil
}

type AssetSpec struct {
	Symbol   string
	Decimals uint8
}

type Config struct {
	HTTPPort          string
	DbDir             string
	LogLevel          logrus.Level
	JwtSecret         string
	CanonicalDecimals uint8
	SupportedAssets   []AssetSpec
	SyntheticSymbol   string
	RewardSymbol      string
	FullPowerDuration time.Duration
	UnstakeCooldown   time.Duration
	MakerCap          uint64
	TakerCap          uint64
	FounderCap        uint64
	MakerAprBps       uint64
	TakerFeeBps       uint64
}

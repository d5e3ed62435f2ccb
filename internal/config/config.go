package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/tdex-network/tdex-lbp/pkg/mathutil"
)

const (
	// DatadirKey is the local data directory to store the state of the pools
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// DefaultCommissionRateKey is the commission rate of pools created without
	// an explicit one
	DefaultCommissionRateKey = "DEFAULT_COMMISSION_RATE"
	// EnableMetricsKey enables the collection of the operation counters
	EnableMetricsKey = "ENABLE_METRICS"
	// MetricsFileKey is the file, relative to the datadir if not absolute,
	// where the operation counters are appended at the end of every command
	MetricsFileKey = "METRICS_FILE"

	DbLocation = "db"

	DBBadger   = "badger"
	DBInMemory = "inmemory"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("tdex-lbp", false)

// InitConfig loads the configuration from the environment. The given
// overrides, ie. command line flags, take precedence over it.
func InitConfig(overrides map[string]interface{}) error {
	vip = viper.New()
	vip.SetEnvPrefix("TDEX_LBP")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DBTypeKey, DBBadger)
	vip.SetDefault(DefaultCommissionRateKey, "0.0015")
	vip.SetDefault(EnableMetricsKey, false)
	vip.SetDefault(MetricsFileKey, "stats")

	for key, value := range overrides {
		Set(key, value)
	}

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

// Set overrides the value of the given key.
func Set(key string, value interface{}) {
	vip.Set(key, value)
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetDbDir returns the directory of the badger store, or an empty string if
// pools are not persisted.
func GetDbDir() string {
	if GetString(DBTypeKey) == DBInMemory {
		return ""
	}
	return filepath.Join(GetDatadir(), DbLocation)
}

// GetMetricsFile returns the path of the file where metrics are dumped.
func GetMetricsFile() string {
	path := GetString(MetricsFileKey)
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(GetDatadir(), path)
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	dbType := GetString(DBTypeKey)
	if dbType != DBBadger && dbType != DBInMemory {
		return fmt.Errorf(
			"%s must be one of %s, %s", DBTypeKey, DBBadger, DBInMemory,
		)
	}

	rate, err := decimal.NewFromString(GetString(DefaultCommissionRateKey))
	if err != nil || !mathutil.IsValidRate(rate) {
		return fmt.Errorf("%s must be a decimal in range [0, 1)", DefaultCommissionRateKey)
	}

	if GetInt(LogLevelKey) < 0 || GetInt(LogLevelKey) > 6 {
		return fmt.Errorf("%s must be in range [0, 6]", LogLevelKey)
	}

	return nil
}

func initDatadir() error {
	if GetString(DBTypeKey) == DBInMemory {
		return makeDirectoryIfNotExists(GetDatadir())
	}
	return makeDirectoryIfNotExists(GetDbDir())
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}

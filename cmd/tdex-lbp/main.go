package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-lbp/internal/config"
	"github.com/tdex-network/tdex-lbp/internal/core/application"
	"github.com/tdex-network/tdex-lbp/internal/core/domain"
	"github.com/tdex-network/tdex-lbp/internal/core/ports"
	"github.com/tdex-network/tdex-lbp/internal/infrastructure/clock"
	dbbadger "github.com/tdex-network/tdex-lbp/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/tdex-lbp/internal/infrastructure/storage/db/inmemory"
	"github.com/tdex-network/tdex-lbp/pkg/stats"
	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	datadirFlag = cli.StringFlag{
		Name:  "datadir",
		Usage: "data directory where pools are stored",
	}
	timeFlag = cli.Uint64Flag{
		Name:  "time",
		Usage: "unix timestamp used in place of the current time",
	}
)

// runtime holds what every command needs to operate on the configured pools.
type runtime struct {
	service   application.PoolService
	collector *stats.Collector
	close     func()
}

var rt *runtime

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	app := cli.NewApp()

	app.Version = formatVersion()
	app.Name = "tdex-lbp"
	app.Usage = "create and trade on liquidity bootstrapping pools"
	app.Writer = out
	app.Flags = []cli.Flag{&datadirFlag, &timeFlag}
	app.Before = setup
	app.After = teardown

	app.Commands = append(
		app.Commands,
		&poolCmd,
		&simulateCmd,
		&reverseSimulateCmd,
		&swapCmd,
		&provideCmd,
		&withdrawCmd,
	)

	return app
}

func setup(ctx *cli.Context) error {
	overrides := make(map[string]interface{})
	if ctx.IsSet(datadirFlag.Name) {
		overrides[config.DatadirKey] = ctx.String(datadirFlag.Name)
	}
	if err := config.InitConfig(overrides); err != nil {
		return err
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	repo, closeFn, err := newPoolRepository()
	if err != nil {
		return err
	}

	var clk ports.Clock
	if ctx.IsSet(timeFlag.Name) {
		clk = clock.NewFixedClock(ctx.Uint64(timeFlag.Name))
	} else {
		clk = clock.NewSystemClock()
	}

	var collector *stats.Collector
	if config.GetBool(config.EnableMetricsKey) {
		collector = stats.NewCollector()
	}

	rt = &runtime{
		service: application.NewPoolService(
			repo, clk, collector, config.GetString(config.DefaultCommissionRateKey),
		),
		collector: collector,
		close:     closeFn,
	}
	return nil
}

func teardown(_ *cli.Context) error {
	if rt == nil {
		return nil
	}
	defer func() { rt = nil }()

	rt.close()

	if rt.collector == nil {
		return nil
	}
	stats.PrintMemoryStatistics()
	return stats.Dump(config.GetMetricsFile(), rt.collector.Gatherer())
}

func newPoolRepository() (domain.PoolRepository, func(), error) {
	if config.GetString(config.DBTypeKey) == config.DBInMemory {
		return inmemory.NewPoolRepositoryImpl(), func() {}, nil
	}

	logger := log.New()
	logger.SetLevel(log.WarnLevel)
	repo, err := dbbadger.NewPoolRepository(config.GetDbDir(), logger)
	if err != nil {
		return nil, nil, err
	}
	return repo, repo.Close, nil
}

func printRespJSON(ctx *cli.Context, resp interface{}) error {
	buf, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		return fmt.Errorf("failed to marshal json: %w", err)
	}
	_, err = fmt.Fprintln(ctx.App.Writer, string(buf))
	return err
}

func formatVersion() string {
	return fmt.Sprintf(
		"\nVersion: %s\nCommit: %s\nDate: %s",
		version, commit, date,
	)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[tdex-lbp] %v\n", err)
	os.Exit(1)
}

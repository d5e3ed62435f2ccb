package main

import (
	"github.com/tdex-network/tdex-lbp/internal/core/application"
	"github.com/urfave/cli/v2"
)

var poolIDFlag = cli.StringFlag{
	Name:     "pool_id",
	Usage:    "the id of the pool",
	Required: true,
}

var poolCmd = cli.Command{
	Name:  "pool",
	Usage: "manage liquidity bootstrapping pools",
	Subcommands: []*cli.Command{
		&createPoolCmd,
		&showPoolCmd,
		&listPoolsCmd,
		&updatePoolCmd,
		&deletePoolCmd,
	},
}

var createPoolCmd = cli.Command{
	Name:  "create",
	Usage: "create a new pool with empty balances",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "first_asset",
			Usage:    "the first asset of the pool",
			Required: true,
		},
		&cli.Uint64Flag{
			Name:     "first_start_weight",
			Usage:    "the weight of the first asset when the sale starts",
			Required: true,
		},
		&cli.Uint64Flag{
			Name:     "first_end_weight",
			Usage:    "the weight of the first asset when the sale ends",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "second_asset",
			Usage:    "the second asset of the pool",
			Required: true,
		},
		&cli.Uint64Flag{
			Name:     "second_start_weight",
			Usage:    "the weight of the second asset when the sale starts",
			Required: true,
		},
		&cli.Uint64Flag{
			Name:     "second_end_weight",
			Usage:    "the weight of the second asset when the sale ends",
			Required: true,
		},
		&cli.Uint64Flag{
			Name:     "start_time",
			Usage:    "unix timestamp of the start of the sale",
			Required: true,
		},
		&cli.Uint64Flag{
			Name:     "end_time",
			Usage:    "unix timestamp of the end of the sale",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "commission_rate",
			Usage: "fraction of every swap return kept by the pool",
		},
		&cli.StringFlag{
			Name:  "description",
			Usage: "a short description of the pool",
		},
	},
	Action: createPoolAction,
}

var showPoolCmd = cli.Command{
	Name:   "show",
	Usage:  "show the current state of a pool",
	Flags:  []cli.Flag{&poolIDFlag},
	Action: showPoolAction,
}

var listPoolsCmd = cli.Command{
	Name:   "list",
	Usage:  "list all pools",
	Action: listPoolsAction,
}

var updatePoolCmd = cli.Command{
	Name:  "update",
	Usage: "update the end time or the commission rate of a pool",
	Flags: []cli.Flag{
		&poolIDFlag,
		&cli.Uint64Flag{
			Name:  "end_time",
			Usage: "the new unix timestamp of the end of the sale",
		},
		&cli.StringFlag{
			Name:  "commission_rate",
			Usage: "the new commission rate",
		},
	},
	Action: updatePoolAction,
}

var deletePoolCmd = cli.Command{
	Name:   "delete",
	Usage:  "delete a pool",
	Flags:  []cli.Flag{&poolIDFlag},
	Action: deletePoolAction,
}

func createPoolAction(ctx *cli.Context) error {
	info, err := rt.service.CreatePool(ctx.Context, application.CreatePoolReq{
		Assets: [2]application.WeightedAsset{
			{
				Asset:       ctx.String("first_asset"),
				StartWeight: ctx.Uint64("first_start_weight"),
				EndWeight:   ctx.Uint64("first_end_weight"),
			},
			{
				Asset:       ctx.String("second_asset"),
				StartWeight: ctx.Uint64("second_start_weight"),
				EndWeight:   ctx.Uint64("second_end_weight"),
			},
		},
		StartTime:      ctx.Uint64("start_time"),
		EndTime:        ctx.Uint64("end_time"),
		CommissionRate: ctx.String("commission_rate"),
		Description:    ctx.String("description"),
	})
	if err != nil {
		return err
	}
	return printRespJSON(ctx, info)
}

func showPoolAction(ctx *cli.Context) error {
	info, err := rt.service.GetPool(ctx.Context, ctx.String(poolIDFlag.Name))
	if err != nil {
		return err
	}
	return printRespJSON(ctx, info)
}

func listPoolsAction(ctx *cli.Context) error {
	pools, err := rt.service.ListPools(ctx.Context)
	if err != nil {
		return err
	}
	return printRespJSON(ctx, pools)
}

func updatePoolAction(ctx *cli.Context) error {
	info, err := rt.service.UpdatePoolConfig(
		ctx.Context, application.UpdatePoolConfigReq{
			PoolID:         ctx.String(poolIDFlag.Name),
			EndTime:        ctx.Uint64("end_time"),
			CommissionRate: ctx.String("commission_rate"),
		},
	)
	if err != nil {
		return err
	}
	return printRespJSON(ctx, info)
}

func deletePoolAction(ctx *cli.Context) error {
	poolID := ctx.String(poolIDFlag.Name)
	if err := rt.service.DeletePool(ctx.Context, poolID); err != nil {
		return err
	}
	return printRespJSON(ctx, map[string]string{"deleted": poolID})
}

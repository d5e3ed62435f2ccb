package main

import (
	"github.com/tdex-network/tdex-lbp/internal/core/application"
	"github.com/urfave/cli/v2"
)

var provideCmd = cli.Command{
	Name:  "provide",
	Usage: "deposit both assets into a pool in exchange for shares",
	Flags: []cli.Flag{
		&poolIDFlag,
		&cli.StringFlag{
			Name:     "first_asset",
			Usage:    "the first deposited asset",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "first_amount",
			Usage:    "the deposited amount of the first asset",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "second_asset",
			Usage:    "the second deposited asset",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "second_amount",
			Usage:    "the deposited amount of the second asset",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "slippage_tolerance",
			Usage: "the max accepted deviation of the deposit ratio from the pool one",
		},
	},
	Action: provideAction,
}

var withdrawCmd = cli.Command{
	Name:  "withdraw",
	Usage: "burn shares of a pool in exchange for a pro-rata amount of both assets",
	Flags: []cli.Flag{
		&poolIDFlag,
		&cli.StringFlag{
			Name:     "share",
			Usage:    "the amount of shares to burn",
			Required: true,
		},
	},
	Action: withdrawAction,
}

func provideAction(ctx *cli.Context) error {
	info, err := rt.service.ProvideLiquidity(
		ctx.Context, application.ProvideLiquidityReq{
			PoolID: ctx.String(poolIDFlag.Name),
			Deposits: [2]application.AssetAmount{
				{
					Asset:  ctx.String("first_asset"),
					Amount: ctx.String("first_amount"),
				},
				{
					Asset:  ctx.String("second_asset"),
					Amount: ctx.String("second_amount"),
				},
			},
			SlippageTolerance: ctx.String("slippage_tolerance"),
		},
	)
	if err != nil {
		return err
	}
	return printRespJSON(ctx, info)
}

func withdrawAction(ctx *cli.Context) error {
	info, err := rt.service.WithdrawLiquidity(
		ctx.Context, application.WithdrawLiquidityReq{
			PoolID: ctx.String(poolIDFlag.Name),
			Share:  ctx.String("share"),
		},
	)
	if err != nil {
		return err
	}
	return printRespJSON(ctx, info)
}

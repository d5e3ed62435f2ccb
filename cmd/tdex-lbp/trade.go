package main

import (
	"github.com/tdex-network/tdex-lbp/internal/core/application"
	"github.com/urfave/cli/v2"
)

var (
	assetFlag = cli.StringFlag{
		Name:     "asset",
		Usage:    "the asset offered, or asked when reverse simulating",
		Required: true,
	}
	amountFlag = cli.StringFlag{
		Name:     "amount",
		Usage:    "the amount of asset in base units",
		Required: true,
	}
)

var simulateCmd = cli.Command{
	Name:   "simulate",
	Usage:  "preview the return of offering an amount of asset to a pool",
	Flags:  []cli.Flag{&poolIDFlag, &assetFlag, &amountFlag},
	Action: simulateAction,
}

var reverseSimulateCmd = cli.Command{
	Name:   "reverse-simulate",
	Usage:  "preview the amount to offer to receive an amount of asset from a pool",
	Flags:  []cli.Flag{&poolIDFlag, &assetFlag, &amountFlag},
	Action: reverseSimulateAction,
}

var swapCmd = cli.Command{
	Name:  "swap",
	Usage: "offer an amount of asset to a pool in exchange for the other one",
	Flags: []cli.Flag{
		&poolIDFlag,
		&assetFlag,
		&amountFlag,
		&cli.StringFlag{
			Name:  "belief_price",
			Usage: "the expected price of the offered asset per unit of the asked one",
		},
		&cli.StringFlag{
			Name:  "max_spread",
			Usage: "the max accepted spread as a fraction of the expected return",
		},
	},
	Action: swapAction,
}

func simulateAction(ctx *cli.Context) error {
	info, err := rt.service.Simulate(ctx.Context, simulateReq(ctx))
	if err != nil {
		return err
	}
	return printRespJSON(ctx, info)
}

func reverseSimulateAction(ctx *cli.Context) error {
	info, err := rt.service.ReverseSimulate(ctx.Context, simulateReq(ctx))
	if err != nil {
		return err
	}
	return printRespJSON(ctx, info)
}

func swapAction(ctx *cli.Context) error {
	info, err := rt.service.Swap(ctx.Context, application.SwapReq{
		PoolID: ctx.String(poolIDFlag.Name),
		Offer: application.AssetAmount{
			Asset:  ctx.String(assetFlag.Name),
			Amount: ctx.String(amountFlag.Name),
		},
		BeliefPrice: ctx.String("belief_price"),
		MaxSpread:   ctx.String("max_spread"),
	})
	if err != nil {
		return err
	}
	return printRespJSON(ctx, info)
}

func simulateReq(ctx *cli.Context) application.SimulateReq {
	return application.SimulateReq{
		PoolID: ctx.String(poolIDFlag.Name),
		Asset: application.AssetAmount{
			Asset:  ctx.String(assetFlag.Name),
			Amount: ctx.String(amountFlag.Name),
		},
	}
}

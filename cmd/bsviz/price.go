package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JMcKesey/black-scholes-visualizer/internal/pricing"
)

func priceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price a single European option",
		Long: `Price a European call or put with the Black-Scholes model.

Unset flags fall back to the configured scenario. With --purchase the output
also shows the difference between the theoretical price and what was paid.

Examples:
  # Configured scenario
  bsviz price

  # One year at-the-money call, 20% vol
  bsviz price --spot 100 --strike 100 --years 1 --rate 0.05 --vol 0.2 --kind call

  # Priced off an expiry date, compared against a fill at 9.80
  bsviz price --expiry 2027-06-18 --purchase 9.80`,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := resolveParams(cmd)
			if err != nil {
				return err
			}

			price, err := pricing.Price(params)
			if err != nil {
				return err
			}

			logger.Debug("priced option",
				zap.String("kind", params.Kind.String()),
				zap.Float64("price", price),
			)

			fmt.Printf("%s value: %.4f\n", params.Kind, price)

			if cmd.Flags().Changed("purchase") {
				purchase, _ := cmd.Flags().GetFloat64("purchase")
				fmt.Printf("delta vs purchase %.4f: %+.4f\n", purchase, price-purchase)
			}

			return nil
		},
	}

	addOptionFlags(cmd)
	cmd.Flags().Float64("purchase", 0, "purchase price to compare against")

	return cmd
}

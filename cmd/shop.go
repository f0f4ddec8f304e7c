package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyquest/internal/shop"
)

var shopCmd = &cobra.Command{
	Use:   "shop",
	Short: "Spend gold on titles, stat tomes and monster treats",
}

var shopListCmd = &cobra.Command{
	Use:   "list",
	Short: "List items for sale",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGame(cmd, func(_ context.Context, g *game) error {
			fmt.Printf("You have %d gold.\n\n", g.coord.Player().Gold)
			fmt.Printf("%-22s  %-26s  %6s  %s\n", "ID", "Item", "Price", "Effect")
			fmt.Println(strings.Repeat("─", 80))
			for _, it := range g.coord.Shop().All() {
				fmt.Printf("%-22s  %-26s  %6d  %s\n", it.ID, it.Name, it.Price, describeItem(it))
			}
			return nil
		})
	},
}

var shopBuyCmd = &cobra.Command{
	Use:   "buy <item-id>",
	Short: "Buy an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGame(cmd, func(_ context.Context, g *game) error {
			it, err := g.coord.Purchase(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Bought %s for %d gold. %d gold left.\n", it.Name, it.Price, g.coord.Player().Gold)
			return nil
		})
	},
}

func init() {
	shopCmd.AddCommand(shopListCmd)
	shopCmd.AddCommand(shopBuyCmd)
}

func describeItem(it shop.Item) string {
	switch it.Effect {
	case shop.EffectTitle:
		return fmt.Sprintf("title %q", it.Title)
	case shop.EffectStat:
		return fmt.Sprintf("+1 %s", it.Stat)
	case shop.EffectCalmMonster:
		return fmt.Sprintf("calms the monster by %.0f", it.Amount)
	}
	return string(it.Effect)
}

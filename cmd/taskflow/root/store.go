package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fastygo/taskflow/internal/ui"
	storeUC "github.com/fastygo/taskflow/usecase/store"
)

func newStoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "store",
		Short: "Browse the reward store",
		RunE: func(cmd *cobra.Command, args []string) error {
			listing, err := taskflow().Store.Listing(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconStore, "Store"), ui.Coins(listing.Coins),
				ui.Muted.Render(fmt.Sprintf("(%d owned)", listing.OwnedCount)))
			for _, section := range listing.Sections {
				fmt.Fprintln(out)
				fmt.Fprintln(out, ui.H2.Render(string(section.Category)))
				for _, offer := range section.Items {
					fmt.Fprintln(out, offerLine(offer))
				}
			}
			return nil
		},
	}
}

func newBuyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "buy <item-id>",
		Short: "Purchase a store item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			receipt, err := taskflow().Store.Purchase(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(),
				ui.Good.Render("purchased "+receipt.ItemID),
				ui.Muted.Render(fmt.Sprintf("-%d", receipt.Price)),
				ui.LabelValue("balance", ui.Coins(receipt.Balance)))
			return nil
		},
	}
}

func offerLine(o storeUC.Offer) string {
	price := fmt.Sprintf("%d", o.EffectivePrice)
	if o.Discount > 0 {
		price = fmt.Sprintf("%d %s", o.EffectivePrice, ui.Muted.Strikethrough(true).Render(fmt.Sprintf("%d", o.Price)))
	}
	status := ""
	switch {
	case o.Owned:
		status = ui.Good.Render("owned")
	case !o.Affordable:
		status = ui.Muted.Render("need more coins")
	}
	name := o.Name
	if o.Popular {
		name += " " + ui.Gold.Render("★")
	}
	return fmt.Sprintf("  %-22s %s %s %s", ui.Key.Render(o.ID), name, ui.Gold.Render(price), status)
}

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Raymond9734/support-protocol-desk/internal/models"
	"github.com/Raymond9734/support-protocol-desk/internal/service"
)

type protocolOptions struct {
	name         string
	phone        string
	store        string
	purchaseDate string
	model        string
	defect       string
	warranty     string
	customerType string
	to           string
}

func newProtocolCmd(root *rootOptions) *cobra.Command {
	opts := &protocolOptions{}

	cmd := &cobra.Command{
		Use:   "protocol",
		Short: "Compose a support protocol summary from intake fields",
		Long: `Compose the protocol summary for a customer intake and print the deep link.

The message goes to the default support number unless --to names another one.
When --model is omitted the first configured console model is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProtocol(cmd, root, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.name, "name", "", "customer name")
	f.StringVar(&opts.phone, "phone", "", "customer phone")
	f.StringVar(&opts.store, "store", "", "store where the product was bought")
	f.StringVar(&opts.purchaseDate, "date", "", "purchase date (YYYY-MM-DD)")
	f.StringVar(&opts.model, "model", "", "console model")
	f.StringVar(&opts.defect, "defect", "", "defect description")
	f.StringVar(&opts.warranty, "warranty", string(models.WarrantyIn), "in_warranty or out_of_warranty")
	f.StringVar(&opts.customerType, "customer-type", string(models.CustomerTypeEndConsumer), "retailer or end_consumer")
	f.StringVar(&opts.to, "to", "", "send to this number instead of the default")

	return cmd
}

func runProtocol(cmd *cobra.Command, root *rootOptions, opts *protocolOptions) error {
	d, err := newDesk(cmd, root)
	if err != nil {
		return err
	}

	model := opts.model
	if model == "" {
		if configured := d.settings.Models(); len(configured) > 0 {
			model = configured[0]
		}
	}

	result, err := d.protocols.Submit(cmd.Context(), &service.SubmitProtocolRequest{
		Intake: models.IntakeRecord{
			CustomerName:      opts.name,
			CustomerPhone:     opts.phone,
			PurchaseDate:      opts.purchaseDate,
			StoreName:         opts.store,
			ConsoleModel:      model,
			DefectDescription: opts.defect,
			WarrantyStatus:    models.WarrantyStatus(opts.warranty),
			CustomerType:      models.CustomerType(opts.customerType),
		},
		Destination: destinationFor(opts.to),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if root.jsonOutput {
		if err := writeJSON(out, result); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out, "Protocol: %s\n", result.ProtocolID)
		if result.TriageText != "" {
			fmt.Fprintf(out, "Triage: %s\n", result.TriageText)
		}
		fmt.Fprintf(out, "Destination: %s\n", result.Destination)
		fmt.Fprintf(out, "URL: %s\n\n%s\n", result.URL, result.Message)
	}

	return handOff(root, result.Message, result.URL)
}

func destinationFor(to string) models.DestinationChoice {
	if to == "" {
		return models.DestinationChoice{Mode: models.DestinationDefault}
	}
	return models.DestinationChoice{Mode: models.DestinationAlternate, Phone: to}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Raymond9734/support-protocol-desk/internal/service"
)

type quickOptions struct {
	template string
	to       string
}

func newQuickCmd(root *rootOptions) *cobra.Command {
	opts := &quickOptions{}

	cmd := &cobra.Command{
		Use:   "quick [text]",
		Short: "Compose a quick message from text or a canned template",
		Long: `Compose a quick message and print the deep link.

Pass the message as an argument, or name a canned template with --template.
Run "supportctl templates" to list the template IDs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := ""
			if len(args) == 1 {
				text = args[0]
			}
			return runQuick(cmd, root, opts, text)
		},
	}

	cmd.Flags().StringVar(&opts.template, "template", "", "canned template ID")
	cmd.Flags().StringVar(&opts.to, "to", "", "send to this number instead of the default")

	return cmd
}

func runQuick(cmd *cobra.Command, root *rootOptions, opts *quickOptions, text string) error {
	d, err := newDesk(cmd, root)
	if err != nil {
		return err
	}

	result, err := d.quick.Send(cmd.Context(), &service.QuickMessageRequest{
		Text:        text,
		TemplateID:  opts.template,
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
		fmt.Fprintf(out, "Destination: %s\n", result.Destination)
		fmt.Fprintf(out, "URL: %s\n\n%s\n", result.URL, result.Message)
	}

	return handOff(root, result.Message, result.URL)
}

func newTemplatesCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the canned quick message templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDesk(cmd, root)
			if err != nil {
				return err
			}

			templates := d.quick.Templates()
			out := cmd.OutOrStdout()
			if root.jsonOutput {
				return writeJSON(out, templates)
			}
			for _, tpl := range templates {
				fmt.Fprintf(out, "%-16s %s\n", tpl.ID, tpl.Label)
			}
			return nil
		},
	}
}

// Command supportctl composes support protocol and quick message links from
// the terminal, without the API server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Raymond9734/support-protocol-desk/internal/clock"
	"github.com/Raymond9734/support-protocol-desk/internal/config"
	"github.com/Raymond9734/support-protocol-desk/internal/logging"
	"github.com/Raymond9734/support-protocol-desk/internal/service"
	"github.com/Raymond9734/support-protocol-desk/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// desk holds the services a command needs
type desk struct {
	protocols service.ProtocolService
	quick     service.QuickMessageService
	settings  service.SettingsService
}

// rootOptions are the flags shared by every command
type rootOptions struct {
	locale       string
	brand        string
	channel      string
	defaultPhone string
	jsonOutput   bool
	open         bool
	copy         bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "supportctl",
		Short: "Compose support handoff links",
		Long: `supportctl builds the same WhatsApp deep links as the support desk API.

Available subcommands:
  protocol  - Compose a support protocol summary from intake fields
  quick     - Compose a quick message from text or a canned template
  templates - List the canned quick message templates`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.locale, "locale", "", "message locale (default SUPPORT_LOCALE)")
	root.PersistentFlags().StringVar(&opts.brand, "brand", "", "brand name (default SUPPORT_BRAND)")
	root.PersistentFlags().StringVar(&opts.channel, "channel", "", "support channel name (default SUPPORT_CHANNEL)")
	root.PersistentFlags().StringVar(&opts.defaultPhone, "default-phone", "", "default support number (default SUPPORT_DEFAULT_PHONE)")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "print the result as JSON")
	root.PersistentFlags().BoolVar(&opts.open, "open", false, "open the link with the system handler")
	root.PersistentFlags().BoolVar(&opts.copy, "copy", false, "copy the message text to the clipboard")

	root.AddCommand(
		newProtocolCmd(opts),
		newQuickCmd(opts),
		newTemplatesCmd(opts),
	)

	return root
}

// newDesk wires the services on an in-memory store
func newDesk(cmd *cobra.Command, opts *rootOptions) (*desk, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.LogLevel
	if level == "" {
		level = "warn"
	}
	logger := logging.New(cmd.ErrOrStderr(), cfg.Env, level)

	composerCfg := service.ComposerConfig{
		Brand:       firstNonEmpty(opts.brand, cfg.Support.Brand),
		ChannelName: firstNonEmpty(opts.channel, cfg.Support.ChannelName),
		Locale:      firstNonEmpty(opts.locale, cfg.Support.MessageLocale),
	}

	sysClock := clock.System{}
	kv := store.NewMemoryStore(sysClock)

	settings := service.NewSettingsService(kv, service.SettingsDefaults{
		DefaultPhone: cfg.Support.DefaultPhone,
		Models:       cfg.Support.Models,
	}, logger)
	settings.Load(cmd.Context())

	if opts.defaultPhone != "" {
		if _, err := settings.SetDefaultPhone(cmd.Context(), opts.defaultPhone); err != nil {
			return nil, err
		}
	}

	templateSvc := service.NewTemplateService()
	validator := service.NewValidator()
	handoffs := service.NewHandoffService(nil, nil, logger)

	return &desk{
		protocols: service.NewProtocolService(
			settings,
			service.NewMessageComposer(composerCfg, templateSvc),
			handoffs,
			validator,
			sysClock,
			logger,
		),
		quick:    service.NewQuickMessageService(settings, composerCfg, templateSvc, handoffs, validator, logger),
		settings: settings,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// handOff copies the message and opens the link as requested by the flags
func handOff(opts *rootOptions, message, url string) error {
	if opts.copy {
		if err := copyText(message); err != nil {
			return err
		}
	}
	if opts.open {
		return openURL(url)
	}
	return nil
}

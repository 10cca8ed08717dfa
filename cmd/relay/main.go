package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/memohai/telegraph-relay/cmd/relay/modules"
	"github.com/memohai/telegraph-relay/internal/config"
	"github.com/memohai/telegraph-relay/internal/telegraph"
	"github.com/memohai/telegraph-relay/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:          "telegraph-relay",
		Short:        "Relay Telegram media to Telegraph pages",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to the TOML config (defaults to $CONFIG_PATH, then ./"+config.DefaultConfigPath+")")

	serve := newServeCmd(&configPath)
	root.RunE = serve.RunE
	root.AddCommand(serve, newCreateAccountCmd(&configPath), newVersionCmd())
	return root
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Poll Telegram and publish incoming media",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := fx.New(
				fx.Supply(modules.ConfigPath(*configPath)),
				modules.InfraModule,
				modules.ChannelModule,
				modules.RelayModule,
				modules.ServerModule,
				fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
					l := &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
					l.UseLogLevel(slog.LevelDebug)
					return l
				}),
			)
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}
}

func newCreateAccountCmd(configPath *string) *cobra.Command {
	var (
		shortName  string
		authorName string
		authorURL  string
		timeout    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "create-account",
		Short: "Create a Telegraph account and print its access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := modules.LoadConfig(*configPath)
			if err != nil {
				return err
			}
			if shortName == "" {
				shortName = cfg.Telegraph.ShortName
			}
			if authorURL == "" {
				authorURL = cfg.Telegraph.AuthorURL
			}
			client := telegraph.NewClient(slog.Default(), telegraph.Options{
				APIURL:    cfg.Telegraph.APIURL,
				UploadURL: cfg.Telegraph.UploadURL,
			})

			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			account, err := client.CreateAccount(ctx, telegraph.AccountInput{
				ShortName:  shortName,
				AuthorName: authorName,
				AuthorURL:  authorURL,
			})
			if err != nil {
				return fmt.Errorf("create account: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "TELEGRAPH_ACCESS_TOKEN=%s\n", account.AccessToken)
			if account.AuthURL != "" {
				fmt.Fprintf(out, "# log in within an hour to edit pages: %s\n", account.AuthURL)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&shortName, "short-name", "", "account short name (defaults to telegraph.short_name)")
	cmd.Flags().StringVar(&authorName, "author-name", "Media Converter Bot", "default author name for pages")
	cmd.Flags().StringVar(&authorURL, "author-url", "", "default author link for pages (defaults to telegraph.author_url)")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "request timeout (0 disables)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "telegraph-relay %s\n", version.GetInfo())
		},
	}
}

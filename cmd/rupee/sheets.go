package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/rupee-flow/internal/cli"
	"github.com/Veraticus/rupee-flow/internal/common"
	"github.com/Veraticus/rupee-flow/internal/config"
	"github.com/Veraticus/rupee-flow/internal/sheets"
)

func sheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Manage Google Sheets access",
	}
	cmd.AddCommand(sheetsAuthCmd())
	return cmd
}

func sheetsAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize rupee to write spreadsheets with your Google account",
		Long: `Run the OAuth2 browser flow and save the token.

Requires sheets.client_id and sheets.client_secret from a Google Cloud
"Desktop app" OAuth client. The token is saved to sheets.token_file and
refreshed automatically.`,
		Args: cobra.NoArgs,
		RunE: runSheetsAuth,
	}
	cmd.Flags().String("callback-addr", "localhost:8080", "local address for the OAuth redirect")
	return cmd
}

func runSheetsAuth(cmd *cobra.Command, _ []string) error {
	addr, _ := cmd.Flags().GetString("callback-addr")

	cfg := sheets.OAuth2Config{
		ClientID:     viper.GetString(config.KeySheetsClientID),
		ClientSecret: viper.GetString(config.KeySheetsClientSecret),
		TokenFile:    config.ExpandPath(viper.GetString(config.KeySheetsTokenFile)),
		CallbackAddr: addr,
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return common.NewUserError("Set sheets.client_id and sheets.client_secret before running auth.", common.ErrMissingConfig)
	}

	token, err := sheets.GetOrCreateToken(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatSuccess("Google Sheets authorized"))
	fmt.Fprintln(out, cli.FormatInfo("Token saved to "+cfg.TokenFile))
	if token.RefreshToken != "" {
		fmt.Fprintln(out, cli.SubtleStyle.Render("Add this to your config as sheets.refresh_token to use it elsewhere:"))
		fmt.Fprintln(out, token.RefreshToken)
	}
	return nil
}

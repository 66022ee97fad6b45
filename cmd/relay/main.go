package main

import (
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/relay/internal/client"
	"github.com/alfredjeanlab/relay/internal/model"
	"github.com/alfredjeanlab/relay/internal/ui"
)

var (
	serverURL  string
	authToken  string
	jsonOutput bool
	asUser     string

	relayClient client.RelayClient
)

func defaultUser() string {
	if s := os.Getenv("RELAY_USER"); s != "" {
		return s
	}
	out, err := exec.Command("git", "config", "user.name").Output()
	if err == nil {
		name := strings.TrimSpace(string(out))
		if name != "" {
			return name
		}
	}
	return "anonymous"
}

func defaultServer() string {
	if s := os.Getenv("RELAY_SERVER"); s != "" {
		return s
	}
	if u := activeRemoteURL(); u != "" {
		return u
	}
	return "http://localhost:4000"
}

func defaultToken() string {
	if s := os.Getenv("RELAY_AUTH_TOKEN"); s != "" {
		return s
	}
	return activeRemoteToken()
}

var rootCmd = &cobra.Command{
	Use:   "relay <command>",
	Short: "CLI client for the relay messaging service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := client.NewHTTPClient(serverURL, authToken, model.Identity{ID: asUser})
		if err != nil {
			return err
		}
		relayClient = c
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if relayClient != nil {
			relayClient.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer(), "relay server URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", defaultToken(), "bearer token for authentication")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&asUser, "as", defaultUser(), "identity id to act as")

	rootCmd.AddGroup(
		&cobra.Group{ID: "channels", Title: "Channels:"},
		&cobra.Group{ID: "messages", Title: "Messages:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	// Channels
	rootCmd.AddCommand(channelsCmd)

	// Messages
	rootCmd.AddCommand(messagesCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if !ui.ShouldUseColor() {
		ui.ForceNoColor()
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

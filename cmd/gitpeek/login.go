package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

var loginServerURL string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Open the browser to authenticate with GitHub",
	Long: `Start the OAuth login flow against a running GitPeek server.

The server hands back a GitHub authorization URL; this command opens it
in your browser. After you approve, GitHub redirects through the server
to the frontend dashboard carrying your session ID.`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginServerURL, "server", "http://localhost:8080", "GitPeek server base URL")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(loginServerURL + "/auth/login")
	if err != nil {
		return fmt.Errorf("contact server at %s: %w", loginServerURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %s for /auth/login", resp.Status)
	}

	var body struct {
		AuthURL string `json:"auth_url"`
		State   string `json:"state"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}

	fmt.Println("Opening browser for GitHub authentication...")
	if err := browser.OpenURL(body.AuthURL); err != nil {
		logger.WithError(err).Warn("Could not open browser")
		fmt.Println("Open this URL manually:")
	}
	fmt.Println(body.AuthURL)
	fmt.Println()
	fmt.Println("After approving, your browser lands on the dashboard with your session.")
	return nil
}

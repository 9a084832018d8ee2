package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// health --url http://localhost:3001: query a running server.
func healthCmd() *cobra.Command {
	var url string
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check a running Kanoon Saral API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := &http.Client{Timeout: 10 * time.Second}
			resp, err := client.Get(strings.TrimRight(url, "/") + "/api/health")
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			var body struct {
				Status  string `json:"status"`
				Service string `json:"service"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				return fmt.Errorf("health: decode: %w", err)
			}
			if resp.StatusCode != http.StatusOK || body.Status != "ok" {
				return fmt.Errorf("health: %s returned %d %q", url, resp.StatusCode, body.Status)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", body.Service, body.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "http://localhost:3001", "server base URL")
	return cmd
}

package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// initCmd walks the user through generating a starter stakeboard.yaml.
func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively generate a configuration file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, _ := cmd.Flags().GetString("output")
			return runInitWizard(out)
		},
	}
	cmd.Flags().StringP("output", "o", "stakeboard.yaml", "Where to write the configuration")
	return cmd
}

func runInitWizard(out string) error {
	var (
		bind        = "127.0.0.1:8001"
		sessionTTL  = "10m"
		depth       = "20"
		bearerToken string
		withTracing bool
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Bind address").
				Description("host:port the HTTP gateway listens on").
				Value(&bind),
			huh.NewInput().
				Title("Session TTL").
				Description("Sliding inactivity window, e.g. 10m or 600s").
				Value(&sessionTTL).
				Validate(func(s string) error {
					_, err := time.ParseDuration(s)
					return err
				}),
			huh.NewInput().
				Title("Leaderboard depth").
				Description("Top stakes reported per bet offer").
				Value(&depth).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n <= 0 {
						return fmt.Errorf("must be a positive integer")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Admin bearer token").
				Description("Leave empty to disable the admin endpoints").
				Value(&bearerToken),
			huh.NewConfirm().
				Title("Enable OTLP tracing?").
				Value(&withTracing),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	cfg := fmt.Sprintf(`version: "1"

modules:
  betting.engine:
    session_ttl: %s
    leaderboard_depth: %s

  gateway.http:
    bind: %q
`, sessionTTL, depth, bind)

	if bearerToken != "" {
		cfg += fmt.Sprintf(`    auth:
      bearer_token: %q
`, bearerToken)
	}

	if withTracing {
		cfg += `
  telemetry.tracing:
    sample_ratio: 1.0
`
	}

	if err := os.WriteFile(out, []byte(cfg), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}

	fmt.Printf("Wrote %s\n", out)
	return nil
}

package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/shopfront/internal/app"
	"github.com/felixgeelhaar/shopfront/internal/health"
	"github.com/felixgeelhaar/shopfront/internal/ux"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run client diagnostics and health checks",
	Long: `Run diagnostics to check that shopfront is properly configured.

Checks include:
  • Configuration file and effective backend URL
  • Storage backend round trip (file, redis or memory)
  • Embedded API contract
  • Backend reachability and latency
  • Stored session token

Examples:
  # Run diagnostics with colored output
  shopfront doctor

  # Output as JSON for CI/CD
  shopfront doctor -o json
`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

var doctorTimeout time.Duration

func init() {
	doctorCmd.Flags().DurationVar(&doctorTimeout, "timeout", 10*time.Second, "timeout for each check")
	rootCmd.AddCommand(doctorCmd)
}

// DoctorReport is the complete health check report
type DoctorReport struct {
	Status    health.Status    `json:"status" yaml:"status"`
	Checks    []*health.Result `json:"checks" yaml:"checks"`
	NextSteps []string         `json:"next_steps,omitempty" yaml:"next_steps,omitempty"`
	styles    ux.Styles
}

// Data implements ux.View.
func (r DoctorReport) Data() any { return r }

func (r DoctorReport) String() string {
	var b strings.Builder
	b.WriteString(r.styles.Title.Render("Diagnóstico de shopfront"))
	b.WriteString("\n\n")

	for _, check := range r.Checks {
		icon, style := "✓", r.styles.Success
		switch check.Status {
		case health.StatusDegraded:
			icon, style = "⚠", r.styles.Warning
		case health.StatusUnhealthy:
			icon, style = "✗", r.styles.Error
		}
		fmt.Fprintf(&b, "  %s %s: %s", style.Render(icon), check.Name, check.Message)
		if check.Latency > 0 {
			b.WriteString(r.styles.Muted.Render(fmt.Sprintf(" (%dms)", check.Latency.Milliseconds())))
		}
		b.WriteString("\n")
	}

	if len(r.NextSteps) > 0 {
		b.WriteString("\nNext Steps:\n")
		for i, step := range r.NextSteps {
			fmt.Fprintf(&b, "   %d. %s\n", i+1, step)
		}
	}

	b.WriteString("\n")
	switch r.Status {
	case health.StatusHealthy:
		b.WriteString(r.styles.Success.Render("✓ shopfront is healthy and ready to use"))
	case health.StatusDegraded:
		b.WriteString(r.styles.Warning.Render("⚠ shopfront works with reduced functionality"))
	default:
		b.WriteString(r.styles.Error.Render("✗ shopfront has issues that need attention"))
	}
	return b.String()
}

// configCheck reports which configuration was loaded.
func configCheck(cc *CommandContext) health.Checker {
	return health.NewCheckFunc("config", func(context.Context) *health.Result {
		source := cc.Config.File
		if source == "" {
			source = "defaults and environment"
		}
		return health.Healthy("loaded from "+source).
			WithDetail("file", cc.Config.File).
			WithDetail("base_url", cc.Config.API.BaseURL).
			WithDetail("storage", cc.Config.Storage.Driver)
	})
}

// contractCheck reports the embedded API description.
func contractCheck(a *app.App) health.Checker {
	return health.NewCheckFunc("api-contract", func(context.Context) *health.Result {
		ops := a.Contract.Operations()
		mode := "lenient"
		if a.Config.API.StrictContract {
			mode = "strict"
		}
		return health.Healthy(fmt.Sprintf("contract %s with %d operations (%s)", a.Contract.Version(), len(ops), mode)).
			WithDetail("version", a.Contract.Version()).
			WithDetail("operations", len(ops)).
			WithDetail("strict", a.Config.API.StrictContract)
	})
}

// nextSteps suggests fixes for failed checks.
func nextSteps(results []*health.Result) []string {
	var steps []string
	for _, r := range results {
		if !r.Failed() {
			continue
		}
		switch r.Name {
		case "app", "storage":
			steps = append(steps, "Check the storage section with 'shopfront config view'")
		case "backend-api":
			steps = append(steps, "Verify the backend URL with 'shopfront config get api.base_url'")
		case "session":
			steps = append(steps, "Sign in again with 'shopfront auth login'")
		}
	}
	return steps
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	manager := health.NewManager().WithTimeout(doctorTimeout)
	manager.AddChecker(configCheck(cc))

	a, err := app.New(ctx, cc.Config)
	if err != nil {
		// Without an app only the configuration can be reported.
		appErr := err
		manager.AddChecker(health.NewCheckFunc("app", func(context.Context) *health.Result {
			return health.Unhealthy(appErr.Error())
		}))
	} else {
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), closeTimeout)
			defer cancel()
			_ = a.Close(closeCtx)
		}()
		cc.Styles = ux.NewStyles(a.Store.State().Theme)

		manager.AddChecker(health.NewStorageChecker(cc.Config.Storage.Driver, a.Storage))
		manager.AddChecker(contractCheck(a))
		manager.AddChecker(health.NewBackendChecker(a.Client.BaseURL(), a.Client))
		manager.AddChecker(health.NewSessionChecker(a.Tokens))
	}

	results := manager.Check(ctx)
	report := DoctorReport{
		Status:    health.OverallStatus(results),
		Checks:    results,
		NextSteps: nextSteps(results),
		styles:    cc.Styles,
	}

	if err := cc.print(report); err != nil {
		return err
	}
	if report.Status == health.StatusUnhealthy {
		return fmt.Errorf("health check failed")
	}
	return nil
}

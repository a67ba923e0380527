package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"typetrack/internal/bootstrap"
	themedto "typetrack/internal/modules/theme/dto"
	"typetrack/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootFlags struct {
	dataDir   string
	ephemeral bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "typetrack",
		Short:         "Typing practice tracker with daily goals",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.dataDir, "data", config.DefaultDataDir(), "data directory")
	root.PersistentFlags().BoolVar(&flags.ephemeral, "ephemeral", false, "keep all data in memory")

	root.AddCommand(newDaemonCmd(flags))
	root.AddCommand(newPracticeCmd(flags))
	root.AddCommand(newPopupCmd(flags))
	root.AddCommand(newStatusCmd(flags))
	root.AddCommand(newHistoryCmd(flags))
	root.AddCommand(newGoalsCmd(flags))
	root.AddCommand(newNotifyCmd(flags))
	root.AddCommand(newReportCmd(flags))
	root.AddCommand(newThemeCmd(flags))
	root.AddCommand(newExportCmd(flags))
	root.AddCommand(newImportCmd(flags))
	return root
}

func loadApp(flags *rootFlags, opts bootstrap.Options) (*bootstrap.App, error) {
	cfg, err := config.New(flags.dataDir)
	if err != nil {
		return nil, err
	}
	opts.Ephemeral = flags.ephemeral
	return bootstrap.New(cfg, opts)
}

func cliApp(flags *rootFlags) (*bootstrap.App, error) {
	return loadApp(flags, bootstrap.Options{Component: "cli"})
}

func newDaemonCmd(flags *rootFlags) *cobra.Command {
	daemon := &cobra.Command{Use: "daemon", Short: "Manage the background daemon"}
	daemon.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run the daemon in the foreground",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(flags, bootstrap.Options{Component: "daemon", Tee: isatty.IsTerminal(os.Stderr.Fd())})
			if err != nil {
				return err
			}
			defer app.Close()
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.BackgroundCLI.Run(ctx)
		},
	})
	daemon.AddCommand(&cobra.Command{
		Use:   "start",
		Short: "Start the daemon in the background",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := cliApp(flags)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.BackgroundCLI.Start(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "daemon started")
			return nil
		},
	})
	daemon.AddCommand(&cobra.Command{
		Use:   "stop",
		Short: "Stop the daemon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := cliApp(flags)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.BackgroundCLI.Stop(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "daemon stopped")
			return nil
		},
	})
	daemon.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := cliApp(flags)
			if err != nil {
				return err
			}
			defer app.Close()
			status, err := app.BackgroundCLI.Status(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "running=%t pid=%d socket=%s\n", status.Running, status.PID, status.SocketPath)
			if status.Running {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "started=%s handled=%d failed=%d last=%s\n",
					status.StartedAt.Format(time.RFC3339), status.Handled, status.Failed, status.LastAction)
			}
			return nil
		},
	})
	var logTail int
	logs := &cobra.Command{
		Use:   "logs",
		Short: "Show daemon logs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := cliApp(flags)
			if err != nil {
				return err
			}
			defer app.Close()
			payload, err := app.BackgroundCLI.Logs(context.Background(), logTail)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), payload)
			return nil
		},
	}
	logs.Flags().IntVar(&logTail, "tail", 200, "log lines to show from the end")
	daemon.AddCommand(logs)
	return daemon
}

func newPracticeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "practice",
		Short: "Open the typing practice view",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(flags, bootstrap.Options{Component: "practice", TabID: os.Getpid()})
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunPractice(app)
		},
	}
}

func newPopupCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "popup",
		Short: "Open the progress dashboard",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(flags, bootstrap.Options{Component: "popup"})
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunPopup(app)
		},
	}
}

func newStatusCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show today's progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := cliApp(flags)
			if err != nil {
				return err
			}
			defer app.Close()
			s, err := app.PracticeCLI.Status(context.Background())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "date: %s (%s)\n", s.Today.Date.Format("2006-01-02"), s.Weekday)
			_, _ = fmt.Fprintf(out, "minutes: %.2f\n", s.Today.Minutes)
			if s.HasGoal {
				_, _ = fmt.Fprintf(out, "goal: %s minutes (%.0f%%)\n", formatMinutes(s.Goal), s.Percent)
			} else {
				_, _ = fmt.Fprintln(out, "goal: none")
			}
			_, _ = fmt.Fprintf(out, "notifications: %s\narchived days: %d\n", s.Frequency, s.HistoryDays)
			return nil
		},
	}
}

func newHistoryCmd(flags *rootFlags) *cobra.Command {
	var chartPath string
	var open bool
	history := &cobra.Command{
		Use:   "history",
		Short: "List archived days or render them as a chart",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := cliApp(flags)
			if err != nil {
				return err
			}
			defer app.Close()
			if chartPath != "" {
				out, err := app.PracticeCLI.Chart(context.Background(), chartPath, open)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "chart of %d days written to %s\n", out.Days, out.Path)
				return nil
			}
			h, err := app.PracticeCLI.History(context.Background())
			if err != nil {
				return err
			}
			if len(h.Records) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no archived days")
			}
			for _, r := range h.Records {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.2f\n", r.Date.Format("2006-01-02"), r.Minutes)
			}
			if h.Today != nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.2f\ttoday\n", h.Today.Date.Format("2006-01-02"), h.Today.Minutes)
			}
			return nil
		},
	}
	history.Flags().StringVar(&chartPath, "chart", "", "write an HTML chart to this path")
	history.Flags().BoolVar(&open, "open", false, "open the chart in a browser")
	return history
}

func newGoalsCmd(flags *rootFlags) *cobra.Command {
	goals := &cobra.Command{Use: "goals", Short: "Daily goal per weekday"}
	goals.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the goal table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := cliApp(flags)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.PracticeCLI.Goals(context.Background())
			if err != nil {
				return err
			}
			for _, day := range out.Weekdays {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", day, formatMinutes(out.Goals[day]))
			}
			return nil
		},
	})
	goals.AddCommand(&cobra.Command{
		Use:   "set <weekday> <minutes>",
		Short: "Set the goal for one weekday",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid minutes %q", args[1])
			}
			app, err := cliApp(flags)
			if err != nil {
				return err
			}
			defer app.Close()
			if _, err := app.PracticeCLI.SetGoal(context.Background(), strings.ToLower(args[0]), minutes); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s goal set to %s minutes\n", strings.ToLower(args[0]), formatMinutes(minutes))
			return nil
		},
	})
	return goals
}

func newNotifyCmd(flags *rootFlags) *cobra.Command {
	notify := &cobra.Command{Use: "notify", Short: "Milestone notification frequency"}
	notify.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the notification frequency",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := cliApp(flags)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.PracticeCLI.Frequency(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (options: %s)\n", out.Frequency, strings.Join(out.Options, ", "))
			return nil
		},
	})
	notify.AddCommand(&cobra.Command{
		Use:   "set <frequency>",
		Short: "Set the notification frequency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := cliApp(flags)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.PracticeCLI.SetFrequency(context.Background(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "notifications: %s\n", out.Frequency)
			return nil
		},
	})
	return notify
}

func newReportCmd(flags *rootFlags) *cobra.Command {
	var date string
	var direct bool
	report := &cobra.Command{
		Use:   "report <minutes>",
		Short: "Report minutes typed outside the practice view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid minutes %q", args[0])
			}
			var at time.Time
			if date != "" {
				if at, err = time.Parse(time.RFC3339, date); err != nil {
					return fmt.Errorf("invalid --date %q: %w", date, err)
				}
			}
			app, err := cliApp(flags)
			if err != nil {
				return err
			}
			defer app.Close()
			if direct {
				out, err := app.PracticeCLI.Report(context.Background(), minutes, at)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "today: %.2f minutes\n", out.Today.Minutes)
				if out.Archived != nil {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "archived %s: %.2f minutes\n", out.Archived.Date.Format("2006-01-02"), out.Archived.Minutes)
				}
				return nil
			}
			resp, err := app.BackgroundCLI.Report(context.Background(), minutes, at)
			if err != nil {
				return err
			}
			if !resp.Success {
				return fmt.Errorf("%s", resp.Message)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}
	report.Flags().StringVar(&date, "date", "", "RFC 3339 timestamp of the report (default now)")
	report.Flags().BoolVar(&direct, "direct", false, "write to storage without the daemon")
	return report
}

func newThemeCmd(flags *rootFlags) *cobra.Command {
	themeCmd := &cobra.Command{Use: "theme", Short: "Per-tab mirrored themes"}
	themeCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List mapped tab themes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := cliApp(flags)
			if err != nil {
				return err
			}
			defer app.Close()
			themes, err := app.ThemeCLI.List(context.Background())
			if err != nil {
				return err
			}
			if len(themes) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no themes")
			}
			for _, t := range themes {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", t.TabID, formatTheme(t.Theme))
			}
			return nil
		},
	})
	themeCmd.AddCommand(&cobra.Command{
		Use:   "show <tab>",
		Short: "Show the theme of one tab",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tabID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid tab %q", args[0])
			}
			app, err := cliApp(flags)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.ThemeCLI.Show(context.Background(), tabID)
			if err != nil {
				return err
			}
			suffix := ""
			if out.Default {
				suffix = " (default)"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s%s\n", out.TabID, formatTheme(out.Theme), suffix)
			return nil
		},
	})

	var theme themedto.Theme
	set := &cobra.Command{
		Use:   "set <tab>",
		Short: "Send a theme for a tab to the daemon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tabID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid tab %q", args[0])
			}
			app, err := cliApp(flags)
			if err != nil {
				return err
			}
			defer app.Close()
			resp, err := app.BackgroundCLI.SetTheme(context.Background(), tabID, withDefaults(theme, app.ThemeCLI.Default()))
			if err != nil {
				return err
			}
			if !resp.Success {
				return fmt.Errorf("%s", resp.Message)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}
	set.Flags().StringVar(&theme.MainColor, "main", "", "main color (hex, no #)")
	set.Flags().StringVar(&theme.BgColor, "bg", "", "background color")
	set.Flags().StringVar(&theme.SubColor, "sub", "", "sub color")
	set.Flags().StringVar(&theme.SubAltColor, "sub-alt", "", "alternate sub color")
	set.Flags().StringVar(&theme.TextColor, "text", "", "text color")
	set.Flags().StringVar(&theme.ErrorColor, "error", "", "error color")
	themeCmd.AddCommand(set)

	themeCmd.AddCommand(&cobra.Command{
		Use:   "forget <tab>",
		Short: "Drop the theme of a closed tab",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tabID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid tab %q", args[0])
			}
			app, err := cliApp(flags)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.ThemeCLI.Forget(context.Background(), tabID); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "forgot tab %d\n", tabID)
			return nil
		},
	})
	return themeCmd
}

func newExportCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Export practice data as JSON, or YAML for .yaml files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := cliApp(flags)
			if err != nil {
				return err
			}
			defer app.Close()
			snap, err := app.PracticeCLI.ExportFile(context.Background(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %d archived days to %s\n", len(snap.History), args[0])
			return nil
		},
	}
}

func newImportCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace practice data with an export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := cliApp(flags)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.PracticeCLI.ImportFile(context.Background(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %d archived days\n", out.HistoryDays)
			return nil
		},
	}
}

func formatMinutes(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// withDefaults fills colors left unset on the command line from the default palette.
func withDefaults(t, defaults themedto.Theme) themedto.Theme {
	pick := func(v, fallback string) string {
		if v == "" {
			return fallback
		}
		return strings.ToLower(strings.TrimPrefix(v, "#"))
	}
	return themedto.Theme{
		MainColor:   pick(t.MainColor, defaults.MainColor),
		BgColor:     pick(t.BgColor, defaults.BgColor),
		SubColor:    pick(t.SubColor, defaults.SubColor),
		SubAltColor: pick(t.SubAltColor, defaults.SubAltColor),
		TextColor:   pick(t.TextColor, defaults.TextColor),
		ErrorColor:  pick(t.ErrorColor, defaults.ErrorColor),
	}
}

func formatTheme(t themedto.Theme) string {
	return fmt.Sprintf("main=%s bg=%s sub=%s subAlt=%s text=%s error=%s",
		t.MainColor, t.BgColor, t.SubColor, t.SubAltColor, t.TextColor, t.ErrorColor)
}

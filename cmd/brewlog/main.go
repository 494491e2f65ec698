package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"brewlog/internal/bootstrap"
	brewdto "brewlog/internal/modules/brew/dto"
	timerdto "brewlog/internal/modules/timer/dto"
	"brewlog/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootFlags struct {
	dir      string
	logLevel string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "brewlog",
		Short:         "Home-brewing session tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.dir, "dir", ".", "data root (sessions live in <dir>/.brewlog)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level override: trace|debug|info|warn|error|off")

	root.AddCommand(newTUICmd(flags))
	root.AddCommand(newCreateCmd(flags))
	root.AddCommand(newListCmd(flags))
	root.AddCommand(newShowCmd(flags))
	root.AddCommand(newSaveCmd(flags))
	root.AddCommand(newMoveCmd(flags, "advance", "Save the phase form and move to the next phase"))
	root.AddCommand(newMoveCmd(flags, "retreat", "Save the phase form and move to the previous phase"))
	root.AddCommand(newTimerCmd(flags))
	root.AddCommand(newAskCmd(flags))
	root.AddCommand(newAdvisorCmd(flags))
	root.AddCommand(newExportCmd(flags))
	root.AddCommand(newImportCmd(flags))
	root.AddCommand(newDeleteCmd(flags))
	return root
}

func loadApp(flags *rootFlags) (*bootstrap.App, error) {
	cfg, err := config.New(flags.dir)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(flags.logLevel) != "" {
		cfg.Log.Level = flags.logLevel
	}
	return bootstrap.New(cfg)
}

// withApp runs fn against a freshly wired app and releases it afterwards.
func withApp(flags *rootFlags, fn func(*bootstrap.App) error) error {
	app, err := loadApp(flags)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	return fn(app)
}

func newTUICmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the brewlog terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(flags, bootstrap.RunTUI)
		},
	}
}

func newCreateCmd(flags *rootFlags) *cobra.Command {
	var style string
	cmd := &cobra.Command{
		Use:   "new <name> --style <style>",
		Short: "Start a new brew session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(style) == "" {
				return fmt.Errorf("--style is required")
			}
			return withApp(flags, func(app *bootstrap.App) error {
				out, err := app.BrewCLI.Create(context.Background(), args[0], style)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "brew started: %s %q (%s) phase=%s\n", out.ID, out.Name, out.Style, out.CurrentPhase)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&style, "style", "", "beer style")
	return cmd
}

func newListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List brew sessions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				sessions, err := app.BrewCLI.List(context.Background())
				if err != nil {
					return err
				}
				if len(sessions) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no brews yet")
					return nil
				}
				for _, s := range sessions {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s\n", s.ID, s.CreatedAt.Local().Format("2006-01-02"), s.Name, s.Style, s.CurrentPhase)
				}
				return nil
			})
		},
	}
}

func newShowCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a brew session with all recorded phases",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				s, err := app.BrewCLI.Get(context.Background(), args[0])
				if err != nil {
					return err
				}
				printSession(cmd.OutOrStdout(), s)
				return nil
			})
		},
	}
}

func newSaveCmd(flags *rootFlags) *cobra.Command {
	var phase string
	var assignments []string
	cmd := &cobra.Command{
		Use:   "save <id> --set key=value",
		Short: "Record phase readings without changing phase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(assignments) == 0 {
				return fmt.Errorf("at least one --set is required")
			}
			return withApp(flags, func(app *bootstrap.App) error {
				s, err := app.BrewCLI.SavePhase(context.Background(), args[0], phase, assignments)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "saved %s phase=%s\n", s.ID, phaseOrCurrent(phase, s.CurrentPhase))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&phase, "phase", "", "phase to record (defaults to the current phase)")
	cmd.Flags().StringArrayVar(&assignments, "set", nil, "field assignment, e.g. notes=\"mashed at 152F\" or tempUnit=C")
	return cmd
}

func newMoveCmd(flags *rootFlags, name, short string) *cobra.Command {
	var from string
	var assignments []string
	cmd := &cobra.Command{
		Use:   name + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				move := app.BrewCLI.Advance
				if name == "retreat" {
					move = app.BrewCLI.Retreat
				}
				out, err := move(context.Background(), args[0], from, assignments)
				if err != nil {
					return err
				}
				if !out.Transition {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "saved %s, already at %s\n", out.Session.ID, out.From)
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s (step %d of %d)\n", out.Session.ID, out.From, out.To, out.Session.Step, out.Session.TotalSteps)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "phase the form belongs to (defaults to the current phase)")
	cmd.Flags().StringArrayVar(&assignments, "set", nil, "field assignment saved before the move")
	return cmd
}

func newTimerCmd(flags *rootFlags) *cobra.Command {
	timer := &cobra.Command{Use: "timer", Short: "Phase countdown timer"}

	simple := []struct {
		use   string
		short string
		run   func(app *bootstrap.App, id string) (timerdto.StatusOutput, error)
	}{
		{"status", "Show the timer", func(app *bootstrap.App, id string) (timerdto.StatusOutput, error) {
			return app.TimerCLI.Status(context.Background(), id)
		}},
		{"start", "Start or resume the countdown", func(app *bootstrap.App, id string) (timerdto.StatusOutput, error) {
			return app.TimerCLI.Start(context.Background(), id)
		}},
		{"pause", "Pause the countdown", func(app *bootstrap.App, id string) (timerdto.StatusOutput, error) {
			return app.TimerCLI.Pause(context.Background(), id)
		}},
		{"toggle", "Start when paused, pause when running", func(app *bootstrap.App, id string) (timerdto.StatusOutput, error) {
			return app.TimerCLI.Toggle(context.Background(), id)
		}},
		{"reset", "Stop and restore the full duration", func(app *bootstrap.App, id string) (timerdto.StatusOutput, error) {
			return app.TimerCLI.Reset(context.Background(), id)
		}},
	}
	for _, item := range simple {
		item := item
		timer.AddCommand(&cobra.Command{
			Use:   item.use + " <id>",
			Short: item.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(flags, func(app *bootstrap.App) error {
					out, err := item.run(app, args[0])
					if err != nil {
						return err
					}
					printTimer(cmd.OutOrStdout(), out)
					return nil
				})
			},
		})
	}

	timer.AddCommand(&cobra.Command{
		Use:   "duration <id> <minutes>",
		Short: "Set the countdown length while paused",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				out, err := app.TimerCLI.SetDuration(context.Background(), args[0], args[1])
				if err != nil {
					return err
				}
				printTimer(cmd.OutOrStdout(), out)
				return nil
			})
		},
	})

	timer.AddCommand(&cobra.Command{
		Use:   "watch <id>",
		Short: "Follow the countdown until it ends or is paused",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return withApp(flags, func(app *bootstrap.App) error {
				err := app.TimerCLI.Watch(ctx, args[0], func(out timerdto.StatusOutput) {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\r%s %s ", out.Display, timerState(out))
				})
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
				if err != nil && ctx.Err() != nil {
					return nil
				}
				return err
			})
		},
	})
	return timer
}

func newAskCmd(flags *rootFlags) *cobra.Command {
	var notes string
	cmd := &cobra.Command{
		Use:   "ask <id> <question>",
		Short: "Ask the brewing advisor about the current phase",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var notesOverride *string
			if cmd.Flags().Changed("notes") {
				notesOverride = &notes
			}
			return withApp(flags, func(app *bootstrap.App) error {
				out, err := app.AdviceCLI.Ask(context.Background(), args[0], strings.Join(args[1:], " "), notesOverride)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Text)
				if out.Fallback {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "(advisor %s unavailable, see log)\n", out.Provider)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "phase notes to send instead of the saved ones")
	return cmd
}

func newAdvisorCmd(flags *rootFlags) *cobra.Command {
	advisor := &cobra.Command{Use: "advisor", Short: "Advisor provider operations"}
	advisor.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Check that the configured advisor can answer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				out, err := app.AdviceCLI.Doctor(context.Background())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "provider=%s ready=%t", out.Provider, out.Ready)
				if out.Name != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), " name=%s", out.Name)
				}
				if out.Version != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), " version=%s", out.Version)
				}
				if out.Model != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), " model=%s", out.Model)
				}
				if out.Error != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), " error=%q", out.Error)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
				return nil
			})
		},
	})
	return advisor
}

func newExportCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export <id>",
		Short: "Write the brew to a markdown journal note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				out, err := app.BrewCLI.Export(context.Background(), args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %s note=%s\n", out.SessionID, out.Path)
				return nil
			})
		},
	}
}

func newImportCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Import a JSON array of sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				out, err := app.BrewCLI.Import(context.Background(), args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %d session(s)\n", out.Imported)
				for _, reason := range out.Skipped {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "skipped: %s\n", reason)
				}
				return nil
			})
		},
	}
}

func newDeleteCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a brew session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				if err := app.BrewCLI.Delete(context.Background(), args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func printSession(w io.Writer, s brewdto.SessionOutput) {
	_, _ = fmt.Fprintf(w, "id: %s\nname: %s\nstyle: %s\ncreated: %s\nphase: %s (step %d of %d, %.1f%%)\n", s.ID, s.Name, s.Style, s.CreatedAt.Local().Format("2006-01-02 15:04"), s.CurrentPhase, s.Step, s.TotalSteps, s.Progress)
	_, _ = fmt.Fprintf(w, "  %s\n", s.Description)
	if s.TimerRunning {
		_, _ = fmt.Fprintln(w, "timer: running")
	}
	for _, p := range s.Phases {
		if !p.Recorded {
			continue
		}
		_, _ = fmt.Fprintf(w, "\n[%s]\n", p.Phase)
		printReading(w, "temperature", p.Temperature, p.TempUnit, p.Converted["temperature"])
		printReading(w, "strike", p.InitialTemperature, p.TempUnit, p.Converted["initialTemperature"])
		printReading(w, "final mash", p.FinalTemperature, p.TempUnit, p.Converted["finalTemperature"])
		if p.WaterBottlesCount > 0 {
			_, _ = fmt.Fprintf(w, "  water: %d x %s L = %s L\n", p.WaterBottlesCount, p.BottleVolume, p.TotalWater)
		}
		printReading(w, "gravity", p.Gravity, "", "")
		printReading(w, "pre-boil gravity", p.PreBoilGravity, "", "")
		printReading(w, "pre-boil volume", p.PreBoilVolume, "", "")
		printReading(w, "post-boil gravity", p.PostBoilGravity, "", "")
		printReading(w, "post-boil volume", p.PostBoilVolume, "", "")
		if strings.TrimSpace(p.Notes) != "" {
			_, _ = fmt.Fprintf(w, "  notes: %s\n", p.Notes)
		}
	}
}

func printReading(w io.Writer, label, value, unit, converted string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	line := "  " + label + ": " + value
	if unit != "" {
		line += " " + unit
	}
	if converted != "" {
		line += " (" + converted + ")"
	}
	_, _ = fmt.Fprintln(w, line)
}

func printTimer(w io.Writer, out timerdto.StatusOutput) {
	_, _ = fmt.Fprintf(w, "%s phase=%s %s duration=%dmin\n", out.Display, out.Phase, timerState(out), out.DurationMinutes)
}

func timerState(out timerdto.StatusOutput) string {
	switch {
	case out.Running:
		return "running"
	case out.Expired:
		return "done"
	default:
		return "paused"
	}
}

func phaseOrCurrent(phase, current string) string {
	if strings.TrimSpace(phase) != "" {
		return phase
	}
	return current
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/riskibarqy/fantasy-squad/internal/app"
	"github.com/riskibarqy/fantasy-squad/internal/config"
	"github.com/riskibarqy/fantasy-squad/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-squad/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-squad/internal/platform/logging"
	"github.com/riskibarqy/fantasy-squad/internal/usecase"
)

func newCLIApp(logger *logging.Logger) *cli.App {
	cliApp := &cli.App{
		Name:  "squadctl",
		Usage: "Inspect squads and run gameweek maintenance",
		Commands: []*cli.Command{
			checkCmd(),
			rolloverCmd(logger),
		},
	}
	cliApp.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return cliApp
}

// squadFile is the on-disk shape accepted by check. JSON is valid YAML, so
// either works.
type squadFile struct {
	LeagueID      string   `yaml:"league_id"`
	PlayerIDs     []string `yaml:"player_ids"`
	CaptainID     string   `yaml:"captain_id"`
	ViceCaptainID string   `yaml:"vice_captain_id"`
}

type checkStep struct {
	PlayerID string `json:"player_id"`
	Allowed  bool   `json:"allowed"`
	Reason   string `json:"reason,omitempty"`
	Message  string `json:"message,omitempty"`
}

type checkReport struct {
	LeagueID            string      `json:"league_id"`
	Steps               []checkStep `json:"steps"`
	Spent               int64       `json:"spent"`
	Remaining           int64       `json:"remaining"`
	PlayerCount         int         `json:"player_count"`
	CompositionComplete bool        `json:"composition_complete"`
	Complete            bool        `json:"complete"`
	Warnings            []string    `json:"warnings"`
}

func checkCmd() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Replay a squad file against the seeded catalog and report each decision",
		ArgsUsage: "<squad.yaml|->",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "rules", Aliases: []string{"r"}, Usage: "Rules YAML file (defaults when empty)", EnvVars: []string{"RULES_FILE"}},
			&cli.StringFlag{Name: "league", Aliases: []string{"l"}, Usage: "League ID, overrides the file"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("check expects exactly one squad file argument")
			}

			rules, err := config.LoadRules(c.String("rules"))
			if err != nil {
				return err
			}

			input, err := readSquadFile(c.Args().First(), c.App.Reader)
			if err != nil {
				return err
			}
			if league := strings.TrimSpace(c.String("league")); league != "" {
				input.LeagueID = league
			}
			if input.LeagueID == "" {
				input.LeagueID = memory.LeagueIDLiga1Indonesia
			}

			report, err := runCheck(c.Context, input, rules)
			if err != nil {
				return err
			}
			if err := writeJSON(c.App.Writer, report); err != nil {
				return err
			}
			if !report.Complete {
				return cli.Exit("squad is not complete", 2)
			}
			return nil
		},
	}
}

func readSquadFile(path string, stdin io.Reader) (squadFile, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return squadFile{}, fmt.Errorf("read squad file: %w", err)
	}

	var out squadFile
	if err := yaml.Unmarshal(data, &out); err != nil {
		return squadFile{}, fmt.Errorf("parse squad file: %w", err)
	}
	return out, nil
}

// runCheck adds players one at a time so the first failing rule for each pick
// is visible, then applies captaincy and evaluates the result.
func runCheck(ctx context.Context, input squadFile, rules fantasy.Rules) (checkReport, error) {
	players := memory.NewPlayerRepository(memory.SeedPlayers())

	squad := fantasy.NewSquad("check", "squadctl", input.LeagueID, "", rules)
	report := checkReport{LeagueID: input.LeagueID, Steps: make([]checkStep, 0, len(input.PlayerIDs))}

	for _, playerID := range input.PlayerIDs {
		p, ok, err := players.GetByID(ctx, input.LeagueID, playerID)
		if err != nil {
			return checkReport{}, err
		}
		if !ok {
			report.Steps = append(report.Steps, checkStep{
				PlayerID: playerID,
				Reason:   "NOT_FOUND",
				Message:  "player is not in the catalog for this league",
			})
			continue
		}

		var decision fantasy.Decision
		squad, decision = fantasy.Add(squad, fantasy.PickFromPlayer(p), rules)
		report.Steps = append(report.Steps, stepFromDecision(playerID, decision))
	}

	if input.CaptainID != "" {
		var decision fantasy.Decision
		squad, decision = fantasy.SetCaptain(squad, input.CaptainID)
		if !decision.Allowed {
			report.Steps = append(report.Steps, stepFromDecision("captain:"+input.CaptainID, decision))
		}
	}
	if input.ViceCaptainID != "" {
		var decision fantasy.Decision
		squad, decision = fantasy.SetViceCaptain(squad, input.ViceCaptainID)
		if !decision.Allowed {
			report.Steps = append(report.Steps, stepFromDecision("vice_captain:"+input.ViceCaptainID, decision))
		}
	}

	status := fantasy.Evaluate(squad, rules)
	report.Spent = status.Spent
	report.Remaining = status.Remaining
	report.PlayerCount = status.PlayerCount
	report.CompositionComplete = status.CompositionComplete
	report.Complete = status.Complete
	report.Warnings = status.Warnings
	return report, nil
}

func stepFromDecision(playerID string, d fantasy.Decision) checkStep {
	return checkStep{
		PlayerID: playerID,
		Allowed:  d.Allowed,
		Reason:   string(d.Reason),
		Message:  d.Message,
	}
}

func rolloverCmd(logger *logging.Logger) *cli.Command {
	return &cli.Command{
		Name:  "rollover",
		Usage: "Start the next gameweek for a league using the configured storage",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "league", Aliases: []string{"l"}, Usage: "League ID", Required: true},
			&cli.IntFlag{Name: "gameweek", Aliases: []string{"g"}, Usage: "Gameweek to start (defaults to current + 1)"},
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "Worker override (0 uses GAMEWEEK_WORKERS)"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := c.Context
			a, err := app.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			leagueID := strings.TrimSpace(c.String("league"))
			gameweek := c.Int("gameweek")
			if gameweek <= 0 {
				l, err := a.Services.League.GetLeague(ctx, leagueID)
				if err != nil {
					return err
				}
				gameweek = l.CurrentGameweek + 1
			}

			result, err := a.Services.Gameweek.StartGameweek(ctx, usecase.StartGameweekInput{
				LeagueID:   leagueID,
				Gameweek:   gameweek,
				MaxWorkers: c.Int("workers"),
			})
			if err != nil {
				return err
			}
			return writeJSON(c.App.Writer, result)
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

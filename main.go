package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cepro/chargecap/chargecap"
	"github.com/cepro/chargecap/config"
	"github.com/cepro/chargecap/program"
	"github.com/cepro/chargecap/repository"
	"github.com/cepro/chargecap/resource"
	"github.com/cepro/chargecap/solve"
	"golang.org/x/exp/slog"
)

func main() {

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	configPath := flag.String("config", "config.json", "Path to configuration file (JSON or YAML)")
	flag.Parse()

	cfg, err := config.Read(*configPath)
	if err != nil {
		slog.Error("Failed to read config", "error", err)
		os.Exit(1)
	}

	err = run(cfg)
	if err != nil {
		slog.Error("Run failed", "error", err)
		os.Exit(1)
	}
}

// run builds the charge capacity model described by `cfg`, then optionally exports, solves and records it.
func run(cfg config.Config) error {

	table, err := loadResources(cfg.Resources)
	if err != nil {
		return err
	}
	sets := resource.DeriveSets(table)

	p := program.New()
	result, err := chargecap.Build(p, chargecap.Inputs{
		Resources:      table,
		Sets:           sets,
		Zones:          cfg.Zones,
		MultiStage:     cfg.IsMultiStage(),
		OpexMultiplier: cfg.OpexMultiplier(),
	})
	if err != nil {
		return fmt.Errorf("build model: %w", err)
	}

	stats := p.Stats()
	record := repository.Run{
		ID:             p.ID,
		Time:           time.Now(),
		MultiStage:     cfg.IsMultiStage(),
		OpexMultiplier: cfg.OpexMultiplier(),
		Resources:      sets.Asymmetric.Len(),
		Variables:      stats.Variables,
		Expressions:    stats.Expressions,
		Constraints:    stats.Constraints,
		Status:         repository.RunStatusBuilt,
	}

	if cfg.Output.LpPath != "" {
		err = writeLP(p, cfg.Output.LpPath)
		if err != nil {
			return err
		}
		slog.Info("Wrote LP file", "path", cfg.Output.LpPath)
	}

	if cfg.Solve {
		solution, err := solve.Solve(p)
		switch {
		case errors.Is(err, solve.ErrInfeasible):
			record.Status = repository.RunStatusInfeasible
			slog.Warn("Model is infeasible, check for existing capacity outside of its bounds", "error", err)
		case err != nil:
			record.Status = repository.RunStatusFailed
			slog.Error("Failed to solve model", "error", err)
		default:
			record.Status = repository.RunStatusSolved
			record.Objective = &solution.Objective
			logSolution(solution, result, sets)
		}
	}

	if cfg.Output.RunsDbPath != "" {
		repo, err := repository.New(cfg.Output.RunsDbPath)
		if err != nil {
			return fmt.Errorf("create run repository: %w", err)
		}
		err = repo.AddRun(record)
		if err != nil {
			return fmt.Errorf("record run: %w", err)
		}
	}

	slog.Info(
		"Finished",
		"run_id", record.ID.String(),
		"status", record.Status,
		"variables", stats.Variables,
		"constraints", stats.Constraints,
	)

	return nil
}

func loadResources(cfg config.ResourcesConfig) (resource.Table, error) {
	if cfg.CsvPath != "" {
		return resource.LoadCSV(cfg.CsvPath)
	}

	repo, err := repository.New(cfg.SqlitePath)
	if err != nil {
		return nil, fmt.Errorf("open resource database: %w", err)
	}
	table, err := repo.LoadResources()
	if err != nil {
		return nil, fmt.Errorf("load resources: %w", err)
	}
	return table, nil
}

func writeLP(p *program.Program, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create lp file: %w", err)
	}
	defer f.Close()

	err = p.WriteLP(f)
	if err != nil {
		return fmt.Errorf("write lp file: %w", err)
	}
	return nil
}

func logSolution(solution solve.Solution, result *chargecap.Result, sets resource.Sets) {
	for _, id := range sets.Asymmetric.Sorted() {
		slog.Info(
			"Charge capacity",
			"resource", id,
			"mode", result.Capacity.Modes[id].String(),
			"existing_mw", solution.Eval(result.Capacity.Existing[id]),
			"total_mw", solution.Eval(result.Capacity.Total[id]),
			"fixed_cost", solution.Eval(result.Costs.Fixed[id]),
		)
	}
	slog.Info(
		"Solved model",
		"objective", solution.Objective,
		"investment_cost", solution.Eval(result.Costs.TotalInvestment),
		"fixed_om_cost", solution.Eval(result.Costs.TotalFixedOM),
	)
}

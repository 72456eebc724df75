// Package main — questctl, служебная утилита: миграции и справка по прогрессии.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"serotonyl.ru/quest-bot/internal/app"
	"serotonyl.ru/quest-bot/internal/common"
	"serotonyl.ru/quest-bot/internal/config"
	"serotonyl.ru/quest-bot/internal/db/postgres"
	"serotonyl.ru/quest-bot/internal/features/character"
)

const (
	defaultLevels  = 15
	migrateTimeout = 2 * time.Minute
)

var levelsMax int

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "questctl",
		Short:        "Служебные команды квест-бота",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newMigrateCmd(), newLevelsCmd(), newLevelCmd(), newPriceCmd())
	return rootCmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Применить миграции БД (конфиг из окружения, как у бота)",
		Args:  cobra.NoArgs,
		RunE:  runMigrateCmd,
	}
}

func runMigrateCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	n, err := app.RunMigrations(ctx, pool)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Применено миграций: %d из %d\n", n, len(app.Migrations()))
	return nil
}

func newLevelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "levels",
		Short: "Таблица порогов уровней",
		Args:  cobra.NoArgs,
		RunE:  runLevelsCmd,
	}
	cmd.Flags().IntVar(&levelsMax, "max", defaultLevels, "сколько уровней вывести")
	return cmd
}

func runLevelsCmd(cmd *cobra.Command, _ []string) error {
	if levelsMax < 1 {
		return fmt.Errorf("--max должен быть >= 1")
	}
	fmt.Fprintln(cmd.OutOrStdout(), character.RenderLevelsTable(levelsMax))
	return nil
}

func newLevelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "level <опыт>",
		Short: "Уровень и ранг для суммарного опыта",
		Args:  cobra.ExactArgs(1),
		RunE:  runLevelCmd,
	}
}

func runLevelCmd(cmd *cobra.Command, args []string) error {
	points, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || points < 0 {
		return fmt.Errorf("опыт должен быть неотрицательным целым: %q", args[0])
	}

	p := character.NewProgression(points)
	lp := p.Progress()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Опыт:    %s\n", common.FormatXP(p.TotalPoints))
	fmt.Fprintf(out, "Уровень: %d (%.0f%%)\n", p.Level, lp.Percentage)
	if p.Level < character.MaxLevel {
		fmt.Fprintf(out, "До %d уровня: %s\n", p.Level+1, common.FormatXP(lp.PointsToNextLevel()))
	}
	fmt.Fprintf(out, "Ранг:    %s\n", p.Rank)
	if next, threshold, ok := character.NextRankThreshold(p.TotalPoints); ok {
		fmt.Fprintf(out, "До ранга %s: %s\n", next, common.FormatXP(threshold-p.TotalPoints))
	}
	return nil
}

func newPriceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "price <сложность> <цель>",
		Short: "Награда за квест",
		Args:  cobra.ExactArgs(2),
		RunE:  runPriceCmd,
	}
}

func runPriceCmd(cmd *cobra.Command, args []string) error {
	difficulty, ok := character.ParseDifficulty(args[0])
	if !ok {
		return common.ErrUnknownDifficulty
	}
	goal, err := strconv.Atoi(args[1])
	if err != nil || goal < 1 {
		return common.ErrInvalidQuestGoal
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s, цель %d: %s\n",
		difficulty, goal, common.FormatXP(character.PointsForCompletedTask(difficulty, goal)))
	return nil
}

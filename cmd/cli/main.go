package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/myrjola/bookinator/internal/ai"
	"github.com/myrjola/bookinator/internal/catalog"
	"github.com/myrjola/bookinator/internal/models"
	"github.com/myrjola/bookinator/internal/narrowing"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:  "bookinator-cli",
	Long: `Command line utilities for Bookinator https://github.com/myrjola/bookinator`,
}

var dataDir string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the deterministic guessing game in the terminal",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})) //nolint:exhaustruct // defaults are fine
		store := catalog.Load(dataDir, logger)
		engine := narrowing.NewEngine(store)
		reader := bufio.NewReader(os.Stdin)
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "Think of a book. Answer with y(es), n(o), or m(aybe). Type q to give up.")
		for {
			question := engine.NextQuestion()
			if question == nil {
				break
			}
			fmt.Fprintf(out, "\n%s [y/n/m] ", question.Text)
			line, err := reader.ReadString('\n')
			if err != nil {
				break
			}
			answer := models.AnswerMaybe
			switch strings.ToLower(strings.TrimSpace(line)) {
			case "y", "yes":
				answer = models.AnswerYes
			case "n", "no":
				answer = models.AnswerNo
			case "q", "quit":
				fmt.Fprintln(out, "Giving up.")
				return nil
			}
			engine.Answer(question.Feature, answer)

			if ranked := engine.Rank(); len(ranked) > 0 && ranked[0].Score > 0.9 {
				fmt.Fprintf(out, "\nMy guess: %s by %s\n", ranked[0].Book.Title, ranked[0].Book.Authors)
				return nil
			}
		}

		ranked := engine.Rank()
		if len(ranked) == 0 {
			fmt.Fprintln(out, "The catalog is empty, nothing to guess.")
			return nil
		}
		fmt.Fprintln(out, "\nOut of questions. My top candidates:")
		for i, scored := range ranked {
			if i == 3 {
				break
			}
			fmt.Fprintf(out, "%d. %s by %s (score %.2f)\n", i+1, scored.Book.Title, scored.Book.Authors, scored.Score)
		}
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the completion service is reachable",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()

		client := ai.NewClient(
			os.Getenv("OPENAI_API_KEY"),
			os.Getenv("BOOKINATOR_COMPLETION_BASE_URL"),
			os.Getenv("BOOKINATOR_COMPLETION_MODEL"),
		)
		names, err := client.Models(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Completion service is up with %d models:\n", len(names))
		for _, name := range names {
			fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", name)
		}
		return nil
	},
}

func init() {
	_ = godotenv.Load()
	playCmd.Flags().StringVar(&dataDir, "data", "./data", "directory containing the catalog files")
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(checkCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}

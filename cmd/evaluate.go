package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/k0kubun/pp/v3"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/builder-match/internal/filtering"
	"github.com/spigell/builder-match/internal/intake"
	applogger "github.com/spigell/builder-match/internal/logger"
	"github.com/spigell/builder-match/internal/report"
)

const (
	PromptAllIdeas = "All ideas"
	defaultInput   = "ideas.yaml"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate builder submissions from an intake file and rank them per idea",
	Run: func(cmd *cobra.Command, _ []string) {
		evaluate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringP("input", "i", "", "intake file with ideas and submissions (default is ideas.yaml or the input key)")
	evaluateCmd.Flags().Int("idea", 0, "report only the idea with this id")
	evaluateCmd.Flags().Bool("interactive", false, "choose the idea to report from a list")
	evaluateCmd.Flags().Bool("dump", false, "dump the full report to a temporary json file")
	evaluateCmd.Flags().Bool("pretty", false, "pretty print the report instead of json")
	evaluateCmd.Flags().StringSlice("skip-filter", nil, "filters to skip by name: exclude_emails, skill_overlap, minimum_readiness")
}

func evaluate(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := applogger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	runID := uuid.NewString()
	logger = applogger.WithRun(logger, runID)

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the builder-match", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	svc, hasQuestions := newService(ctx, config, logger)

	input := inputPath(cmd, config)
	file, err := intake.LoadFile(input)
	if err != nil {
		logger.Fatal("loading intake file", zap.Error(err))
	}

	logger.Info("ingesting ideas", zap.String("input", input), zap.Int("count", len(file.Ideas)))

	outcomes, err := svc.Ingest(ctx, file, intake.IngestOptions{GenerateQuestions: hasQuestions})
	if err != nil {
		logger.Fatal("ingesting intake file", zap.Error(err))
	}

	outcomes, err = selectIdeas(cmd, outcomes)
	if err != nil {
		logger.Fatal("selecting ideas", zap.Error(err))
	}

	if len(outcomes) == 0 {
		logger.Info("exiting", zap.String("reason", "no ideas to report"))
		return
	}

	filters := prepareFilters(config.Ranking, logger)
	skipped, _ := cmd.Flags().GetStringSlice("skip-filter")
	if err := skipFilters(filters, skipped); err != nil {
		logger.Fatal("skipping filters", zap.Error(err))
	}
	for _, status := range filters.Describe() {
		logger.Debug("filter configured",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	rep := report.New(runID, time.Now())
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			rep.Add(outcome, nil, nil)
			continue
		}

		candidates, steps, err := filters.RunFilters(ctx, filtering.NewCandidates(outcome.Idea))
		if err != nil {
			logger.Fatal("filtering failed", zap.Error(err))
		}

		candidates.Rank()
		if dropped := candidates.Limit(config.Ranking.Limit); len(dropped) > 0 {
			steps = append(steps, filtering.Step{
				Name:    "limit",
				Initial: candidates.Len() + len(dropped),
				Dropped: dropped,
				Left:    candidates.Len(),
			})
		}

		rep.Add(outcome, candidates, steps)
	}

	if err := printReport(cmd, rep, logger); err != nil {
		logger.Fatal("printing report", zap.Error(err))
	}
}

func newService(ctx context.Context, config *Config, logger *zap.Logger) (*intake.Service, bool) {
	profiler, questions, err := newAICollaborators(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("running without ai, personality falls back to defaults", zap.Error(err))
	}

	svc := intake.New(intake.Config{Concurrency: config.AI.Concurrency}, intake.Deps{
		Profiler:  profiler,
		Questions: questions,
		Logger:    logger,
	})

	return svc, questions != nil
}

func inputPath(cmd *cobra.Command, config *Config) string {
	if flag := cmd.Flag("input"); flag != nil && flag.Value.String() != "" {
		return flag.Value.String()
	}
	if config.Input != "" {
		return config.Input
	}
	return defaultInput
}

func prepareFilters(config *RankingConfig, logger *zap.Logger) *filtering.Filtering {
	steps := []filtering.Filter{
		filtering.NewExcludedEmails(config.ExcludeEmails),
		filtering.NewSkillOverlap(config.RequireSkillOverlap),
		filtering.NewMinimumReadiness(config.MinimumReadiness),
	}

	return filtering.New(steps, logger)
}

func skipFilters(filters *filtering.Filtering, names []string) error {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !filters.DisableByName(name, "skipped from command line") {
			return fmt.Errorf("unknown filter %q", name)
		}
	}
	return nil
}

func selectIdeas(cmd *cobra.Command, outcomes []intake.IdeaOutcome) ([]intake.IdeaOutcome, error) {
	ideaID, _ := cmd.Flags().GetInt("idea")
	if ideaID > 0 {
		return filterByIdeaID(outcomes, ideaID)
	}

	interactive, _ := cmd.Flags().GetBool("interactive")
	if !interactive {
		return outcomes, nil
	}

	items := []string{PromptAllIdeas}
	for _, o := range outcomes {
		if o.Err != nil {
			continue
		}
		items = append(items, fmt.Sprintf("%d %s (%d interests)", o.Idea.ID, o.Idea.Title, len(o.Idea.Interests)))
	}

	ideaPrompt := promptui.Select{
		Label: "Choose an idea and press ENTER",
		Items: items,
	}

	_, selected, err := ideaPrompt.Run()
	if err != nil {
		return nil, err
	}

	if selected == PromptAllIdeas {
		return outcomes, nil
	}

	id, err := strconv.Atoi(strings.Split(selected, " ")[0])
	if err != nil {
		return nil, fmt.Errorf("invalid selection %q: %w", selected, err)
	}

	return filterByIdeaID(outcomes, id)
}

func filterByIdeaID(outcomes []intake.IdeaOutcome, id int) ([]intake.IdeaOutcome, error) {
	for _, o := range outcomes {
		if o.Err == nil && o.Idea.ID == id {
			return []intake.IdeaOutcome{o}, nil
		}
	}
	return nil, fmt.Errorf("there is no such idea id %d", id)
}

func printReport(cmd *cobra.Command, rep *report.Report, logger *zap.Logger) error {
	if dump, _ := cmd.Flags().GetBool("dump"); dump {
		filename, err := rep.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump report to file: %w", err)
		}
		logger.Info("dumping report to file", zap.String("filename", filename))
	}

	byIdea, _ := json.MarshalIndent(rep.ByIdea(), "", "  ")
	logger.Info(string(byIdea), zap.Int("candidates count", rep.Len()))

	if prettyPrint, _ := cmd.Flags().GetBool("pretty"); prettyPrint {
		_, err := pp.Println(rep)
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

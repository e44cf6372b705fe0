package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/builder-match/internal/intake"
	applogger "github.com/spigell/builder-match/internal/logger"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Generate screening questions for every idea of an intake file",
	Run: func(cmd *cobra.Command, _ []string) {
		questions(cmd)
	},
}

func init() {
	rootCmd.AddCommand(questionsCmd)

	questionsCmd.Flags().StringP("input", "i", "", "intake file with ideas (default is ideas.yaml or the input key)")
}

type ideaQuestions struct {
	IdeaID    int      `json:"idea_id"`
	Title     string   `json:"idea_title"`
	Questions []string `json:"generated_questions"`
	Error     string   `json:"error,omitempty"`
}

func questions(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := applogger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	logger = applogger.WithRun(logger, uuid.NewString())

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if !config.AI.Enabled {
		logger.Fatal("question generation requires ai", zap.String("hint", "set ai.enabled to true"))
	}

	_, writer, err := newAICollaborators(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building ai collaborators", zap.Error(err))
	}

	svc := intake.New(intake.Config{Concurrency: config.AI.Concurrency}, intake.Deps{
		Questions: writer,
		Logger:    logger,
	})

	file, err := intake.LoadFile(inputPath(cmd, config))
	if err != nil {
		logger.Fatal("loading intake file", zap.Error(err))
	}

	result := make([]ideaQuestions, 0, len(file.Ideas))
	for i, entry := range file.Ideas {
		idea, err := svc.SubmitIdea(entry.IdeaSubmission)
		if err != nil {
			logger.Warn("idea rejected", zap.Int("index", i), zap.Error(err))
			result = append(result, ideaQuestions{Error: err.Error()})
			continue
		}

		item := ideaQuestions{IdeaID: idea.ID, Title: idea.Title}
		item.Questions, err = svc.GenerateQuestions(ctx, idea.ID)
		if err != nil {
			item.Error = err.Error()
		}
		result = append(result, item)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		logger.Fatal(fmt.Sprintf("encoding questions: %s", err))
	}
}

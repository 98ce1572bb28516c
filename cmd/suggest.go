package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/profile-optimizer/internal/ai"
	"github.com/spigell/profile-optimizer/internal/dating"
	"github.com/spigell/profile-optimizer/internal/logger"
	"github.com/spigell/profile-optimizer/internal/pipeline"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Fetch the profile and potential dates and print profile suggestions",
	Run: func(cmd *cobra.Command, _ []string) {
		suggest(cmd)
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)

	suggestCmd.Flags().StringP("style", "s", "", "match style: potential, teenager, senior_citizen or businessman")
	suggestCmd.Flags().BoolP("auto-aprove", "y", false, "do not ask for the match style, use the default one")
	suggestCmd.Flags().StringP("custom-profile", "p", "", "a JSON file with a short profile description used instead of the live profile")
	suggestCmd.Flags().StringP("country", "c", "", "country code of the potential dates fixture used with --custom-profile")
}

func suggest(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the profile-optimizer", zap.String("version", version))

	customProfile, _ := cmd.Flags().GetString("custom-profile")

	p, err := newPipeline(ctx, config, customProfile == "", logger)
	if err != nil {
		logger.Fatal("preparing the pipeline", zap.Error(err),
			zap.String("hint", "set X_AUTH_TOKEN and OPENAI_API_KEY environment variables or the matching keys in the configuration file"),
		)
	}

	for _, status := range pipeline.Describe(p.Steps(p.Options().UseLocalFixtures)) {
		logger.Debug("dates step status",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	var payload *pipeline.Payload
	if customProfile != "" {
		country, _ := cmd.Flags().GetString("country")
		payload, err = customPayload(ctx, p, customProfile, country, config.Server.DefaultCountry)
	} else {
		payload, err = p.Live(ctx)
	}
	if err != nil {
		if errors.Is(err, pipeline.ErrNoData) {
			logger.Info("exiting", zap.String("reason", "failed to get data"))
			return
		}
		logger.Fatal("getting data", zap.Error(err))
	}

	style, err := chooseStyle(cmd)
	if err != nil {
		logger.Fatal("choosing match style", zap.Error(err))
	}

	set, err := p.Suggest(ctx, payload, style)
	if err != nil {
		logger.Fatal("getting suggestions", zap.Error(err))
	}

	printSuggestions(os.Stdout, set)
}

func customPayload(ctx context.Context, p *pipeline.Pipeline, path, country, defaultCountry string) (*pipeline.Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading custom profile: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing custom profile: %w", err)
	}

	simple, err := dating.DecodeSimpleProfile(raw)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(country) == "" {
		country = defaultCountry
	}

	return p.Custom(ctx, simple, country)
}

func chooseStyle(cmd *cobra.Command) (ai.MatchStyle, error) {
	if flag, _ := cmd.Flags().GetString("style"); flag != "" {
		return ai.ParseStyle(flag), nil
	}

	if autoApprove, _ := cmd.Flags().GetBool("auto-aprove"); autoApprove {
		return ai.StylePotential, nil
	}

	styles := ai.Styles()
	items := make([]string, len(styles))
	for i, style := range styles {
		items[i] = string(style)
	}

	prompt := promptui.Select{
		Label: "Match style",
		Items: items,
	}

	_, result, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}

	return ai.ParseStyle(result), nil
}

func printSuggestions(w io.Writer, set *dating.SuggestionSet) {
	fmt.Fprintln(w, "Common dates interest: ", set.CommonDatesInterest)
	fmt.Fprintln(w)
	for _, s := range set.Suggestions {
		fmt.Fprintln(w, "Current :", s.Current)
		fmt.Fprintln(w, "Suggestion :", s.Suggestion)
		fmt.Fprintln(w, "Example :", s.ExampleForBio)
		fmt.Fprintln(w, "Potential dates :", s.ExampleFromPotentialDates)
		fmt.Fprintln(w)
	}
}

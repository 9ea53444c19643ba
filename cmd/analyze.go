package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/pable/go-ulti-metrics/internal/model"
	"github.com/pable/go-ulti-metrics/internal/service"
	"github.com/pable/go-ulti-metrics/internal/telemetry"
)

const analyzeSystemPrompt = `You are an ultimate frisbee analyst focused on gender equity in mixed-division
play. You are given structured statistics computed from a team's play-by-play
data and a question from a coach or player.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If a denominator is small (under 20 events), say the sample is thin.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise and actionable: suggest what the team could change on the field.

Metrics glossary:
- Receives: catches, goals and drops, credited to the receiver.
- receives_4_3 / receives_3_4: receives on points with four men and three women
  on the field (4-3) or three men and four women (3-4).
- Passes: every pass attempted (catches, goals, drops and throwaways), credited to the thrower.
- Dees: blocks, credited to the defender.
- Female/male shares are of the total; they may not add to 100% when a player
  is unknown or unrecorded.
- handler_lines: count of events per on-field handler mix, keyed "men-women".
- contribution: receives by gender on points that were won vs points that were lost.
- conversion: points won divided by possessions, for O-line and D-line points.
- lines: number of points played with each line composition.`

var (
	analyzeModel    string
	analyzeAPIKey   string
	analyzeFilter   model.EventFilter
	analyzeFullLine bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <question>",
	Short: "AI-powered grounded analysis of the stored metrics (requires ANTHROPIC_API_KEY)",
	Long: `Compute every metric for the selected events and ask a model a question about
them. The model is instructed to answer only from the numbers provided.

Example:
  ultimetrics analyze "Do our women get fewer touches on 4-3 points?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	addEventFilterFlags(analyzeCmd, &analyzeFilter)
	analyzeCmd.Flags().BoolVar(&analyzeFullLine, "full-line", false, "only points with a complete seven-player lineup")
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "Anthropic model to use (default from config)")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	svc, cleanup, err := newService(cmd.Context(), db, telemetry.New())
	if err != nil {
		return err
	}
	defer cleanup()

	snap, err := svc.Snapshot(cmd.Context(), service.Query{Filter: analyzeFilter, FullLine: analyzeFullLine})
	if err != nil {
		return err
	}
	if len(snap.Events) == 0 {
		return fmt.Errorf("no events found (after filters)")
	}

	doc := map[string]any{
		"filters":   analyzeFilter,
		"full_line": analyzeFullLine,
		"stats":     snap.Summarize(),
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}

	modelID := analyzeModel
	if modelID == "" {
		modelID = cfg.AnthropicModel
	}
	return callAnthropic(cmd.Context(), analyzeAPIKey, modelID, string(b), question)
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)
	log.Debug().Str("model", modelID).Int("context_bytes", len(dataJSON)).Msg("calling anthropic")

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(os.Stdout, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed, check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}

package analysis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/skimmerhq/skimmer/internal/logging"
	"github.com/skimmerhq/skimmer/internal/models"
	"github.com/skimmerhq/skimmer/internal/scoring"
)

const promptTemplate = `Analyze this tweet in JSON format. Include:
1. Topic (max 100 chars)
2. Tags (max 8)
3. Entities (people/orgs/products, max 15)
4. Core concepts (max 10)
5. Sentiment {label, confidence}
6. Intent (inform, promote, question, discuss)
7. Relevance score (0-1)
8. Virality potential (0-1)
9. Actionable (boolean)
10. Categories (max 5)
11. Quality score (0-1)
12. Information type (news, opinion, humor, etc.)
13. Key insights (max 5)
14. Discussion worthy (boolean)

Tweet data:
%s

Output ONLY valid JSON, no extra text.`

// Analyzer walks the configured providers in order and falls back to the
// deterministic local analyzer when none are configured or all fail. It
// never returns an error: every post gets an assessment.
type Analyzer struct {
	providers []Provider
	synthetic *SyntheticAnalyzer
	logger    *logging.Logger
}

func NewAnalyzer(providers []Provider, logger *logging.Logger) *Analyzer {
	return &Analyzer{
		providers: providers,
		synthetic: NewSyntheticAnalyzer(),
		logger:    logger,
	}
}

type promptPayload struct {
	Post     models.RawPost    `json:"post"`
	Features models.FeatureSet `json:"features"`
	Media    models.MediaInfo  `json:"media"`
}

func (a *Analyzer) Analyze(ctx context.Context, post models.RawPost, features models.FeatureSet, media models.MediaInfo) models.AnalysisResult {
	result := a.analyzeOnce(ctx, post, features, media)
	scoring.ApplyDerived(&result)
	return result
}

func (a *Analyzer) analyzeOnce(ctx context.Context, post models.RawPost, features models.FeatureSet, media models.MediaInfo) models.AnalysisResult {
	configured := false
	for _, p := range a.providers {
		if p.Configured() {
			configured = true
			break
		}
	}
	if !configured {
		a.logger.Info("No AI providers configured, using local analysis")
		return a.synthetic.Analyze(post, features, media)
	}

	prompt := buildPrompt(post, features, media)
	for _, p := range a.providers {
		if !p.Configured() {
			continue
		}

		raw, err := p.Complete(ctx, prompt)
		if err != nil {
			a.logger.Error("AI analysis failed", logging.WithFields(map[string]interface{}{
				"provider": p.Name(),
				"error":    err.Error(),
			}))
			continue
		}

		result, err := parseAndValidate(raw, p.Name())
		if err != nil {
			a.logger.Warn("Provider returned malformed JSON", logging.WithField("provider", p.Name()))
			continue
		}
		return result
	}

	a.logger.Warn("All AI providers failed, using local analysis")
	return a.synthetic.Analyze(post, features, media)
}

func buildPrompt(post models.RawPost, features models.FeatureSet, media models.MediaInfo) string {
	payload, err := json.Marshal(promptPayload{Post: post, Features: features, Media: media})
	if err != nil {
		payload = []byte(post.Text)
	}
	return fmt.Sprintf(promptTemplate, payload)
}

package services

import (
	"context"
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/logger"
	"alfredoptarigan/resume-screener/internal/models"
)

const (
	minMatchScore = 0
	maxMatchScore = 100

	unknownCandidate  = "Unknown"
	degradedReasoning = "Failed to process the resume"
)

// requiredFields must be present in every model response. The first three
// must also be non-null.
var requiredFields = []string{
	"candidate_name",
	"match_score",
	"recommendation",
	"key_strengths",
	"missing_critical_skills",
	"reasoning",
}

const nonNullRequired = 3

type ScreenerService interface {
	// Score always returns a well-formed result. A non-nil error means the
	// result is the degraded "Error" result and must not be cached.
	Score(ctx context.Context, resume, jobDescription string) (models.ScreeningResult, error)
}

type screenerService struct {
	backend       ModelBackend
	promptBuilder *PromptBuilder
	numCtx        int
	metrics       *Metrics
	logger        *zap.Logger
}

func NewScreenerService(backend ModelBackend, numCtx int, metrics *Metrics, log *zap.Logger) ScreenerService {
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &screenerService{
		backend:       backend,
		promptBuilder: NewPromptBuilder(),
		numCtx:        numCtx,
		metrics:       metrics,
		logger:        logger.WithFields(log, logger.ModelFields(backend.Provider(), backend.Model())...),
	}
}

// Score implements ScreenerService.
func (s *screenerService) Score(ctx context.Context, resume, jobDescription string) (models.ScreeningResult, error) {
	result, err := s.evaluate(ctx, resume, jobDescription)
	if err != nil {
		s.metrics.DegradedResults.Add(1)
		s.logger.Warn("screening degraded", zap.Error(err))
		return DegradedResult(err), err
	}
	return result, nil
}

func (s *screenerService) evaluate(ctx context.Context, resume, jobDescription string) (models.ScreeningResult, error) {
	messages := s.promptBuilder.BuildScreeningMessages(resume, jobDescription)
	s.logger.Debug("calling model", zap.Int("prompt_chars", len(messages[1].Content)))

	s.metrics.ModelCalls.Add(1)
	response, err := s.backend.Chat(ctx, messages, ChatOptions{JSON: true, NumCtx: s.numCtx})
	if err != nil {
		s.metrics.ModelErrors.Add(1)
		return models.ScreeningResult{}, &ModelOutputError{Reason: "model call failed", Err: err}
	}

	return ParseScreeningResult(response)
}

type rawScreening struct {
	CandidateName         string   `mapstructure:"candidate_name"`
	MatchScore            float64  `mapstructure:"match_score"`
	KeyStrengths          []string `mapstructure:"key_strengths"`
	MissingCriticalSkills []string `mapstructure:"missing_critical_skills"`
	Recommendation        string   `mapstructure:"recommendation"`
	Reasoning             string   `mapstructure:"reasoning"`
}

// ParseScreeningResult validates a model response against the result schema.
// Numbers sent as strings and single strings sent instead of lists are
// accepted, booleans are not; the score is rounded and clamped into [0,100].
func ParseScreeningResult(response string) (models.ScreeningResult, error) {
	jsonStr := extractJSON(response)

	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(jsonStr), &fields); err != nil {
		return models.ScreeningResult{}, &ModelOutputError{Reason: "model returned invalid JSON", Err: err}
	}

	var missing []string
	for i, name := range requiredFields {
		value, ok := fields[name]
		if !ok || (i < nonNullRequired && value == nil) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return models.ScreeningResult{}, &ModelOutputError{
			Reason: "model output does not match the result schema",
			Err:    errors.Errorf("missing fields: %s", strings.Join(missing, ", ")),
		}
	}

	if err := checkScore(fields["match_score"]); err != nil {
		return models.ScreeningResult{}, &ModelOutputError{Reason: "model output has fields of the wrong type", Err: err}
	}

	var raw rawScreening
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       rejectBools,
		WeaklyTypedInput: true,
		Result:           &raw,
	})
	if err != nil {
		return models.ScreeningResult{}, errors.Wrap(err, "failed to build decoder")
	}
	if err := decoder.Decode(fields); err != nil {
		return models.ScreeningResult{}, &ModelOutputError{Reason: "model output has fields of the wrong type", Err: err}
	}

	recommendation, err := parseRecommendation(raw.Recommendation)
	if err != nil {
		return models.ScreeningResult{}, &ModelOutputError{Reason: "model output does not match the result schema", Err: err}
	}

	name := strings.TrimSpace(raw.CandidateName)
	if name == "" {
		name = unknownCandidate
	}

	return models.ScreeningResult{
		CandidateName:         name,
		MatchScore:            clampScore(raw.MatchScore),
		KeyStrengths:          cleanList(raw.KeyStrengths),
		MissingCriticalSkills: cleanList(raw.MissingCriticalSkills),
		Recommendation:        recommendation,
		Reasoning:             strings.TrimSpace(raw.Reasoning),
	}, nil
}

// DegradedResult is returned instead of an error whenever the model could
// not produce a usable answer.
func DegradedResult(err error) models.ScreeningResult {
	detail := "unknown error"
	if err != nil {
		detail = err.Error()
	}
	return models.ScreeningResult{
		CandidateName:         unknownCandidate,
		MatchScore:            0,
		KeyStrengths:          []string{},
		MissingCriticalSkills: []string{},
		Recommendation:        models.RecommendationError,
		Reasoning:             degradedReasoning,
		Error:                 detail,
	}
}

// checkScore accepts JSON numbers and numeric strings only.
func checkScore(value interface{}) error {
	switch v := value.(type) {
	case float64:
		return nil
	case string:
		if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
			return errors.Errorf("match_score %q is not a number", v)
		}
		return nil
	default:
		return errors.Errorf("match_score has type %T, want a number", value)
	}
}

// rejectBools stops weak decoding from turning true/false into 1/0 or "1"/"0".
func rejectBools(from, to reflect.Kind, data interface{}) (interface{}, error) {
	if from == reflect.Bool && to != reflect.Bool {
		return nil, errors.Errorf("unexpected boolean %v", data)
	}
	return data, nil
}

func parseRecommendation(value string) (models.Recommendation, error) {
	value = strings.TrimSpace(value)
	switch {
	case strings.EqualFold(value, string(models.RecommendationInterview)):
		return models.RecommendationInterview, nil
	case strings.EqualFold(value, string(models.RecommendationReject)):
		return models.RecommendationReject, nil
	default:
		return "", errors.Errorf("unexpected recommendation %q", value)
	}
}

func clampScore(score float64) int {
	rounded := math.Round(score)
	if math.IsNaN(rounded) || rounded < minMatchScore {
		return minMatchScore
	}
	if rounded > maxMatchScore {
		return maxMatchScore
	}
	return int(rounded)
}

func cleanList(items []string) []string {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			cleaned = append(cleaned, item)
		}
	}
	return cleaned
}

// extractJSON pulls the outermost JSON object out of text that may be
// wrapped in markdown fences or prose.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		return text[start : end+1]
	}

	return strings.TrimSpace(text)
}

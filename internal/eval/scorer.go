package eval

import (
	"regexp"
	"strings"
	"time"

	"github.com/akolanti/ragops/internal/config"
	"github.com/akolanti/ragops/internal/domain/commonModels"
)

// ScorerConfig holds every heuristic threshold the scorer uses. The defaults are
// starting points for tuning, not validated ground truth.
type ScorerConfig struct {
	RefusalPrefix     string
	MinSentenceLength int
	// ShortCitedScore and ShortUncitedScore apply when no sentence survives splitting.
	ShortCitedScore      float64
	ShortUncitedScore    float64
	GroundednessBase     float64
	GroundednessCoverage float64
	TransitionalPhrases  []string

	HallucinationMinLength int
	AssertionWords         []string
	// HallucinationThreshold is the number of distinct assertion words that flags uncited prose.
	HallucinationThreshold int

	PassGroundedness  float64
	PassLatencyMillis int64
	SearchTool        string
}

func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		RefusalPrefix:        "i cannot answer",
		MinSentenceLength:    10,
		ShortCitedScore:      0.8,
		ShortUncitedScore:    0.3,
		GroundednessBase:     0.4,
		GroundednessCoverage: 0.6,
		TransitionalPhrases: []string{
			"here", "in summary", "based on", "according to", "overall",
			"to summarize", "in conclusion", "additionally", "furthermore", "the following",
		},
		HallucinationMinLength: 100,
		AssertionWords:         []string{"is", "are", "was", "were", "the", "this"},
		HallucinationThreshold: 4,
		PassGroundedness:       config.EvalPassGroundedness,
		PassLatencyMillis:      config.EvalPassLatencyMillis,
		SearchTool:             "search_corpus",
	}
}

// ScorerConfigFrom overlays non-zero settings on the defaults.
func ScorerConfigFrom(s config.ScorerSettings) ScorerConfig {
	cfg := DefaultScorerConfig()
	if s.GroundednessBase != 0 {
		cfg.GroundednessBase = s.GroundednessBase
	}
	if s.GroundednessCoverage != 0 {
		cfg.GroundednessCoverage = s.GroundednessCoverage
	}
	if s.HallucinationMinLength != 0 {
		cfg.HallucinationMinLength = s.HallucinationMinLength
	}
	if s.HallucinationThreshold != 0 {
		cfg.HallucinationThreshold = s.HallucinationThreshold
	}
	if len(s.TransitionalPhrases) > 0 {
		cfg.TransitionalPhrases = s.TransitionalPhrases
	}
	if s.PassGroundedness != 0 {
		cfg.PassGroundedness = s.PassGroundedness
	}
	if s.PassLatencyMillis != 0 {
		cfg.PassLatencyMillis = s.PassLatencyMillis
	}
	return cfg
}

var (
	citationMarker   = regexp.MustCompile(`\[\d+\]`)
	sentenceBoundary = regexp.MustCompile(`[.!?]\s+`)
	lowCitations     = []string{"[1]", "[2]", "[3]", "[4]", "[5]"}
)

// Scorer is a ScorerConfig with its patterns compiled. It holds no other state.
type Scorer struct {
	cfg          ScorerConfig
	transitional *regexp.Regexp
	assertions   []*regexp.Regexp
}

func NewScorer(cfg ScorerConfig) *Scorer {
	phrases := make([]string, len(cfg.TransitionalPhrases))
	for i, p := range cfg.TransitionalPhrases {
		phrases[i] = regexp.QuoteMeta(p)
	}
	var transitional *regexp.Regexp
	if len(phrases) > 0 {
		transitional = regexp.MustCompile(`(?i)^(?:` + strings.Join(phrases, "|") + `)`)
	}

	assertions := make([]*regexp.Regexp, len(cfg.AssertionWords))
	for i, w := range cfg.AssertionWords {
		assertions[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(w)) + `\b`)
	}
	return &Scorer{cfg: cfg, transitional: transitional, assertions: assertions}
}

func (s *Scorer) Config() ScorerConfig {
	return s.cfg
}

func (s *Scorer) isRefusalText(answer string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), s.cfg.RefusalPrefix)
}

// Groundedness scores how much of the answer carries inline [n] citations.
// Refusals are scored by the caller, not here.
func (s *Scorer) Groundedness(answer string, citations []commonModels.Citation) float64 {
	if answer == "" || len(citations) == 0 {
		return 0
	}

	sentences := s.sentences(answer)
	if len(sentences) == 0 {
		if citationMarker.MatchString(answer) {
			return s.cfg.ShortCitedScore
		}
		return s.cfg.ShortUncitedScore
	}

	cited, transitional := 0, 0
	for _, sentence := range sentences {
		if citationMarker.MatchString(sentence) {
			cited++
		}
		if s.transitional != nil && s.transitional.MatchString(sentence) {
			transitional++
		}
	}

	claimable := max(len(sentences)-transitional, 1)
	coverage := min(float64(cited)/float64(claimable), 1.0)
	return s.cfg.GroundednessBase + s.cfg.GroundednessCoverage*coverage
}

func (s *Scorer) sentences(answer string) []string {
	var out []string
	keep := func(fragment string) {
		fragment = strings.TrimSpace(fragment)
		if len([]rune(fragment)) > s.cfg.MinSentenceLength {
			out = append(out, fragment)
		}
	}

	prev := 0
	for _, loc := range sentenceBoundary.FindAllStringIndex(answer, -1) {
		// the terminal punctuation stays with its sentence
		keep(answer[prev : loc[0]+1])
		prev = loc[1]
	}
	keep(answer[prev:])
	return out
}

// DetectHallucination flags long, uncited, assertive prose. It is a lexical
// heuristic: a cited answer that contradicts its sources is not detected.
func (s *Scorer) DetectHallucination(answer string, citations []commonModels.Citation, expected *string) bool {
	if answer == "" || s.isRefusalText(answer) {
		return false
	}
	if len(citations) > 0 || len([]rune(answer)) <= s.cfg.HallucinationMinLength {
		return false
	}
	for _, marker := range lowCitations {
		if strings.Contains(answer, marker) {
			return false
		}
	}

	lower := strings.ToLower(answer)
	found := 0
	for _, re := range s.assertions {
		if re.MatchString(lower) {
			found++
		}
	}
	return found >= s.cfg.HallucinationThreshold
}

func (s *Scorer) SchemaCompliant(answer string, isRefusal bool, citations []commonModels.Citation) bool {
	if strings.TrimSpace(answer) == "" {
		return false
	}
	if s.isRefusalText(answer) {
		return isRefusal
	}
	return isRefusal || len(citations) > 0
}

// ToolCallsCorrect accepts a refusal without a search as well as any answer that searched.
func (s *Scorer) ToolCallsCorrect(toolsCalled []string, isRefusal bool) bool {
	if isRefusal {
		return true
	}
	for _, tool := range toolsCalled {
		if tool == s.cfg.SearchTool {
			return true
		}
	}
	return false
}

type CaseScore struct {
	Groundedness     float64
	Hallucination    bool
	SchemaCompliant  bool
	ToolCallsCorrect bool
	Passed           bool
}

func (s *Scorer) ScoreCase(resp commonModels.AgentResponse, expected *string, latency time.Duration) CaseScore {
	score := CaseScore{
		Hallucination:    s.DetectHallucination(resp.Content, resp.Citations, expected),
		SchemaCompliant:  s.SchemaCompliant(resp.Content, resp.IsRefusal, resp.Citations),
		ToolCallsCorrect: s.ToolCallsCorrect(resp.ToolsCalled, resp.IsRefusal),
	}
	if resp.IsRefusal {
		score.Groundedness = 1.0
	} else {
		score.Groundedness = s.Groundedness(resp.Content, resp.Citations)
	}
	score.Passed = score.Groundedness >= s.cfg.PassGroundedness &&
		!score.Hallucination &&
		score.SchemaCompliant &&
		latency.Milliseconds() < s.cfg.PassLatencyMillis
	return score
}

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/hanneskern95-jpg/AI-assistant/internal/adapter"
	"github.com/hanneskern95-jpg/AI-assistant/internal/tool"
	apperrors "github.com/hanneskern95-jpg/AI-assistant/pkg/errors"
	"github.com/hanneskern95-jpg/AI-assistant/pkg/logger"
)

const (
	factToolName    = "check_fact_wikipedia"
	wikipediaAPI    = "https://en.wikipedia.org/w/api.php"
	maxParagraphs   = 12
	maxArticleChars = 6000
)

// Verdicts the checker can reach. NoArticleFound is a normal outcome, not
// an error: the claim simply had no article to check against.
const (
	VerdictYes            = "Yes"
	VerdictNo             = "No"
	VerdictInconclusive   = "Inconclusive"
	VerdictNoArticleFound = "NoArticleFound"
)

type factInput struct {
	Claim string `json:"claim"`
	Topic string `json:"topic,omitempty"`
}

type factVerdict struct {
	Verdict     string `json:"verdict"`
	Explanation string `json:"explanation"`
}

// FactChecker verifies a claim against the matching Wikipedia article:
// find the article, extract its lead paragraphs, and let the model judge
// the claim against that text only.
type FactChecker struct {
	tool.Base
	chat    adapter.ChatClient
	model   string
	apiBase string
	http    *http.Client
	logger  *zap.Logger
}

func NewFactChecker(deps Deps) (tool.Tool, error) {
	if deps.Chat == nil {
		return nil, apperrors.NewMissingDependency(factToolName, "chat client")
	}
	if deps.SearchModel == "" {
		return nil, apperrors.NewMissingDependency(factToolName, "search model")
	}
	return &FactChecker{
		chat:    deps.Chat,
		model:   deps.SearchModel,
		apiBase: wikipediaAPI,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger.Get(),
	}, nil
}

func (f *FactChecker) Descriptor() tool.Descriptor {
	return tool.Descriptor{
		Name:        factToolName,
		Description: "Check a factual claim against the relevant Wikipedia article. Returns a verdict (Yes / No / Inconclusive / NoArticleFound) with an explanation.",
		Parameters: tool.ObjectSchema[factInput](map[string]string{
			"claim": "The claim to verify, stated as a single sentence.",
			"topic": "Optional article search term. Defaults to searching with the claim itself.",
		}),
	}
}

func (f *FactChecker) Execute(ctx context.Context, args map[string]any) *tool.Result {
	var input factInput
	if err := tool.BindArguments(args, &input); err != nil {
		return tool.Errorf("Invalid arguments: %v", err)
	}
	if strings.TrimSpace(input.Claim) == "" {
		return tool.Errorf("A claim to check is required.")
	}

	term := input.Topic
	if term == "" {
		term = input.Claim
	}

	title, articleURL, err := f.findArticle(ctx, term)
	if err != nil {
		return tool.Errorf("Wikipedia search failed: %v", err)
	}
	if articleURL == "" {
		return &tool.Result{
			Summary: fmt.Sprintf("No Wikipedia article found for %q, so the claim could not be checked.", term),
			Data: map[string]any{
				"verdict":     VerdictNoArticleFound,
				"explanation": "No matching article.",
			},
		}
	}

	text, err := f.articleText(ctx, articleURL)
	if err != nil {
		return tool.Errorf("Could not read the Wikipedia article: %v", err)
	}

	verdict, err := f.judge(ctx, input.Claim, title, text)
	if err != nil {
		return tool.Errorf("Verdict failed: %v", err)
	}

	return &tool.Result{
		Summary: fmt.Sprintf("%s: %s", verdict.Verdict, verdict.Explanation),
		Data: map[string]any{
			"verdict":       verdict.Verdict,
			"explanation":   verdict.Explanation,
			"article_title": title,
			"article_url":   articleURL,
		},
	}
}

// findArticle runs an opensearch query and returns the best match, or
// empty strings when nothing matched.
func (f *FactChecker) findArticle(ctx context.Context, term string) (title, articleURL string, err error) {
	q := url.Values{}
	q.Set("action", "opensearch")
	q.Set("search", term)
	q.Set("limit", "1")
	q.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.apiBase+"?"+q.Encode(), nil)
	if err != nil {
		return "", "", err
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("opensearch status %d", resp.StatusCode)
	}

	// Opensearch replies with a positional array: query, titles,
	// descriptions, urls.
	var payload []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", "", fmt.Errorf("unparsable opensearch response: %w", err)
	}
	if len(payload) < 4 {
		return "", "", nil
	}

	var titles, urls []string
	if err := json.Unmarshal(payload[1], &titles); err != nil {
		return "", "", err
	}
	if err := json.Unmarshal(payload[3], &urls); err != nil {
		return "", "", err
	}
	if len(titles) == 0 || len(urls) == 0 {
		return "", "", nil
	}
	return titles[0], urls[0], nil
}

// articleText extracts the article's lead paragraphs.
func (f *FactChecker) articleText(ctx context.Context, articleURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("article status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	doc.Find("#mw-content-text p").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= maxParagraphs || b.Len() >= maxArticleChars {
			return false
		}
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return true
		}
		b.WriteString(text)
		b.WriteString("\n")
		return true
	})

	text := truncateAtRune(b.String(), maxArticleChars)
	if text == "" {
		return "", fmt.Errorf("article has no extractable paragraphs")
	}
	return text, nil
}

// truncateAtRune cuts s to at most max bytes without splitting a rune.
func truncateAtRune(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func (f *FactChecker) judge(ctx context.Context, claim, title, text string) (*factVerdict, error) {
	raw, err := f.chat.Complete(ctx, adapter.CompletionRequest{
		Model: f.model,
		SystemPrompt: "You judge a claim strictly against the provided article excerpt; outside knowledge does not count. " +
			`Respond with a JSON object of the form {"verdict": "Yes"|"No"|"Inconclusive", "explanation": "..."} and nothing else. ` +
			"Use Inconclusive when the excerpt neither confirms nor refutes the claim.",
		Prompt:   fmt.Sprintf("Claim: %s\n\nArticle: %s\n\n%s", claim, title, text),
		JSONMode: true,
	})
	if err != nil {
		return nil, err
	}

	var verdict factVerdict
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &verdict); err != nil {
		return nil, fmt.Errorf("unparsable verdict: %w", err)
	}
	switch verdict.Verdict {
	case VerdictYes, VerdictNo, VerdictInconclusive:
	default:
		f.logger.Warn("Model produced an off-menu verdict", zap.String("verdict", verdict.Verdict))
		verdict.Verdict = VerdictInconclusive
	}
	return &verdict, nil
}

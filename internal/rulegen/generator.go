package rulegen

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"taxsarthi/internal/domain"
	"taxsarthi/internal/port"
	"taxsarthi/internal/rulestore"
)

// trustedDomains lists the government domains rule content may be fetched
// from. Any other host is rejected before a request is made.
var trustedDomains = []string{
	"incometax.gov.in",
	"incometaxindia.gov.in",
	"cbdt.gov.in",
	"indiabudget.gov.in",
	"finmin.nic.in",
	"india.gov.in",
}

// officialURLs are the government pages crawled per content category.
var officialURLs = map[string][]string{
	"tax_slabs": {
		"https://www.incometax.gov.in/iec/foportal/help/individual/return-applicable-1",
	},
	"deductions": {
		"https://www.incometax.gov.in/iec/foportal/help/deductions-from-gross-total-income",
	},
}

const maxPromptContentLen = 15000

// Generator produces rule documents by crawling official sources and
// extracting structured rules with a chat model. When live crawling is
// disabled or extraction fails, it falls back to the compiled-in rule set.
type Generator struct {
	store        *rulestore.Store
	model        port.ChatModel
	client       *http.Client
	allowLive    bool
	fetchTimeout time.Duration
	sources      map[string][]string
}

// NewGenerator creates a rule generator. The chat model may be nil, in which
// case only the builtin fallback is available.
func NewGenerator(store *rulestore.Store, model port.ChatModel, allowLive bool, fetchTimeoutSecs int) *Generator {
	return NewGeneratorWithSources(store, model, allowLive, fetchTimeoutSecs, officialURLs)
}

// NewGeneratorWithSources creates a generator crawling a custom URL set (for testing).
func NewGeneratorWithSources(store *rulestore.Store, model port.ChatModel, allowLive bool, fetchTimeoutSecs int, sources map[string][]string) *Generator {
	timeout := time.Duration(fetchTimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Generator{
		store:        store,
		model:        model,
		client:       &http.Client{Timeout: timeout},
		allowLive:    allowLive,
		fetchTimeout: timeout,
		sources:      sources,
	}
}

// IsTrustedSource reports whether the URL host is an allowed government
// domain or a subdomain of one.
func IsTrustedSource(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	host = strings.TrimPrefix(host, "www.")
	for _, trusted := range trustedDomains {
		if host == trusted || strings.HasSuffix(host, "."+trusted) {
			return true
		}
	}
	return false
}

var (
	scriptRe = regexp.MustCompile(`(?is)<(script|style|nav|footer|header|aside)[^>]*>.*?</\s*(script|style|nav|footer|header|aside)\s*>`)
	tagRe    = regexp.MustCompile(`(?s)<[^>]*>`)
)

// stripHTML extracts readable text from an HTML page.
func stripHTML(raw string) string {
	text := scriptRe.ReplaceAllString(raw, "\n")
	text = tagRe.ReplaceAllString(text, "\n")
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// FetchContent downloads one trusted page and returns its readable text.
// PDF responses are skipped.
func (g *Generator) FetchContent(ctx context.Context, pageURL string) (string, error) {
	if !IsTrustedSource(pageURL) {
		return "", fmt.Errorf("untrusted source rejected: %s", pageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if strings.Contains(resp.Header.Get("Content-Type"), "application/pdf") {
		return "", fmt.Errorf("skipping PDF content: %s", pageURL)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: status %d", pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", pageURL, err)
	}

	return stripHTML(string(body)), nil
}

// crawlSources fetches every URL in a category and joins the results.
func (g *Generator) crawlSources(ctx context.Context, category string) string {
	var parts []string
	for _, pageURL := range g.sources[category] {
		content, err := g.FetchContent(ctx, pageURL)
		if err != nil {
			log.Printf("rulegen.Generator: %v", err)
			continue
		}
		parts = append(parts, content)
	}
	return strings.Join(parts, "\n\n--- NEXT SOURCE ---\n\n")
}

func buildExtractionPrompt(content string, regime domain.Regime, financialYear string) string {
	if len(content) > maxPromptContentLen {
		content = content[:maxPromptContentLen]
	}
	if strings.TrimSpace(content) == "" {
		content = fmt.Sprintf("Provide Indian income tax rules for the %s regime FY %s based on your knowledge.", regime, financialYear)
	}
	return fmt.Sprintf(`You are an expert Indian tax analyst. Extract structured tax information for the %s regime, Financial Year %s, from the following government website content.

CONTENT FROM OFFICIAL SOURCES:
%s

Extract tax slabs, deduction sections with limits, section 87A rebates, surcharge bands, and the Health and Education Cess rate.

IMPORTANT RULES:
- Rules must be for the %s regime in FY %s
- Use exact numbers from the content
- If the content is unclear, use your knowledge of Indian tax law for FY %s
- Return ONLY valid JSON, no markdown

Return JSON structure:
{
  "slabs": [{"min_income": number, "max_income": number or null, "rate": percentage}],
  "deductions": [{"section": "code", "name": "description", "max_limit": number, "applicable_regime": ["old" or "new"]}],
  "rebates": [{"section": "87A", "max_rebate": number, "income_threshold": number}],
  "surcharges": [{"min_income": number, "max_income": number or null, "rate": percentage}],
  "cess": {"rate": 4, "name": "Health and Education Cess"}
}`, strings.ToUpper(string(regime)), financialYear, content, regime, financialYear, financialYear)
}

// cleanJSONFences strips a leading/trailing markdown code fence from model output.
func cleanJSONFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		if idx := strings.Index(text, "\n"); idx >= 0 {
			text = text[idx+1:]
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	return strings.TrimSpace(text)
}

// extractedRules is the model's JSON output shape.
type extractedRules struct {
	Slabs      []domain.Slab          `json:"slabs"`
	Deductions []domain.DeductionRule `json:"deductions"`
	Rebates    []domain.RebateRule    `json:"rebates"`
	Surcharges []domain.SurchargeBand `json:"surcharges"`
	Cess       *domain.CessRule       `json:"cess"`
}

// ExtractRules asks the chat model to turn crawled page text into a rule
// document.
func (g *Generator) ExtractRules(ctx context.Context, content string, regime domain.Regime, financialYear string) (*domain.TaxRuleSet, error) {
	if g.model == nil {
		return nil, domain.ErrModelUnavailable
	}

	resp, err := g.model.Complete(ctx, port.ChatRequest{
		Messages: []port.ChatMessage{
			{Role: "user", Content: buildExtractionPrompt(content, regime, financialYear)},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("chat model extraction: %w", err)
	}

	var extracted extractedRules
	if err := json.Unmarshal([]byte(cleanJSONFences(resp.Text)), &extracted); err != nil {
		return nil, fmt.Errorf("parsing extracted rules JSON: %w", err)
	}

	rs := &domain.TaxRuleSet{
		Regime:        regime,
		FinancialYear: financialYear,
		Slabs:         extracted.Slabs,
		Deductions:    extracted.Deductions,
		Rebates:       extracted.Rebates,
		Surcharges:    extracted.Surcharges,
		SourceURLs:    append(append([]string{}, officialURLs["tax_slabs"]...), officialURLs["deductions"]...),
		LastUpdated:   time.Now().UTC().Format(time.RFC3339),
	}
	if extracted.Cess != nil {
		rs.Cess = *extracted.Cess
	} else {
		rs.Cess = domain.CessRule{RatePercent: 4, Name: "Health and Education Cess"}
	}
	return rs, nil
}

// Generate produces and persists the rule document for one (regime, FY).
// Live extraction is attempted when enabled; any failure falls back to the
// compiled-in constants so a valid document is always stored.
func (g *Generator) Generate(ctx context.Context, regime domain.Regime, financialYear string) (*domain.TaxRuleSet, error) {
	if !regime.Valid() {
		return nil, domain.ErrInvalidRegime
	}

	var rs *domain.TaxRuleSet
	if g.allowLive && g.model != nil {
		content := g.crawlSources(ctx, "tax_slabs") + "\n\n" + g.crawlSources(ctx, "deductions")
		extracted, err := g.ExtractRules(ctx, content, regime, financialYear)
		if err != nil {
			log.Printf("rulegen.Generator: live extraction failed, using builtin rules: %v", err)
		} else if err := rulestore.Validate(extracted); err != nil {
			log.Printf("rulegen.Generator: extracted rules invalid, using builtin rules: %v", err)
		} else {
			rs = extracted
		}
	}
	if rs == nil {
		rs = BuiltinRuleSet(regime, financialYear)
	}

	if err := g.store.Save(rs); err != nil {
		return nil, fmt.Errorf("saving generated rules: %w", err)
	}
	return rs, nil
}

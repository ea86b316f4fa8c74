package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"taxsarthi/internal/domain"
	"taxsarthi/internal/port"
)

// DefaultSessionID is used when the caller supplies no session id.
const DefaultSessionID = "default"

// historyWindow is the number of prior turns replayed to the model.
const historyWindow = 4

// ChatService is the context-aware tax chatbot. Sessions are held in
// memory and keyed by a caller-supplied id.
type ChatService interface {
	SetContext(sessionID string, taxCtx *domain.ChatContext)
	Chat(ctx context.Context, sessionID, message string) (string, bool, error)
	Suggestions(ctx context.Context, sessionID string) ([]string, error)
	Clear(sessionID string)
}

type chatSession struct {
	taxCtx  *domain.ChatContext
	history []port.ChatMessage
}

type chatService struct {
	model port.ChatModel

	mu       sync.Mutex
	sessions map[string]*chatSession
}

// NewChatService creates a ChatService backed by the given chat model. The
// model may be nil, in which case chat operations return
// ErrModelUnavailable.
func NewChatService(model port.ChatModel) ChatService {
	return &chatService{
		model:    model,
		sessions: make(map[string]*chatSession),
	}
}

func normalizeSessionID(sessionID string) string {
	if strings.TrimSpace(sessionID) == "" {
		return DefaultSessionID
	}
	return sessionID
}

func (s *chatService) session(sessionID string) *chatSession {
	sessionID = normalizeSessionID(sessionID)
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &chatSession{}
		s.sessions[sessionID] = sess
	}
	return sess
}

func (s *chatService) SetContext(sessionID string, taxCtx *domain.ChatContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session(sessionID).taxCtx = taxCtx
}

func (s *chatService) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, normalizeSessionID(sessionID))
}

// contextSummary renders the session's tax context as prompt text.
func contextSummary(taxCtx *domain.ChatContext) string {
	if taxCtx == nil || taxCtx.GrossIncome == 0 {
		return "No tax details available yet. User hasn't filled the form."
	}

	var b strings.Builder
	b.WriteString("USER'S TAX DETAILS (From Frontend Form):\n")
	b.WriteString("Income Information:\n")
	fmt.Fprintf(&b, "  - Gross Annual Income: Rs %.0f\n", taxCtx.GrossIncome)
	fmt.Fprintf(&b, "  - Tax Regime: %s\n", strings.ToUpper(string(taxCtx.Regime)))
	fmt.Fprintf(&b, "  - Total Deductions Claimed: Rs %.0f\n", taxCtx.TotalDeductions())
	fmt.Fprintf(&b, "  - Taxable Income: Rs %.0f\n", taxCtx.TaxableIncome)
	b.WriteString("Tax Calculation Results:\n")
	fmt.Fprintf(&b, "  - Total Tax Payable: Rs %.0f\n", taxCtx.TotalTax)
	fmt.Fprintf(&b, "  - Effective Tax Rate: %.2f%%\n", taxCtx.EffectiveTaxRate)
	b.WriteString("Compliance & Risk Assessment:\n")
	fmt.Fprintf(&b, "  - Risk Score: %.2f / 1.0\n", taxCtx.RiskScore)
	fmt.Fprintf(&b, "  - Risk Level: %s\n", taxCtx.RiskLevel)
	fmt.Fprintf(&b, "  - Compliance Score: %.1f%%\n", taxCtx.ComplianceScore)

	if len(taxCtx.Deductions) > 0 {
		b.WriteString("Deductions Claimed:\n")
		sections := make([]string, 0, len(taxCtx.Deductions))
		for section := range taxCtx.Deductions {
			sections = append(sections, section)
		}
		sort.Strings(sections)
		for _, section := range sections {
			fmt.Fprintf(&b, "  - %s: Rs %.0f\n", section, taxCtx.Deductions[section])
		}
	}

	if len(taxCtx.Flags) > 0 {
		b.WriteString("Red Flags Detected:\n")
		for _, flag := range taxCtx.Flags {
			fmt.Fprintf(&b, "  - %s\n", flag)
		}
	}

	return b.String()
}

func chatPreamble(taxCtx *domain.ChatContext) string {
	return fmt.Sprintf(`You are a helpful Indian tax expert chatbot. You are talking to a taxpayer who has just used our tax calculator. You have access to their tax details and calculations.

IMPORTANT CONTEXT - USER'S TAX DETAILS:
%s

Your role:
1. Answer their tax-related questions
2. Explain their tax calculation if asked
3. Provide personalized advice based on their situation
4. Suggest tax-saving strategies relevant to their income and regime
5. Explain any red flags or compliance issues
6. Be friendly, clear, and helpful
7. Reference their specific numbers when relevant

Guidelines:
- If the user asks about "my tax" or "my calculation", refer to the context above
- For general questions, provide accurate Indian tax law info (FY 2024-25)
- Be concise but thorough
- Use bullet points for clarity`, contextSummary(taxCtx))
}

func (s *chatService) Chat(ctx context.Context, sessionID, message string) (string, bool, error) {
	if s.model == nil {
		return "", false, domain.ErrModelUnavailable
	}
	if strings.TrimSpace(message) == "" {
		return "", false, domain.ErrInvalidInput
	}

	s.mu.Lock()
	sess := s.session(sessionID)
	taxCtx := sess.taxCtx
	recent := make([]port.ChatMessage, 0, historyWindow)
	if n := len(sess.history); n > historyWindow {
		recent = append(recent, sess.history[n-historyWindow:]...)
	} else {
		recent = append(recent, sess.history...)
	}
	s.mu.Unlock()

	messages := make([]port.ChatMessage, 0, len(recent)+1)
	messages = append(messages, port.ChatMessage{
		Role:    "user",
		Content: chatPreamble(taxCtx) + "\n\nUser: " + message,
	})
	messages = append(messages, recent...)

	resp, err := s.model.Complete(ctx, port.ChatRequest{
		Messages:    messages,
		Temperature: 0.7,
	})
	if err != nil {
		return "", taxCtx != nil, fmt.Errorf("chat completion: %w", err)
	}

	s.mu.Lock()
	sess = s.session(sessionID)
	sess.history = append(sess.history,
		port.ChatMessage{Role: "user", Content: message},
		port.ChatMessage{Role: "assistant", Content: resp.Text},
	)
	s.mu.Unlock()

	return resp.Text, taxCtx != nil, nil
}

// startsWithDigit reports whether any of the first 3 characters is a digit,
// the marker for a numbered suggestion line.
func startsWithDigit(line string) bool {
	for i, r := range line {
		if i >= 3 {
			break
		}
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func parseSuggestions(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !startsWithDigit(line) {
			continue
		}
		out = append(out, line)
		if len(out) == 5 {
			break
		}
	}
	if len(out) == 0 {
		return []string{text}
	}
	return out
}

func (s *chatService) Suggestions(ctx context.Context, sessionID string) ([]string, error) {
	s.mu.Lock()
	taxCtx := s.session(sessionID).taxCtx
	s.mu.Unlock()

	if taxCtx == nil || taxCtx.GrossIncome == 0 {
		return []string{"Fill in your tax details first to get personalized suggestions!"}, nil
	}
	if s.model == nil {
		return nil, domain.ErrModelUnavailable
	}

	prompt := fmt.Sprintf(`Based on this taxpayer's details:
%s

Provide 5 specific, actionable tax-saving suggestions for them.
Focus on:
1. Regime optimization
2. Unused deduction opportunities
3. Risk reduction strategies
4. Compliance improvements
5. Future tax planning

Return as a simple numbered list, be specific to their situation.`, contextSummary(taxCtx))

	resp, err := s.model.Complete(ctx, port.ChatRequest{
		Messages:    []port.ChatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("suggestions completion: %w", err)
	}

	return parseSuggestions(resp.Text), nil
}

package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"

	"taxsarthi/internal/domain"
	"taxsarthi/internal/port"
	"taxsarthi/internal/txn"
)

// TransactionAnalysis is the result of analyzing one uploaded statement.
type TransactionAnalysis struct {
	*txn.Summary
	AIAnalysis       string `json:"ai_analysis,omitempty"`
	DetailedAnalysis string `json:"detailed_analysis,omitempty"`
	TaxImplications  string `json:"tax_implications,omitempty"`
	ArchivedTo       string `json:"archived_to,omitempty"`
}

// TransactionService analyzes uploaded bank/transaction statements.
type TransactionService interface {
	AnalyzeStatement(ctx context.Context, filename string, size int64, r io.Reader) (*TransactionAnalysis, error)
}

type transactionService struct {
	model       port.ChatModel     // nil disables AI insights
	storage     port.ObjectStorage // nil disables archival
	maxFileSize int64
}

// NewTransactionService creates a TransactionService. Both the chat model
// and the object storage are optional.
func NewTransactionService(model port.ChatModel, storage port.ObjectStorage, maxFileSizeMB int64) TransactionService {
	return &transactionService{
		model:       model,
		storage:     storage,
		maxFileSize: maxFileSizeMB << 20,
	}
}

func statementExtension(filename string) (string, error) {
	idx := strings.LastIndexByte(filename, '.')
	if idx < 0 {
		return "", domain.ErrUnsupportedFile
	}
	ext := strings.ToLower(filename[idx+1:])
	if _, ok := domain.AllowedStatementExtensions[ext]; !ok {
		return "", fmt.Errorf("%w: .%s", domain.ErrUnsupportedFile, ext)
	}
	return ext, nil
}

func (s *transactionService) AnalyzeStatement(ctx context.Context, filename string, size int64, r io.Reader) (*TransactionAnalysis, error) {
	if _, err := statementExtension(filename); err != nil {
		return nil, err
	}
	if s.maxFileSize > 0 && size > s.maxFileSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", domain.ErrFileTooLarge, size, s.maxFileSize)
	}

	body := r
	if s.maxFileSize > 0 {
		body = io.LimitReader(r, s.maxFileSize+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if s.maxFileSize > 0 && int64(len(data)) > s.maxFileSize {
		return nil, fmt.Errorf("%w: upload exceeds %d bytes", domain.ErrFileTooLarge, s.maxFileSize)
	}

	statement, err := txn.ReadStatement(filename, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	result := &TransactionAnalysis{Summary: txn.Summarize(statement)}

	s.addInsights(ctx, statement, result)
	result.ArchivedTo = s.archive(ctx, filename, data)

	return result, nil
}

// archive stores the raw upload when a bucket is configured. Failures are
// logged and do not fail the analysis.
func (s *transactionService) archive(ctx context.Context, filename string, data []byte) string {
	if s.storage == nil {
		return ""
	}
	key := fmt.Sprintf("statements/%s_%s", uuid.New(), filename)
	location, err := s.storage.Upload(ctx, key, bytes.NewReader(data), "application/octet-stream")
	if err != nil {
		log.Printf("service.TransactionService: archiving %s: %v", filename, err)
		return ""
	}
	return location
}

const sampleRowLimit = 20

func sampleRows(st *txn.Statement) string {
	var b strings.Builder
	b.WriteString(strings.Join(st.Columns, " | "))
	b.WriteString("\n")
	for i, row := range st.Rows {
		if i >= sampleRowLimit {
			break
		}
		b.WriteString(strings.Join(row, " | "))
		b.WriteString("\n")
	}
	return b.String()
}

// addInsights asks the chat model for pattern and tax-implication analysis.
// Model failures degrade to fixed fallback text, keeping the summary usable.
func (s *transactionService) addInsights(ctx context.Context, st *txn.Statement, result *TransactionAnalysis) {
	if s.model == nil {
		return
	}

	prompt := fmt.Sprintf(`You are a financial analyst specializing in Indian taxation. Analyze these transaction data:

TRANSACTION SUMMARY:
- Total Transactions: %d
- Date Range: %s
- Total Amount: Rs %.2f
- Columns: %s

SAMPLE DATA (first %d rows):
%s

Please provide:

1. Quick Insights (3-5 bullet points): key patterns, spending trends, anomalies or red flags.
2. Detailed Analysis: transaction patterns, category-wise breakdown if available, time-based trends.
3. Tax Implications (Indian tax context): deductible expenses under the Income Tax Act, potential deductions (80C, 80D, HRA, etc.), income sources to report, compliance recommendations, transactions that might trigger scrutiny.

Format your response in markdown with clear sections.`,
		result.TotalTransactions, result.DateRange, result.TotalAmount,
		strings.Join(result.ColumnsFound, ", "), sampleRowLimit, sampleRows(st))

	resp, err := s.model.Complete(ctx, port.ChatRequest{
		Messages:    []port.ChatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.4,
	})
	if err != nil {
		log.Printf("service.TransactionService: insights failed: %v", err)
		result.AIAnalysis = "Unable to generate AI insights at this time."
		result.DetailedAnalysis = fmt.Sprintf("Analysis could not be completed. Found %d transactions.", result.TotalTransactions)
		result.TaxImplications = "Please consult a tax professional for personalized advice."
		return
	}

	quick, detailed, implications := splitInsightSections(resp.Text)
	result.AIAnalysis = quick
	result.DetailedAnalysis = detailed
	result.TaxImplications = implications
}

// splitInsightSections splits a markdown response into the quick insights,
// detailed analysis, and tax implications sections by their headings. When
// no headings are found, the whole response lands in quick insights.
func splitInsightSections(response string) (quick, detailed, implications string) {
	var sections [3]strings.Builder
	current := 0

	for _, line := range strings.Split(response, "\n") {
		lower := strings.ToLower(line)
		switch {
		case strings.Contains(lower, "quick insights") || strings.Contains(lower, "key insights"):
			current = 0
			continue
		case strings.Contains(lower, "detailed analysis") || strings.Contains(lower, "comprehensive"):
			current = 1
			continue
		case strings.Contains(lower, "tax implications"):
			current = 2
			continue
		}
		sections[current].WriteString(line)
		sections[current].WriteString("\n")
	}

	quick = strings.TrimSpace(sections[0].String())
	detailed = strings.TrimSpace(sections[1].String())
	implications = strings.TrimSpace(sections[2].String())
	if quick == "" {
		quick = strings.TrimSpace(response)
	}
	return quick, detailed, implications
}

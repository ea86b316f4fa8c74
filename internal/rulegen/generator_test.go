package rulegen_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taxsarthi/internal/domain"
	"taxsarthi/internal/port"
	"taxsarthi/internal/rulegen"
	"taxsarthi/internal/rulestore"
	"taxsarthi/mocks"
)

func TestIsTrustedSource(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		trusted bool
	}{
		{"incometax portal", "https://www.incometax.gov.in/iec/foportal/help", true},
		{"incometaxindia", "https://incometaxindia.gov.in/tutorials/slab.pdf", true},
		{"cbdt subdomain", "https://circulars.cbdt.gov.in/notice", true},
		{"budget portal", "https://www.indiabudget.gov.in/doc/speech.pdf", true},
		{"finmin", "https://finmin.nic.in/", true},
		{"random blog", "https://taxtips.example.com/slabs", false},
		{"lookalike domain", "https://incometax.gov.in.evil.com/", false},
		{"not a url", "://bad", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.trusted, rulegen.IsTrustedSource(tt.url))
		})
	}
}

func TestGenerator_FetchContent_RejectsUntrusted(t *testing.T) {
	store := rulestore.NewStore(t.TempDir())
	g := rulegen.NewGenerator(store, nil, true, 5)

	_, err := g.FetchContent(context.Background(), "https://malicious.example.com/rules")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "untrusted source rejected")
}

func TestGenerator_ExtractRules_Success(t *testing.T) {
	extracted := map[string]interface{}{
		"slabs": []map[string]interface{}{
			{"min_income": 0, "max_income": 300000, "rate": 0},
			{"min_income": 300000, "max_income": nil, "rate": 30},
		},
		"deductions": []map[string]interface{}{
			{"section": "Standard Deduction", "max_limit": 50000},
		},
		"rebates": []map[string]interface{}{
			{"section": "87A", "max_rebate": 25000, "income_threshold": 700000},
		},
		"surcharges": []map[string]interface{}{},
		"cess":       map[string]interface{}{"rate": 4, "name": "Health and Education Cess"},
	}
	payload, err := json.Marshal(extracted)
	require.NoError(t, err)

	model := new(mocks.MockChatModel)
	model.On("Complete", mock.Anything, mock.Anything).
		Return(&port.ChatResponse{Text: "```json\n" + string(payload) + "\n```", ModelUsed: "gemini-2.0-flash"}, nil)

	store := rulestore.NewStore(t.TempDir())
	g := rulegen.NewGenerator(store, model, true, 5)

	rs, err := g.ExtractRules(context.Background(), "official page text", domain.RegimeNew, "2024-25")
	require.NoError(t, err)

	assert.Equal(t, domain.RegimeNew, rs.Regime)
	assert.Equal(t, "2024-25", rs.FinancialYear)
	require.Len(t, rs.Slabs, 2)
	assert.Nil(t, rs.Slabs[1].MaxIncome)
	assert.Equal(t, 4.0, rs.Cess.RatePercent)
	assert.NotEmpty(t, rs.SourceURLs)
}

func TestGenerator_ExtractRules_InvalidJSON(t *testing.T) {
	model := new(mocks.MockChatModel)
	model.On("Complete", mock.Anything, mock.Anything).
		Return(&port.ChatResponse{Text: "Sorry, I cannot help with that."}, nil)

	store := rulestore.NewStore(t.TempDir())
	g := rulegen.NewGenerator(store, model, true, 5)

	_, err := g.ExtractRules(context.Background(), "content", domain.RegimeOld, "2024-25")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing extracted rules JSON")
}

func TestGenerator_ExtractRules_NoModel(t *testing.T) {
	store := rulestore.NewStore(t.TempDir())
	g := rulegen.NewGenerator(store, nil, true, 5)

	_, err := g.ExtractRules(context.Background(), "content", domain.RegimeOld, "2024-25")
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}

func TestGenerator_Generate_BuiltinFallback(t *testing.T) {
	dir := t.TempDir()
	store := rulestore.NewStore(dir)
	g := rulegen.NewGenerator(store, nil, false, 5)

	rs, err := g.Generate(context.Background(), domain.RegimeOld, "2024-25")
	require.NoError(t, err)
	assert.Len(t, rs.Slabs, 4)

	// The generated document is persisted and retrievable.
	stored, err := store.Get(domain.RegimeOld, "2024-25")
	require.NoError(t, err)
	assert.Equal(t, rs.Slabs, stored.Slabs)
}

func TestGenerator_Generate_InvalidExtractionFallsBack(t *testing.T) {
	// Extraction succeeds but produces a document with no slabs, which
	// fails validation and falls back to builtin constants.
	model := new(mocks.MockChatModel)
	model.On("Complete", mock.Anything, mock.Anything).
		Return(&port.ChatResponse{Text: `{"slabs":[],"deductions":[],"rebates":[],"surcharges":[]}`}, nil)

	store := rulestore.NewStore(t.TempDir())
	g := rulegen.NewGeneratorWithSources(store, model, true, 1, nil)

	rs, err := g.Generate(context.Background(), domain.RegimeNew, "2024-25")
	require.NoError(t, err)
	assert.Len(t, rs.Slabs, 6)
	assert.Equal(t, 25000.0, rs.Rebates[0].MaxRebate)
}

func TestGenerator_Generate_InvalidRegime(t *testing.T) {
	store := rulestore.NewStore(t.TempDir())
	g := rulegen.NewGenerator(store, nil, false, 5)

	_, err := g.Generate(context.Background(), domain.Regime("flat"), "2024-25")
	assert.ErrorIs(t, err, domain.ErrInvalidRegime)
}

func TestGenerator_ModelErrorFallsBack(t *testing.T) {
	model := new(mocks.MockChatModel)
	model.On("Complete", mock.Anything, mock.Anything).
		Return(nil, errors.New("api down"))

	store := rulestore.NewStore(t.TempDir())
	g := rulegen.NewGeneratorWithSources(store, model, true, 1, nil)

	rs, err := g.Generate(context.Background(), domain.RegimeOld, "2024-25")
	require.NoError(t, err)
	assert.Len(t, rs.Slabs, 4)
}

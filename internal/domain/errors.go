package domain

import "errors"

var (
	ErrRuleSetNotFound  = errors.New("tax rule set not found")
	ErrRuleSetInvalid   = errors.New("tax rule set is malformed")
	ErrRulesNotLoaded   = errors.New("tax rules not loaded")
	ErrInvalidRegime    = errors.New("regime must be 'old' or 'new'")
	ErrInvalidInput     = errors.New("invalid taxpayer input")
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrUnsupportedFile  = errors.New("unsupported statement file type")
	ErrFileTooLarge     = errors.New("file exceeds maximum allowed size")
	ErrStatementEmpty   = errors.New("statement contains no transactions")
	ErrSessionNotFound  = errors.New("chat session not found")
	ErrModelUnavailable = errors.New("no language model provider configured")
	ErrHistoryDisabled  = errors.New("analysis history is not enabled")
)

// Package storage provides the data persistence layer for the categorization engine.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/canadianinsights/northstar/internal/model"
)

// Validation errors.
var (
	ErrNilContext        = errors.New("context cannot be nil")
	ErrEmptyString       = errors.New("string parameter cannot be empty")
	ErrNilParameter      = errors.New("parameter cannot be nil")
	ErrInvalidCorrection = errors.New("invalid correction")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateKeyword validates a keyword rule before a write.
func validateKeyword(rule *model.KeywordRule) error {
	if rule == nil {
		return fmt.Errorf("%w: keyword rule", ErrNilParameter)
	}
	return rule.Validate()
}

// validateMerchant validates a merchant rule before a write.
func validateMerchant(rule *model.MerchantRule) error {
	if rule == nil {
		return fmt.Errorf("%w: merchant rule", ErrNilParameter)
	}
	return rule.Validate()
}

// validateCorrection validates a user correction before a write.
func validateCorrection(correction *model.UserCorrection) error {
	if correction == nil {
		return fmt.Errorf("%w: correction", ErrNilParameter)
	}
	if strings.TrimSpace(correction.UserID) == "" {
		return fmt.Errorf("%w: missing user ID", ErrInvalidCorrection)
	}
	if strings.TrimSpace(correction.DescriptionPattern) == "" {
		return fmt.Errorf("%w: missing description pattern", ErrInvalidCorrection)
	}
	if strings.TrimSpace(correction.CorrectedCategory) == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidCorrection)
	}
	return nil
}

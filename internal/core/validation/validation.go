// Package validation holds the pure business rules shared by the account and
// transfer services. Nothing here performs I/O.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/SscSPs/benefit_accounts_app/internal/apperrors"
	"github.com/SscSPs/benefit_accounts_app/internal/core/domain"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
)

// accountShape mirrors the string constraints of an account.
type accountShape struct {
	Name        string `json:"name" validate:"notblank,max=100"`
	Description string `json:"description" validate:"max=255"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("register notblank validation: %v", err))
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateAccountDraft checks name, description and balance of an account shape.
// The returned error is a *apperrors.ValidationError listing every failing field.
func ValidateAccountDraft(name, description string, balance decimal.Decimal) error {
	fields := map[string]string{}

	if err := validate.Struct(accountShape{Name: name, Description: description}); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validating account: %w", err)
		}
		for _, fe := range verrs {
			fields[fe.Field()] = describe(fe)
		}
	}
	if balance.IsNegative() {
		fields["balance"] = "must not be negative"
	}

	if len(fields) > 0 {
		return &apperrors.ValidationError{Fields: fields}
	}
	return nil
}

// ValidateAccount runs ValidateAccountDraft against an existing account.
func ValidateAccount(acc domain.Account) error {
	return ValidateAccountDraft(acc.Name, acc.Description, acc.Balance)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank":
		return "must not be blank"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// ValidateTransfer checks the shape of a transfer before anything is read.
func ValidateTransfer(fromID, toID string, amount decimal.Decimal) error {
	if strings.TrimSpace(fromID) == "" || strings.TrimSpace(toID) == "" {
		return apperrors.NewInvalidTransfer("source and destination accounts are required")
	}
	if fromID == toID {
		return apperrors.NewInvalidTransfer("cannot transfer to the same account")
	}
	if !amount.IsPositive() {
		return apperrors.NewInvalidTransfer("transfer amount must be positive")
	}
	return nil
}

// ValidateTransferable fails for frozen accounts.
func ValidateTransferable(acc domain.Account) error {
	if !acc.IsActive {
		return apperrors.NewInactiveAccount(acc.AccountID)
	}
	return nil
}

// ValidateSufficientFunds fails when the account cannot cover amount.
func ValidateSufficientFunds(acc domain.Account, amount decimal.Decimal) error {
	if acc.Balance.LessThan(amount) {
		return apperrors.NewInsufficientBalance(acc.AccountID, acc.Balance, amount)
	}
	return nil
}

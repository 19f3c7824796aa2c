package checkout

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/avilesdev/storefront-backend/pkg/enums"
	pkgerrors "github.com/avilesdev/storefront-backend/pkg/errors"
	"github.com/avilesdev/storefront-backend/pkg/types"
)

func validInput(method enums.PaymentMethod) Input {
	input := Input{
		ShippingAddress: types.ShippingAddress{
			FullName:    "Dana Smith",
			Address:     "100 Main St",
			City:        "Austin",
			PostalCode:  "73301",
			Country:     "US",
			PhoneNumber: "5125550100",
		},
		PaymentMethod: method,
	}
	switch method {
	case enums.PaymentMethodCard:
		input.Card = &CardDetails{Number: "4111111111111111", Expiry: "12/27", CVV: "123"}
	case enums.PaymentMethodSavedCard:
		id := uuid.New()
		input.SavedCardID = &id
	}
	return input
}

func TestValidateInputAccepts(t *testing.T) {
	t.Parallel()

	for _, method := range []enums.PaymentMethod{
		enums.PaymentMethodCOD,
		enums.PaymentMethodCard,
		enums.PaymentMethodSavedCard,
	} {
		if err := ValidateInput(validInput(method)); err != nil {
			t.Fatalf("ValidateInput(%s): %v", method, err)
		}
	}
}

func TestValidateInputShippingCheckedFirst(t *testing.T) {
	t.Parallel()

	// broken shipping AND broken card: shipping error must win
	input := validInput(enums.PaymentMethodCard)
	input.ShippingAddress.City = ""
	input.Card.Number = "1234"

	err := ValidateInput(input)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "shipping address") {
		t.Fatalf("expected shipping error first, got: %v", err)
	}
}

func TestValidateInputCardCheckedBeforePhone(t *testing.T) {
	t.Parallel()

	input := validInput(enums.PaymentMethodCard)
	input.Card.CVV = "12"
	input.ShippingAddress.PhoneNumber = "555"

	err := ValidateInput(input)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "cvv") {
		t.Fatalf("expected cvv error before phone, got: %v", err)
	}
}

func TestValidateInputCardShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*CardDetails)
		ok     bool
	}{
		{name: "spaced number accepted", mutate: func(c *CardDetails) { c.Number = "4111 1111 1111 1111" }, ok: true},
		{name: "short number rejected", mutate: func(c *CardDetails) { c.Number = "411111111111111" }},
		{name: "letters rejected", mutate: func(c *CardDetails) { c.Number = "4111abcd11111111" }},
		{name: "month zero rejected", mutate: func(c *CardDetails) { c.Expiry = "00/27" }},
		{name: "month thirteen rejected", mutate: func(c *CardDetails) { c.Expiry = "13/27" }},
		{name: "missing slash rejected", mutate: func(c *CardDetails) { c.Expiry = "1227" }},
		{name: "four digit cvv rejected", mutate: func(c *CardDetails) { c.CVV = "1234" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			input := validInput(enums.PaymentMethodCard)
			tc.mutate(input.Card)
			err := ValidateInput(input)
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestValidateInputPhoneShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		phone string
		ok    bool
	}{
		{phone: "5125550100", ok: true},
		{phone: "512-555-0100", ok: true},
		{phone: "512 555 0100", ok: true},
		{phone: "555", ok: false},
		{phone: "51255501000", ok: false},
		{phone: "512555010a", ok: false},
		{phone: "", ok: false},
	}

	for _, tc := range tests {
		input := validInput(enums.PaymentMethodCOD)
		input.ShippingAddress.PhoneNumber = tc.phone
		err := ValidateInput(input)
		if tc.ok && err != nil {
			t.Errorf("phone %q: unexpected error %v", tc.phone, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("phone %q: expected error", tc.phone)
		}
	}
}

func TestValidateInputSavedCardRequiresID(t *testing.T) {
	t.Parallel()

	input := validInput(enums.PaymentMethodSavedCard)
	input.SavedCardID = nil

	err := ValidateInput(input)
	if err == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestValidateInputRejectsUnknownMethod(t *testing.T) {
	t.Parallel()

	input := validInput(enums.PaymentMethodCOD)
	input.PaymentMethod = enums.PaymentMethod("wire_transfer")
	if err := ValidateInput(input); err == nil {
		t.Fatal("expected error for unknown payment method")
	}
}

func TestStateTransitions(t *testing.T) {
	t.Parallel()

	allowed := []struct{ from, to State }{
		{StateCollectingInfo, StateValidatingInput},
		{StateValidatingInput, StateCreatingSession},
		{StateCreatingSession, StatePlacingCodOrder},
		{StateCreatingSession, StateRedirectingToPayment},
		{StatePlacingCodOrder, StateCompleted},
		{StateRedirectingToPayment, StateFailed},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to State }{
		{StateCollectingInfo, StateCreatingSession},
		{StateValidatingInput, StateCompleted},
		{StateCompleted, StateFailed},
		{StateFailed, StateCollectingInfo},
	}
	for _, tc := range denied {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be denied", tc.from, tc.to)
		}
	}

	if !StateCompleted.IsTerminal() || !StateFailed.IsTerminal() {
		t.Error("expected completed and failed to be terminal")
	}
	if StateCreatingSession.IsTerminal() {
		t.Error("creating_session must not be terminal")
	}
}

package dto

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	req := RegisterRequest{
		Email:        "  alice@example.com  ",
		Password:     "  pass1234  ",
		BusinessName: " Acme Supply ",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "alice@example.com", req.Email)
	assert.Equal(t, "Acme Supply", req.BusinessName)
	assert.Equal(t, "  pass1234  ", req.Password, "passwords are never rewritten")
}

func TestSanitizeStruct_KeepsPunctuation(t *testing.T) {
	req := SendPaymentRequest{RecipientName: "O'Brien & Sons <LLC>", Memo: "Invoice\t#42\x00"}
	SanitizeStruct(&req)

	assert.Equal(t, "O'Brien & Sons <LLC>", req.RecipientName)
	assert.Equal(t, "Invoice#42", req.Memo)
}

func TestSanitizeStruct_HandlesPointerString(t *testing.T) {
	frac := "  11-35/1210  "
	req := LinkAccountRequest{BankName: "First Bank", FractionalRouting: &frac}
	SanitizeStruct(&req)

	assert.Equal(t, "11-35/1210", *req.FractionalRouting)
}

func TestSanitizeStruct_NilPointerIsNoOp(t *testing.T) {
	req := UpdateAccountRequest{}
	SanitizeStruct(&req)
	assert.Nil(t, req.BankName)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	req := TypedSignatureRequest{Name: "  Jane  "}
	SanitizeStruct(req)
	assert.Equal(t, "  Jane  ", req.Name)
}

// --- custom tag tests ---

func newValidator() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

func TestValidateABARouting(t *testing.T) {
	v := newValidator()
	tests := []struct {
		in    string
		valid bool
	}{
		{"021000021", true},
		{"011000015", true},
		{"021000022", false},
		{"02100002", false},
		{"02100002a", false},
		{"", false},
	}
	for _, tt := range tests {
		err := v.Var(tt.in, "aba_routing")
		assert.Equal(t, tt.valid, err == nil, "routing %q", tt.in)
	}
}

func TestValidateDigits(t *testing.T) {
	v := newValidator()
	assert.NoError(t, v.Var("0012345678", "digits"))
	assert.Error(t, v.Var("12-34", "digits"))
	assert.Error(t, v.Var("", "digits"))
}

func TestValidateDeliveryMethod(t *testing.T) {
	v := newValidator()
	assert.NoError(t, v.Var("print", "delivery_method"))
	assert.NoError(t, v.Var("stripe", "delivery_method"))
	assert.Error(t, v.Var("wire", "delivery_method"))
}

func TestValidateSafeID(t *testing.T) {
	v := newValidator()
	assert.NoError(t, v.Var("INV-2024.001:a_b", "safe_id"))
	assert.Error(t, v.Var("inv 001", "safe_id"))
	assert.Error(t, v.Var("inv/001", "safe_id"))
}

func TestSendPaymentRequest_Binding(t *testing.T) {
	v := newValidator()
	v.SetTagName("binding")

	req := SendPaymentRequest{
		AccountID:      "550e8400-e29b-41d4-a716-446655440000",
		ReferenceID:    "INV-001",
		RecipientName:  "Acme Supply",
		DeliveryMethod: "print",
		SignatureData:  "iVBORw0KGgo=",
	}
	assert.NoError(t, v.Struct(req))

	req.RecipientRoutingNumber = "123456789"
	assert.Error(t, v.Struct(req), "bad checksum")

	req.RecipientRoutingNumber = "021000021"
	req.RecipientAccountNumber = "12ab"
	assert.Error(t, v.Struct(req))
}

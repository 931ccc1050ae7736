package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"picpay-wallet/pkg/document"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("cpf_cnpj", validateCpfCnpj)
	}
}

// validateCpfCnpj accepts a CPF or CNPJ, masked or bare, with valid
// check digits.
func validateCpfCnpj(fl validator.FieldLevel) bool {
	return document.IsValid(fl.Field().String())
}

package auth

import (
	"scan-dashboard/internal/common/validation"
	"scan-dashboard/internal/models"
)

const minPasswordLength = 8

func otpTypeNames() []string {
	out := make([]string, len(models.OTPTypes))
	for i, t := range models.OTPTypes {
		out[i] = string(t)
	}
	return out
}

var (
	emailProperty    = validation.Property{Type: "string", Format: "email"}
	passwordProperty = validation.Property{Type: "string", MinLength: validation.IntPtr(minPasswordLength)}
	nonEmpty         = validation.Property{Type: "string", MinLength: validation.IntPtr(1)}
	otpTypeProperty  = validation.Property{Type: "string", Enum: otpTypeNames()}
)

var signupSchema = validation.MustCompile(validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"first_name":       nonEmpty,
		"last_name":        nonEmpty,
		"email":            emailProperty,
		"phone":            {Type: "string"},
		"company":          {Type: "string"},
		"business_type":    {Type: "string"},
		"state":            {Type: "string"},
		"city":             {Type: "string"},
		"password":         passwordProperty,
		"confirm_password": nonEmpty,
	},
	Required:             []string{"first_name", "last_name", "email", "password", "confirm_password"},
	AdditionalProperties: false,
})

var loginSchema = validation.MustCompile(validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"email":       emailProperty,
		"password":    nonEmpty,
		"remember_me": {Type: "boolean"},
	},
	Required:             []string{"email", "password"},
	AdditionalProperties: false,
})

var emailSchema = validation.MustCompile(validation.JSONSchema{
	Type:                 "object",
	Properties:           map[string]validation.Property{"email": emailProperty},
	Required:             []string{"email"},
	AdditionalProperties: false,
})

var resendOTPSchema = validation.MustCompile(validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"email": emailProperty,
		"type":  otpTypeProperty,
	},
	Required:             []string{"email", "type"},
	AdditionalProperties: false,
})

var verifyOTPSchema = validation.MustCompile(validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"token": {Type: "string", Pattern: validation.StringPtr(`^[0-9A-Za-z]{4,10}$`)},
		"email": emailProperty,
		"type":  otpTypeProperty,
	},
	Required:             []string{"token", "email", "type"},
	AdditionalProperties: false,
})

var resetPasswordSchema = validation.MustCompile(validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"access_token":     nonEmpty,
		"password":         passwordProperty,
		"confirm_password": nonEmpty,
	},
	Required:             []string{"access_token", "password", "confirm_password"},
	AdditionalProperties: false,
})

// validate runs schema over input and adds the password confirmation check
// when confirm is non-nil.
func validate(schema *validation.Compiled, input interface{}, password string, confirm *string) (*validation.ValidationResult, error) {
	res, err := schema.Validate(input)
	if err != nil {
		return nil, err
	}
	if confirm != nil && *confirm != "" && *confirm != password {
		res.Add("confirm_password", "mismatch", "Passwords do not match")
	}
	return res, nil
}

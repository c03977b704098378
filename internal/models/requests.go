package models

// Credentials is what the login form submits.
type Credentials struct {
	Username string `json:"username" form:"username" label:"Usuario" validate:"required"`
	Password string `json:"password" form:"password" label:"Contraseña" validate:"required"`
}

// RegistrationRequest is what the register form submits; it must pass the
// registration schema before it is dispatched.
type RegistrationRequest struct {
	Username string `json:"username" form:"username" label:"Usuario" validate:"required,min=3,max=32,username_format"`
	Email    string `json:"email" form:"email" label:"Email" validate:"required,email,max=255"`
	Password string `json:"password" form:"password" label:"Contraseña" validate:"required,min=6,max=128"`
}

// PasswordResetRequest asks for a reset mail. Only presence of the email is checked locally.
type PasswordResetRequest struct {
	Email string `json:"email" form:"email" label:"Email" validate:"required"`
}

// NewPasswordRequest completes a reset with the token from the mail.
type NewPasswordRequest struct {
	Token    string `json:"token" form:"token" label:"Token" validate:"required"`
	Password string `json:"password" form:"password" label:"Contraseña" validate:"required,min=6,max=128"`
}

package dto

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type RegistroRequest struct {
	Email             string `json:"email"              validate:"required,email"`
	Password          string `json:"password"           validate:"required,min=6"`
	ConfirmarPassword string `json:"confirmar_password" validate:"required,eqfield=Password"`
	Nombre            string `json:"nombre"             validate:"required,min=1,max=100"`
	Apellido          string `json:"apellido"           validate:"required,min=1,max=100"`
}

type ActualizarPerfilRequest struct {
	Nombre   *string `json:"nombre"   validate:"omitempty,min=1,max=100"`
	Apellido *string `json:"apellido" validate:"omitempty,min=1,max=100"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

type UsuarioResponse struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	Rol      string `json:"rol"`
	Activo   bool   `json:"activo"`
}

type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int             `json:"expires_in"`
	Usuario     UsuarioResponse `json:"usuario"`
}

package dto

type GuardarEmpresaRequest struct {
	Nombre    string  `json:"nombre"    validate:"required,min=1,max=200"`
	Direccion *string `json:"direccion" validate:"omitempty,max=300"`
	Telefono  *string `json:"telefono"  validate:"omitempty,max=30"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	NIF       *string `json:"nif"       validate:"omitempty,max=20"`
	Logo      *string `json:"logo"`
}

type EmpresaResponse struct {
	ID        uint    `json:"id"`
	Nombre    string  `json:"nombre"`
	Direccion *string `json:"direccion"`
	Telefono  *string `json:"telefono"`
	Email     *string `json:"email"`
	NIF       *string `json:"nif"`
	Logo      *string `json:"logo"`
}

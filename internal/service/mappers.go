package service

import (
	"encoding/json"

	"facturas/internal/dto"
	"facturas/internal/model"
)

func mapUsuario(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:       u.ID,
		Email:    u.Email,
		Nombre:   u.Nombre,
		Apellido: u.Apellido,
		Rol:      u.Rol,
		Activo:   u.Activo,
	}
}

func mapCliente(c *model.Cliente) dto.ClienteResponse {
	return dto.ClienteResponse{
		ID:           c.ID,
		Nombre:       c.Nombre,
		Email:        c.Email,
		Telefono:     c.Telefono,
		Direccion:    c.Direccion,
		Ciudad:       c.Ciudad,
		CodigoPostal: c.CodigoPostal,
		Pais:         c.Pais,
		NIF:          c.NIF,
		Activo:       c.Activo,
		CreatedAt:    c.CreatedAt,
	}
}

func mapProducto(p *model.Producto) dto.ProductoResponse {
	return dto.ProductoResponse{
		ID:          p.ID,
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		Precio:      p.Precio,
		Categoria:   p.Categoria,
		Codigo:      p.Codigo,
		Stock:       p.Stock,
		Activo:      p.Activo,
		CreatedAt:   p.CreatedAt,
	}
}

func mapFactura(f *model.Factura) dto.FacturaResponse {
	resp := dto.FacturaResponse{
		ID:               f.ID,
		Numero:           f.Numero,
		ClienteID:        f.ClienteID,
		Fecha:            f.Fecha,
		FechaVencimiento: f.FechaVencimiento,
		Subtotal:         f.Subtotal,
		IVA:              f.IVA,
		Total:            f.Total,
		Estado:           f.Estado,
		Notas:            f.Notas,
		Lineas:           make([]dto.LineaFacturaResponse, 0, len(f.Lineas)),
		CreatedAt:        f.CreatedAt,
	}
	if f.Cliente != nil {
		c := mapCliente(f.Cliente)
		resp.Cliente = &c
	}
	for _, l := range f.Lineas {
		resp.Lineas = append(resp.Lineas, dto.LineaFacturaResponse{
			ID:          l.ID,
			ProductoID:  l.ProductoID,
			Descripcion: l.Descripcion,
			Cantidad:    l.Cantidad,
			Precio:      l.Precio,
			Total:       l.Total,
		})
	}
	return resp
}

func mapEmpresa(e *model.ConfiguracionEmpresa) dto.EmpresaResponse {
	return dto.EmpresaResponse{
		ID:        e.ID,
		Nombre:    e.Nombre,
		Direccion: e.Direccion,
		Telefono:  e.Telefono,
		Email:     e.Email,
		NIF:       e.NIF,
		Logo:      e.Logo,
	}
}

func mapLog(l *model.Log) dto.LogResponse {
	resp := dto.LogResponse{
		ID:        l.ID,
		Accion:    string(l.Accion),
		EntidadID: l.EntidadID,
		IP:        l.IP,
		UserAgent: l.UserAgent,
		CreatedAt: l.CreatedAt,
	}
	if l.Entidad != nil {
		e := string(*l.Entidad)
		resp.Entidad = &e
	}
	if len(l.Detalles) > 0 {
		resp.Detalles = json.RawMessage(l.Detalles)
	}
	return resp
}

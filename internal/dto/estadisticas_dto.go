package dto

import "github.com/shopspring/decimal"

type MesEstadistica struct {
	Mes      string          `json:"mes"`
	Ingresos decimal.Decimal `json:"ingresos"`
	Cantidad int             `json:"cantidad"`
}

type EstadisticasResponse struct {
	FacturasEsteMes   int               `json:"facturas_este_mes"`
	IngresosTotales   decimal.Decimal   `json:"ingresos_totales"`
	ClientesActivos   int               `json:"clientes_activos"`
	TotalProductos    int               `json:"total_productos"`
	FacturasPorMes    []MesEstadistica  `json:"facturas_por_mes"`
	FacturasRecientes []FacturaResponse `json:"facturas_recientes"`
}

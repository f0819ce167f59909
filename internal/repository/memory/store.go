// Package memory is a process-local implementation of the repository
// contracts. All entity kinds draw ids from one counter and every method
// runs under a single RWMutex, so invoice creation and deletion are atomic.
package memory

import (
	"sync"
	"time"

	"facturas/internal/model"
	"facturas/internal/repository"
)

type Store struct {
	mu     sync.RWMutex
	lastID uint
	now    func() time.Time

	usuarios   map[uint]*model.Usuario
	clientes   map[uint]*model.Cliente
	productos  map[uint]*model.Producto
	facturas   map[uint]*model.Factura
	lineas     map[uint]*model.LineaFactura
	empresas   map[uint]*model.ConfiguracionEmpresa
	logs       []*model.Log
	secuencias map[secuenciaKey]int
}

type secuenciaKey struct {
	usuarioID uint
	anio      int
}

func New() *Store {
	return &Store{
		now:        time.Now,
		usuarios:   make(map[uint]*model.Usuario),
		clientes:   make(map[uint]*model.Cliente),
		productos:  make(map[uint]*model.Producto),
		facturas:   make(map[uint]*model.Factura),
		lineas:     make(map[uint]*model.LineaFactura),
		empresas:   make(map[uint]*model.ConfiguracionEmpresa),
		secuencias: make(map[secuenciaKey]int),
	}
}

// Repositories exposes the store through the repository contracts.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Usuarios:  &usuarioRepo{s: s},
		Clientes:  &clienteRepo{s: s},
		Productos: &productoRepo{s: s},
		Facturas:  &facturaRepo{s: s},
		Empresas:  &empresaRepo{s: s},
		Logs:      &logRepo{s: s},
	}
}

// nextID must be called with mu held for writing.
func (s *Store) nextID() uint {
	s.lastID++
	return s.lastID
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneUint(p *uint) *uint {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

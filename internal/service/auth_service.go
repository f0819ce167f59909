package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"facturas/internal/config"
	"facturas/internal/dto"
	"facturas/internal/errs"
	"facturas/internal/model"
	"facturas/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

var bcryptCost = 12

type AuthService interface {
	Registrar(ctx context.Context, req dto.RegistroRequest) (*dto.LoginResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, usuarioID uint)
	Perfil(ctx context.Context, usuarioID uint) (*dto.UsuarioResponse, error)
	ActualizarPerfil(ctx context.Context, usuarioID uint, req dto.ActualizarPerfilRequest) (*dto.UsuarioResponse, error)
	// SeedAdmin creates the admin account when no user owns email yet.
	SeedAdmin(ctx context.Context, email, password string) error
}

type authService struct {
	repo  repository.UsuarioRepository
	audit AuditoriaService
	cfg   *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, audit AuditoriaService, cfg *config.Config) AuthService {
	return &authService{repo: repo, audit: audit, cfg: cfg}
}

func (s *authService) Registrar(ctx context.Context, req dto.RegistroRequest) (*dto.LoginResponse, error) {
	if req.Password != req.ConfirmarPassword {
		return nil, errs.Invalid("confirmar_password", "eqfield")
	}
	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email %s: %w", req.Email, errs.ErrAlreadyExists)
	} else if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &model.Usuario{
		Email:        req.Email,
		PasswordHash: string(hash),
		Nombre:       strings.TrimSpace(req.Nombre),
		Apellido:     strings.TrimSpace(req.Apellido),
		Rol:          model.RolUsuario,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	auditar(ctx, s.audit, user.ID, model.AccionRegistro, model.EntidadUsuario, user.ID, map[string]any{"email": user.Email})
	return s.sesion(user)
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.Activo {
		return nil, errs.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errs.ErrInvalidCredentials
	}
	auditar(ctx, s.audit, user.ID, model.AccionLogin, model.EntidadUsuario, user.ID, nil)
	return s.sesion(user)
}

func (s *authService) Logout(ctx context.Context, usuarioID uint) {
	auditar(ctx, s.audit, usuarioID, model.AccionLogout, model.EntidadUsuario, usuarioID, nil)
}

func (s *authService) Perfil(ctx context.Context, usuarioID uint) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, usuarioID)
	if err != nil {
		return nil, fmt.Errorf("usuario %d: %w", usuarioID, err)
	}
	resp := mapUsuario(user)
	return &resp, nil
}

func (s *authService) ActualizarPerfil(ctx context.Context, usuarioID uint, req dto.ActualizarPerfilRequest) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, usuarioID)
	if err != nil {
		return nil, fmt.Errorf("usuario %d: %w", usuarioID, err)
	}
	detalles := map[string]any{}
	if req.Nombre != nil {
		user.Nombre = strings.TrimSpace(*req.Nombre)
		detalles["nombre"] = user.Nombre
	}
	if req.Apellido != nil {
		user.Apellido = strings.TrimSpace(*req.Apellido)
		detalles["apellido"] = user.Apellido
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
		detalles["password"] = true
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	auditar(ctx, s.audit, user.ID, model.AccionActualizar, model.EntidadUsuario, user.ID, detalles)
	resp := mapUsuario(user)
	return &resp, nil
}

func (s *authService) SeedAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, errs.ErrNotFound) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}
	admin := &model.Usuario{
		Email:        email,
		PasswordHash: string(hash),
		Nombre:       "Administrador",
		Apellido:     "Sistema",
		Rol:          model.RolAdmin,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return err
	}
	log.Info().Str("email", admin.Email).Msg("usuario administrador creado")
	return nil
}

func (s *authService) sesion(user *model.Usuario) (*dto.LoginResponse, error) {
	token, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   s.cfg.JWTExpirationHours * 3600,
		Usuario:     mapUsuario(user),
	}, nil
}

func (s *authService) generateToken(user *model.Usuario, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"rol":     user.Rol,
		"jti":     uuid.NewString(),
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

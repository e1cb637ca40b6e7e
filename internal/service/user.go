package service

import (
	"context"
	"strings"

	"github.com/aarondl/null/v8"
	"github.com/rs/zerolog"

	"github.com/nurpe/rental-desk/internal/listing"
	"github.com/nurpe/rental-desk/internal/model"
	"github.com/nurpe/rental-desk/internal/resource"
	"github.com/nurpe/rental-desk/internal/session"
	"github.com/nurpe/rental-desk/internal/validation"
)

type UserService struct {
	backend  resource.Backend
	users    *resource.Resource[model.User]
	validate *validation.Validator
	log      zerolog.Logger
}

func NewUserService(backend resource.Backend, validate *validation.Validator, log zerolog.Logger) *UserService {
	return &UserService{
		backend:  backend,
		users:    resource.New[model.User](backend, "users", "user", "users"),
		validate: validate,
		log:      log,
	}
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token       string      `json:"token"`
	AccessToken string      `json:"access_token"`
	User        *model.User `json:"user"`
}

// Login exchanges credentials for a token and stores it in the session.
func (s *UserService) Login(ctx context.Context, sess *session.Session, input LoginInput) (*model.User, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, formError(err)
	}
	var resp loginResponse
	if err := s.backend.Post(ctx, "/api/auth/login", input, &resp); err != nil {
		return nil, err
	}
	token := resp.Token
	if token == "" {
		token = resp.AccessToken
	}
	if token == "" {
		return nil, ErrPermissionDenied
	}
	if err := sess.SetToken(token); err != nil {
		s.log.Error().Err(err).Msg("failed to store session token")
		return nil, err
	}
	s.log.Info().Str("username", input.Username).Msg("operator logged in")
	return resp.User, nil
}

func (s *UserService) Logout(sess *session.Session) error {
	if sess == nil {
		return nil
	}
	return sess.Logout()
}

func (s *UserService) Me(ctx context.Context) (*model.User, error) {
	var resp struct {
		User *model.User `json:"user"`
	}
	if err := s.backend.Get(ctx, "/api/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return mustExist(resp.User, nil)
}

func (s *UserService) List(ctx context.Context, principal model.Principal, query, role string) (listing.Page[model.User], error) {
	if err := requireAdmin(principal); err != nil {
		return listing.Page[model.User]{}, err
	}
	users, err := s.users.List(ctx, nil)
	if err != nil {
		return listing.Page[model.User]{}, err
	}
	return listing.Apply(users, query,
		func(u model.User) []string {
			return []string{u.Username, u.FullName.String, u.Email.String}
		},
		listing.Equals(role, func(u model.User) string { return string(u.Role) }),
	), nil
}

type UserForm struct {
	Username string      `json:"username" validate:"required"`
	Email    null.String `json:"email" validate:"omitempty,email"`
	FullName null.String `json:"full_name"`
	Role     model.Role  `json:"role" validate:"required,oneof=admin user"`
	Active   bool        `json:"active"`
	Password null.String `json:"password,omitzero" validate:"omitempty,min=6"`
}

func UserFormFrom(u model.User) UserForm {
	return UserForm{
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
		Active:   u.Active,
	}
}

// Form never carries the stored password; an edit keeps it unless a new one
// is sent.
func (s *UserService) Form(ctx context.Context, principal model.Principal, id int64) (UserForm, error) {
	if err := requireAdmin(principal); err != nil {
		return UserForm{}, err
	}
	if id == 0 {
		return UserForm{Role: model.RoleUser, Active: true}, nil
	}
	user, err := mustExist(s.users.Get(ctx, id))
	if err != nil {
		return UserForm{}, err
	}
	return UserFormFrom(*user), nil
}

func (s *UserService) Save(ctx context.Context, principal model.Principal, id int64, form UserForm) (*model.User, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(form); err != nil {
		return nil, formError(err)
	}
	if form.Password.Valid && strings.TrimSpace(form.Password.String) == "" {
		form.Password = null.String{}
	}
	if id == 0 {
		if !form.Password.Valid {
			return nil, &FormError{Fields: validation.FieldErrors{{Field: "password", Rule: "required"}}}
		}
		return s.users.Create(ctx, form)
	}
	return s.users.Update(ctx, id, form)
}

func (s *UserService) Delete(ctx context.Context, principal model.Principal, id int64) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}
	if principal.UserID == formatID(id) {
		return ErrInvalidInput
	}
	return s.users.Delete(ctx, id)
}

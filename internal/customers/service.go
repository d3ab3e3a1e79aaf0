package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	pkgAuth "github.com/simplezakka/zakka-backend/pkg/auth"
	"github.com/simplezakka/zakka-backend/pkg/auth/session"
	"github.com/simplezakka/zakka-backend/pkg/config"
	"github.com/simplezakka/zakka-backend/pkg/db"
	"github.com/simplezakka/zakka-backend/pkg/db/models"
	pkgerrors "github.com/simplezakka/zakka-backend/pkg/errors"
)

const invalidCredentialsMessage = "invalid credentials"

// Service covers member registration, login and profile management.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*CustomerDTO, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Get(ctx context.Context, id int64) (*CustomerDTO, error)
	Update(ctx context.Context, id int64, input UpdateInput) (*CustomerDTO, error)
	Search(ctx context.Context, keyword string) ([]CustomerDTO, error)
}

type customerRepository interface {
	Create(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	FindByID(ctx context.Context, id int64) (*models.Customer, error)
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	Search(ctx context.Context, keyword string) ([]models.Customer, error)
}

type passwordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string, customerID int64) (string, error)
}

// ServiceParams bundles the dependencies required to build a customer service.
type ServiceParams struct {
	Repo           customerRepository
	Hasher         passwordHasher
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
	Now            func() time.Time
}

type service struct {
	repo    customerRepository
	hasher  passwordHasher
	session sessionManager
	jwtCfg  config.JWTConfig
	now     func() time.Time
}

// NewService constructs a customer service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("customer repository is required")
	}
	if params.Hasher == nil {
		return nil, fmt.Errorf("password hasher is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:    params.Repo,
		hasher:  params.Hasher,
		session: params.SessionManager,
		jwtCfg:  params.JWTConfig,
		now:     now,
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*CustomerDTO, error) {
	info := input.CustomerInfo
	email := normalizeEmail(info.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if strings.TrimSpace(info.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, emailTaken()
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	last, first := SplitName(info.Name)
	created, err := s.repo.Create(ctx, &models.Customer{
		Email:        email,
		PasswordHash: hash,
		LastName:     last,
		FirstName:    first,
		PhoneNumber:  strings.TrimSpace(info.PhoneNumber),
		Address:      strings.TrimSpace(info.Address),
	})
	if err != nil {
		if db.IsUniqueViolation(err, "uq_customers_email") {
			return nil, emailTaken()
		}
		return nil, err
	}
	return FromModel(created), nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	customer, err := s.authenticate(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	accessID := session.NewAccessID()
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now().UTC(), pkgAuth.AccessTokenPayload{
		CustomerID: customer.ID,
		Email:      customer.Email,
		JTI:        accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refreshToken, err := s.session.Generate(ctx, accessID, customer.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}

	return &LoginResult{
		Customer:     FromModel(customer),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *service) Get(ctx context.Context, id int64) (*CustomerDTO, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(customer), nil
}

func (s *service) Update(ctx context.Context, id int64, input UpdateInput) (*CustomerDTO, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	valid, err := s.hasher.Verify(input.CurrentPassword, customer.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "current password is incorrect")
	}

	info := input.CustomerInfo
	email := normalizeEmail(info.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if email != customer.Email {
		taken, err := s.repo.ExistsByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, emailTaken()
		}
	}

	customer.LastName, customer.FirstName = SplitName(info.Name)
	customer.Email = email
	customer.Address = strings.TrimSpace(info.Address)
	customer.PhoneNumber = strings.TrimSpace(info.PhoneNumber)

	if strings.TrimSpace(input.NewPassword) != "" {
		hash, err := s.hasher.Hash(input.NewPassword)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		customer.PasswordHash = hash
	}

	updated, err := s.repo.Update(ctx, customer)
	if err != nil {
		if db.IsUniqueViolation(err, "uq_customers_email") {
			return nil, emailTaken()
		}
		return nil, err
	}
	return FromModel(updated), nil
}

func (s *service) Search(ctx context.Context, keyword string) ([]CustomerDTO, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "keyword is required")
	}
	rows, err := s.repo.Search(ctx, keyword)
	if err != nil {
		return nil, err
	}
	out := make([]CustomerDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.Customer, error) {
	input := normalizeEmail(email)
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	customer, err := s.repo.FindByEmail(ctx, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup customer")
	}

	valid, err := s.hasher.Verify(password, customer.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return customer, nil
}

func emailTaken() error {
	return pkgerrors.New(pkgerrors.CodeConflict, "email is already registered")
}

package customers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgAuth "github.com/simplezakka/zakka-backend/pkg/auth"
	"github.com/simplezakka/zakka-backend/pkg/config"
	"github.com/simplezakka/zakka-backend/pkg/db/dbtest"
	pkgerrors "github.com/simplezakka/zakka-backend/pkg/errors"
	"github.com/simplezakka/zakka-backend/pkg/security"
)

var testJWT = config.JWTConfig{Secret: "test-secret", Issuer: "zakka", ExpirationMinutes: 15}

type stubSessions struct {
	generated map[string]int64
	err       error
}

func (s *stubSessions) Generate(_ context.Context, accessID string, customerID int64) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.generated == nil {
		s.generated = map[string]int64{}
	}
	s.generated[accessID] = customerID
	return "refresh-" + accessID, nil
}

func newTestService(t *testing.T) (Service, *stubSessions) {
	t.Helper()
	sessions := &stubSessions{}
	svc, err := NewService(ServiceParams{
		Repo: NewRepository(dbtest.Open(t)),
		Hasher: security.NewPasswordHasher(config.PasswordConfig{
			ArgonMemoryKB: 8 * 1024, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32,
		}),
		SessionManager: sessions,
		JWTConfig:      testJWT,
		Now:            func() time.Time { return time.Now() },
	})
	require.NoError(t, err)
	return svc, sessions
}

func sampleRegister() RegisterInput {
	return RegisterInput{
		CustomerInfo: CustomerInfo{
			Name:        "山田 太郎",
			Email:       " Taro@Example.com ",
			Address:     "東京都千代田区1-1",
			PhoneNumber: "09012345678",
		},
		Password: "password123",
	}
}

func TestRegisterSplitsNameAndNormalizesEmail(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.Register(context.Background(), sampleRegister())
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "taro@example.com", created.Email)
	assert.Equal(t, "山田 太郎", created.Name)

	_, err = svc.Register(context.Background(), sampleRegister())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))
}

func TestLoginIssuesTokens(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, sampleRegister())
	require.NoError(t, err)

	res, err := svc.Login(ctx, LoginInput{Email: "taro@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, res.Customer.ID)

	claims, err := pkgAuth.ParseAccessToken(testJWT, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.CustomerID)
	assert.Equal(t, created.ID, sessions.generated[claims.ID])
	assert.Equal(t, "refresh-"+claims.ID, res.RefreshToken)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, sampleRegister())
	require.NoError(t, err)

	for _, in := range []LoginInput{
		{Email: "nobody@example.com", Password: "password123"},
		{Email: "taro@example.com", Password: "wrong-password"},
		{Email: "", Password: "password123"},
	} {
		_, err := svc.Login(ctx, in)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
		assert.Equal(t, invalidCredentialsMessage, typed.Message())
	}
}

func TestLoginPropagatesSessionFailure(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, sampleRegister())
	require.NoError(t, err)

	sessions.err = errors.New("redis down")
	_, err = svc.Login(ctx, LoginInput{Email: "taro@example.com", Password: "password123"})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInternal))
}

func TestGetAndUpdate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, sampleRegister())
	require.NoError(t, err)

	_, err = svc.Get(ctx, created.ID+10)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeCustomerNotFound))

	update := UpdateInput{
		CustomerInfo: CustomerInfo{
			Name:        "山田 花子",
			Email:       "hanako@example.com",
			Address:     "大阪府大阪市2-2",
			PhoneNumber: "0612345678",
		},
		CurrentPassword: "wrong",
	}
	_, err = svc.Update(ctx, created.ID, update)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized))

	update.CurrentPassword = "password123"
	update.NewPassword = "new-password"
	updated, err := svc.Update(ctx, created.ID, update)
	require.NoError(t, err)
	assert.Equal(t, "山田 花子", updated.Name)
	assert.Equal(t, "hanako@example.com", updated.Email)

	_, err = svc.Login(ctx, LoginInput{Email: "hanako@example.com", Password: "new-password"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "0612345678", got.PhoneNumber)
}

func TestSearch(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, sampleRegister())
	require.NoError(t, err)

	other := sampleRegister()
	other.CustomerInfo.Name = "佐藤 花子"
	other.CustomerInfo.Email = "sato@example.com"
	other.CustomerInfo.PhoneNumber = "08000000000"
	_, err = svc.Register(ctx, other)
	require.NoError(t, err)

	found, err := svc.Search(ctx, "山田")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "taro@example.com", found[0].Email)

	found, err = svc.Search(ctx, "0800")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = svc.Search(ctx, " ")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestSplitName(t *testing.T) {
	cases := map[string][2]string{
		"山田 太郎":          {"山田", "太郎"},
		"  Smith  John ": {"Smith", "John"},
		"Madonna":        {"Madonna", ""},
		"de la Cruz Ana": {"de", "la Cruz Ana"},
	}
	for in, want := range cases {
		last, first := SplitName(in)
		assert.Equal(t, want[0], last, in)
		assert.Equal(t, want[1], first, in)
	}
}

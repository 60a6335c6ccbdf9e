package application

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-task-manager/internal/testutil"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
	"github.com/oksasatya/go-task-manager/pkg/mailer"
	tpl "github.com/oksasatya/go-task-manager/pkg/mailer/templates"
	"github.com/oksasatya/go-task-manager/pkg/validation"
)

func newAuthService(t *testing.T) (*AuthService, *testutil.UserStore) {
	t.Helper()
	users := testutil.NewUserStore()
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	return NewAuthService(users, jwt, nil, 4), users
}

func TestRegister(t *testing.T) {
	svc, users := newAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Name: " Alice ", Email: "alice@x.io", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "Alice", res.User.Name)
	assert.Equal(t, "alice@x.io", res.User.Email)
	assert.NotEmpty(t, res.User.ID)

	uid, err := svc.JWT.Authenticate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, uid)

	stored, err := users.GetByEmail(ctx, "alice@x.io")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.True(t, helpers.CompareHashAndPassword(stored.PasswordHash, "secret1"))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, users := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "Alice", Email: "alice@x.io", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Name: "Alice 2", Email: "alice@x.io", Password: "other12"})
	assert.ErrorIs(t, err, ErrEmailExists)
	assert.Equal(t, 1, users.Count())
}

func TestRegister_Validation(t *testing.T) {
	svc, users := newAuthService(t)

	cases := []struct {
		name  string
		in    RegisterInput
		field string
	}{
		{"short password", RegisterInput{Name: "A", Email: "a@x.io", Password: "12345"}, "password"},
		{"missing name", RegisterInput{Name: "  ", Email: "a@x.io", Password: "123456"}, "name"},
		{"bad email", RegisterInput{Name: "A", Email: "nope", Password: "123456"}, "email"},
		{"password over bcrypt limit", RegisterInput{Name: "A", Email: "a@x.io", Password: strings.Repeat("p", 73)}, "password"},
		{"multibyte password over bcrypt limit", RegisterInput{Name: "A", Email: "a@x.io", Password: strings.Repeat("é", 40)}, "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.in)
			var verr *validation.Error
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Details, tc.field)
		})
	}
	assert.Equal(t, 0, users.Count())
}

func TestRegister_StoreFailure(t *testing.T) {
	svc, users := newAuthService(t)
	users.Err = testutil.ErrDown

	_, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@x.io", Password: "123456"})
	assert.ErrorIs(t, err, testutil.ErrDown)
	assert.NotErrorIs(t, err, ErrEmailExists)
}

func TestRegister_EnqueuesWelcomeEmail(t *testing.T) {
	svc, _ := newAuthService(t)
	pub := &testutil.Publisher{}
	svc.WithWelcomeEmail(pub, "Tasks", "http://app.test")

	_, err := svc.Register(context.Background(), RegisterInput{Name: "Alice", Email: "alice@x.io", Password: "secret1"})
	require.NoError(t, err)

	require.Len(t, pub.Msgs, 1)
	job, ok := pub.Msgs[0].(mailer.EmailJob)
	require.True(t, ok)
	assert.Equal(t, "alice@x.io", job.To)
	assert.Equal(t, tpl.Welcome, job.Template)
	assert.Equal(t, "Alice", job.Data["Name"])
}

func TestRegister_PublishFailureIsNotFatal(t *testing.T) {
	svc, _ := newAuthService(t)
	svc.WithWelcomeEmail(&testutil.Publisher{Err: testutil.ErrDown}, "Tasks", "")

	res, err := svc.Register(context.Background(), RegisterInput{Name: "Alice", Email: "alice@x.io", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	reg, err := svc.Register(ctx, RegisterInput{Name: "Alice", Email: "alice@x.io", Password: "secret1"})
	require.NoError(t, err)

	res, err := svc.Login(ctx, LoginInput{Email: "alice@x.io", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, reg.User, res.User)

	uid, err := svc.JWT.Authenticate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, uid)
}

func TestLogin_InvalidCredentialsAreIndistinguishable(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Name: "Alice", Email: "alice@x.io", Password: "secret1"})
	require.NoError(t, err)

	_, errWrongPass := svc.Login(ctx, LoginInput{Email: "alice@x.io", Password: "wrong-pass"})
	_, errUnknown := svc.Login(ctx, LoginInput{Email: "nobody@x.io", Password: "secret1"})

	assert.ErrorIs(t, errWrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.Equal(t, errWrongPass.Error(), errUnknown.Error())
}

func TestPlaceholderHash(t *testing.T) {
	svc, _ := newAuthService(t)
	h := svc.placeholderHash()
	cost, err := bcrypt.Cost([]byte(h))
	require.NoError(t, err)
	assert.Equal(t, 4, cost)
	assert.Equal(t, h, svc.placeholderHash(), "generated once")
}

func TestPlaceholderHash_FallbackWhenHashingFails(t *testing.T) {
	svc, _ := newAuthService(t)
	logger, hook := logtest.NewNullLogger()
	svc.Logger = logger
	svc.hashFn = func(string, int) (string, error) { return "", bcrypt.ErrPasswordTooLong }

	h := svc.placeholderHash()
	assert.Equal(t, fallbackPlaceholderHash, h)
	cost, err := bcrypt.Cost([]byte(h))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)

	require.Len(t, hook.AllEntries(), 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, bcrypt.ErrPasswordTooLong.Error(), entry.Data["error"])

	_, err = svc.Login(context.Background(), LoginInput{Email: "nobody@x.io", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_StoreFailure(t *testing.T) {
	svc, users := newAuthService(t)
	users.Err = testutil.ErrDown

	_, err := svc.Login(context.Background(), LoginInput{Email: "a@x.io", Password: "123456"})
	assert.ErrorIs(t, err, testutil.ErrDown)
}

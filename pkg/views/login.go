package views

import (
	"context"

	"github.com/learnconnect/learnconnect.go/pkg/constants"
	"github.com/learnconnect/learnconnect.go/pkg/logger"
	"github.com/learnconnect/learnconnect.go/pkg/models"
	"github.com/learnconnect/learnconnect.go/pkg/mutation"
)

// Login drives the sign-in and sign-up forms. It is the only writer of a
// new session.
type Login struct {
	deps   Deps
	log    logger.Logger
	login  *mutation.Form[models.LoginRequest]
	signup *mutation.Form[models.SignupRequest]
}

func NewLogin(deps Deps) *Login {
	return &Login{
		deps:   deps,
		log:    logger.OrNop(deps.Logger),
		login:  mutation.NewForm(models.LoginRequest{}),
		signup: mutation.NewForm(models.SignupRequest{}),
	}
}

// Submit signs in, stores the session and navigates to the dashboard. On
// failure the message is available from Message and nothing is stored.
func (v *Login) Submit(ctx context.Context, email, password string) error {
	v.login.Set(func(p *models.LoginRequest) {
		p.Email = email
		p.Password = password
	})
	return v.login.Submit(ctx, func(ctx context.Context, p models.LoginRequest) error {
		res, err := v.deps.API.Login(ctx, p.Email, p.Password)
		if err != nil {
			return err
		}
		return v.establish(ctx, res)
	})
}

// Signup registers an account and signs in with it.
func (v *Login) Signup(ctx context.Context, req models.SignupRequest) error {
	v.signup.Set(func(p *models.SignupRequest) { *p = req })
	return v.signup.Submit(ctx, func(ctx context.Context, p models.SignupRequest) error {
		res, err := v.deps.API.Signup(ctx, p)
		if err != nil {
			return err
		}
		return v.establish(ctx, res)
	})
}

func (v *Login) establish(ctx context.Context, res *models.LoginResponse) error {
	if err := v.deps.Sessions.SetSession(ctx, res.Session()); err != nil {
		return err
	}
	v.log.Info("signed in", "user", res.User.Email)
	v.deps.Nav.Navigate(constants.RouteDashboard)
	return nil
}

// Message is the error of the last failed sign-in.
func (v *Login) Message() string {
	return v.login.Message()
}

// SignupMessage is the error of the last failed sign-up.
func (v *Login) SignupMessage() string {
	return v.signup.Message()
}

package cli

import (
	"context"
	"fmt"
	"time"
)

func (a *App) Register(ctx context.Context) error {

	username, err := GetSimpleText(a.reader, "Enter user name", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	name, err := GetSimpleText(a.reader, "Enter first name (optional)", a.out)
	if err != nil {
		return err
	}
	lastName, err := GetSimpleText(a.reader, "Enter last name (optional)", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Enter email (optional)", a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	sess, err := a.client.Register(ctx, username, password, name, lastName, email)
	if err != nil {
		return err
	}

	a.session = sess
	fmt.Fprintf(a.out, "User created, logged in as %s (token valid until %s)\n", sess.Username, sess.Expiry.Local().Format(time.DateTime))
	return nil
}

func (a *App) Login(ctx context.Context) error {

	username, err := GetSimpleText(a.reader, "Enter user name", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	sess, err := a.client.Login(ctx, username, password)
	if err != nil {
		return err
	}

	a.session = sess
	fmt.Fprintf(a.out, "Login successfully (token valid until %s)\n", sess.Expiry.Local().Format(time.DateTime))
	return nil
}

// Verify checks token, or the current session token when token is empty.
func (a *App) Verify(ctx context.Context, token string) error {

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	userID, err := a.client.Verify(ctx, token)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Token valid for user id %d\n", userID)
	return nil
}

func (a *App) WhoAmI() {
	if a.session == nil {
		fmt.Fprintln(a.out, "Not logged in")
		return
	}
	s := a.session
	fmt.Fprintf(a.out, "id=%d username=%s name=%s lastName=%s email=%s\n", s.ID, s.Username, s.Name, s.LastName, s.Email)
}

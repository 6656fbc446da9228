package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/spec-kit/lostfound-service/internal/api/dto"
	"github.com/spec-kit/lostfound-service/internal/client"
)

// errReported marks a failure the view has already shown to the user.
var errReported = errors.New("reported")

type env struct {
	ctx     context.Context
	session *client.Session
	view    *client.View
	logger  *zap.Logger
}

type command struct {
	summary   string
	needsAuth bool
	run       func(e *env, args []string) error
}

var commands = map[string]command{
	"register": {summary: "create an account", run: runRegister},
	"login":    {summary: "sign in and remember the session", run: runLogin},
	"logout":   {summary: "forget the stored session", run: runLogout},
	"whoami":   {summary: "show the signed-in account", needsAuth: true, run: runWhoami},
	"list":     {summary: "list approved items (--all for every status)", run: runList},
	"pending":  {summary: "list items awaiting moderation", needsAuth: true, run: runPending},
	"report":   {summary: "report a lost or found item", needsAuth: true, run: runReport},
	"approve":  {summary: "approve a pending item", needsAuth: true, run: dispatchByID(func(id string) client.Command { return client.Approve{ID: id} })},
	"reject":   {summary: "reject a pending item", needsAuth: true, run: dispatchByID(func(id string) client.Command { return client.Reject{ID: id} })},
	"claim":    {summary: "claim an approved item", needsAuth: true, run: dispatchByID(func(id string) client.Command { return client.Claim{ID: id} })},
	"delete":   {summary: "delete an item", needsAuth: true, run: dispatchByID(func(id string) client.Command { return client.Delete{ID: id} })},
	"history":  {summary: "show the status history of an item", needsAuth: true, run: runHistory},
}

func runRegister(e *env, args []string) error {
	var req dto.RegisterRequest
	fs := pflag.NewFlagSet("register", pflag.ContinueOnError)
	fs.StringVar(&req.Name, "name", "", "display name")
	fs.StringVar(&req.Email, "email", "", "email address")
	fs.StringVar(&req.Password, "password", "", "password (at least 6 characters)")
	fs.StringVar(&req.Role, "role", "", "requested role; honoured only when the server allows it")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := e.session.API().Register(e.ctx, req)
	if err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Registered %s <%s> as %s", user.Name, user.Email, user.Role))

	if _, err := e.session.Login(e.ctx, req.Email, req.Password); err != nil {
		return err
	}
	printSuccess("Signed in")
	return nil
}

func runLogin(e *env, args []string) error {
	var email, password string
	fs := pflag.NewFlagSet("login", pflag.ContinueOnError)
	fs.StringVar(&email, "email", "", "email address")
	fs.StringVar(&password, "password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := e.session.Login(e.ctx, email, password)
	if err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Signed in as %s (%s)", user.Name, user.Role))
	return nil
}

func runLogout(e *env, _ []string) error {
	if err := e.session.Clear(); err != nil {
		return err
	}
	printSuccess("Signed out")
	return nil
}

func runWhoami(e *env, _ []string) error {
	user, _ := e.session.User()
	printUser(user)
	return nil
}

func runList(e *env, args []string) error {
	var all bool
	fs := pflag.NewFlagSet("list", pflag.ContinueOnError)
	fs.BoolVar(&all, "all", false, "include every status (requires sign-in)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if all {
		items, err := e.session.API().ListAll(e.ctx)
		if err != nil {
			return err
		}
		printItems(items)
		return nil
	}

	if err := e.view.Dispatch(e.ctx, client.Refresh{}); err != nil {
		return errReported
	}
	printItems(e.view.Items())
	return nil
}

func runPending(e *env, _ []string) error {
	items, err := e.session.API().Pending(e.ctx)
	if err != nil {
		return err
	}
	printItems(items)
	return nil
}

func runReport(e *env, args []string) error {
	var req dto.CreateItemRequest
	fs := pflag.NewFlagSet("report", pflag.ContinueOnError)
	fs.StringVar(&req.Title, "title", "", "short title")
	fs.StringVar(&req.Description, "description", "", "description (at least 10 characters)")
	fs.StringVar(&req.Location, "location", "", "where it was lost or found")
	fs.StringVar(&req.Category, "category", "", "lost or found")
	if err := fs.Parse(args); err != nil {
		return err
	}
	req.Category = strings.ToLower(req.Category)

	if err := e.view.Dispatch(e.ctx, client.Submit{Request: req}); err != nil {
		e.logger.Debug("report failed", zap.Error(err))
		return errReported
	}
	return nil
}

func runHistory(e *env, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: lostfound history <item-id>")
	}
	transitions, err := e.session.API().History(e.ctx, args[0])
	if err != nil {
		return err
	}
	printTransitions(transitions)
	return nil
}

func dispatchByID(build func(id string) client.Command) func(*env, []string) error {
	return func(e *env, args []string) error {
		if len(args) != 1 {
			return errors.New("exactly one item id is required")
		}
		if err := e.view.Dispatch(e.ctx, build(args[0])); err != nil {
			e.logger.Debug("command failed", zap.String("item_id", args[0]), zap.Error(err))
			return errReported
		}
		return nil
	}
}

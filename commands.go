package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"ims-client/client"
	"ims-client/config"
	"ims-client/model"
	"ims-client/service"
	"ims-client/session"
)

type app struct {
	cfg      *config.Config
	api      client.API
	sessions *session.Store
	logger   *log.Logger
	out      io.Writer
	errOut   io.Writer
	wait     bool
	sleep    func(time.Duration)
}

var errUsage = errors.New("usage")

func (a *app) run(ctx context.Context, name string, args []string) error {
	var err error
	switch name {
	case "login":
		err = a.login(ctx, args)
	case "signup":
		err = a.signup(ctx, args)
	case "logout":
		err = a.logout(ctx)
	case "whoami":
		err = a.whoami()
	case "profile":
		err = a.profile(ctx, args)
	case "products":
		err = a.products(ctx, args)
	case "orders":
		err = a.orders(ctx, args)
	case "suppliers":
		err = a.suppliers(ctx, args)
	case "report":
		err = a.report(ctx, args)
	default:
		fmt.Fprintf(a.errOut, "unknown command %q\n", name)
		usage()
		return errUsage
	}
	return err
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

// isSet reports whether the flag called name was given on the command line.
func isSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func (a *app) notify(n *service.Notification) {
	if n == nil {
		return
	}
	prefix := "ok"
	if n.Kind == service.KindError {
		prefix = "error"
	}
	fmt.Fprintf(a.errOut, "%s: %s\n", prefix, n.Message)
}

func (a *app) follow(r *service.Redirect) {
	if r == nil {
		return
	}
	if a.wait && r.After > 0 {
		sleep := a.sleep
		if sleep == nil {
			sleep = time.Sleep
		}
		sleep(r.After)
	}
	switch r.To {
	case service.RouteLogin:
		fmt.Fprintln(a.errOut, "-> sign in with: ims login -u <user> -p <password>")
	default:
		fmt.Fprintf(a.errOut, "-> %s\n", r.To)
	}
}

func (a *app) outcome(out *service.Outcome, err error) error {
	if out == nil {
		if err != nil {
			fmt.Fprintf(a.errOut, "error: %v\n", err)
		}
		return err
	}
	a.notify(out.Notification)
	a.follow(out.Redirect)
	return err
}

// screen is what every view exposes after an action.
type screen interface {
	Notification() *service.Notification
	Redirect() *service.Redirect
}

// settle prints what an action on s left behind.
func (a *app) settle(s screen, err error) error {
	if n := s.Notification(); n != nil {
		a.notify(n)
	} else if err != nil && !errors.Is(err, service.ErrUnauthenticated) {
		fmt.Fprintf(a.errOut, "error: %v\n", err)
	}
	a.follow(s.Redirect())
	return err
}

// --- auth ---

func (a *app) authView() *service.AuthView {
	return service.NewAuthView(a.api, a.sessions, a.cfg.DefaultAvatar, a.logger)
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := a.flags("login")
	user := fs.String("u", "", "username")
	pass := fs.String("p", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return a.outcome(a.authView().Login(ctx, *user, *pass))
}

func (a *app) signup(ctx context.Context, args []string) error {
	fs := a.flags("signup")
	var f service.SignupForm
	fs.StringVar(&f.Username, "u", "", "username")
	fs.StringVar(&f.Email, "e", "", "email")
	fs.StringVar(&f.Password, "p", "", "password")
	fs.StringVar(&f.Confirm, "confirm", "", "repeat the password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return a.outcome(a.authView().Signup(ctx, f))
}

func (a *app) logout(ctx context.Context) error {
	return a.outcome(a.authView().Logout(ctx))
}

func (a *app) whoami() error {
	s := a.sessions.Current()
	if s == nil {
		fmt.Fprintln(a.errOut, "not signed in")
		return client.ErrNoSession
	}
	renderSession(a.out, s)
	return nil
}

func (a *app) profile(ctx context.Context, args []string) error {
	auth := a.authView()
	f := auth.ProfileForm()

	fs := a.flags("profile")
	fs.StringVar(&f.Username, "u", f.Username, "new username")
	fs.StringVar(&f.Email, "e", f.Email, "new email")
	fs.StringVar(&f.CurrentPassword, "current", "", "current password")
	fs.StringVar(&f.NewPassword, "new", "", "new password")
	fs.StringVar(&f.Confirm, "confirm", "", "repeat the new password")
	avatar := fs.String("avatar", "", "profile image reference")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NFlag() == 0 {
		return a.whoami()
	}
	if isSet(fs, "avatar") {
		if err := auth.SetAvatar(ctx, *avatar); err != nil {
			fmt.Fprintf(a.errOut, "error: %v\n", err)
			return err
		}
		fmt.Fprintln(a.errOut, "ok: profile image updated")
		if fs.NFlag() == 1 {
			return nil
		}
	}
	return a.outcome(auth.UpdateProfile(ctx, f))
}

// --- products ---

func (a *app) products(ctx context.Context, args []string) error {
	action, args := subcommand(args)
	v := service.NewProductView(a.api, a.sessions, a.logger)
	defer v.Unmount()

	fs := a.flags("products " + action)
	query := fs.String("q", "", "search name and description")
	id := fs.Int64("id", 0, "product ID")
	name := fs.String("name", "", "name")
	price := fs.Float64("price", 0, "unit price")
	desc := fs.String("desc", "", "description")
	image := fs.String("image", "", "image URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := v.Mount(ctx); err != nil {
		return a.settle(v, err)
	}

	var err error
	switch action {
	case "list":
		v.SetQuery(*query)
		renderProducts(a.out, v.Visible())
		return a.settle(v, nil)
	case "add":
		err = v.Create(ctx, model.ProductInput{Name: *name, Price: *price, Description: *desc, ImageURL: *image})
	case "update":
		in, ferr := v.EditForm(*id)
		if ferr != nil {
			return a.settle(v, fmt.Errorf("product %d: %w", *id, ferr))
		}
		if isSet(fs, "name") {
			in.Name = *name
		}
		if isSet(fs, "price") {
			in.Price = *price
		}
		if isSet(fs, "desc") {
			in.Description = *desc
		}
		if isSet(fs, "image") {
			in.ImageURL = *image
		}
		err = v.Update(ctx, *id, in)
	case "delete":
		err = v.Delete(ctx, *id)
	default:
		return a.badAction("products", action)
	}
	return a.settle(v, err)
}

// --- orders ---

func (a *app) orders(ctx context.Context, args []string) error {
	action, args := subcommand(args)
	v := service.NewOrderView(a.api, a.sessions, a.logger, a.cfg.EnrichLimit)
	defer v.Unmount()

	def := model.NewOrderInput(time.Now())
	fs := a.flags("orders " + action)
	query := fs.String("q", "", "search status and product name")
	id := fs.Int64("id", 0, "order ID")
	customer := fs.Int64("customer", 0, "customer ID")
	product := fs.Int64("product", 0, "product ID")
	qty := fs.Int("qty", 0, "quantity")
	date := fs.String("date", def.OrderDate, "order date (YYYY-MM-DD)")
	status := fs.String("status", string(def.Status), "Pending, Shipped or Completed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := v.Mount(ctx); err != nil {
		return a.settle(v, err)
	}

	st, _ := model.ParseStatus(*status)
	var err error
	switch action {
	case "list":
		v.SetQuery(*query)
		renderOrders(a.out, v.Visible(), v.Defaulted)
		return a.settle(v, nil)
	case "add":
		err = v.Create(ctx, model.OrderInput{
			CustomerID: *customer,
			ProductID:  *product,
			Quantity:   *qty,
			OrderDate:  *date,
			Status:     st,
		})
	case "status":
		err = v.UpdateStatus(ctx, *id, st)
	case "cancel":
		err = v.Cancel(ctx, *id)
	default:
		return a.badAction("orders", action)
	}
	return a.settle(v, err)
}

// --- suppliers ---

func (a *app) suppliers(ctx context.Context, args []string) error {
	action, args := subcommand(args)
	v := service.NewSupplierView(a.api, a.sessions, a.logger)
	defer v.Unmount()

	fs := a.flags("suppliers " + action)
	query := fs.String("q", "", "search supplier and product names")
	id := fs.Int64("id", 0, "supplier ID")
	name := fs.String("name", "", "name")
	contact := fs.String("contact", "", "contact info")
	products := fs.String("products", "", "comma-separated product IDs, e.g. \"1, 5, 10\"")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := v.Mount(ctx); err != nil {
		return a.settle(v, err)
	}

	var err error
	switch action {
	case "list":
		v.SetQuery(*query)
		renderSuppliers(a.out, v.Visible())
		return a.settle(v, nil)
	case "add":
		err = v.Create(ctx, service.SupplierForm{Name: *name, ContactInfo: *contact, ProductIDs: *products})
	case "update":
		f, ferr := v.EditForm(*id)
		if ferr != nil {
			return a.settle(v, fmt.Errorf("supplier %d: %w", *id, ferr))
		}
		if isSet(fs, "name") {
			f.Name = *name
		}
		if isSet(fs, "contact") {
			f.ContactInfo = *contact
		}
		if isSet(fs, "products") {
			f.ProductIDs = *products
		}
		err = v.Update(ctx, *id, f)
	case "delete":
		err = v.Delete(ctx, *id)
	default:
		return a.badAction("suppliers", action)
	}
	return a.settle(v, err)
}

// --- reports ---

// paramFlag collects repeated -param key=value flags.
type paramFlag map[string]string

func (p paramFlag) String() string {
	parts := make([]string, 0, len(p))
	for k, v := range p {
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ",")
}

func (p paramFlag) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	if !ok || k == "" {
		return fmt.Errorf("want key=value, got %q", s)
	}
	p[k] = v
	return nil
}

func (a *app) report(ctx context.Context, args []string) error {
	v := service.NewReportView(a.api, a.sessions, a.logger)
	defer v.Unmount()

	fs := a.flags("report")
	typ := fs.String("type", "", "inventory, order or supplier")
	from := fs.String("from", "", "start date (YYYY-MM-DD)")
	to := fs.String("to", "", "end date (YYYY-MM-DD)")
	params := paramFlag{}
	fs.Var(params, "param", "extra report parameter key=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := v.Mount(); err != nil {
		return a.settle(v, err)
	}
	v.SetType(model.ReportType(strings.ToLower(*typ)))
	v.SetRange(*from, *to)
	for k, val := range params {
		v.SetParameter(k, val)
	}

	r, err := v.Generate(ctx)
	if err == nil {
		renderReport(a.out, r)
	}
	return a.settle(v, err)
}

// subcommand splits "list -q x" into "list" and its flags. A missing or
// flag-looking first argument means "list".
func subcommand(args []string) (string, []string) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "list", args
	}
	return args[0], args[1:]
}

func (a *app) badAction(cmd, action string) error {
	fmt.Fprintf(a.errOut, "unknown %s action %q\n", cmd, action)
	return errUsage
}

func formatID(id int64) string { return strconv.FormatInt(id, 10) }

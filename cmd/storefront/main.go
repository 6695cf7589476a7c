// Command storefront is a terminal client for the storefront API.
//
//	storefront products [-q text] [-tag tag]
//	storefront register -u name -p password -confirm password
//	storefront login -u name -p password
//	storefront logout
//	storefront favorite <productId>
//	storefront cart <productId>
//	storefront clear-cart
//	storefront rate <productId> <0..5>
//	storefront theme
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/vitrine/storefront/internal/client"
	"github.com/vitrine/storefront/internal/storefront"
	"github.com/vitrine/storefront/pkg/logger"
)

type cliConfig struct {
	APIURL      string        `env:"STOREFRONT_API_URL,      default=http://localhost:8080"`
	SessionFile string        `env:"STOREFRONT_SESSION_FILE"`
	Timeout     time.Duration `env:"STOREFRONT_TIMEOUT,      default=10s"`
	LogLevel    string        `env:"LOG_LEVEL,               default=warn"`
}

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	var cfg cliConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.SessionFile == "" {
		cfg.SessionFile = storefront.DefaultSessionPath()
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Output: os.Stderr})
	api := client.New(client.Config{BaseURL: cfg.APIURL, Timeout: cfg.Timeout})
	ctrl := storefront.NewController(api, storefront.NewState(), storefront.NewSessionStore(cfg.SessionFile), log)
	if err := ctrl.Restore(); err != nil {
		log.Warn().Err(err).Msg("ignoring saved session")
	}

	if len(args) == 0 {
		return fmt.Errorf("%w: storefront <products|register|login|logout|favorite|cart|clear-cart|rate|theme> [flags]", errUsage)
	}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "products":
		return listProducts(ctx, ctrl, rest, out)
	case "register":
		return register(ctx, ctrl, rest, out)
	case "login":
		return login(ctx, ctrl, rest, out)
	case "logout":
		if err := ctrl.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(out, "Logged out.")
		return nil
	case "favorite":
		return toggle(ctx, rest, out, ctrl.ToggleFavorite, "favorites")
	case "cart":
		return toggle(ctx, rest, out, ctrl.ToggleCart, "cart")
	case "clear-cart":
		if err := ctrl.ClearCart(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "Cart cleared.")
		return nil
	case "rate":
		return rate(ctx, ctrl, rest, out)
	case "theme":
		theme, err := ctrl.ToggleTheme()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Theme: %s\n", theme)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func listProducts(ctx context.Context, ctrl *storefront.Controller, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	query := fs.String("q", "", "name contains")
	tag := fs.String("tag", "", "exact tag")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if err := ctrl.Load(ctx); err != nil {
		return err
	}
	if *query != "" || *tag != "" {
		if _, err := ctrl.Filter(ctx, *query, *tag); err != nil {
			return err
		}
	}

	st := ctrl.State()
	cards := st.Cards()
	if len(cards) == 0 {
		fmt.Fprintln(out, "No products found.")
	}
	for _, card := range cards {
		fmt.Fprintln(out, card)
	}
	if sess := st.Session(); sess.LoggedIn() {
		favs, cart := st.Counters()
		fmt.Fprintf(out, "\n%s  ♥ %d  🛒 %d\n", sess.Username, favs, cart)
	}
	return nil
}

func register(ctx context.Context, ctrl *storefront.Controller, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	confirm := fs.String("confirm", "", "password again")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if err := ctrl.Register(ctx, *username, *password, *confirm); err != nil {
		return err
	}
	fmt.Fprintln(out, "Registered. You can now log in.")
	return nil
}

func login(ctx context.Context, ctrl *storefront.Controller, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	sess, err := ctrl.Login(ctx, *username, *password)
	if err != nil {
		return err
	}
	role := "customer"
	if sess.IsAdmin {
		role = "admin"
	}
	fmt.Fprintf(out, "Logged in as %s (%s).\n", sess.Username, role)
	return nil
}

func toggle(ctx context.Context, args []string, out io.Writer, fn func(context.Context, string) (bool, error), what string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: storefront %s <productId>", errUsage, what)
	}
	member, err := fn(ctx, args[0])
	if err != nil {
		return err
	}
	if member {
		fmt.Fprintf(out, "Added %s to %s.\n", args[0], what)
	} else {
		fmt.Fprintf(out, "Removed %s from %s.\n", args[0], what)
	}
	return nil
}

func rate(ctx context.Context, ctrl *storefront.Controller, args []string, out io.Writer) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: storefront rate <productId> <0..5>", errUsage)
	}
	value, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("%w: rate must be a number", errUsage)
	}

	p, err := ctrl.Rate(ctx, args[0], value)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, storefront.RenderCard(p, ctrl.State().Favorites(), ctrl.State().Cart()))
	return nil
}

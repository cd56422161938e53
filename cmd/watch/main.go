// Command watch drives the ordering client from a terminal: sign in, pick a
// table, browse the menu, place an order and follow it, or watch the owner
// board.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"chiyasathi/internal/client"
	"chiyasathi/internal/config"
	"chiyasathi/internal/models"
	"chiyasathi/internal/repositories"
	"chiyasathi/internal/services"
	"chiyasathi/pkg/rabbitmq"
)

const usage = `usage: watch [-server URL] [-profile NAME] <command> [args]

commands:
  login <email> <password>     sign in and store the session
  logout                       clear the stored session
  table <id>                   set the table for new orders
  menu [category]              list the menu
  order <itemId[xN]>... [-note TEXT]
                               place an order and follow it
  track <orderId>              follow an order until interrupted
  board                        follow all orders (owner)
  advance <orderId> <status>   move an order to status (owner)
`

// app bundles the services one invocation needs.
type app struct {
	session *services.Session
	auth    *services.AuthService
	menu    *services.MenuService
	orders  *services.OrderService
	close   func()
}

// openApp is replaced in tests.
var openApp = newApp

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes one command and returns the process exit code once every
// deferred cleanup has run.
func run(argv []string) int {
	cfg := config.Load()

	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	server := fs.String("server", "http://localhost"+cfg.AppPort+"/api", "ordering API or forwarding server base URL")
	profile := fs.String("profile", "default", "state namespace when STATE_DRIVER=redis")
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	fs.Parse(argv)
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	a, err := openApp(cfg, *server, *profile)
	if err != nil {
		log.Printf("Failed to start: %v", err)
		return 1
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.run(ctx, fs.Arg(0), fs.Args()[1:]); err != nil {
		log.Printf("%s: %s", fs.Arg(0), describe(err))
		return 1
	}
	return 0
}

func newApp(cfg config.Config, server, profile string) (*app, error) {
	store, closeStore, err := repositories.OpenStateRepository(repositories.StateOptions{
		Driver:        cfg.StateDriver,
		DSN:           cfg.StateDSN,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		Profile:       profile,
	})
	if err != nil {
		return nil, err
	}

	session := services.NewSession(store)
	if err := session.Init(); err != nil {
		closeStore()
		return nil, err
	}

	notifier := services.Notifiers{services.LogNotifier{}}
	closers := []func() error{closeStore}
	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Printf("Order events not published: %v", err)
		} else {
			notifier = append(notifier, services.NewEventNotifier(mq))
			closers = append(closers, mq.Close)
		}
	}

	api := client.New(server, cfg.BackendTimeout, session)
	intervals := services.PollIntervals{Order: cfg.OrderPollInterval, Board: cfg.BoardPollInterval}

	return &app{
		session: session,
		auth:    services.NewAuthService(repositories.NewAPIUserRepository(api), session),
		menu:    services.NewMenuService(repositories.NewAPIMenuRepository(api), session, notifier, cfg.BackendOrigin),
		orders:  services.NewOrderService(repositories.NewAPIOrderRepository(api), session, notifier, intervals),
		close: func() {
			for _, c := range closers {
				if err := c(); err != nil {
					log.Printf("Error during close: %v", err)
				}
			}
		},
	}, nil
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		if len(args) != 2 {
			return errors.New("expected <email> <password>")
		}
		user, err := a.auth.Login(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Signed in as %s (%s)\n", user.Email, a.session.Role())
		return nil

	case "logout":
		return a.auth.Logout()

	case "table":
		if len(args) != 1 {
			return errors.New("expected <id>")
		}
		return a.session.SetTable(args[0])

	case "menu":
		return a.printMenu(ctx, args)

	case "order":
		return a.placeOrder(ctx, args)

	case "track":
		if len(args) != 1 {
			return errors.New("expected <orderId>")
		}
		a.track(ctx, args[0])
		return nil

	case "board":
		if !a.session.IsOwner() {
			return services.ErrOwnerOnly
		}
		h := a.orders.WatchBoard(ctx, printBoard)
		<-h.Done()
		return nil

	case "advance":
		if len(args) != 2 {
			return errors.New("expected <orderId> <status>")
		}
		return a.orders.Transition(ctx, args[0], models.OrderStatus(args[1]))
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func (a *app) printMenu(ctx context.Context, args []string) error {
	var groups []services.MenuGroup
	if len(args) > 0 {
		items, err := a.menu.ByCategory(ctx, args[0])
		if err != nil {
			return err
		}
		groups = services.GroupMenu(items)
	} else {
		var err error
		if groups, err = a.menu.Grouped(ctx); err != nil {
			return err
		}
	}
	for _, g := range groups {
		fmt.Printf("== %s ==\n", g.Category)
		for _, it := range g.Items {
			fmt.Printf("  %-24s Rs %-6d %s  %s\n", it.Name, it.Price, it.ID, a.menu.ImageURL(it))
		}
	}
	return nil
}

// placeOrder fills a cart from "id" or "idxN" arguments, submits it and
// follows the new order.
func (a *app) placeOrder(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("order", flag.ContinueOnError)
	note := fs.String("note", "", "note for the kitchen")
	if err := fs.Parse(args); err != nil {
		return err
	}

	items, err := a.menu.List(ctx)
	if err != nil {
		return err
	}
	byID := make(map[string]models.MenuItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	cart := services.NewCart()
	for _, arg := range fs.Args() {
		id, qty := arg, 1
		if i := strings.LastIndex(arg, "x"); i > 0 {
			if n, err := strconv.Atoi(arg[i+1:]); err == nil && n > 0 {
				id, qty = arg[:i], n
			}
		}
		item, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: no menu item %q", services.ErrValidation, id)
		}
		for n := 0; n < qty; n++ {
			cart.AddItem(item)
		}
	}

	fmt.Printf("%d items, total Rs %d\n", cart.ItemCount(), cart.Total())
	order, err := a.orders.Submit(ctx, cart, *note)
	if err != nil {
		return err
	}
	fmt.Printf("Order %s placed for table %s\n", order.ID, order.TableID)
	a.track(ctx, order.ID)
	return nil
}

func (a *app) track(ctx context.Context, id string) {
	h := a.orders.WatchOrder(ctx, id, func(o models.Order) {
		step := o.Status.StepIndex()
		fmt.Printf("[%s] %s (%s)\n", models.TrackingSteps[step], o.Status.Text(), o.Status)
	})
	<-h.Done()
}

func printBoard(b *services.Board) {
	counts := b.Counts()
	fmt.Printf("\n%s  pending %d | preparing %d | ready %d | history %d | today Rs %d\n",
		b.At.Format("15:04:05"),
		counts[services.TabPending], counts[services.TabPreparing],
		counts[services.TabReady], counts[services.TabHistory], b.TodayRevenue())
	for _, o := range b.Active() {
		var next []string
		for _, s := range o.Status.NextActions() {
			next = append(next, string(s))
		}
		fmt.Printf("  %s table %-4s Rs %-6d %-9s -> %s\n", o.ID, o.TableID, o.TotalAmount, o.Status, strings.Join(next, ", "))
	}
}

func describe(err error) string {
	var fields services.FieldErrors
	var apiErr *client.APIError
	switch {
	case errors.As(err, &fields):
		return fields.Error()
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, services.ErrUnavailable):
		return "service unavailable, try again"
	}
	return err.Error()
}

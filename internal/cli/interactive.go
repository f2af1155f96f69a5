package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dyike/QuantFlow/config"
	"github.com/dyike/QuantFlow/consts"
	"github.com/dyike/QuantFlow/internal/display"
	"github.com/dyike/QuantFlow/internal/models"
)

const maxLogLines = 12

// InteractiveSession handles interactive CLI sessions
type InteractiveSession struct {
	ctx      context.Context
	app      *App
	reader   *bufio.Reader
	out      io.Writer
	prompter Prompter
}

// NewInteractiveSession creates a new interactive session
func NewInteractiveSession(ctx context.Context, app *App, in io.Reader, out io.Writer, prompter Prompter) *InteractiveSession {
	if prompter == nil {
		prompter = surveyPrompter{}
	}
	return &InteractiveSession{
		ctx:      ctx,
		app:      app,
		reader:   bufio.NewReader(in),
		out:      out,
		prompter: prompter,
	}
}

func runInteractiveMode(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) error {
	app, err := NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	return runSession(ctx, app, in, out, nil)
}

// runSession renders right away; boot entries and the first insight arrive
// in the background.
func runSession(ctx context.Context, app *App, in io.Reader, out io.Writer, prompter Prompter) error {
	DisplayWelcomeBanner(out)
	DisplayInfo(out, consts.InsightInitializing)
	go app.Start(ctx)

	return NewInteractiveSession(ctx, app, in, out, prompter).Start()
}

// Start shows the dashboard and runs the command loop until exit or EOF
func (s *InteractiveSession) Start() error {
	fmt.Fprintln(s.out, display.Dashboard(s.app.Dashboard, maxLogLines))
	s.showHelp()
	return s.runMainLoop()
}

func (s *InteractiveSession) runMainLoop() error {
	for {
		fmt.Fprint(s.out, "QuantFlow> ")

		input, err := s.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read input: %w", err)
		}
		eof := err != nil

		input = strings.TrimSpace(input)
		if input != "" && s.execute(strings.Fields(input)) {
			return nil
		}
		if eof {
			return nil
		}
		fmt.Fprintln(s.out)
	}
}

// execute runs one command line and reports whether the session should end
func (s *InteractiveSession) execute(parts []string) bool {
	d := s.app.Dashboard
	command := strings.ToLower(parts[0])
	args := parts[1:]

	switch command {
	case "exit", "quit", "q":
		fmt.Fprintln(s.out, "Goodbye.")
		return true

	case "help", "h", "?":
		s.showHelp()

	case "dashboard", "dash", "d":
		fmt.Fprintln(s.out, display.Dashboard(d, maxLogLines))

	case "toggle", "t":
		id, ok := s.algorithmArg(args)
		if !ok {
			return false
		}
		alg, applied, err := d.ToggleAlgorithm(id)
		switch {
		case err != nil:
			DisplayError(s.out, err)
		case applied:
			DisplaySuccess(s.out, fmt.Sprintf("%s is now %s", alg.Name, alg.Status))
		default:
			DisplayError(s.out, errors.New("broker API disconnected, status unchanged"))
		}

	case "select", "sel":
		id, ok := s.algorithmArg(args)
		if !ok {
			return false
		}
		alg, err := d.Select(id)
		if err != nil {
			DisplayError(s.out, err)
			return false
		}
		fmt.Fprintln(s.out, display.Config(alg))

	case "set":
		if len(args) != 2 {
			DisplayInfo(s.out, "Usage: set <riskTolerance|leverage|maxDrawdown|stopLoss|takeProfit> <number>")
			return false
		}
		value, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			DisplayError(s.out, fmt.Errorf("invalid number %q", args[1]))
			return false
		}
		alg, err := d.UpdateConfig(args[0], value)
		if err != nil {
			DisplayError(s.out, err)
			return false
		}
		fmt.Fprintln(s.out, display.Config(alg))

	case "indicator", "ind":
		s.toggleIndicator(args)

	case "config", "cfg":
		alg, ok := d.Selected()
		if !ok {
			DisplayInfo(s.out, "No algorithm selected.")
			return false
		}
		fmt.Fprintln(s.out, display.Config(alg))

	case "connect":
		d.ConnectBroker()
		DisplayInfo(s.out, "Handshake started; the broker reconnects shortly.")

	case "disconnect":
		d.DisconnectBroker()
		DisplayInfo(s.out, "Broker session closed.")

	case "insight", "i":
		DisplayInfo(s.out, consts.InsightAnalyzing)
		fmt.Fprintln(s.out, display.Insight(d.RefreshInsight(s.ctx), false))

	case "advise", "a":
		id, ok := s.algorithmArg(args)
		if !ok {
			return false
		}
		text, err := d.StrategyAdvice(s.ctx, id)
		if err != nil {
			DisplayError(s.out, err)
			return false
		}
		fmt.Fprintln(s.out, display.Insight(text, false))

	case "logs", "l":
		s.showLogs(args)

	case "portfolio", "p":
		fmt.Fprintln(s.out, display.Portfolio(d.PortfolioHistory()))
		fmt.Fprintln(s.out, display.Market(d.MarketData()))
		fmt.Fprintln(s.out, display.Performance())

	case "analytics":
		fmt.Fprintln(s.out, display.Analytics(d.Analytics()))

	case "settings":
		fmt.Fprintln(s.out, display.Settings(d.Settings()))

	case "kill":
		running := d.ActiveCount()
		confirmed, err := s.prompter.ConfirmKillSwitch(running)
		if err != nil {
			DisplayError(s.out, err)
			return false
		}
		if !confirmed {
			DisplayInfo(s.out, "Kill switch cancelled.")
			return false
		}
		stopped := d.KillSwitch()
		DisplaySuccess(s.out, fmt.Sprintf("%d bots halted", len(stopped)))

	case "clear", "cls":
		ClearScreen(s.out)

	default:
		DisplayError(s.out, fmt.Errorf("unknown command: %s. Type 'help' for available commands", command))
	}
	return false
}

// algorithmArg returns the id given on the command line, or asks for one.
func (s *InteractiveSession) algorithmArg(args []string) (string, bool) {
	if len(args) > 0 {
		return args[0], true
	}
	id, err := s.prompter.SelectAlgorithm(s.app.Dashboard.Algorithms())
	if err != nil {
		DisplayError(s.out, err)
		return "", false
	}
	return id, true
}

func (s *InteractiveSession) toggleIndicator(args []string) {
	d := s.app.Dashboard
	label := strings.Join(args, " ")
	if label == "" {
		alg, ok := d.Selected()
		if !ok {
			DisplayInfo(s.out, "No algorithm selected.")
			return
		}
		picked, err := s.prompter.SelectIndicator(alg.Config)
		if err != nil {
			DisplayError(s.out, err)
			return
		}
		label = picked
	}

	alg, err := d.ToggleIndicator(label)
	if err != nil {
		DisplayError(s.out, err)
		return
	}
	fmt.Fprintln(s.out, display.Config(alg))
}

// showLogs filters the feed: logs [CATEGORY|ALL] [search words...]
func (s *InteractiveSession) showLogs(args []string) {
	var category models.LogCategory
	if len(args) > 0 {
		if c, err := models.ParseLogCategory(args[0]); err == nil {
			category = c
			args = args[1:]
		}
	}
	entries := s.app.Dashboard.Logs(category, strings.Join(args, " "))
	fmt.Fprintln(s.out, display.Logs(entries, 0))
}

func (s *InteractiveSession) showHelp() {
	fmt.Fprintln(s.out, "Commands:")
	fmt.Fprintln(s.out, "  dash                         - Show the dashboard")
	fmt.Fprintln(s.out, "  toggle [ID]                  - Start or stop a bot via the broker")
	fmt.Fprintln(s.out, "  select [ID]                  - Choose the bot to configure")
	fmt.Fprintln(s.out, "  set <field> <number>         - Update a parameter of the selected bot")
	fmt.Fprintln(s.out, "  indicator [LABEL]            - Add or remove an indicator")
	fmt.Fprintln(s.out, "  config                       - Show the selected bot's configuration")
	fmt.Fprintln(s.out, "  connect | disconnect         - Manage the broker session")
	fmt.Fprintln(s.out, "  insight                      - Refresh the AI market insight")
	fmt.Fprintln(s.out, "  advise [ID]                  - Ask the AI about one bot")
	fmt.Fprintln(s.out, "  logs [CATEGORY] [search]     - Filter the execution log")
	fmt.Fprintln(s.out, "  portfolio | analytics | settings")
	fmt.Fprintln(s.out, "  kill                         - Stop every running bot")
	fmt.Fprintln(s.out, "  clear | help | exit")
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"time"

	"dreadhall/pkg/engine/input"
	"dreadhall/pkg/game/catalog"
	"dreadhall/pkg/game/config"
	"dreadhall/pkg/game/deck"
	"dreadhall/pkg/game/gameplay"
	"dreadhall/pkg/game/hazards"
	"dreadhall/pkg/game/renderer"
	"dreadhall/pkg/game/renderer/tui"
	"dreadhall/pkg/game/savestore"
)

// Time the player has to type the word a reaction-check asks for
const reactionWindow = 5 * time.Second

// player drives one session from the terminal
type player struct {
	session   *gameplay.Session
	store     *savestore.Store
	sessionID string
	in        *input.Reader
	log       *slog.Logger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	flag.IntVar(&cfg.StartLevel, "level", cfg.StartLevel, "starting level (for developer testing)")
	flag.StringVar(&cfg.CatalogPath, "catalog", cfg.CatalogPath, "hazard catalog YAML (default: built in)")
	flag.StringVar(&cfg.SavePath, "db", cfg.SavePath, "save database")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed, 0 seeds from the clock")
	resume := flag.Bool("resume", false, "resume the most recent save")
	listSaves := flag.Bool("saves", false, "list saved games and exit")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}

	store, err := savestore.NewStore(cfg.SavePath)
	if err != nil {
		log.Fatalf("save store: %v", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	renderer.SetRenderer(tui.New(os.Stdout))
	renderer.Init()

	if *listSaves {
		printSaves(ctx, store)
		return
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	opts := []gameplay.Option{
		gameplay.WithRand(rand.New(rand.NewSource(seed))),
		gameplay.WithLogger(logger),
		gameplay.WithThreatConfig(cfg.Threat()),
		gameplay.WithPlayerSeekChance(cfg.PlayerSeekChance),
		gameplay.WithStartLevel(cfg.StartLevel),
	}

	p := &player{store: store, in: input.NewReader(os.Stdin), log: logger}
	if err := p.open(ctx, cat, *resume, opts); err != nil {
		log.Fatalf("start: %v", err)
	}
	logger.Info("session started", "session", p.sessionID, "seed", seed)

	renderer.Clear()
	p.play(ctx)
}

// open resumes the latest save when asked to and one exists, otherwise it
// starts a new run
func (p *player) open(ctx context.Context, cat *catalog.Catalog, resume bool, opts []gameplay.Option) error {
	if resume {
		slot, snap, err := p.store.Latest(ctx)
		switch {
		case err == nil:
			s, err := gameplay.RestoreSession(ctx, cat, snap, opts...)
			if err != nil {
				return err
			}
			p.session, p.sessionID = s, slot.SessionID
			return nil
		case errors.Is(err, savestore.ErrNotFound):
			p.log.Info("nothing to resume, starting a new run")
		default:
			return err
		}
	}

	s, err := gameplay.NewSession(ctx, cat, opts...)
	if err != nil {
		return err
	}
	id, err := p.store.NewSession(ctx)
	if err != nil {
		return err
	}
	p.session, p.sessionID = s, id
	return nil
}

func (p *player) play(ctx context.Context) {
	p.show(ctx, p.session.Intro())

	for !p.session.Over() && ctx.Err() == nil {
		fmt.Print("\n> ")
		cmd, err := p.in.ReadCommand()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				p.log.Error("read command", "error", err)
			}
			return
		}

		switch cmd.Verb {
		case "quit":
			renderer.ShowMessage(deck.Text("GOODBYE"))
			return
		case "save":
			p.save(ctx)
		case "status":
			p.status()
		default:
			p.show(ctx, p.session.Execute(ctx, cmd.Verb, cmd.Target))
		}
	}
}

// show renders the narration, then walks the player through every popup and
// reaction-check it left behind
func (p *player) show(ctx context.Context, lines []string) {
	renderer.RenderFrame(p.session.Frame(lines))
	p.session.Drain(ctx, p, func(popup *gameplay.Popup, lines []string) {
		if popup != nil {
			renderer.ShowPopup(popup.Title, popup.Message)
			renderer.ShowMessage(deck.Text("PRESS_ENTER"))
			if _, err := p.in.ReadLine(); err != nil {
				p.log.Debug("popup dismissed by end of input", "error", err)
			}
			return
		}
		renderer.RenderFrame(p.session.Frame(lines))
	})
}

// Run asks the player to type the check's word within the reaction window
func (p *player) Run(ctx context.Context, check hazards.ReactionCheck) bool {
	renderer.ShowMessage(deck.Text("CHECK_PROMPT", check.Prompt, check.ExpectedInput))
	fmt.Print("> ")

	start := time.Now()
	line, err := p.in.ReadLine()
	if err != nil {
		return false
	}
	took := time.Since(start)
	ok := strings.EqualFold(strings.TrimSpace(line), check.ExpectedInput) && took <= reactionWindow
	p.log.DebugContext(ctx, "reaction check answered", "hazard", check.HazardID, "took", took, "passed", ok)
	return ok
}

func (p *player) save(ctx context.Context) {
	if _, err := p.store.Save(ctx, p.sessionID, p.session.Snapshot()); err != nil {
		p.log.Error("save failed", "session", p.sessionID, "error", err)
		renderer.ShowMessage(fmt.Sprintf("[b]%v[/b]", err))
		return
	}
	renderer.ShowMessage(deck.Text("GAME_SAVED"))
}

func (p *player) status() {
	g := p.session.Game()
	r := p.session.ThreatReport()
	renderer.ShowMessage(deck.Text("STATUS", r.Fear*100, g.Score, g.Turn))
	renderer.ShowMessage(deck.Text("THREAT_REPORT", r.Aggression, r.Pending, r.QTESuccessRate*100))
	if len(r.TopThreat) > 0 {
		rooms := make([]string, 0, len(r.TopThreat))
		for _, rs := range r.TopThreat {
			rooms = append(rooms, fmt.Sprintf("ROOM{%s} (%.1f)", rs.Room, rs.Score))
		}
		renderer.ShowMessage(deck.Text("THREAT_HOTSPOTS", strings.Join(rooms, ", ")))
	}
}

func printSaves(ctx context.Context, store *savestore.Store) {
	slots, err := store.List(ctx)
	if err != nil {
		log.Fatalf("list saves: %v", err)
	}
	if len(slots) == 0 {
		renderer.ShowMessage(deck.Text("NO_SAVES"))
		return
	}
	for _, s := range slots {
		fmt.Printf("%s  level %d  turn %-4d score %-5d %s\n",
			s.ID, s.Level, s.Turn, s.Score, s.SavedAt.Local().Format(time.DateTime))
	}
}

package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode"

	tm "github.com/buger/goterm"
	"github.com/rs/zerolog"

	"turtlebot/pkg/engine"
	"turtlebot/pkg/game"
	"turtlebot/pkg/transposition"
)

var (
	fenFlag         = flag.String("fen", "", "start from this FEN instead of the standard position")
	humanFlag       = flag.String("human", "white", "colour played from stdin: white, black, both or none")
	configFlag      = flag.String("config", "", "JSON engine config file")
	depthFlag       = flag.Int("depth", 0, "override the base search depth")
	cachePolicyFlag = flag.String("cache-policy", "", "evaluation cache policy: unbounded, reset or lru")
	cacheSizeFlag   = flag.Int("cache-size", 0, "evaluation cache capacity for bounded policies")
	logLevelFlag    = flag.String("log-level", "info", "zerolog level")
	clearFlag       = flag.Bool("clear", false, "clear the terminal before each turn")
	bookFlag        = flag.Bool("book", true, "show opening names")
)

func main() {
	flag.Parse()
	log := newLogger(*logLevelFlag)

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	eng, err := engine.NewEngine(cfg, engine.WithLogger(log))
	if err != nil {
		log.Fatal().Err(err).Msg("engine")
	}
	session, err := game.NewSession(eng, *fenFlag, log)
	if err != nil {
		log.Fatal().Err(err).Msg("game")
	}
	if *bookFlag {
		session.UseBook(game.NewBook())
	}

	humanWhite, humanBlack, err := humanSides(*humanFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("flags")
	}

	reader := bufio.NewReader(os.Stdin)
	// Enter Game Loop
	for !session.Over() {
		show(session)
		human := (session.WhiteToMove() && humanWhite) || (!session.WhiteToMove() && humanBlack)
		if human {
			if err := humanTurn(session, reader); err != nil {
				if errors.Is(err, io.EOF) {
					return
				}
				log.Fatal().Err(err).Msg("input")
			}
			continue
		}
		res, err := session.PlayEngine()
		if err != nil {
			log.Fatal().Err(err).Msg("engine move")
		}
		fmt.Printf("Search completed in %v: %s at depth %d, %d nodes, %d cache hits\n",
			res.Elapsed, res.Move, res.Depth, res.Stats.Visited, res.Stats.CacheHits)
	}
	show(session)
	result, method := session.Outcome()
	fmt.Println(tm.Bold(fmt.Sprintf("Game over: %s by %s", result, method)))
	fmt.Println(session.PGN())
}

func loadConfig() (engine.Config, error) {
	cfg := engine.DefaultConfig()
	if *configFlag != "" {
		var err error
		if cfg, err = engine.LoadConfig(*configFlag); err != nil {
			return cfg, err
		}
	}
	if *depthFlag > 0 {
		cfg.BaseDepth = *depthFlag
	}
	if *cachePolicyFlag != "" {
		cfg.Cache.Policy = transposition.Policy(*cachePolicyFlag)
	}
	if *cacheSizeFlag > 0 {
		cfg.Cache.Capacity = *cacheSizeFlag
	}
	return cfg, cfg.Validate()
}

func humanSides(s string) (bool, bool, error) {
	switch strings.ToLower(s) {
	case "white":
		return true, false, nil
	case "black":
		return false, true, nil
	case "both":
		return true, true, nil
	case "none":
		return false, false, nil
	}
	return false, false, fmt.Errorf("unknown side %q", s)
}

// show prints the board, the last move and the evaluation
func show(s *game.Session) {
	if *clearFlag {
		tm.Clear()
		tm.MoveCursor(1, 1)
		tm.Flush()
	}
	fmt.Println(s.Draw())
	if last := s.LastMove(); last != "" {
		mover := "White"
		if s.WhiteToMove() {
			mover = "Black"
		}
		fmt.Printf("%s played: %s\n", mover, last)
	}
	if eval, err := s.Evaluate(); err == nil {
		fmt.Println("Board evaluation (side to move):", math.Round(eval*100)/100)
	}
	if name := s.OpeningName(); name != "" {
		fmt.Println(tm.Color(name, tm.CYAN))
	}
}

// humanTurn reads moves until a legal one is played
func humanTurn(s *game.Session, reader *bufio.Reader) error {
	for {
		fmt.Print("Your move: ")
		text, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(text) == "") {
			return err
		}
		err = s.Play(stripSpaces(text))
		if err == nil {
			return nil
		}
		fmt.Println(tm.Color(fmt.Sprintf("Your input was invalid, error: %v", err), tm.RED))
	}
}

func stripSpaces(str string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, str)
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()
}

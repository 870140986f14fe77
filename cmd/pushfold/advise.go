package main

import (
	"fmt"
	"io"
	"os"

	"github.com/lox/pushfold/decision"
	"github.com/lox/pushfold/internal/profile"
	"github.com/lox/pushfold/internal/randutil"
	"github.com/lox/pushfold/poker"
	"github.com/lox/pushfold/strategy"
)

// AdviseCmd prints the decisions for one hand at every seat.
type AdviseCmd struct {
	Players  int     `kong:"required,help='Table size (2 or 3)'"`
	Depth    float64 `kong:"required,help='Effective stack in big blinds'"`
	Hand     string  `kong:"required,help='Hand, e.g. AKs, AhKs or \"A K\"'"`
	Profile  string  `kong:"help='Profile to load (default: gto, then the first profile, then --fallback)'"`
	Table    string  `kong:"type='existingfile',help='Strategy table file to use instead of a profile'"`
	Dir      string  `kong:"default='data/profiles',help='Profiles directory'"`
	Fallback string  `kong:"default='data/ranges.json',help='Table used when no profile exists'"`
	MinDepth float64 `kong:"default='5',help='Smallest supported depth'"`
	MaxDepth float64 `kong:"default='15',help='Largest supported depth'"`
	Format   string  `kong:"enum='text,json',default='text',help='Output format (text or json)'"`
	Seed     *int64  `kong:"help='Deterministic RNG seed for mixed strategies (optional)'"`
	NoColor  bool    `kong:"help='Disable colored output'"`
}

func (c *AdviseCmd) Run() error {
	return c.run(os.Stdout)
}

func (c *AdviseCmd) run(out io.Writer) error {
	players, err := poker.ParsePlayers(c.Players)
	if err != nil {
		return err
	}
	active, err := c.load()
	if err != nil {
		return err
	}

	depth := decision.ClampDepth(c.Depth, c.MinDepth, c.MaxDepth)
	resolver := decision.NewResolver(active.Table, randutil.New(randutil.Seed(c.Seed)))
	sweep, err := resolver.Sweep(players, depth, c.Hand)
	if err != nil {
		return err
	}

	doc := sweep.Document(c.Hand, active.Name)
	if c.Format == "json" {
		return renderJSON(out, doc)
	}
	return renderText(out, doc, !c.NoColor)
}

func (c *AdviseCmd) load() (*strategy.Active, error) {
	if c.Table != "" {
		return profile.LoadFile("file", c.Table)
	}
	store := profile.NewStore(c.Dir)
	if c.Profile != "" {
		active, err := store.Load(c.Profile)
		if err != nil {
			return nil, fmt.Errorf("profile %q in %s: %w", c.Profile, c.Dir, err)
		}
		return active, nil
	}
	return store.Default("gto", c.Fallback)
}

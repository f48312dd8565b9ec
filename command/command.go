// Package command implements the fixbin sub-commands.
package command

import (
	"context"
	"fmt"
	"io"

	"github.com/jessevdk/go-flags"

	"github.com/spacemeshos/fixbin/bindata"
	"github.com/spacemeshos/fixbin/config"
	"github.com/spacemeshos/fixbin/store"
)

// Env is shared by all commands of one invocation.
type Env struct {
	Ctx    context.Context
	Config *config.Config
	Out    io.Writer
}

func (e *Env) openStore() (*store.Store, error) {
	return store.Open(e.Ctx, e.Config.DataDir, e.Config.CacheSize)
}

// withStore runs fn with an open store and closes it afterwards.
func (e *Env) withStore(fn func(s *store.Store) error) (err error) {
	s, err := e.openStore()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(s)
}

// render writes the binary, grouped and denary forms of b.
func (e *Env) render(name string, b *bindata.BinaryData) {
	if name != "" {
		fmt.Fprintf(e.Out, "%s (%d bits)\n", name, b.Width())
	}
	fmt.Fprintf(e.Out, "binary: %s\n", b)
	fmt.Fprintf(e.Out, "pretty: %s\n", b.PrettyString())
	fmt.Fprintf(e.Out, "denary: %s\n", b.BigInt())
}

// Register adds all commands to parser.
func Register(parser *flags.Parser, env *Env) error {
	commands := []struct {
		name, short, long string
		data              any
	}{
		{"show", "Render values", "Render each value in the given width as binary, grouped binary and denary.", &showCommand{env: env}},
		{"setbit", "Set a single bit", "Set (or clear) the bit at the given index, 0 being the least significant bit.", &setBitCommand{env: env}},
		{"widen", "Copy a value into a wider container", "Re-create the value with a new width.", &widenCommand{env: env}},
		{"put", "Store a value", "Store a value under a name.", &putCommand{env: env}},
		{"get", "Print a stored value", "Print the value stored under a name.", &getCommand{env: env}},
		{"rm", "Delete stored values", "Delete the values stored under the given names.", &rmCommand{env: env}},
		{"ls", "List stored values", "List the names of all stored values.", &lsCommand{env: env}},
		{"export", "Write a stored value to a file", "Write a stored value to a snapshot file.", &exportCommand{env: env}},
		{"import", "Store a value read from a file", "Read a snapshot file and store its value under a name.", &importCommand{env: env}},
		{"migrate", "Move a store into the data directory", "Copy every value of another store into the configured data directory and remove the old store.", &migrateCommand{env: env}},
	}
	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.long, c.data); err != nil {
			return fmt.Errorf("adding command %s: %w", c.name, err)
		}
	}
	return nil
}

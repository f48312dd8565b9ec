package command

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/spacemeshos/fixbin/bindata"
	"github.com/spacemeshos/fixbin/store"
	"github.com/spacemeshos/fixbin/util"
)

type putCommand struct {
	env   *Env
	Width uint `short:"w" long:"width" required:"true" description:"Width in bits"`
	Args  struct {
		Name  string `positional-arg-name:"name" required:"yes"`
		Value string `positional-arg-name:"value" required:"yes"`
	} `positional-args:"yes"`
}

func (c *putCommand) Execute(_ []string) error {
	b, err := bindata.New(c.Width, bindata.Literal(c.Args.Value))
	if err != nil {
		return err
	}
	return c.env.withStore(func(s *store.Store) error {
		return s.Put(c.env.Ctx, c.Args.Name, b)
	})
}

type getCommand struct {
	env  *Env
	Args struct {
		Names []string `positional-arg-name:"name" required:"1"`
	} `positional-args:"yes"`
}

func (c *getCommand) Execute(_ []string) error {
	return c.env.withStore(func(s *store.Store) error {
		var result *multierror.Error
		for _, name := range c.Args.Names {
			b, err := s.Get(c.env.Ctx, name)
			if err != nil {
				result = multierror.Append(result, err)
				continue
			}
			c.env.render(name, b)
		}
		return result.ErrorOrNil()
	})
}

type rmCommand struct {
	env  *Env
	Args struct {
		Names []string `positional-arg-name:"name" required:"1"`
	} `positional-args:"yes"`
}

func (c *rmCommand) Execute(_ []string) error {
	return c.env.withStore(func(s *store.Store) error {
		for _, name := range c.Args.Names {
			if err := s.Delete(c.env.Ctx, name); err != nil {
				return err
			}
		}
		return nil
	})
}

type lsCommand struct {
	env *Env
}

func (c *lsCommand) Execute(_ []string) error {
	return c.env.withStore(func(s *store.Store) error {
		names, err := s.List(c.env.Ctx)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(c.env.Out, name)
		}
		return nil
	})
}

type exportCommand struct {
	env  *Env
	Args struct {
		Name string `positional-arg-name:"name" required:"yes"`
		File string `positional-arg-name:"file" required:"yes"`
	} `positional-args:"yes"`
}

func (c *exportCommand) Execute(_ []string) error {
	return c.env.withStore(func(s *store.Store) error {
		b, err := s.Get(c.env.Ctx, c.Args.Name)
		if err != nil {
			return err
		}
		return util.Persist(c.Args.File, b)
	})
}

type importCommand struct {
	env  *Env
	Args struct {
		Name string `positional-arg-name:"name" required:"yes"`
		File string `positional-arg-name:"file" required:"yes"`
	} `positional-args:"yes"`
}

func (c *importCommand) Execute(_ []string) error {
	b, err := util.Load(c.Args.File)
	if err != nil {
		return err
	}
	return c.env.withStore(func(s *store.Store) error {
		return s.Put(c.env.Ctx, c.Args.Name, b)
	})
}

type migrateCommand struct {
	env  *Env
	From string `long:"from" required:"true" description:"Data directory of the store to move into the configured data directory"`
}

func (c *migrateCommand) Execute(_ []string) error {
	return store.Migrate(c.env.Ctx, c.env.Config.DataDir, c.From)
}

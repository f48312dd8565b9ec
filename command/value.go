package command

import (
	"fmt"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/spacemeshos/fixbin/bindata"
	"github.com/spacemeshos/fixbin/logging"
)

type showCommand struct {
	env   *Env
	Width uint `short:"w" long:"width" required:"true" description:"Width in bits"`
	Args  struct {
		Values []string `positional-arg-name:"value" required:"1"`
	} `positional-args:"yes"`
}

// Execute renders every valid value and reports all invalid ones together.
func (c *showCommand) Execute(_ []string) error {
	var result *multierror.Error
	shown := 0
	for _, v := range c.Args.Values {
		b, err := bindata.New(c.Width, bindata.Literal(v))
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("value %q: %w", v, err))
			continue
		}
		if shown > 0 {
			fmt.Fprintln(c.env.Out)
		}
		c.env.render("", b)
		shown++
	}
	return result.ErrorOrNil()
}

type setBitCommand struct {
	env   *Env
	Width uint   `short:"w" long:"width" required:"true" description:"Width in bits"`
	Index string `short:"i" long:"index" required:"true" description:"Bit index, 0 is the least significant bit"`
	Clear bool   `long:"clear" description:"Clear the bit instead of setting it"`
	Args  struct {
		Value string `positional-arg-name:"value" required:"yes"`
	} `positional-args:"yes"`
}

func (c *setBitCommand) Execute(_ []string) error {
	idx, err := strconv.Atoi(c.Index)
	if err != nil {
		return fmt.Errorf("invalid index %q: %w", c.Index, err)
	}
	b, err := bindata.New(c.Width, bindata.Literal(c.Args.Value))
	if err != nil {
		return err
	}
	if err := b.SetBitAt(idx, !c.Clear); err != nil {
		return err
	}
	logging.FromContext(c.env.Ctx).Debug("set bit", zap.Int("index", idx), zap.Bool("value", !c.Clear))
	c.env.render("", b)
	return nil
}

type widenCommand struct {
	env      *Env
	Width    uint `short:"w" long:"width" required:"true" description:"Width of the value in bits"`
	NewWidth uint `short:"n" long:"new-width" required:"true" description:"Width of the result in bits"`
	Args     struct {
		Value string `positional-arg-name:"value" required:"yes"`
	} `positional-args:"yes"`
}

func (c *widenCommand) Execute(_ []string) error {
	b, err := bindata.New(c.Width, bindata.Literal(c.Args.Value))
	if err != nil {
		return err
	}
	wide, err := bindata.FromBinaryData(b, c.NewWidth)
	if err != nil {
		return err
	}
	c.env.render("", wide)
	return nil
}

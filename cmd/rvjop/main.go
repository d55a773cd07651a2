// Command rvjop finds RISC-V JOP gadgets in an ELF or raw binary, per
// spec.md §6.3. Flag wiring follows the teacher's single-app urfave/cli
// shape (cmd/bbcdisasm/main.go): one cli.App, one set of Flags, a single
// Action. Fatal errors are returned from the Action and printed by main as a
// single "ERROR:"-prefixed line before exiting with status 1.
package main

import (
	"fmt"
	"os"

	cli "github.com/urfave/cli/v2"

	"rvjop/core"
	"rvjop/disasm"
	"rvjop/isa"
	"rvjop/loader"
	"rvjop/query"
	"rvjop/render"
	"rvjop/rverr"
)

func main() {
	app := &cli.App{
		Name:      "rvjop",
		Usage:     "locate jump-oriented-programming gadgets in a RISC-V binary",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dispatcher", Aliases: []string{"d"}, Usage: "restrict to dispatcher gadgets"},
			&cli.BoolFlag{Name: "inline", Usage: "single-line rendering instead of block rendering"},
			&cli.IntFlag{Name: "max", Aliases: []string{"m"}, Value: 5, Usage: "maximum prefix length"},
			&cli.StringFlag{Name: "jr", Aliases: []string{"j"}, Usage: "only roots whose indirect-jump target register equals <reg>"},
			&cli.StringFlag{Name: "wr", Aliases: []string{"w"}, Usage: "write-register filter"},
			&cli.StringFlag{Name: "rr", Aliases: []string{"r"}, Usage: "read-register filter"},
			&cli.Int64Flag{Name: "imm", Aliases: []string{"i"}, Usage: "immediate filter, signed 64-bit", Value: 0, DefaultText: "unset"},
			&cli.StringFlag{Name: "op", Aliases: []string{"o"}, Usage: "instruction-class filter by mnemonic"},
			&cli.BoolFlag{Name: "raw", Usage: "treat input as raw code rather than ELF"},
			&cli.StringFlag{Name: "isa", Value: "rv64ic", Usage: "rv32ic or rv64ic"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.Args().Len() < 1 {
		return rverr.Wrap(rverr.ErrBadArgument, "no input path given", nil)
	}
	path := c.Args().First()

	width, err := parseWidth(c.String("isa"))
	if err != nil {
		return err
	}

	q, err := buildQuery(c)
	if err != nil {
		return err
	}

	var region loader.CodeRegion
	if c.Bool("raw") {
		region, err = loader.FromRaw(path, width)
	} else {
		region, err = loader.FromELF(path, width)
	}
	if err != nil {
		return err
	}

	opts := core.Options{Max: c.Int("max")}
	if c.IsSet("jr") {
		reg, ok := isa.ParseReg(c.String("jr"))
		if !ok {
			return rverr.Wrap(rverr.ErrBadArgument, "unknown register for --jr", nil)
		}
		opts.JR = &reg
	}

	d := disasm.New(region.ISA)
	set := core.Discover(d, region.Bytes, region.BaseAddress, q, opts)

	mode := render.Block
	if c.Bool("inline") {
		mode = render.Inline
	}
	render.New(os.Stdout, mode, q).Render(set)
	return nil
}

func parseWidth(s string) (isa.Width, error) {
	switch s {
	case "rv32ic":
		return isa.RV32IC, nil
	case "rv64ic":
		return isa.RV64IC, nil
	default:
		return 0, rverr.Wrap(rverr.ErrBadArgument, "unknown --isa value "+s, nil)
	}
}

func buildQuery(c *cli.Context) (query.Query, error) {
	q := query.Query{Dispatcher: c.Bool("dispatcher")}

	if c.IsSet("wr") {
		r, ok := isa.ParseReg(c.String("wr"))
		if !ok {
			return q, rverr.Wrap(rverr.ErrBadArgument, "unknown register for --wr", nil)
		}
		q.WriteReg = &r
	}
	if c.IsSet("rr") {
		r, ok := isa.ParseReg(c.String("rr"))
		if !ok {
			return q, rverr.Wrap(rverr.ErrBadArgument, "unknown register for --rr", nil)
		}
		q.ReadReg = &r
	}
	if c.IsSet("imm") {
		v := c.Int64("imm")
		q.Imm = &v
	}
	if c.IsSet("op") {
		class, ok := isa.ParseClass(c.String("op"))
		if !ok {
			return q, rverr.Wrap(rverr.ErrBadArgument, "unknown instruction mnemonic for --op", nil)
		}
		q.Op = &class
	}
	return q, nil
}

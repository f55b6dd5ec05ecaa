package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/minimips/minimips/msgo/asm"
)

var (
	AssembleInputFlag = &cli.PathFlag{
		Name:     "input",
		Usage:    "assembly source (.asm)",
		Required: true,
	}
	AssembleOutputFlag = &cli.PathFlag{
		Name:  "output",
		Usage: "output image path (default: input with a .bin extension)",
	}
)

func Assemble(ctx *cli.Context) error {
	inPath := ctx.Path(AssembleInputFlag.Name)
	f, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("failed to open source %q: %w", inPath, err)
	}
	defer f.Close()

	words, err := asm.Assemble(f)
	if err != nil {
		return fmt.Errorf("failed to assemble %q: %w", inPath, err)
	}

	outPath := ctx.Path(AssembleOutputFlag.Name)
	if outPath == "" {
		outPath = strings.TrimSuffix(inPath, ".asm") + ".bin"
	}
	var sb strings.Builder
	for _, w := range words {
		fmt.Fprintf(&sb, "0x%08X\n", w)
	}
	if err := os.WriteFile(outPath, []byte(sb.String()), OutFilePerm); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	fmt.Printf("Wrote %s (%d words).\n", outPath, len(words))
	return nil
}

var AssembleCommand = &cli.Command{
	Name:        "assemble",
	Usage:       "Assemble a source file into a hex word image.",
	Description: "Assemble a source file into the one-hex-word-per-line image format the run command loads.",
	Action:      Assemble,
	Flags: []cli.Flag{
		AssembleInputFlag,
		AssembleOutputFlag,
	},
}

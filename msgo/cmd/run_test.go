package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/minimips/minimips/msgo/single"
)

const demoSource = `
        addi $t0, $zero, 42
        sw   $t0, 0x100($zero)
        halt
`

func testApp() *cli.App {
	return &cli.App{
		Name:     "minimips-test",
		Commands: []*cli.Command{RunCommand, AssembleCommand},
	}
}

func TestAssembleThenRun(t *testing.T) {
	dir := t.TempDir()
	asmPath := filepath.Join(dir, "demo.asm")
	binPath := filepath.Join(dir, "demo.bin")
	outPath := filepath.Join(dir, "state.json")
	require.NoError(t, os.WriteFile(asmPath, []byte(demoSource), 0o644))

	app := testApp()
	require.NoError(t, app.Run([]string{app.Name, "assemble", "--input", asmPath, "--output", binPath}))

	img, err := os.ReadFile(binPath)
	require.NoError(t, err)
	require.Contains(t, string(img), "0xFFFFFFFF", "halt word in the image")

	require.NoError(t, app.Run([]string{app.Name, "run",
		"--input", binPath, "--output", outPath, "--max-cycles", "100"}))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var state single.State
	require.NoError(t, json.Unmarshal(data, &state))
	require.True(t, state.Halted)
	require.Equal(t, uint64(3), state.Stats.Cycles)
	require.Equal(t, uint32(42), state.Registers.Read(8))
	v, err := state.Memory.ReadWord(0x100)
	require.NoError(t, err)
	require.Equal(t, uint32(42), v)
}

func TestRunAssemblesSourceDirectly(t *testing.T) {
	dir := t.TempDir()
	asmPath := filepath.Join(dir, "demo.asm")
	outPath := filepath.Join(dir, "state.json")
	require.NoError(t, os.WriteFile(asmPath, []byte(demoSource), 0o644))

	app := testApp()
	require.NoError(t, app.Run([]string{app.Name, "run",
		"--input", asmPath, "--output", outPath, "--max-cycles", "100"}))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var state single.State
	require.NoError(t, json.Unmarshal(data, &state))
	require.True(t, state.Halted)
}

func TestRunReportsFault(t *testing.T) {
	dir := t.TempDir()
	binPath := filepath.Join(dir, "bad.bin")
	// lw $t0, 1($zero): unaligned data read
	require.NoError(t, os.WriteFile(binPath, []byte("0x8C080001\n"), 0o644))

	app := testApp()
	err := app.Run([]string{app.Name, "run", "--input", binPath})
	require.Error(t, err)
	require.ErrorIs(t, err, single.ErrUnaligned)
}

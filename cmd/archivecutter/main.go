package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/manveldavid/ArchiveCutter/cutter"
	"github.com/manveldavid/ArchiveCutter/internal/prompt"
)

// config holds the constants of one interactive session.
type config struct {
	SplitMode    string
	AssembleMode string
	VerifyMode   string
	Options      cutter.Options
}

func defaultConfig() config {
	return config{
		SplitMode:    "c",
		AssembleMode: "a",
		VerifyMode:   "v",
		Options:      cutter.Options{BufferSize: cutter.DefaultBufferSize},
	}
}

func main() {
	os.Exit(run(defaultConfig(), os.Stdin, os.Stdout, os.Stderr))
}

func run(cfg config, in io.Reader, out io.Writer, errOut io.Writer) int {
	p := prompt.New(in, out)
	cfg.Options.Log = out

	mode, err := p.Ask(fmt.Sprintf("Enter key ('%s' - cutter mode | '%s' - assemble mode | '%s' - verify mode):",
		cfg.SplitMode, cfg.AssembleMode, cfg.VerifyMode))
	if err != nil {
		fmt.Fprintf(errOut, "read mode: %v\n", err)
		return 2
	}

	switch mode {
	case cfg.SplitMode:
		return cmdSplit(cfg, p, out, errOut)
	case cfg.AssembleMode:
		return cmdAssemble(cfg, p, out, errOut)
	case cfg.VerifyMode:
		return cmdVerify(cfg, p, out, errOut)
	default:
		fmt.Fprintf(errOut, "unknown mode: %q\n", mode)
		return 2
	}
}

func cmdSplit(cfg config, p *prompt.Prompter, out io.Writer, errOut io.Writer) int {
	fmt.Fprintln(out, "*Cutter Mode*")
	path, err := p.Ask("Enter file path:")
	if err != nil {
		fmt.Fprintf(errOut, "read file path: %v\n", err)
		return 2
	}
	if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
		fmt.Fprintln(errOut, "File does not exist")
		return 1
	}

	partSize, err := prompt.Until(p, "Enter one part size in bytes:", "Invalid value", parsePartSize)
	if err != nil {
		fmt.Fprintf(errOut, "read part size: %v\n", err)
		return 2
	}

	res, err := cutter.Split(path, partSize, cfg.Options)
	if err != nil {
		report(errOut, err)
		return 1
	}
	for _, part := range res.Parts {
		fmt.Fprintf(out, "%s\t%d\t%s\n", part.Name, part.Size, part.Digest.CID())
	}
	fmt.Fprintf(out, "Manifest: %s\n", res.ManifestPath)
	return 0
}

func cmdAssemble(cfg config, p *prompt.Prompter, out io.Writer, errOut io.Writer) int {
	fmt.Fprintln(out, "*Assemble Mode*")
	first, code := askFirstPart(p, errOut)
	if code != 0 {
		return code
	}
	res, err := cutter.Assemble(first, cfg.Options)
	if err != nil {
		report(errOut, err)
		return 1
	}
	fmt.Fprintf(out, "Assembled: %s (%d bytes, %d parts)\n", res.OutputPath, res.Size, len(res.Parts))
	return 0
}

func cmdVerify(cfg config, p *prompt.Prompter, out io.Writer, errOut io.Writer) int {
	fmt.Fprintln(out, "*Verify Mode*")
	first, code := askFirstPart(p, errOut)
	if code != 0 {
		return code
	}
	res, err := cutter.Verify(first, cfg.Options)
	if err != nil {
		report(errOut, err)
		return 1
	}
	for _, part := range res.Parts {
		fmt.Fprintf(out, "OK %s %s\n", part.Name, part.Digest.CID())
	}
	fmt.Fprintf(out, "Verified: %d parts, %d bytes\n", len(res.Parts), res.Size)
	return 0
}

func askFirstPart(p *prompt.Prompter, errOut io.Writer) (string, int) {
	first, err := p.Ask("Enter part path without digit (*.part):")
	if err != nil {
		fmt.Fprintf(errOut, "read part path: %v\n", err)
		return "", 2
	}
	if first == "" {
		fmt.Fprintln(errOut, "empty part path")
		return "", 2
	}
	return first, 0
}

func parsePartSize(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func report(w io.Writer, err error) {
	var e *cutter.Error
	if errors.As(err, &e) {
		fmt.Fprintf(w, "%s: %v\n", e.Kind, err)
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}

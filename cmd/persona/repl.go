package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kalambet/redditpersona/internal/pipeline"
)

const replPrompt = "Enter Reddit profile URL (or 'quit' to exit): "

// personaRunner runs one generation.
type personaRunner interface {
	Generate(ctx context.Context, profileURL string) (pipeline.Result, error)
}

// runREPL reads profile URLs from in until quit, EOF or cancellation. A
// failed run is reported and the loop continues.
func runREPL(ctx context.Context, in io.Reader, out io.Writer, gen personaRunner) error {
	scanner := bufio.NewScanner(in)
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(out, replPrompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case strings.EqualFold(line, "quit"):
			return nil
		}

		printStep("generating persona for %s", line)
		res, err := gen.Generate(ctx, line)
		if err != nil {
			printError("%s", pipeline.Describe(err))
			continue
		}
		printSuccess("Persona saved to %s", res.Path)
		if res.ExampleCreated {
			printStatus("Example", "first persona copied as the README example")
		}
	}
}

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/pontaoski/rill/pipeline"
)

const (
	historyFile  = ".rill_history"
	promptMain   = "rill> "
	promptCont   = "...   "
	replCommands = ":quit leaves, :scopes prints the global scopes"
)

func repl(opts pipeline.Options) error {
	fmt.Println("rill repl.", replCommands)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	s := pipeline.NewSession(opts)

	for {
		src, ok := readStatements(ln)
		if !ok {
			fmt.Println()
			return nil
		}

		switch strings.TrimSpace(src) {
		case "":
			continue
		case ":quit":
			return nil
		case ":scopes":
			s.Dump(os.Stdout)
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		v, err := s.Eval(strings.NewReader(src))
		if err != nil {
			report(err)
			continue
		}
		if v != nil {
			fmt.Println(v)
		}

		if settings.DumpScopes {
			s.Dump(os.Stderr)
		}
	}
}

// readStatements keeps prompting until the input parses or fails for a reason
// other than ending early. It reports false once the input is closed.
func readStatements(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}

		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}

		_, err = pipeline.Parse(strings.NewReader(src), "repl")
		if err == nil || !pipeline.Incomplete(err) {
			return src, true
		}
	}
}

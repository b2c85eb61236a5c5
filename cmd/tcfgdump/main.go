package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/peterh/liner"
	tcfg "github.com/tcodtools/tcfg-go"
)

func main() {
	verbose := flag.Bool("v", false, "dump full token structs")
	interactive := flag.Bool("i", false, "read lines interactively and tokenize each one")
	flag.Parse()

	if *interactive {
		repl(*verbose)
		return
	}

	var input []byte
	var err error
	if flag.NArg() > 0 {
		input, err = os.ReadFile(flag.Arg(0))
	} else {
		input, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}

	os.Exit(dump(string(input), *verbose))
}

func dump(src string, verbose bool) int {
	status := 0
	for tok := range tcfg.Tokens(src) {
		if verbose {
			spew.Dump(tok)
		} else {
			fmt.Printf("%d..%d\t%v\t%s\n", tok.Start, tok.End, tok.Kind, tok.Content)
		}
		if tok.Kind == tcfg.Unexpected || tok.Kind == tcfg.UnclosedComment {
			fmt.Fprintf(os.Stderr, "Error: %v at %d..%d: %q\n", tok.Kind, tok.Start, tok.End, tok.Content)
			status = 1
		}
	}
	return status
}

func repl(verbose bool) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		src, err := line.Prompt("tcfg> ")
		if err != nil {
			fmt.Println()
			return
		}
		if src == "" {
			continue
		}
		line.AppendHistory(src)
		dump(src, verbose)
	}
}

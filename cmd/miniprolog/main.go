// Command miniprolog is a REPL and batch front-end for the engine,
// grounded on the teacher's interpreter/mg/mg.go flag set and
// interpreter/interpreter.go's readline loop.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	log "github.com/golang/glog"

	"github.com/kbagents/miniprolog/kb"
)

var (
	load = flag.String("load", "", "comma-separated list of program files or inline sources to consult before the REPL starts")
	exec = flag.String("exec", "", "if non-empty, run a single query and exit: code 0 if it has at least one solution, 1 otherwise")
)

const (
	normalPrompt = "?- "
)

func main() {
	flag.Parse()
	base := kb.New()

	if *load != "" {
		for _, src := range strings.Split(*load, ",") {
			src = strings.TrimSpace(src)
			if src == "" {
				continue
			}
			if err := base.Consult(src); err != nil {
				log.Exitf("error consulting %s: %v", src, err)
			}
		}
	}

	if *exec != "" {
		runQueryOnce(base, *exec)
		return
	}

	if err := loop(base); err != nil && err != io.EOF {
		log.Exit(err)
	}
}

func runQueryOnce(base *kb.KB, query string) {
	bindings, err := base.Query(query)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	for _, b := range bindings {
		fmt.Println(formatBinding(b))
	}
	if len(bindings) == 0 {
		fmt.Println("false.")
		os.Exit(1)
	}
	os.Exit(0)
}

func loop(base *kb.KB) error {
	rl, err := readline.New(normalPrompt)
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := dispatch(base, line); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

// dispatch implements the REPL's command verbs: consult/assertz/retract/
// retractall/save/load mutate the KB; anything else is treated as a
// query. "quit"/"halt" exit the process.
func dispatch(base *kb.KB, line string) error {
	switch {
	case line == "quit" || line == "halt" || line == "quit." || line == "halt.":
		os.Exit(0)
	case strings.HasPrefix(line, "consult "):
		return base.Consult(strings.TrimSpace(strings.TrimPrefix(line, "consult ")))
	case strings.HasPrefix(line, "assertz("):
		return base.Assertz(strings.TrimSuffix(strings.TrimPrefix(line, "assertz("), ")"))
	case strings.HasPrefix(line, "retractall("):
		return base.RetractAll(strings.TrimSuffix(strings.TrimPrefix(line, "retractall("), ")"))
	case strings.HasPrefix(line, "retract("):
		return base.Retract(strings.TrimSuffix(strings.TrimPrefix(line, "retract("), ")"))
	case strings.HasPrefix(line, "save "):
		return base.Save(strings.TrimSpace(strings.TrimPrefix(line, "save ")), true, true)
	case strings.HasPrefix(line, "load "):
		return base.Load(strings.TrimSpace(strings.TrimPrefix(line, "load ")), true, true)
	default:
		bindings, err := base.Query(line)
		if err != nil {
			return err
		}
		if len(bindings) == 0 {
			fmt.Println("false.")
			return nil
		}
		for _, b := range bindings {
			fmt.Println(formatBinding(b))
		}
		return nil
	}
	return nil
}

func formatBinding(b kb.Binding) string {
	if len(b) == 0 {
		return "true."
	}
	names := make([]string, 0, len(b))
	for n := range b {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%s = %s", n, b[n])
	}
	return strings.Join(parts, ", ")
}

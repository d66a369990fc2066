package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/leengari/larex/internal/dataset"
	"github.com/leengari/larex/internal/session"
)

// Start reads commands from in until EOF or exit, writing output to out
func Start(sess *session.Session, in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(out, "Welcome to larex")
	fmt.Fprintln(out, "Type 'help' for commands, 'exit' or '\\q' to quit.")

	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			continue
		}

		if line == "exit" || line == "\\q" {
			return
		}

		Execute(sess, line, out)
	}
}

// Execute runs a single REPL line
func Execute(sess *session.Session, line string, out io.Writer) {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "help":
		printHelp(out)
	case "load":
		if err := sess.LoadFile(arg); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return
		}
		fmt.Fprintf(out, "Loaded %d channels from %s\n", sess.Dataset().Len(), arg)
	case "ls", "columns":
		if sess.Dataset() == nil {
			fmt.Fprintln(out, "No dataset loaded")
			return
		}
		PrintDataset(out, sess.Dataset())
	case "show":
		col, err := sess.Column(arg)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return
		}
		fmt.Fprintf(out, "%s = %v\n", dataset.SanitizeName(arg), col)
	case "check":
		missing := sess.Check(arg)
		if len(missing) == 0 {
			fmt.Fprintln(out, "All referenced channels exist")
			return
		}
		fmt.Fprintf(out, "Missing channels: %s\n", strings.Join(missing, ", "))
	case "highlight":
		fmt.Fprintln(out, sess.Highlight(arg))
	case "drop":
		if err := sess.Drop(arg); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return
		}
		fmt.Fprintf(out, "Dropped %s\n", dataset.SanitizeName(arg))
	case "save":
		if err := sess.Save(arg); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return
		}
		fmt.Fprintf(out, "Saved to %s\n", arg)
	default:
		if !strings.HasPrefix(line, "{") {
			fmt.Fprintf(out, "Unknown command %q. Type 'help' for commands.\n", cmd)
			return
		}
		name, err := sess.Evaluate(line)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return
		}
		col, _ := sess.Dataset().Get(name)
		fmt.Fprintf(out, "%s = %v\n", name, col)
	}
}

// PrintDataset writes ds as an aligned table, one column per channel
func PrintDataset(w io.Writer, ds *dataset.Dataset) {
	names := ds.Names()
	if len(names) == 0 {
		fmt.Fprintln(w, "(no channels)")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	// Header with sample counts
	for i, name := range names {
		col, _ := ds.Get(name)
		fmt.Fprintf(tw, "%s (%d)", name, len(col))
		if i < len(names)-1 {
			fmt.Fprintf(tw, "\t")
		}
	}
	fmt.Fprintln(tw)

	// Separator
	for i := range names {
		fmt.Fprintf(tw, "---")
		if i < len(names)-1 {
			fmt.Fprintf(tw, "\t")
		}
	}
	fmt.Fprintln(tw)

	// Rows
	for row := 0; row < ds.MaxRows(); row++ {
		for i, name := range names {
			col, _ := ds.Get(name)
			if row < len(col) {
				fmt.Fprintf(tw, "%v", col[row])
			}
			if i < len(names)-1 {
				fmt.Fprintf(tw, "\t")
			}
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, `Commands:
  load <file.csv>        import a CSV file
  ls | columns           list channels and values
  show <channel>         print one channel
  check <equation>       report channels the equation references but are missing
  highlight <equation>   print display markup for an equation
  drop <channel>         remove a channel
  save <file.csv>        export the dataset
  {out} = <expression>   evaluate an equation, e.g. {m} = AVG({a},{b})`)
}

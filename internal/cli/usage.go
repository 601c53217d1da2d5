package cli

import (
	"flag"
	"fmt"
	"io"

	"github.com/askiada/go-reffy/internal/perspective"
	"github.com/askiada/go-reffy/internal/stage"
)

func (a *App) usage(w io.Writer, reg *perspective.Registry, fs *flag.FlagSet) {
	fmt.Fprintf(w, "usage: %s [-version] run [flags] <perspective> [action]\n", name)

	fmt.Fprintln(w, "\nperspectives:")
	perspectives := reg.All()
	width := 0
	for _, p := range perspectives {
		width = max(width, len(p.Name))
	}
	for _, p := range perspectives {
		fmt.Fprintf(w, "  %-*s  %s\n", width, p.Name, p.Description)
	}

	fmt.Fprintln(w, "\nactions:")
	names := []string{stage.All}
	for _, action := range stage.Actions() {
		names = append(names, action.String())
	}
	width = 0
	for _, n := range names {
		width = max(width, len(n))
	}
	for _, n := range names {
		// every name comes from the catalog
		desc, _ := stage.Describe(n)
		fmt.Fprintf(w, "  %-*s  %s\n", width, n, desc)
	}

	if fs == nil {
		fmt.Fprintf(w, "\nrun '%s run -h' to list the run flags\n", name)
		return
	}
	fmt.Fprintln(w, "\nrun flags:")
	out := fs.Output()
	fs.SetOutput(w)
	fs.PrintDefaults()
	fs.SetOutput(out)
}

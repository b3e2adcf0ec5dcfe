package style

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	cli "github.com/urfave/cli/v3"

	"lux/library"
	"lux/state"
)

// Libraries lists registered libraries.
func Libraries(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)
	if err := env.PrepareStyles(); err != nil {
		return fmt.Errorf("unable to prepare libraries: %w", err)
	}
	return listLibraries(os.Stdout, env.Registry.All(), cmd.Bool("verbose"))
}

func listLibraries(w io.Writer, entries []*library.Entry, verbose bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tREQUIRES\tTHEMES\tVARIABLES\tSKINS")
	for _, e := range entries {
		skins := make([]string, 0, len(e.Sheet.Skins()))
		for _, sk := range e.Sheet.Skins() {
			skins = append(skins, sk.Name)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			e.Name, orDash(e.Requires), orDash(e.Themes()), len(e.Defaults), orDash(skins))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if !verbose {
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(w, "\n%s:\n", e.Name)
		for _, name := range e.Defaults.Names() {
			fmt.Fprintf(w, "  $%s = %s\n", name, e.Defaults[name])
		}
	}
	return nil
}

func orDash(list []string) string {
	if len(list) == 0 {
		return "-"
	}
	return strings.Join(list, ",")
}
